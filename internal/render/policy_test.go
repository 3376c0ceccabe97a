package render_test

import (
	"testing"

	"github.com/UnknownOlympus/labelmap/internal/models"
	"github.com/UnknownOlympus/labelmap/internal/render"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	p, err := render.ParsePolicy("always_layout")
	require.NoError(t, err)
	assert.Equal(t, render.PolicyAlwaysLayout, p)

	p, err = render.ParsePolicy("pin_if_explicit")
	require.NoError(t, err)
	assert.Equal(t, render.PolicyPinIfExplicit, p)

	_, err = render.ParsePolicy("sometimes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported policy")
}

func TestPolicy_Adjustable(t *testing.T) {
	plain := models.Entity{
		Key:    "Chad",
		Anchor: models.Coordinates{Longitude: 18.7, Latitude: 15.5},
		Text:   models.Coordinates{Longitude: 18.7, Latitude: 15.5},
	}
	pinned := plain
	pinned.Text = models.Coordinates{Longitude: 20, Latitude: 15.5}

	assert.True(t, render.PolicyAlwaysLayout.Adjustable(plain))
	assert.True(t, render.PolicyAlwaysLayout.Adjustable(pinned))
	assert.True(t, render.PolicyPinIfExplicit.Adjustable(plain))
	assert.False(t, render.PolicyPinIfExplicit.Adjustable(pinned))
}

func TestDecide_AlwaysLayout(t *testing.T) {
	anchor := orb.Point{0, 0}

	t.Run("no displacement", func(t *testing.T) {
		d := render.Decide(models.Placement{Initial: anchor, Final: anchor, Anchor: anchor}, render.PolicyAlwaysLayout, 2.0)
		assert.Zero(t, d.Displacement)
		assert.Nil(t, d.Connector)
	})

	t.Run("exactly at threshold", func(t *testing.T) {
		d := render.Decide(models.Placement{Initial: anchor, Final: orb.Point{0, 2}, Anchor: anchor}, render.PolicyAlwaysLayout, 2.0)
		assert.Equal(t, 2.0, d.Displacement)
		assert.Nil(t, d.Connector)
	})

	t.Run("beyond threshold", func(t *testing.T) {
		p := models.Placement{Initial: anchor, Final: orb.Point{0, 2.0001}, Anchor: anchor}
		d := render.Decide(p, render.PolicyAlwaysLayout, 2.0)
		require.NotNil(t, d.Connector)
		assert.Equal(t, models.Connector{From: orb.Point{0, 2.0001}, To: anchor}, *d.Connector)
	})

	t.Run("displacement measured from initial text position", func(t *testing.T) {
		// The text started away from its anchor, so a short move stays unconnected.
		p := models.Placement{Initial: orb.Point{5, 0}, Final: orb.Point{6, 0}, Anchor: anchor}
		d := render.Decide(p, render.PolicyAlwaysLayout, 2.0)
		assert.InDelta(t, 1.0, d.Displacement, 1e-12)
		assert.Nil(t, d.Connector)
	})
}

func TestDecide_PinIfExplicit(t *testing.T) {
	anchor := orb.Point{-61.2, 13.2}

	t.Run("pinned labels are always connected", func(t *testing.T) {
		p := models.Placement{Initial: orb.Point{-60, 13}, Final: orb.Point{-60, 13}, Anchor: anchor, Pinned: true}
		d := render.Decide(p, render.PolicyPinIfExplicit, 2.0)
		require.NotNil(t, d.Connector)
		assert.Equal(t, orb.Point{-60, 13}, d.Connector.From)
		assert.Equal(t, anchor, d.Connector.To)
		assert.Zero(t, d.Displacement)
	})

	t.Run("laid out label that left its anchor", func(t *testing.T) {
		p := models.Placement{Initial: anchor, Final: orb.Point{-61.2, 13.5}, Anchor: anchor}
		d := render.Decide(p, render.PolicyPinIfExplicit, 2.0)
		assert.NotNil(t, d.Connector)
	})

	t.Run("laid out label that stayed", func(t *testing.T) {
		p := models.Placement{Initial: anchor, Final: anchor, Anchor: anchor}
		d := render.Decide(p, render.PolicyPinIfExplicit, 2.0)
		assert.Nil(t, d.Connector)
	})
}

func TestDraw(t *testing.T) {
	c := render.NewCanvas(orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}})
	bosnia := orb.Point{17.7, 43.9}
	decisions := []render.Decision{
		render.Decide(models.Placement{Label: "Bosnia", Initial: bosnia, Final: bosnia, Anchor: bosnia}, render.PolicyAlwaysLayout, 2.0),
		render.Decide(models.Placement{
			Label: "Malta", Initial: orb.Point{14.4, 35.9}, Final: orb.Point{14.4, 32}, Anchor: orb.Point{14.4, 35.9},
		}, render.PolicyAlwaysLayout, 2.0),
	}

	connectors := render.Draw(c, decisions)

	assert.Equal(t, 1, connectors)
	assert.Equal(t, 1, c.Count(render.KindLine))
	assert.Equal(t, 2, c.Count(render.KindMarker))
	assert.Equal(t, 2, c.Count(render.KindText))

	prims := c.Primitives()
	require.Len(t, prims, 5)
	assert.Equal(t, render.KindLine, prims[0].Kind)
	assert.Equal(t, render.KindText, prims[3].Kind)
	assert.Equal(t, "Bosnia", prims[3].Text)
	assert.Equal(t, []orb.Point{bosnia}, prims[3].Points)
}
