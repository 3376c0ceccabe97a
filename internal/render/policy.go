package render

import (
	"fmt"

	"github.com/UnknownOlympus/labelmap/internal/models"
	"github.com/paulmach/orb/planar"
)

// Policy selects which labels enter the layout engine and when a connector is drawn.
type Policy string

const (
	// PolicyAlwaysLayout lays out every label and connects those displaced beyond the threshold.
	PolicyAlwaysLayout Policy = "always_layout"
	// PolicyPinIfExplicit keeps labels with a preferred text position out of layout
	// and always connects them.
	PolicyPinIfExplicit Policy = "pin_if_explicit"
)

// ParsePolicy validates a policy name.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(name); p {
	case PolicyAlwaysLayout, PolicyPinIfExplicit:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported policy: %s", name)
	}
}

// Adjustable reports whether the entity's label is handed to the layout engine.
func (p Policy) Adjustable(e models.Entity) bool {
	if p == PolicyPinIfExplicit {
		return !e.HasPinnedText()
	}
	return true
}

// Decision is the connector verdict for one placement.
type Decision struct {
	Placement    models.Placement
	Displacement float64           // Displacement is the distance between initial and final text position.
	Connector    *models.Connector // Connector is nil when no line is drawn.
}

// Decide computes whether a placement gets a connector. Under PolicyAlwaysLayout the
// displacement must be strictly greater than threshold. Under PolicyPinIfExplicit
// pinned labels are always connected and laid-out labels are connected once they
// left their anchor.
func Decide(p models.Placement, policy Policy, threshold float64) Decision {
	d := Decision{
		Placement:    p,
		Displacement: planar.Distance(p.Initial, p.Final),
	}

	var connect bool
	switch {
	case policy == PolicyPinIfExplicit && p.Pinned:
		connect = true
	case policy == PolicyPinIfExplicit:
		connect = !p.Final.Equal(p.Anchor)
	default:
		connect = d.Displacement > threshold
	}

	if connect {
		d.Connector = &models.Connector{From: p.Final, To: p.Anchor}
	}
	return d
}

// Draw appends the primitives of every decision to the canvas: connector lines
// first, then anchor markers, then text at the final position. It returns the
// number of connectors drawn.
func Draw(c *Canvas, decisions []Decision) int {
	connectors := 0
	for _, d := range decisions {
		if d.Connector != nil {
			c.AddLine(d.Connector.From, d.Connector.To)
			connectors++
		}
	}
	for _, d := range decisions {
		c.AddMarker(d.Placement.Anchor)
	}
	for _, d := range decisions {
		c.AddText(d.Placement.Final, d.Placement.Label)
	}
	return connectors
}

