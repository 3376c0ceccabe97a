package names_test

import (
	"testing"

	"github.com/UnknownOlympus/labelmap/internal/centroids"
	"github.com/UnknownOlympus/labelmap/internal/models"
	"github.com/UnknownOlympus/labelmap/internal/names"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 {
	return &v
}

func testStore(t *testing.T) *centroids.Store {
	t.Helper()
	store, err := centroids.Build([]models.CentroidRecord{
		{Name: "Bosnia and Herzegovina", Latitude: ptr(43.9), Longitude: ptr(17.7)},
		{Name: "Czech Republic", Latitude: ptr(49.8), Longitude: ptr(15.5)},
		{Name: "Gaza Strip", Latitude: ptr(31.4), Longitude: ptr(34.3)},
	}, nil)
	require.NoError(t, err)
	return store
}

func TestResolver_Resolve(t *testing.T) {
	naming := map[string]string{
		"Czechia":                  "Czech Republic",
		"United States of America": "United States",
		"USA":                      "United States",
	}
	resolver := names.NewResolver(naming, nil)

	t.Run("keys without a naming fix resolve to themselves", func(t *testing.T) {
		for _, key := range []string{"Chile", "Bosnia and Herzegovina", "", "Czech Republic"} {
			assert.Equal(t, key, resolver.Resolve(key))
		}
	})

	t.Run("every synonym resolves to its canonical key", func(t *testing.T) {
		for synonym, canonical := range naming {
			assert.Equal(t, canonical, resolver.Resolve(synonym))
		}
	})

	t.Run("tables are copied", func(t *testing.T) {
		naming["Chile"] = "Chili"
		assert.Equal(t, "Chile", resolver.Resolve("Chile"))
	})
}

func TestResolver_DisplayLabel(t *testing.T) {
	resolver := names.NewResolver(nil, map[string]string{"Bosnia and Herzegovina": "Bosnia"})

	assert.Equal(t, "Bosnia", resolver.DisplayLabel("Bosnia and Herzegovina"))
	assert.Equal(t, "Chile", resolver.DisplayLabel("Chile"))
}

func TestResolver_Entity(t *testing.T) {
	store := testStore(t)
	resolver := names.NewResolver(map[string]string{"Czechia": "Czech Republic"}, nil)

	t.Run("resolved key found", func(t *testing.T) {
		entity, err := resolver.Entity("Czechia", store)

		require.NoError(t, err)
		assert.Equal(t, "Czech Republic", entity.Key)
	})

	t.Run("missing key returns not found with canonical key", func(t *testing.T) {
		_, err := resolver.Entity("Atlantis", store)

		var notFound *models.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "Atlantis", notFound.Key)
	})
}

func TestResolver_Validate(t *testing.T) {
	store := testStore(t)
	resolver := names.NewResolver(map[string]string{
		"Czechia":    "Czech Republic",
		"Micronesia": "Federated States of Micronesia",
	}, nil)

	diag := resolver.Validate([]string{"Czechia", "Atlantis", "Bosnia and Herzegovina", "Micronesia"}, store)

	assert.False(t, diag.OK())
	assert.Equal(t, []names.Mismatch{
		{Entry: "Atlantis", Canonical: "Atlantis"},
		{Entry: "Micronesia", Canonical: "Federated States of Micronesia"},
	}, diag.Unmatched)
	assert.Equal(t, []string{"Gaza Strip"}, diag.Unused)

	clean := resolver.Validate([]string{"Czechia", "Bosnia and Herzegovina", "Gaza Strip"}, store)
	assert.True(t, clean.OK())
	assert.Empty(t, clean.Unused)
}
