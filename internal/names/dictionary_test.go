package names_test

import (
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/labelmap/internal/models"
	"github.com/UnknownOlympus/labelmap/internal/names"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDictionary(t *testing.T) {
	dict, err := names.DefaultDictionary()
	require.NoError(t, err)

	assert.Len(t, dict.Worklist, 228)
	assert.Equal(t, "Afghanistan", dict.Worklist[0])
	assert.Equal(t, "Zimbabwe", dict.Worklist[len(dict.Worklist)-1])
	assert.Contains(t, dict.Worklist, "Côte d'Ivoire")

	resolver := dict.Resolver()
	assert.Equal(t, "Congo [DRC]", resolver.Resolve("Democratic Republic of the Congo"))
	assert.Equal(t, "Saint Martin", resolver.Resolve("Saint Maarten"))
	assert.Equal(t, "St. Maarten", resolver.DisplayLabel("Saint Martin"))
	assert.Equal(t, "Bosnia", resolver.DisplayLabel("Bosnia and Herzegovina"))
	assert.Equal(t, "Czechia", resolver.DisplayLabel(resolver.Resolve("Czechia")))
	assert.Equal(t, "Congo [DRC]", resolver.DisplayLabel(resolver.Resolve("Democratic Republic of the Congo")))
}

func TestParseDictionary(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := names.ParseDictionary([]byte("worklist: [a, b"), "broken.yaml")

		var cfgErr *models.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "broken.yaml", cfgErr.Source)
	})

	t.Run("empty worklist", func(t *testing.T) {
		_, err := names.ParseDictionary([]byte("naming: {}"), "empty.yaml")

		require.ErrorContains(t, err, "worklist is empty")
	})

	t.Run("duplicate entry", func(t *testing.T) {
		_, err := names.ParseDictionary([]byte("worklist: [Chile, Peru, Chile]"), "dup.yaml")

		var cfgErr *models.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "Chile", cfgErr.Key)
	})

	t.Run("tables default to empty", func(t *testing.T) {
		dict, err := names.ParseDictionary([]byte("worklist: [Chile]"), "min.yaml")

		require.NoError(t, err)
		assert.NotNil(t, dict.Naming)
		assert.NotNil(t, dict.Labels)
		assert.Equal(t, "Chile", dict.Resolver().Resolve("Chile"))
	})
}

func TestLoadDictionary(t *testing.T) {
	defer filet.CleanUp(t)
	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "names.yaml")
	filet.File(t, path, "worklist:\n  - Czechia\nnaming:\n  Czechia: Czech Republic\n")

	dict, err := names.LoadDictionary(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Czechia"}, dict.Worklist)

	dict, err = names.LoadDictionary("")
	require.NoError(t, err)
	assert.Len(t, dict.Worklist, 228)

	_, err = names.LoadDictionary(filepath.Join(dir, "missing.yaml"))
	var cfgErr *models.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
