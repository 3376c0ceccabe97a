package basemap_test

import (
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/labelmap/internal/basemap"
	"github.com/UnknownOlympus/labelmap/internal/models"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countries = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Square"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}},
    {"type": "Feature", "properties": {"name": "Islands"},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[20,20],[21,20],[21,21],[20,20]]],
       [[[-30,-5],[-29,-5],[-29,-4],[-30,-5]]]
     ]}},
    {"type": "Feature", "properties": {"name": "Capital"},
     "geometry": {"type": "Point", "coordinates": [5,5]}}
  ]
}`

type recorder struct {
	polygons []orb.Polygon
}

func (r *recorder) AddPolygon(p orb.Polygon) {
	r.polygons = append(r.polygons, p)
}

func TestDecode(t *testing.T) {
	b, err := basemap.Decode([]byte(countries), "countries.geojson")

	require.NoError(t, err)
	assert.Len(t, b.Polygons, 3)
	assert.Equal(t, orb.Bound{Min: orb.Point{-30, -5}, Max: orb.Point{21, 21}}, b.Bound())

	r := &recorder{}
	b.Draw(r)
	assert.Len(t, r.polygons, 3)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := basemap.Decode([]byte(`{"type":`), "broken.geojson")

	var cfgErr *models.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "broken.geojson", cfgErr.Source)
}

func TestLoad(t *testing.T) {
	defer filet.CleanUp(t)
	file := filet.TmpFile(t, "", countries)

	b, err := basemap.Load(file.Name())
	require.NoError(t, err)
	assert.Len(t, b.Polygons, 3)

	_, err = basemap.Load("/does/not/exist.geojson")
	var cfgErr *models.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestBound_Empty(t *testing.T) {
	assert.Equal(t, orb.Bound{}, (&basemap.Basemap{}).Bound())
}
