// Package basemap loads country outlines drawn underneath the labels.
package basemap

import (
	"fmt"
	"os"

	"github.com/UnknownOlympus/labelmap/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Canvas receives the outlines.
type Canvas interface {
	AddPolygon(p orb.Polygon)
}

// Basemap is a set of country outlines.
type Basemap struct {
	Polygons []orb.Polygon
}

// Load reads a GeoJSON FeatureCollection from path.
func Load(path string) (*Basemap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.ConfigError{Source: path, Err: fmt.Errorf("failed to read basemap: %w", err)}
	}
	return Decode(data, path)
}

// Decode parses a GeoJSON FeatureCollection. Features that are not polygons or
// multipolygons are ignored.
func Decode(data []byte, source string) (*Basemap, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &models.ConfigError{Source: source, Err: fmt.Errorf("failed to decode basemap: %w", err)}
	}

	b := &Basemap{}
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			b.Polygons = append(b.Polygons, g)
		case orb.MultiPolygon:
			b.Polygons = append(b.Polygons, g...)
		}
	}
	return b, nil
}

// Bound returns the extent of all outlines.
func (b *Basemap) Bound() orb.Bound {
	if len(b.Polygons) == 0 {
		return orb.Bound{}
	}
	bound := b.Polygons[0].Bound()
	for _, p := range b.Polygons[1:] {
		bound = bound.Union(p.Bound())
	}
	return bound
}

// Draw adds every outline to the canvas.
func (b *Basemap) Draw(c Canvas) {
	for _, p := range b.Polygons {
		c.AddPolygon(p)
	}
}
