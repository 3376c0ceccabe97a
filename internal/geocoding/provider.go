// Package geocoding looks up the centroid of a country or territory by name.
package geocoding

import (
	"context"

	"github.com/UnknownOlympus/labelmap/internal/models"
)

// Provider returns the coordinates of a named place.
type Provider interface {
	Geocode(ctx context.Context, name string) (*models.Coordinates, error)
}
