package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/labelmap/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider geocodes names with the Google Maps Geocoding API.
type GoogleProvider struct {
	client GoogleAPIClient
	log    *slog.Logger
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// ErrInvalidCoords is returned when a provider answers with coordinates outside the valid range.
var ErrInvalidCoords = errors.New("provider returned coordinates out of range")

func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode returns the location of the first result for name.
func (gp *GoogleProvider) Geocode(ctx context.Context, name string) (*models.Coordinates, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "name", name)

	req := maps.GeocodingRequest{Address: name}
	results, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode %q: %w", name, err)
	}
	if len(results) == 0 {
		return nil, ErrEmptyResponse
	}

	loc := results[0].Geometry.Location
	coords := &models.Coordinates{Longitude: loc.Lng, Latitude: loc.Lat}
	if !coords.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoords, loc)
	}
	return coords, nil
}
