package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/labelmap/internal/geocoding"
	"github.com/UnknownOlympus/labelmap/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGeocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, slog.Default())
	ctx := t.Context()

	t.Run("api returns error", func(t *testing.T) {
		name := "Atlantis"
		req := &maps.GeocodingRequest{Address: name}

		mockClient.On("Geocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.Geocode(ctx, name)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		mockClient.AssertExpectations(t)
	})

	t.Run("api return empty response", func(t *testing.T) {
		name := "Atlantis"
		req := &maps.GeocodingRequest{Address: name}

		mockClient.On("Geocode", ctx, req).Return(nil, nil).Once()

		coords, err := provider.Geocode(ctx, name)

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		mockClient.AssertExpectations(t)
	})

	t.Run("location out of range", func(t *testing.T) {
		name := "Nowhere"
		req := &maps.GeocodingRequest{Address: name}
		response := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 120, Lng: 10}}},
		}

		mockClient.On("Geocode", ctx, req).Return(response, nil).Once()

		coords, err := provider.Geocode(ctx, name)

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrInvalidCoords)
		mockClient.AssertExpectations(t)
	})

	t.Run("successful geocoding", func(t *testing.T) {
		name := "Liechtenstein"
		req := &maps.GeocodingRequest{Address: name}
		response := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 47.166, Lng: 9.555}}},
		}

		mockClient.On("Geocode", ctx, req).Return(response, nil).Once()

		coords, err := provider.Geocode(ctx, name)

		require.NoError(t, err)
		require.NotNil(t, coords)
		require.InEpsilon(t, 47.166, coords.Latitude, 0.01)
		require.InEpsilon(t, 9.555, coords.Longitude, 0.01)
		mockClient.AssertExpectations(t)
	})
}
