package service_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/labelmap/internal/metrics"
	"github.com/UnknownOlympus/labelmap/internal/models"
	"github.com/UnknownOlympus/labelmap/internal/names"
	"github.com/UnknownOlympus/labelmap/internal/service"
	"github.com/UnknownOlympus/labelmap/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withName(name string, lat, lon float64) any {
	return mock.MatchedBy(func(r models.CentroidRecord) bool {
		return r.Name == name && r.Latitude != nil && *r.Latitude == lat && r.Longitude != nil && *r.Longitude == lon
	})
}

func TestMissingKeys(t *testing.T) {
	store := newStore(t, []models.CentroidRecord{record("Chad", 15.5, 18.7)})
	resolver := names.NewResolver(map[string]string{"Burma": "Myanmar [Burma]", "Myanmar": "Myanmar [Burma]"}, nil)

	keys := service.MissingKeys([]string{"Tuvalu", "Chad", "Burma", "Myanmar"}, resolver, store)

	assert.Equal(t, []string{"Tuvalu", "Myanmar [Burma]"}, keys)
}

func TestBackfillService_Run(t *testing.T) {
	logger := slog.Default()

	t.Run("successful processing", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		sink := mocks.NewRecordSink(t)
		m := metrics.NewMetrics(prometheus.NewRegistry())
		svc := service.NewBackfillService(logger, provider, "nominatim", m, 2)

		provider.On("Geocode", mock.Anything, "Tuvalu").Return(&models.Coordinates{Latitude: -7.1, Longitude: 177.6}, nil).Once()
		provider.On("Geocode", mock.Anything, "Togo").Return(&models.Coordinates{Latitude: 8.6, Longitude: 0.8}, nil).Once()
		sink.On("UpsertBaseRecord", mock.Anything, withName("Tuvalu", -7.1, 177.6)).Return(nil).Once()
		sink.On("UpsertBaseRecord", mock.Anything, withName("Togo", 8.6, 0.8)).Return(nil).Once()

		report := svc.Run(t.Context(), []string{"Tuvalu", "Togo"}, sink)

		assert.Equal(t, []string{"Togo", "Tuvalu"}, report.Geocoded)
		assert.Empty(t, report.Failed)
		assert.InDelta(t, 2, testutil.ToFloat64(m.GeocodeProcessed.WithLabelValues("success")), 0)
		assert.InDelta(t, 0, testutil.ToFloat64(m.ActiveWorkers), 0)
	})

	t.Run("geocoding provider returns error", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		sink := mocks.NewRecordSink(t)
		m := metrics.NewMetrics(prometheus.NewRegistry())
		svc := service.NewBackfillService(logger, provider, "nominatim", m, 1)

		provider.On("Geocode", mock.Anything, "Atlantis").Return(nil, assert.AnError).Once()

		report := svc.Run(t.Context(), []string{"Atlantis"}, sink)

		assert.Empty(t, report.Geocoded)
		assert.Equal(t, []string{"Atlantis"}, report.Failed)
		assert.InDelta(t, 1, testutil.ToFloat64(m.APIErrors), 0)
		sink.AssertNotCalled(t, "UpsertBaseRecord", mock.Anything, mock.Anything)
	})

	t.Run("sink returns error", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		sink := mocks.NewRecordSink(t)
		svc := service.NewBackfillService(logger, provider, "google", metrics.NewMetrics(prometheus.NewRegistry()), 3)

		provider.On("Geocode", mock.Anything, "Tuvalu").Return(&models.Coordinates{Latitude: -7.1, Longitude: 177.6}, nil).Once()
		sink.On("UpsertBaseRecord", mock.Anything, withName("Tuvalu", -7.1, 177.6)).Return(assert.AnError).Once()

		report := svc.Run(t.Context(), []string{"Tuvalu"}, sink)

		assert.Equal(t, []string{"Tuvalu"}, report.Failed)
	})

	t.Run("nothing to do", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		sink := mocks.NewRecordSink(t)
		svc := service.NewBackfillService(logger, provider, "nominatim", metrics.NewMetrics(prometheus.NewRegistry()), 0)

		report := svc.Run(t.Context(), nil, sink)

		require.NotNil(t, report)
		assert.Empty(t, report.Geocoded)
		assert.Empty(t, report.Failed)
	})
}
