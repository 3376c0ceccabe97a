// Package metrics defines the Prometheus series a run records.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	LabelsRendered  *prometheus.CounterVec
	Connectors      prometheus.Counter
	MissingEntities prometheus.Counter
	LayoutSeconds   prometheus.Histogram
	LayoutIters     prometheus.Gauge
	LayoutConverged prometheus.Gauge

	GeocodeProcessed *prometheus.CounterVec
	APIErrors        prometheus.Counter
	RequestSeconds   *prometheus.HistogramVec
	ActiveWorkers    prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		LabelsRendered: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "labelmap_labels_rendered_total",
			Help: "Total number of labels drawn, by placement mode.",
		}, []string{"mode"}),
		Connectors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "labelmap_connectors_total",
			Help: "Total number of connector lines drawn.",
		}),
		MissingEntities: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "labelmap_missing_entities_total",
			Help: "Total number of worklist entries without a centroid.",
		}),
		LayoutSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "labelmap_layout_duration_seconds",
			Help:    "Duration of the layout solver.",
			Buckets: prometheus.DefBuckets,
		}),
		LayoutIters: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "labelmap_layout_iterations",
			Help: "Iterations used by the last layout run.",
		}),
		LayoutConverged: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "labelmap_layout_converged",
			Help: "1 if the last layout run resolved every overlap, 0 otherwise.",
		}),
		GeocodeProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "labelmap_geocode_processed_total",
			Help: "Total number of names sent to the geocoding provider.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "labelmap_geocode_api_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "labelmap_geocode_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "labelmap_geocode_active_workers",
			Help: "Current number of workers geocoding names.",
		}),
	}
}

// WriteFile writes every metric gathered by g to path in the Prometheus text
// format, for the node exporter textfile collector.
func WriteFile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
