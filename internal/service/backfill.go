package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/UnknownOlympus/labelmap/internal/geocoding"
	"github.com/UnknownOlympus/labelmap/internal/metrics"
	"github.com/UnknownOlympus/labelmap/internal/models"
	"github.com/UnknownOlympus/labelmap/internal/names"
)

// RecordSink stores geocoded base records.
type RecordSink interface {
	UpsertBaseRecord(ctx context.Context, record models.CentroidRecord) error
}

// BackfillService geocodes entities that have no centroid yet.
type BackfillService struct {
	log          *slog.Logger
	provider     geocoding.Provider
	providerName string // providerName labels the request metrics
	metrics      *metrics.Metrics
	numWorkers   int
}

// BackfillReport lists the outcome per canonical key, sorted.
type BackfillReport struct {
	Geocoded []string
	Failed   []string
}

// NewBackfillService creates a BackfillService that runs numWorkers concurrent lookups.
func NewBackfillService(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	numWorkers int,
) *BackfillService {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &BackfillService{
		log:          log,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		numWorkers:   numWorkers,
	}
}

// MissingKeys returns the canonical keys of worklist entries absent from store,
// without duplicates and in worklist order.
func MissingKeys(worklist []string, resolver *names.Resolver, store names.EntityLookup) []string {
	diag := resolver.Validate(worklist, store)
	seen := make(map[string]struct{}, len(diag.Unmatched))
	keys := make([]string, 0, len(diag.Unmatched))
	for _, m := range diag.Unmatched {
		if _, ok := seen[m.Canonical]; ok {
			continue
		}
		seen[m.Canonical] = struct{}{}
		keys = append(keys, m.Canonical)
	}
	return keys
}

// Run geocodes every key with a pool of workers and stores the results in sink.
// Lookup failures are logged and reported, never returned.
func (bs *BackfillService) Run(ctx context.Context, keys []string, sink RecordSink) *BackfillReport {
	report := &BackfillReport{}
	if len(keys) == 0 {
		bs.log.InfoContext(ctx, "No entities to geocode.")
		return report
	}

	bs.log.InfoContext(ctx, "Found entities to geocode. Starting worker pool.",
		"jobs", len(keys),
		"num_workers", bs.numWorkers,
	)

	jobs := make(chan string, len(keys))
	var (
		wgr sync.WaitGroup
		mu  sync.Mutex
	)

	for i := 1; i <= bs.numWorkers; i++ {
		wgr.Add(1)
		go func(idx int) {
			defer wgr.Done()
			for key := range jobs {
				ok := bs.geocode(ctx, idx, key, sink)
				mu.Lock()
				if ok {
					report.Geocoded = append(report.Geocoded, key)
				} else {
					report.Failed = append(report.Failed, key)
				}
				mu.Unlock()
			}
		}(i)
	}

	for _, key := range keys {
		jobs <- key
	}
	close(jobs)

	wgr.Wait()
	sort.Strings(report.Geocoded)
	sort.Strings(report.Failed)

	bs.log.InfoContext(ctx, "Geocoding batch finished", "geocoded", len(report.Geocoded), "failed", len(report.Failed))
	return report
}

func (bs *BackfillService) geocode(ctx context.Context, idx int, key string, sink RecordSink) bool {
	bs.metrics.ActiveWorkers.Inc()
	defer bs.metrics.ActiveWorkers.Dec()

	bs.log.DebugContext(ctx, "Geocoding entity", "worker", idx, "key", key)

	startTime := time.Now()
	coords, err := bs.provider.Geocode(ctx, key)
	bs.metrics.RequestSeconds.WithLabelValues(bs.providerName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		bs.log.ErrorContext(ctx, "Failed to geocode", "worker", idx, "key", key, "error", err)
		bs.metrics.GeocodeProcessed.WithLabelValues("failure").Inc()
		bs.metrics.APIErrors.Inc()
		return false
	}

	bs.metrics.GeocodeProcessed.WithLabelValues("success").Inc()

	record := models.CentroidRecord{Name: key, Latitude: &coords.Latitude, Longitude: &coords.Longitude}
	if err = sink.UpsertBaseRecord(ctx, record); err != nil {
		bs.log.ErrorContext(ctx, "Failed to store centroid", "worker", idx, "key", key, "error", err)
		return false
	}

	bs.log.DebugContext(ctx, "Worker successfully geocoded the entity", "worker", idx, "key", key)
	return true
}
