package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/labelmap/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.LabelsRendered.WithLabelValues("laid_out").Add(3)
	m.Connectors.Inc()
	m.MissingEntities.Inc()

	assert.InDelta(t, 3, testutil.ToFloat64(m.LabelsRendered.WithLabelValues("laid_out")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Connectors), 0)
	assert.Equal(t, 3, testutil.CollectAndCount(m.LabelsRendered)+testutil.CollectAndCount(m.Connectors)+
		testutil.CollectAndCount(m.MissingEntities))

	assert.Panics(t, func() { metrics.NewMetrics(reg) }, "registering twice must fail")
}

func TestWriteFile(t *testing.T) {
	defer filet.CleanUp(t)
	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "labelmap.prom")

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.Connectors.Add(2)

	require.NoError(t, metrics.WriteFile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "labelmap_connectors_total 2")

	err = metrics.WriteFile(filepath.Join(dir, "missing", "labelmap.prom"), reg)
	require.Error(t, err)
}
