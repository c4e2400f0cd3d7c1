package providers

import (
	"ecotracker/internal/models"
	"ecotracker/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFreshRegistry(t *testing.T) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	})
	return reg
}

// counterValue sums the counter samples of name whose labels contain every
// value in labels.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels ...string) float64 {
	families, err := reg.Gather()
	require.NoError(t, err)

	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			seen := map[string]bool{}
			for _, lp := range metric.GetLabel() {
				seen[lp.GetValue()] = true
			}
			match := true
			for _, l := range labels {
				match = match && seen[l]
			}
			if match {
				total += metric.GetCounter().GetValue()
			}
		}
	}
	return total
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/tracker", 200)
	m.ObserveRequestDuration("/tracker", time.Millisecond)
	m.IncCacheHits("weekly")
	m.IncCacheMisses("hourly")
	m.ObservePersistenceDuration(time.Millisecond)
	m.IncStorageFailures("set")
	m.IncFixes()
	m.IncFixErrors("timeout")
	m.ObserveFixStep(0.05)
	m.RegisterTrackerGauges(func() models.RunningTotals { return models.RunningTotals{} })
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	withFreshRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	reg := withFreshRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf).(*MetricsProvider)

	m.IncRequestsTotal("/tracker", 200)
	m.IncRequestsTotal("/tracker", 404)
	m.ObserveRequestDuration("/tracker", 5*time.Millisecond)
	m.IncCacheHits("weekly")
	m.IncCacheHits("hourly")
	m.IncCacheMisses("hourly")
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.IncStorageFailures("set")
	m.IncStorageFailures("set")
	m.IncFixes()
	m.IncFixErrors("denied")
	m.ObserveFixStep(0.02)

	assert.Equal(t, float64(2), counterValue(t, reg, "ecotracker_storage_failures_total", "set"))
	assert.Equal(t, float64(1), counterValue(t, reg, "ecotracker_fixes_total"))
	assert.Equal(t, float64(1), counterValue(t, reg, "ecotracker_fix_errors_total", "denied"))
	assert.Equal(t, float64(2), counterValue(t, reg, "ecotracker_requests_total", "/tracker"))
	assert.Equal(t, float64(1), counterValue(t, reg, "ecotracker_cache_hits_total", "weekly"))
	assert.Equal(t, float64(2), counterValue(t, reg, "ecotracker_cache_hits_total"))
	assert.Equal(t, float64(1), counterValue(t, reg, "ecotracker_cache_misses_total", "hourly"))
}

func TestMetricsProvider_TrackerGauges(t *testing.T) {
	reg := withFreshRegistry(t)

	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}})
	m.RegisterTrackerGauges(func() models.RunningTotals {
		return models.RunningTotals{CarbonKg: 0.002, DistanceKm: 0.4, ActiveSeconds: 120}
	})

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		if f.GetType().String() == "GAUGE" {
			values[f.GetName()] = f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	assert.InDelta(t, 0.002, values["ecotracker_carbon_kg"], 1e-12)
	assert.InDelta(t, 0.4, values["ecotracker_distance_km"], 1e-12)
	assert.Equal(t, float64(120), values["ecotracker_active_seconds"])
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{409, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
