package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vista-nav/internal/domain"
	"vista-nav/internal/infra/metrics"
)

// counterValue sums every series of the named counter whose labels include want.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue series
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.CaptureStarted()
	c.CaptureStarted()
	c.Recognized(domain.IntentRouteNavigation)
	c.Recognized(domain.IntentPOISearch)
	c.Recognized(domain.IntentPOISearch)
	c.PlaybackFailed()
	c.BackendFallback("recommendations")

	assert.Equal(t, 2.0, counterValue(t, reg, "vista_voice_captures_started_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "vista_voice_recognitions_total", map[string]string{"intent": "route_navigation"}))
	assert.Equal(t, 2.0, counterValue(t, reg, "vista_voice_recognitions_total", map[string]string{"intent": "poi_search"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "vista_voice_playback_failures_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "vista_backend_fallbacks_total", map[string]string{"op": "recommendations"}))
	assert.Equal(t, 0.0, counterValue(t, reg, "vista_backend_fallbacks_total", map[string]string{"op": "poi_search"}))
}

func TestCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewCollector(reg)

	assert.Panics(t, func() { metrics.NewCollector(reg) })
}
