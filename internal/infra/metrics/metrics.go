package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"vista-nav/internal/domain"
)

// Collector records voice lifecycle and backend fallback counters.
type Collector struct {
	capturesStarted  prometheus.Counter
	recognitions     *prometheus.CounterVec
	playbackFailures prometheus.Counter
	backendFallbacks *prometheus.CounterVec
}

// NewCollector registers the counters with reg. Pass
// prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		capturesStarted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vista_voice_captures_started_total",
				Help: "Total number of voice captures started",
			},
		),
		recognitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vista_voice_recognitions_total",
				Help: "Total number of recognitions by intent",
			},
			[]string{"intent"}, // route_navigation, poi_search, unknown
		),
		playbackFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vista_voice_playback_failures_total",
				Help: "Total number of failed speech playbacks",
			},
		),
		backendFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vista_backend_fallbacks_total",
				Help: "Total number of times mock data replaced a failed backend call",
			},
			[]string{"op"}, // recommendations, poi_search
		),
	}
}

func (c *Collector) CaptureStarted() {
	c.capturesStarted.Inc()
}

func (c *Collector) Recognized(intent domain.Intent) {
	c.recognitions.WithLabelValues(string(intent)).Inc()
}

func (c *Collector) PlaybackFailed() {
	c.playbackFailures.Inc()
}

func (c *Collector) BackendFallback(op string) {
	c.backendFallbacks.WithLabelValues(op).Inc()
}
