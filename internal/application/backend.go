package application

import (
	"context"

	"vista-nav/internal/domain"
)

// Backend is the subset of the remote service the screen drives directly.
type Backend interface {
	RecommendedRoutes(ctx context.Context, prefs map[string]string) ([]domain.Route, error)
	NearbyPOIs(ctx context.Context, query, category string) ([]domain.POI, error)
	RecordHistory(ctx context.Context, entry domain.HistoryEntry) error
}

// Metrics receives lifecycle and fallback events.
type Metrics interface {
	CaptureStarted()
	Recognized(intent domain.Intent)
	PlaybackFailed()
	BackendFallback(op string)
}

type NoopMetrics struct{}

func (NoopMetrics) CaptureStarted()          {}
func (NoopMetrics) Recognized(domain.Intent) {}
func (NoopMetrics) PlaybackFailed()          {}
func (NoopMetrics) BackendFallback(string)   {}
