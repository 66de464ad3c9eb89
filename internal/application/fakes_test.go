package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"vista-nav/internal/application"
	"vista-nav/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCapture struct {
	mu        sync.Mutex
	stopped   bool
	discarded bool
	stopErr   error
}

func (c *fakeCapture) Stop() (domain.CaptureRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.stopErr != nil {
		return domain.CaptureRef{}, c.stopErr
	}
	return domain.CaptureRef{SessionID: "s1", URI: "/tmp/capture.wav"}, nil
}

func (c *fakeCapture) Discard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discarded = true
	return errors.New("device already released")
}

type fakeRecorder struct {
	mu       sync.Mutex
	denied   bool
	startErr error
	stopErr  error
	captures []*fakeCapture
}

func (r *fakeRecorder) Name() string { return "fake" }

func (r *fakeRecorder) RequestPermission(_ context.Context) (bool, error) {
	return !r.denied, nil
}

func (r *fakeRecorder) Start(_ context.Context, _ domain.CaptureFormat) (application.Capture, error) {
	if r.startErr != nil {
		return nil, r.startErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &fakeCapture{stopErr: r.stopErr}
	r.captures = append(r.captures, c)
	return c, nil
}

func (r *fakeRecorder) last() *fakeCapture {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.captures) == 0 {
		return nil
	}
	return r.captures[len(r.captures)-1]
}

// fakeSynth finishes immediately unless hold is set, in which case every
// utterance lasts until its context is cancelled.
type fakeSynth struct {
	mu      sync.Mutex
	hold    bool
	err     error
	spoken  []string
	opts    []domain.SpeechOptions
	active  int
	maxSeen int
	started chan string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string, opts domain.SpeechOptions) error {
	f.mu.Lock()
	f.spoken = append(f.spoken, text)
	f.opts = append(f.opts, opts)
	f.active++
	if f.active > f.maxSeen {
		f.maxSeen = f.active
	}
	hold, err, started := f.hold, f.err, f.started
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if started != nil {
		started <- text
	}
	if hold {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (f *fakeSynth) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...)
}

type fixedRecognizer struct {
	result *domain.Recognition
	err    error
}

func (r *fixedRecognizer) Recognize(_ context.Context, _ domain.CaptureRef) (*domain.Recognition, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := *r.result
	return &out, nil
}

type fakeBackend struct {
	mu       sync.Mutex
	routes   []domain.Route
	pois     []domain.POI
	err      error
	recorded []domain.HistoryEntry
}

func (b *fakeBackend) RecommendedRoutes(_ context.Context, _ map[string]string) ([]domain.Route, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.routes, nil
}

func (b *fakeBackend) NearbyPOIs(_ context.Context, _, _ string) ([]domain.POI, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.pois, nil
}

func (b *fakeBackend) RecordHistory(_ context.Context, entry domain.HistoryEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recorded = append(b.recorded, entry)
	return b.err
}

type staticFallback struct {
	routes []domain.Route
	pois   []domain.POI
}

func (f staticFallback) RecommendedRoutes() []domain.Route { return f.routes }
func (f staticFallback) NearbyPOIs() []domain.POI          { return f.pois }

type countingMetrics struct {
	mu        sync.Mutex
	captures  int
	intents   []domain.Intent
	playbacks int
	fallbacks []string
}

func (m *countingMetrics) CaptureStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.captures++
}

func (m *countingMetrics) Recognized(intent domain.Intent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intents = append(m.intents, intent)
}

func (m *countingMetrics) PlaybackFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playbacks++
}

func (m *countingMetrics) BackendFallback(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks = append(m.fallbacks, op)
}

var routeRecognition = &domain.Recognition{
	Text:   "제주공항에서 성산일출봉까지 경치 좋은 길로 안내해주세요",
	Intent: domain.IntentRouteNavigation,
	Entities: map[string]string{
		domain.EntityStart:       "제주공항",
		domain.EntityDestination: "성산일출봉",
	},
}

var cafeRecognition = &domain.Recognition{
	Text:     "카페 추천해주세요",
	Intent:   domain.IntentPOISearch,
	Entities: map[string]string{domain.EntityCategory: domain.CategoryCafe},
}
