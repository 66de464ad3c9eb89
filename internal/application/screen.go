package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"vista-nav/internal/domain"
)

const (
	DefaultLocation = "제주도"
	DefaultAutoStop = 3 * time.Second
)

// VoiceLifecycle is what the screen needs from the voice service.
type VoiceLifecycle interface {
	Status() VoiceState
	BeginCapture(ctx context.Context) error
	EndCapture(ctx context.Context) (*domain.Recognition, error)
	Announce(ctx context.Context, key string) error
	Cleanup(ctx context.Context)
}

// FallbackData supplies the static content used when the backend fails.
type FallbackData interface {
	RecommendedRoutes() []domain.Route
	NearbyPOIs() []domain.POI
}

// ScreenState is an immutable snapshot of everything the screen renders.
type ScreenState struct {
	Location        string              `json:"location"`
	ActiveTab       domain.Tab          `json:"active_tab"`
	Loading         bool                `json:"loading"`
	Listening       bool                `json:"listening"`
	Voice           string              `json:"voice"`
	Recommendations []domain.Route      `json:"recommendations"`
	NearbyPOIs      []domain.POI        `json:"nearby_pois"`
	VoiceResult     *domain.Recognition `json:"voice_result,omitempty"`
	Dialog          *domain.Dialog      `json:"dialog,omitempty"`
}

type ScreenOptions struct {
	Location    string
	AutoStop    time.Duration
	Preferences map[string]string
}

// Screen holds the UI state of the single screen and turns user gestures
// into voice lifecycle and backend calls.
type Screen struct {
	voice    VoiceLifecycle
	backend  Backend
	fallback FallbackData
	metrics  Metrics
	logger   *slog.Logger
	autoStop time.Duration
	prefs    map[string]string

	mu     sync.Mutex
	state  ScreenState
	timer  *time.Timer
	subs   map[chan ScreenState]struct{}
	closed bool
}

func NewScreen(
	voice VoiceLifecycle,
	backend Backend,
	fallback FallbackData,
	metrics Metrics,
	logger *slog.Logger,
	opts ScreenOptions,
) *Screen {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if opts.Location == "" {
		opts.Location = DefaultLocation
	}
	if opts.AutoStop <= 0 {
		opts.AutoStop = DefaultAutoStop
	}
	return &Screen{
		voice:    voice,
		backend:  backend,
		fallback: fallback,
		metrics:  metrics,
		logger:   logger,
		autoStop: opts.AutoStop,
		prefs:    opts.Preferences,
		state: ScreenState{
			Location:        opts.Location,
			ActiveTab:       domain.TabHome,
			Voice:           StateIdle.String(),
			Recommendations: []domain.Route{},
			NearbyPOIs:      []domain.POI{},
		},
		subs: make(map[chan ScreenState]struct{}),
	}
}

// Snapshot returns a copy of the current state.
func (s *Screen) Snapshot() ScreenState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every change. Slow
// readers miss intermediate snapshots rather than blocking the screen.
func (s *Screen) Subscribe() (<-chan ScreenState, func()) {
	ch := make(chan ScreenState, 4)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
}

func (s *Screen) LoadRecommendations(ctx context.Context) {
	s.update(func(st *ScreenState) { st.Loading = true })

	routes, err := s.backend.RecommendedRoutes(ctx, s.prefs)
	if err != nil {
		s.logger.Warn("loading recommendations failed, using mock data", "error", err)
		s.metrics.BackendFallback("recommendations")
		routes = s.fallback.RecommendedRoutes()
	}

	s.update(func(st *ScreenState) {
		st.Recommendations = routes
		st.Loading = false
	})
}

// SearchPOI queries the backend and falls back to a local search over the
// mock POIs. The result also becomes the screen's nearby list.
func (s *Screen) SearchPOI(ctx context.Context, query, category string) []domain.POI {
	pois, err := s.backend.NearbyPOIs(ctx, query, category)
	if err != nil {
		s.logger.Warn("POI search failed, using mock data", "error", err)
		s.metrics.BackendFallback("poi_search")
		pois = SearchPOIs(s.fallback.NearbyPOIs(), query, category)
	}

	s.update(func(st *ScreenState) { st.NearbyPOIs = pois })
	return pois
}

func (s *Screen) SelectTab(tab domain.Tab) {
	s.update(func(st *ScreenState) { st.ActiveTab = tab })
}

func (s *Screen) SelectLocation(location string) {
	s.update(func(st *ScreenState) { st.Location = location })
}

func (s *Screen) DismissDialog() {
	s.update(func(st *ScreenState) { st.Dialog = nil })
}

// ToggleVoice is the voice button: it starts listening when idle and stops
// and processes the capture otherwise.
func (s *Screen) ToggleVoice(ctx context.Context) {
	s.mu.Lock()
	starting := !s.state.Listening
	s.state.Listening = starting
	s.mu.Unlock()

	if starting {
		s.startListening(ctx)
		return
	}

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.publish()
	s.finishListening(ctx)
}

func (s *Screen) startListening(ctx context.Context) {
	s.publish()

	if err := s.voice.Announce(ctx, MsgListening); err != nil {
		s.voiceFailed(ctx, err)
		return
	}
	if err := s.voice.BeginCapture(ctx); err != nil {
		s.voiceFailed(ctx, err)
		return
	}
	s.publish()

	timerCtx := context.WithoutCancel(ctx)
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.autoStop, func() {
		if !s.voice.Status().Capturing() {
			return
		}
		s.logger.Info("auto-stopping capture", "after", s.autoStop)
		s.update(func(st *ScreenState) { st.Listening = false })
		s.finishListening(timerCtx)
	})
	s.mu.Unlock()
}

func (s *Screen) finishListening(ctx context.Context) {
	if err := s.voice.Announce(ctx, MsgProcessing); err != nil {
		s.logger.Warn("announcing processing", "error", err)
	}

	result, err := s.voice.EndCapture(ctx)
	if errors.Is(err, domain.ErrInvalidState) {
		s.logger.Debug("capture already finished", "error", err)
		s.publish()
		return
	}
	if err != nil {
		s.voiceFailed(ctx, fmt.Errorf("stopping voice capture: %w", err))
		return
	}

	s.update(func(st *ScreenState) { st.VoiceResult = result })

	switch result.Intent {
	case domain.IntentRouteNavigation:
		s.processRouteRequest(ctx, result)
	case domain.IntentPOISearch:
		s.processPOISearch(result)
	}

	s.update(func(st *ScreenState) {
		st.Dialog = &domain.Dialog{
			Title:   "음성 인식 결과",
			Message: fmt.Sprintf("인식된 내용: \"%s\"\n\n어떻게 도와드릴까요?", result.Text),
		}
	})
}

func (s *Screen) processRouteRequest(ctx context.Context, result *domain.Recognition) {
	s.logger.Info("route request", "entities", result.Entities)

	routes := FilterRoutes(s.fallback.RecommendedRoutes(), result)
	if len(routes) == 0 {
		s.announce(ctx, MsgNoRoute)
		return
	}

	s.announce(ctx, MsgRouteFound)
	s.update(func(st *ScreenState) { st.Recommendations = routes })

	ids := make([]int, len(routes))
	for i, r := range routes {
		ids[i] = r.ID
	}
	entry := domain.HistoryEntry{
		ID:        uuid.NewString(),
		Query:     result.Text,
		Intent:    result.Intent,
		Entities:  result.Entities,
		RouteIDs:  ids,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.backend.RecordHistory(ctx, entry); err != nil {
		s.logger.Debug("saving travel history", "error", err)
	}
}

func (s *Screen) processPOISearch(result *domain.Recognition) {
	pois := FilterPOIs(s.fallback.NearbyPOIs(), result)
	s.logger.Info("POI search", "entities", result.Entities, "results", len(pois))
	s.update(func(st *ScreenState) { st.NearbyPOIs = pois })
}

func (s *Screen) voiceFailed(ctx context.Context, err error) {
	s.logger.Error("voice command failed", "error", err)

	s.voice.Cleanup(ctx)
	s.update(func(st *ScreenState) {
		st.Listening = false
		st.Dialog = &domain.Dialog{Title: "오류", Message: "음성 인식 중 오류가 발생했습니다."}
	})
	s.announce(ctx, MsgError)
	s.publish()
}

func (s *Screen) announce(ctx context.Context, key string) {
	if err := s.voice.Announce(ctx, key); err != nil {
		s.logger.Warn("announcement failed", "key", key, "error", err)
	}
}

// Close stops the auto-stop timer, releases the voice devices and ends all
// subscriptions.
func (s *Screen) Close(ctx context.Context) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.voice.Cleanup(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}

func (s *Screen) update(fn func(st *ScreenState)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.publish()
}

func (s *Screen) publish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshotLocked()
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Screen) snapshotLocked() ScreenState {
	snap := s.state
	snap.Voice = s.voice.Status().String()
	snap.Recommendations = make([]domain.Route, len(s.state.Recommendations))
	copy(snap.Recommendations, s.state.Recommendations)
	snap.NearbyPOIs = make([]domain.POI, len(s.state.NearbyPOIs))
	copy(snap.NearbyPOIs, s.state.NearbyPOIs)
	if s.state.Dialog != nil {
		d := *s.state.Dialog
		snap.Dialog = &d
	}
	return snap
}
