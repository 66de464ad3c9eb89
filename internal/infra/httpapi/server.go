package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vista-nav/internal/application"
	"vista-nav/internal/domain"
)

// Screen is the part of the presentation layer the control server drives.
type Screen interface {
	Snapshot() application.ScreenState
	Subscribe() (<-chan application.ScreenState, func())
	ToggleVoice(ctx context.Context)
	SelectTab(tab domain.Tab)
	LoadRecommendations(ctx context.Context)
}

type Options struct {
	Addr      string
	AuthToken string
	// RateLimit is the number of POST requests allowed per client per minute.
	RateLimit int
	Gatherer  prometheus.Gatherer
}

// Server exposes the screen state and the voice button over HTTP and a
// WebSocket snapshot stream.
type Server struct {
	addr        string
	authToken   string
	screen      Screen
	logger      *slog.Logger
	mux         *http.ServeMux
	rateLimiter *RateLimiter

	mu      sync.Mutex
	server  *http.Server
	running bool
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewServer(screen Screen, logger *slog.Logger, opts Options) *Server {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 30
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:        opts.Addr,
		authToken:   opts.AuthToken,
		screen:      screen,
		logger:      logger,
		mux:         http.NewServeMux(),
		rateLimiter: NewRateLimiter(opts.RateLimit, time.Minute),
		baseCtx:     baseCtx,
		cancel:      cancel,
	}

	// Commands are rate limited and, when a token is configured, authenticated
	s.mux.HandleFunc("POST /voice", s.rateLimiter.Middleware(s.requireToken(s.handleVoice)))
	s.mux.HandleFunc("POST /tab", s.rateLimiter.Middleware(s.requireToken(s.handleTab)))
	s.mux.HandleFunc("POST /reload", s.rateLimiter.Middleware(s.requireToken(s.handleReload)))

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /screen", s.handleScreen)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("control server starting", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("control server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

// Stop shuts the listener down and waits for in-flight gestures to finish.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()

	if s.running && s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
			if err := s.server.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
	}
	s.running = false

	s.wg.Wait()
	return nil
}

// Wait blocks until every gesture started by a request has returned.
func (s *Server) Wait() {
	s.wg.Wait()
}

func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken != "" {
			token := r.Header.Get("X-Auth-Token")
			if token == "" {
				token = r.URL.Query().Get("token")
			}
			if token != s.authToken {
				s.logger.Warn("unauthorized control request", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

// gesture runs fn in the background so slow voice work does not hold the request.
func (s *Server) gesture(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.baseCtx)
	}()
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	listening := !s.screen.Snapshot().Listening
	s.gesture(s.screen.ToggleVoice)

	s.logger.Info("voice toggled via HTTP", "listening", listening)
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "accepted", "listening": listening})
}

type tabRequest struct {
	Tab string `json:"tab"`
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req tabRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1024)).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	tab, ok := domain.ParseTab(req.Tab)
	if !ok {
		http.Error(w, "unknown tab", http.StatusBadRequest)
		return
	}

	s.screen.SelectTab(tab)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "tab": tab})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.gesture(s.screen.LoadRecommendations)
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "accepted"})
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.screen.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	status := "ok"
	statusCode := http.StatusOK

	if !running {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, map[string]any{
		"status":  status,
		"running": running,
		"voice":   s.screen.Snapshot().Voice,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
