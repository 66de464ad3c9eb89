package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"vista-nav/config"
	"vista-nav/internal/application"
	"vista-nav/internal/infra/audio"
	"vista-nav/internal/infra/console"
	"vista-nav/internal/infra/httpapi"
	"vista-nav/internal/infra/metrics"
	"vista-nav/internal/infra/mockdata"
	"vista-nav/internal/infra/speech"
	"vista-nav/internal/infra/vistaapi"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (.yaml or .toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "path", *configPath)
		cfg = config.Default()
	} else if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	client := vistaapi.NewClient(
		cfg.API.BaseURL,
		parseDuration(cfg.API.Timeout, vistaapi.DefaultTimeout, "api.timeout", logger),
		cfg.API.Headers,
	)

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	voice := application.NewVoiceService(
		createRecorder(cfg.Audio, logger),
		createRecognizer(cfg.Voice, client, logger),
		createSynthesizer(cfg.Speech, logger),
		collector,
		logger,
	)

	screen := application.NewScreen(voice, client, mockdata.Provider{}, collector, logger, application.ScreenOptions{
		Location:    cfg.Screen.Location,
		AutoStop:    parseDuration(cfg.Voice.AutoStop, application.DefaultAutoStop, "voice.auto_stop", logger),
		Preferences: cfg.Screen.Preferences,
	})

	var control *httpapi.Server
	if cfg.Control.Enabled {
		control = httpapi.NewServer(screen, logger, httpapi.Options{
			Addr:      cfg.Control.Addr,
			AuthToken: cfg.Control.AuthToken,
			RateLimit: cfg.Control.RateLimit,
			Gatherer:  prometheus.DefaultGatherer,
		})
		if err := control.Start(ctx); err != nil {
			logger.Error("starting control server", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("starting vista",
		"backend", cfg.API.BaseURL,
		"recorder", cfg.Audio.Recorder,
		"recognizer", cfg.Voice.Recognizer,
		"synthesizer", cfg.Speech.Synthesizer,
	)

	if cfg.Voice.Welcome {
		go func() {
			if err := voice.Announce(ctx, application.MsgWelcome); err != nil {
				logger.Warn("welcome announcement failed", "error", err)
			}
		}()
	}
	screen.LoadRecommendations(ctx)

	app := console.NewApp(screen, client, voice, os.Stdout, logger)
	runErr := app.Run(ctx, os.Stdin)

	if control != nil {
		if err := control.Stop(); err != nil {
			logger.Warn("stopping control server", "error", err)
		}
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	screen.Close(shutdownCtx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("console error", "error", runErr)
		os.Exit(1)
	}
}

func createRecorder(cfg config.AudioConfig, logger *slog.Logger) application.Recorder {
	switch cfg.Recorder {
	case "file":
		return audio.NewFileRecorder(cfg.ClipsDir, cfg.CaptureDir, logger)
	case "microphone":
		return audio.NewMicrophoneRecorder(cfg.CaptureDir, logger)
	default:
		logger.Warn("unknown recorder, using file", "recorder", cfg.Recorder)
		return audio.NewFileRecorder(cfg.ClipsDir, cfg.CaptureDir, logger)
	}
}

func createRecognizer(cfg config.VoiceConfig, client *vistaapi.Client, logger *slog.Logger) application.Recognizer {
	switch cfg.Recognizer {
	case "mock":
		return application.NewMockRecognizer(logger)
	case "remote":
		return vistaapi.NewRemoteRecognizer(client)
	default:
		logger.Warn("unknown recognizer, using mock", "recognizer", cfg.Recognizer)
		return application.NewMockRecognizer(logger)
	}
}

func createSynthesizer(cfg config.SpeechConfig, logger *slog.Logger) application.Synthesizer {
	perRune := parseDuration(cfg.PerRune, speech.DefaultPerRune, "speech.per_rune", logger)
	switch cfg.Synthesizer {
	case "console":
		return speech.NewConsoleSynthesizer(os.Stdout, perRune)
	case "command":
		return speech.NewCommandSynthesizer(cfg.Command, cfg.Args, logger)
	default:
		logger.Warn("unknown synthesizer, using console", "synthesizer", cfg.Synthesizer)
		return speech.NewConsoleSynthesizer(os.Stdout, perRune)
	}
}

func parseDuration(value string, fallback time.Duration, key string, logger *slog.Logger) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn("invalid duration, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return d
}

// setupLogger writes to stderr; stdout belongs to the console screen.
func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
