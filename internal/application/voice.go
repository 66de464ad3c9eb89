package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"vista-nav/internal/domain"
)

// VoiceState is the lifecycle state derived from the capture and playback
// handles the service owns.
type VoiceState int

const (
	StateIdle VoiceState = iota
	StateCapturing
	StateSpeaking
	StateCapturingSpeaking
)

func (s VoiceState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateSpeaking:
		return "speaking"
	case StateCapturingSpeaking:
		return "capturing+speaking"
	default:
		return "unknown"
	}
}

func (s VoiceState) Capturing() bool {
	return s == StateCapturing || s == StateCapturingSpeaking
}

func (s VoiceState) Speaking() bool {
	return s == StateSpeaking || s == StateCapturingSpeaking
}

// Message keys understood by Announce.
const (
	MsgWelcome    = "welcome"
	MsgListening  = "listening"
	MsgProcessing = "processing"
	MsgRouteFound = "routeFound"
	MsgNoRoute    = "noRoute"
	MsgError      = "error"
)

var defaultMessages = map[string]string{
	MsgWelcome:    "VISTA에 오신 것을 환영합니다. 어떤 여행을 계획하고 계신가요?",
	MsgListening:  "말씀해 주세요.",
	MsgProcessing: "음성을 분석하고 있습니다.",
	MsgRouteFound: "맞춤 경로를 찾았습니다.",
	MsgNoRoute:    "경로를 찾을 수 없습니다. 다시 시도해 주세요.",
	MsgError:      "오류가 발생했습니다. 다시 시도해 주세요.",
}

type captureSession struct {
	handle Capture
}

// Playback is the handle of one in-flight utterance.
type Playback struct {
	text   string
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Done is closed once playback has finished, been stopped or failed.
func (p *Playback) Done() <-chan struct{} { return p.done }

// Wait blocks until playback ends and returns its error, if any.
func (p *Playback) Wait() error {
	<-p.done
	return p.err
}

// Stop cancels playback and waits for it to wind down.
func (p *Playback) Stop() {
	p.cancel()
	<-p.done
}

// VoiceService runs the record, recognize and speak lifecycle. Construct one
// per UI session; it owns all of its state.
type VoiceService struct {
	recorder   Recorder
	recognizer Recognizer
	synth      Synthesizer
	messages   map[string]string
	metrics    Metrics
	logger     *slog.Logger
	format     domain.CaptureFormat

	captureMu sync.Mutex
	capture   *captureSession

	// speakMu serializes StartSpeaking so replacement is atomic; mu guards playback.
	speakMu  sync.Mutex
	mu       sync.Mutex
	playback *Playback
}

// NewVoiceService returns an idle service; a nil metrics sink is allowed.
func NewVoiceService(
	recorder Recorder,
	recognizer Recognizer,
	synth Synthesizer,
	metrics Metrics,
	logger *slog.Logger,
) *VoiceService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &VoiceService{
		recorder:   recorder,
		recognizer: recognizer,
		synth:      synth,
		messages:   defaultMessages,
		metrics:    metrics,
		logger:     logger,
		format:     domain.DefaultCaptureFormat(),
	}
}

// Status reports the current lifecycle state.
func (v *VoiceService) Status() VoiceState {
	v.captureMu.Lock()
	capturing := v.capture != nil
	v.captureMu.Unlock()

	v.mu.Lock()
	speaking := v.playback != nil
	v.mu.Unlock()

	switch {
	case capturing && speaking:
		return StateCapturingSpeaking
	case capturing:
		return StateCapturing
	case speaking:
		return StateSpeaking
	default:
		return StateIdle
	}
}

// BeginCapture asks for permission and opens a capture in the fixed format.
func (v *VoiceService) BeginCapture(ctx context.Context) error {
	v.captureMu.Lock()
	defer v.captureMu.Unlock()

	if v.capture != nil {
		return fmt.Errorf("begin capture while capturing: %w", domain.ErrInvalidState)
	}

	v.logger.Info("requesting capture permission", "recorder", v.recorder.Name())
	granted, err := v.recorder.RequestPermission(ctx)
	if err != nil {
		return fmt.Errorf("requesting permission: %w", err)
	}
	if !granted {
		return domain.ErrPermissionDenied
	}

	handle, err := v.recorder.Start(ctx, v.format)
	if err != nil {
		return fmt.Errorf("starting capture: %w", err)
	}

	v.capture = &captureSession{handle: handle}
	v.metrics.CaptureStarted()
	v.logger.Info("capture started",
		"sampleRate", v.format.SampleRate,
		"channels", v.format.Channels,
	)
	return nil
}

// EndCapture finalizes the active capture and runs recognition on it. The
// service is Idle again before the artifact is finalized, so a racing second
// call fails fast with ErrInvalidState.
func (v *VoiceService) EndCapture(ctx context.Context) (*domain.Recognition, error) {
	v.captureMu.Lock()
	session := v.capture
	v.capture = nil
	v.captureMu.Unlock()

	if session == nil {
		return nil, fmt.Errorf("end capture while idle: %w", domain.ErrInvalidState)
	}

	ref, err := session.handle.Stop()
	if err != nil {
		return nil, fmt.Errorf("finalizing capture: %w", err)
	}
	v.logger.Info("capture saved", "uri", ref.URI, "duration", ref.Duration)

	result, err := v.recognizer.Recognize(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("recognizing: %w", err)
	}
	v.metrics.Recognized(result.Intent)
	v.logger.Info("recognized", "text", result.Text, "intent", result.Intent)

	return result, nil
}

// StartSpeaking cancels any playback in progress, waits for it to end and
// starts speaking text. Zero-valued options fall back to the defaults.
func (v *VoiceService) StartSpeaking(ctx context.Context, text string, opts domain.SpeechOptions) *Playback {
	v.speakMu.Lock()
	defer v.speakMu.Unlock()

	v.mu.Lock()
	prev := v.playback
	v.playback = nil
	v.mu.Unlock()

	if prev != nil {
		v.logger.Debug("interrupting playback", "text", prev.text)
		prev.Stop()
	}

	opts = withSpeechDefaults(opts)
	playCtx, cancel := context.WithCancel(ctx)
	p := &Playback{text: text, cancel: cancel, done: make(chan struct{})}

	v.mu.Lock()
	v.playback = p
	v.mu.Unlock()

	go v.play(playCtx, p, opts)
	return p
}

func (v *VoiceService) play(ctx context.Context, p *Playback, opts domain.SpeechOptions) {
	v.logger.Info("tts start", "text", p.text, "language", opts.Language)

	err := v.synth.Synthesize(ctx, p.text, opts)
	if err != nil && ctx.Err() != nil {
		// stopped: a killed synthesizer reports the cancellation in its own terms
		err = nil
	}

	v.mu.Lock()
	if v.playback == p {
		v.playback = nil
	}
	v.mu.Unlock()

	switch {
	case err != nil:
		v.metrics.PlaybackFailed()
		v.logger.Error("tts error", "error", err)
		p.err = fmt.Errorf("%w: %w", domain.ErrPlayback, err)
	case ctx.Err() != nil:
		v.logger.Info("tts stopped")
	default:
		v.logger.Info("tts done")
	}

	p.cancel()
	close(p.done)
}

// Speak speaks text and blocks until playback ends.
func (v *VoiceService) Speak(ctx context.Context, text string, opts domain.SpeechOptions) error {
	return v.StartSpeaking(ctx, text, opts).Wait()
}

func (v *VoiceService) Announce(ctx context.Context, key string) error {
	return v.AnnounceAs(ctx, key, domain.ToneInfo)
}

// AnnounceAs speaks a message from the announcement table. Keys that are not
// in the table are spoken as given.
func (v *VoiceService) AnnounceAs(ctx context.Context, key string, tone domain.Tone) error {
	text, ok := v.messages[key]
	if !ok {
		text = key
	}

	opts := domain.DefaultSpeechOptions()
	if tone == domain.ToneWarning {
		opts.Pitch = 1.2
	}
	if tone == domain.ToneUrgent {
		opts.Rate = 1.0
	}
	return v.Speak(ctx, text, opts)
}

func (v *VoiceService) StopSpeaking() {
	v.speakMu.Lock()
	defer v.speakMu.Unlock()

	v.mu.Lock()
	p := v.playback
	v.playback = nil
	v.mu.Unlock()

	if p != nil {
		p.Stop()
	}
}

// Cleanup returns the service to Idle from any state. It never fails.
func (v *VoiceService) Cleanup(_ context.Context) {
	v.captureMu.Lock()
	session := v.capture
	v.capture = nil
	v.captureMu.Unlock()

	if session != nil {
		if err := session.handle.Discard(); err != nil {
			v.logger.Error("voice cleanup: discarding capture", "error", err)
		}
	}

	v.StopSpeaking()
}

func withSpeechDefaults(opts domain.SpeechOptions) domain.SpeechOptions {
	def := domain.DefaultSpeechOptions()
	if opts.Language == "" {
		opts.Language = def.Language
	}
	if opts.Pitch == 0 {
		opts.Pitch = def.Pitch
	}
	if opts.Rate == 0 {
		opts.Rate = def.Rate
	}
	return opts
}
