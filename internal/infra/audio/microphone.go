//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gordonklaus/portaudio"

	"vista-nav/internal/application"
	"vista-nav/internal/domain"
)

const framesPerBuffer = 1024

// MicrophoneRecorder captures from the default input device through portaudio.
type MicrophoneRecorder struct {
	dir    string
	logger *slog.Logger
}

func NewMicrophoneRecorder(dir string, logger *slog.Logger) *MicrophoneRecorder {
	return &MicrophoneRecorder{dir: dir, logger: logger}
}

func (m *MicrophoneRecorder) Name() string {
	return "microphone"
}

// RequestPermission reports whether a default input device exists.
func (m *MicrophoneRecorder) RequestPermission(_ context.Context) (bool, error) {
	if err := portaudio.Initialize(); err != nil {
		return false, fmt.Errorf("initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		m.logger.Warn("no default input device", "error", err)
		return false, nil
	}
	return dev.MaxInputChannels > 0, nil
}

func (m *MicrophoneRecorder) Start(_ context.Context, format domain.CaptureFormat) (application.Capture, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}

	c := &micCapture{
		id:     uuid.NewString(),
		dir:    m.dir,
		format: format,
		logger: m.logger,
		frame:  make([]int16, framesPerBuffer*format.Channels),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	stream, err := portaudio.OpenDefaultStream(format.Channels, 0, float64(format.SampleRate), framesPerBuffer, c.frame)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("starting stream: %w", err)
	}
	c.stream = stream

	go c.read()

	m.logger.Info("microphone started", "session", c.id, "sampleRate", format.SampleRate)
	return c, nil
}

type micCapture struct {
	id     string
	dir    string
	format domain.CaptureFormat
	logger *slog.Logger
	stream *portaudio.Stream
	frame  []int16

	mu      sync.Mutex
	samples []int16
	readErr error

	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func (c *micCapture) read() {
	defer close(c.done)
	for {
		select {
		case <-c.quit:
			return
		default:
		}

		if err := c.stream.Read(); err != nil {
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		c.samples = append(c.samples, c.frame...)
		c.mu.Unlock()
	}
}

func (c *micCapture) release() {
	c.once.Do(func() {
		close(c.quit)
		<-c.done
		c.stream.Stop()
		c.stream.Close()
		portaudio.Terminate()
	})
}

func (c *micCapture) Stop() (domain.CaptureRef, error) {
	c.release()

	c.mu.Lock()
	samples, readErr := c.samples, c.readErr
	c.mu.Unlock()

	if readErr != nil && len(samples) == 0 {
		return domain.CaptureRef{}, fmt.Errorf("reading from stream: %w", readErr)
	}

	path, err := writeWav(c.dir, c.id, samples, c.format.SampleRate, c.format.Channels)
	if err != nil {
		return domain.CaptureRef{}, err
	}

	return domain.CaptureRef{
		SessionID: c.id,
		URI:       path,
		Format:    c.format,
		Duration:  pcmDuration(len(samples), c.format.SampleRate, c.format.Channels),
	}, nil
}

func (c *micCapture) Discard() error {
	c.release()
	return nil
}
