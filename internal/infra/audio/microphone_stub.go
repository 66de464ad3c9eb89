//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"errors"
	"log/slog"

	"vista-nav/internal/application"
	"vista-nav/internal/domain"
)

var errNoMicrophone = errors.New("microphone recorder not available: rebuild with -tags portaudio")

// MicrophoneRecorder stub when portaudio is not available
type MicrophoneRecorder struct {
	logger *slog.Logger
}

func NewMicrophoneRecorder(_ string, logger *slog.Logger) *MicrophoneRecorder {
	return &MicrophoneRecorder{logger: logger}
}

func (m *MicrophoneRecorder) Name() string {
	return "microphone"
}

func (m *MicrophoneRecorder) RequestPermission(_ context.Context) (bool, error) {
	return false, errNoMicrophone
}

func (m *MicrophoneRecorder) Start(_ context.Context, _ domain.CaptureFormat) (application.Capture, error) {
	return nil, errNoMicrophone
}
