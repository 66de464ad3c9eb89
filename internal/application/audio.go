package application

import (
	"context"

	"vista-nav/internal/domain"
)

// Recorder is the device audio-capture capability.
type Recorder interface {
	Name() string
	// RequestPermission reports whether capture is allowed on this device.
	RequestPermission(ctx context.Context) (bool, error)
	Start(ctx context.Context, format domain.CaptureFormat) (Capture, error)
}

// Capture is an open capture session.
type Capture interface {
	// Stop finalizes the capture, releases the device and returns the artifact.
	Stop() (domain.CaptureRef, error)
	// Discard releases the device and drops whatever was captured.
	Discard() error
}
