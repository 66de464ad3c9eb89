package application

import (
	"context"

	"vista-nav/internal/domain"
)

// Synthesizer speaks text. Cancelling ctx stops playback; implementations
// return nil or ctx.Err() in that case.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts domain.SpeechOptions) error
}

// Recognizer turns a finished capture into a recognition result.
type Recognizer interface {
	Recognize(ctx context.Context, ref domain.CaptureRef) (*domain.Recognition, error)
}
