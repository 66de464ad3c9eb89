package speech

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"vista-nav/internal/domain"
)

// DefaultPerRune approximates how long one character takes to speak at rate 1.0.
const DefaultPerRune = 60 * time.Millisecond

// ConsoleSynthesizer writes utterances to a terminal and holds for roughly as
// long as speaking them would take.
type ConsoleSynthesizer struct {
	out     io.Writer
	perRune time.Duration
	mu      sync.Mutex
}

func NewConsoleSynthesizer(out io.Writer, perRune time.Duration) *ConsoleSynthesizer {
	return &ConsoleSynthesizer{out: out, perRune: perRune}
}

func (c *ConsoleSynthesizer) Synthesize(ctx context.Context, text string, opts domain.SpeechOptions) error {
	c.mu.Lock()
	_, err := fmt.Fprintf(c.out, "🔊 [%s] %s\n", opts.Language, text)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("writing utterance: %w", err)
	}

	d := utteranceDuration(text, c.perRune, opts.Rate)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func utteranceDuration(text string, perRune time.Duration, rate float64) time.Duration {
	if rate <= 0 {
		rate = 1
	}
	return time.Duration(float64(utf8.RuneCountInString(text)) * float64(perRune) / rate)
}
