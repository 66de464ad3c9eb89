package domain

import "time"

// CaptureFormat describes how the recorder is asked to capture audio.
type CaptureFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Extension  string
}

func DefaultCaptureFormat() CaptureFormat {
	return CaptureFormat{
		SampleRate: 44100,
		Channels:   2,
		BitDepth:   16,
		Extension:  ".wav",
	}
}

// CaptureRef points at a finished capture artifact.
type CaptureRef struct {
	SessionID string
	URI       string
	Format    CaptureFormat
	Duration  time.Duration
}

const DefaultSpeechLanguage = "ko-KR"

type SpeechOptions struct {
	Language string
	Pitch    float64
	Rate     float64
	// Voice selects a synthesizer voice; empty means the system default.
	Voice string
}

func DefaultSpeechOptions() SpeechOptions {
	return SpeechOptions{
		Language: DefaultSpeechLanguage,
		Pitch:    1.0,
		Rate:     0.8,
	}
}

// Tone adjusts how an announcement is spoken.
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneUrgent  Tone = "urgent"
)
