package speech

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"vista-nav/internal/domain"
)

const (
	espeakBasePitch = 50
	espeakBaseSpeed = 175
)

// CommandSynthesizer speaks through an espeak-compatible command line tool.
// Cancelling the context kills the process.
type CommandSynthesizer struct {
	bin    string
	extra  []string
	logger *slog.Logger
}

func NewCommandSynthesizer(bin string, extra []string, logger *slog.Logger) *CommandSynthesizer {
	if bin == "" {
		bin = "espeak-ng"
	}
	return &CommandSynthesizer{bin: bin, extra: extra, logger: logger}
}

func (c *CommandSynthesizer) Synthesize(ctx context.Context, text string, opts domain.SpeechOptions) error {
	args := append(append([]string(nil), c.extra...), commandArgs(text, opts)...)

	cmd := exec.CommandContext(ctx, c.bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("running tts command", "bin", c.bin, "args", args)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w: %s", c.bin, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// commandArgs maps speech options onto espeak flags: -v voice, -p pitch
// (0-99, 50 is neutral) and -s words per minute. The text follows "--"
// so a leading dash is not read as a flag.
func commandArgs(text string, opts domain.SpeechOptions) []string {
	voice := opts.Voice
	if voice == "" {
		voice = strings.ToLower(strings.SplitN(opts.Language, "-", 2)[0])
	}

	pitch := int(math.Round(espeakBasePitch * opts.Pitch))
	if pitch > 99 {
		pitch = 99
	}
	if pitch < 0 {
		pitch = 0
	}

	args := make([]string, 0, 8)
	if voice != "" {
		args = append(args, "-v", voice)
	}
	args = append(args,
		"-p", strconv.Itoa(pitch),
		"-s", strconv.Itoa(int(math.Round(espeakBaseSpeed*opts.Rate))),
		"--", text,
	)
	return args
}
