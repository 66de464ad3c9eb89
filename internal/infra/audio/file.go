package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vista-nav/internal/application"
	"vista-nav/internal/domain"
)

// maxSilence caps the length of a synthesized silent capture.
const maxSilence = 10 * time.Second

var clipExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".webm": true,
}

// FileRecorder stands in for a microphone. Each capture yields the next
// unused clip from clipsDir; when none are left it writes a silent WAV as
// long as the capture was held open.
type FileRecorder struct {
	clipsDir string
	outDir   string
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	processed map[string]bool
}

func NewFileRecorder(clipsDir, outDir string, logger *slog.Logger) *FileRecorder {
	return &FileRecorder{
		clipsDir:  clipsDir,
		outDir:    outDir,
		logger:    logger,
		now:       time.Now,
		processed: make(map[string]bool),
	}
}

func (f *FileRecorder) Name() string {
	return "file"
}

func (f *FileRecorder) RequestPermission(_ context.Context) (bool, error) {
	if err := os.MkdirAll(f.outDir, 0755); err != nil {
		return false, fmt.Errorf("creating capture dir: %w", err)
	}
	return true, nil
}

func (f *FileRecorder) Start(_ context.Context, format domain.CaptureFormat) (application.Capture, error) {
	return &fileCapture{
		recorder: f,
		id:       uuid.NewString(),
		format:   format,
		started:  f.now(),
	}, nil
}

// nextClip returns the first unused clip in name order, or "" when there is none.
func (f *FileRecorder) nextClip() (string, error) {
	if f.clipsDir == "" {
		return "", nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.clipsDir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading clips dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !clipExtensions[filepath.Ext(entry.Name())] {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(f.clipsDir, name)
		if f.processed[path] {
			continue
		}
		f.processed[path] = true
		return path, nil
	}
	return "", nil
}

type fileCapture struct {
	recorder *FileRecorder
	id       string
	format   domain.CaptureFormat
	started  time.Time

	mu       sync.Mutex
	finished bool
}

func (c *fileCapture) finish() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return fmt.Errorf("capture %s already finished", c.id)
	}
	c.finished = true
	return nil
}

func (c *fileCapture) Stop() (domain.CaptureRef, error) {
	if err := c.finish(); err != nil {
		return domain.CaptureRef{}, err
	}
	elapsed := c.recorder.now().Sub(c.started)

	clip, err := c.recorder.nextClip()
	if err != nil {
		return domain.CaptureRef{}, err
	}
	if clip != "" {
		c.recorder.logger.Info("replaying clip", "session", c.id, "path", clip)
		return domain.CaptureRef{
			SessionID: c.id,
			URI:       clip,
			Format:    c.format,
			Duration:  elapsed,
		}, nil
	}

	if elapsed > maxSilence {
		elapsed = maxSilence
	}
	frames := int(elapsed * time.Duration(c.format.SampleRate) / time.Second)
	samples := make([]int16, frames*c.format.Channels)

	path, err := writeWav(c.recorder.outDir, c.id, samples, c.format.SampleRate, c.format.Channels)
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

func (c *fileCapture) Discard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finished = true
	return nil
}
