// Package transcribe turns the speech in a media file into time-aligned text
package transcribe

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/gnzdotmx/videonote/internal/model"
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/gnzdotmx/videonote/pkg/executor"
)

// Transcriber extracts audio with ffmpeg and runs a speech engine over it.
// The engine is loaded on first use and kept for the Transcriber's lifetime.
type Transcriber struct {
	exec       executor.Executor
	ffmpegPath string
	load       Loader

	mu     sync.Mutex
	engine Engine
}

// New creates a Transcriber. ffmpegPath defaults to "ffmpeg".
func New(exec executor.Executor, ffmpegPath string, load Loader) *Transcriber {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Transcriber{exec: exec, ffmpegPath: ffmpegPath, load: load}
}

// Transcribe returns the ordered segments spoken in mediaPath. An empty
// language lets the engine detect it.
func (t *Transcriber) Transcribe(ctx context.Context, mediaPath, language string) (model.Transcript, error) {
	if err := utils.ValidateFileExists(mediaPath); err != nil {
		return model.Transcript{}, err
	}

	engine, err := t.loadEngine(ctx)
	if err != nil {
		return model.Transcript{}, err
	}

	audioPath, err := t.extractAudio(ctx, mediaPath)
	if err != nil {
		return model.Transcript{}, err
	}
	defer func() {
		if err := os.Remove(audioPath); err != nil && !os.IsNotExist(err) {
			utils.LogWarning("Failed to remove temp audio %s: %v", audioPath, err)
		}
	}()

	segments, err := engine.Recognize(ctx, audioPath, language)
	if err != nil {
		return model.Transcript{}, err
	}

	utils.LogVerbose("Recognized %d segments", len(segments))
	return model.Transcript{Segments: segments}, nil
}

// loadEngine initializes the engine once. A failed load is not cached.
func (t *Transcriber) loadEngine(ctx context.Context) (Engine, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.engine != nil {
		return t.engine, nil
	}
	if t.load == nil {
		return nil, &utils.DependencyError{Name: "speech engine", Err: fmt.Errorf("no engine loader configured")}
	}

	engine, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	t.engine = engine
	return engine, nil
}

// extractAudio writes a 16kHz mono PCM copy of the media's audio to a temp file
func (t *Transcriber) extractAudio(ctx context.Context, mediaPath string) (string, error) {
	f, err := os.CreateTemp("", "videonote-audio-*.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create temp audio file: %w", err)
	}
	audioPath := f.Name()
	if err := f.Close(); err != nil {
		utils.LogWarning("Failed to close temp audio file: %v", err)
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", mediaPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		audioPath,
	}
	if _, err := t.exec.Run(ctx, t.ffmpegPath, args...); err != nil {
		if rmErr := os.Remove(audioPath); rmErr != nil && !os.IsNotExist(rmErr) {
			utils.LogWarning("Failed to remove temp audio %s: %v", audioPath, rmErr)
		}
		return "", fmt.Errorf("failed to extract audio from %s: %w", mediaPath, err)
	}

	return audioPath, nil
}
