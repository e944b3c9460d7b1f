// Package frames extracts still images from media files with ffmpeg
package frames

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/gnzdotmx/videonote/pkg/executor"
	"golang.org/x/sync/errgroup"
)

const (
	fullFrameQuality    = 5
	croppedFrameQuality = 2
)

// Position is a pixel coordinate in the frame
type Position struct {
	X int
	Y int
}

// Region is a crop rectangle. TopLeft must be strictly above and left of BottomRight.
type Region struct {
	TopLeft     Position
	BottomRight Position
}

// Validate checks the corner ordering. Frame bounds are not checked.
func (r Region) Validate() error {
	if r.TopLeft.X < r.BottomRight.X && r.TopLeft.Y < r.BottomRight.Y {
		return nil
	}
	return &utils.ValidationError{
		Field: "region",
		Message: fmt.Sprintf("top-left (%d,%d) must be strictly above and left of bottom-right (%d,%d)",
			r.TopLeft.X, r.TopLeft.Y, r.BottomRight.X, r.BottomRight.Y),
	}
}

func (r Region) cropFilter() string {
	w := r.BottomRight.X - r.TopLeft.X
	h := r.BottomRight.Y - r.TopLeft.Y
	return fmt.Sprintf("crop=%d:%d:%d:%d", w, h, r.TopLeft.X, r.TopLeft.Y)
}

// Extractor produces JPEG frames from a media file
type Extractor struct {
	exec        executor.Executor
	ffmpegPath  string
	concurrency int
}

// Option configures an Extractor
type Option func(*Extractor)

// WithConcurrency sets how many frames ExtractMany decodes at once
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewExtractor creates an Extractor. ffmpegPath defaults to "ffmpeg".
func NewExtractor(exec executor.Executor, ffmpegPath string, opts ...Option) *Extractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	e := &Extractor{exec: exec, ffmpegPath: ffmpegPath, concurrency: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the frame at timestamp seconds, cropped to region when non-nil
func (e *Extractor) Extract(ctx context.Context, mediaPath string, timestamp float64, region *Region) ([]byte, error) {
	if err := e.validate(mediaPath, region); err != nil {
		return nil, err
	}
	return e.extract(ctx, mediaPath, timestamp, region)
}

// ExtractMany returns one frame per timestamp in input order. The first
// failure fails the whole batch.
func (e *Extractor) ExtractMany(ctx context.Context, mediaPath string, timestamps []float64, region *Region) ([][]byte, error) {
	if len(timestamps) == 0 {
		return nil, &utils.ValidationError{Field: "timestamps", Message: "timestamps list cannot be empty"}
	}
	if err := e.validate(mediaPath, region); err != nil {
		return nil, err
	}

	results := make([][]byte, len(timestamps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, ts := range timestamps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := e.extract(gctx, mediaPath, ts, region)
			if err != nil {
				return err
			}
			results[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Extractor) validate(mediaPath string, region *Region) error {
	if err := utils.ValidateFileExists(mediaPath); err != nil {
		return err
	}
	if region != nil {
		return region.Validate()
	}
	return nil
}

func (e *Extractor) extract(ctx context.Context, mediaPath string, timestamp float64, region *Region) ([]byte, error) {
	quality := fullFrameQuality
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", strconv.FormatFloat(timestamp, 'f', -1, 64),
		"-i", mediaPath,
		"-frames:v", "1",
	}
	if region != nil {
		args = append(args, "-vf", region.cropFilter())
		quality = croppedFrameQuality
	}
	args = append(args,
		"-f", "image2",
		"-vcodec", "mjpeg",
		"-q:v", strconv.Itoa(quality),
		"pipe:1",
	)

	data, err := e.exec.Run(ctx, e.ffmpegPath, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to extract frame at %.2fs from %s: %w", timestamp, mediaPath, err)
	}
	if len(data) == 0 {
		return nil, &utils.ProcessError{
			Command: e.ffmpegPath,
			Err:     errors.New("no frame decoded at " + strconv.FormatFloat(timestamp, 'f', 2, 64) + "s"),
		}
	}

	utils.LogDebug("Extracted %d bytes at %.2fs", len(data), timestamp)
	return data, nil
}
