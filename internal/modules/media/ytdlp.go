package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gnzdotmx/videonote/internal/model"
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/gnzdotmx/videonote/pkg/executor"
)

// YtDlp implements Source and SubtitleFetcher with the yt-dlp CLI
type YtDlp struct {
	exec   executor.Executor
	binary string
}

// NewYtDlp creates a yt-dlp backed source. binary defaults to "yt-dlp".
func NewYtDlp(exec executor.Executor, binary string) *YtDlp {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YtDlp{exec: exec, binary: binary}
}

// Resolve implements Source
func (y *YtDlp) Resolve(ctx context.Context, identifier string) (*model.VideoMetadata, error) {
	if identifier == "" {
		return nil, &utils.ValidationError{Field: "identifier", Message: "video identifier is required"}
	}

	out, err := y.exec.Run(ctx, y.binary, "-J", "--no-warnings", "--skip-download", "--no-playlist", identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve video info: %w", err)
	}

	var meta model.VideoMetadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, utils.UpstreamError("yt-dlp", fmt.Errorf("failed to decode video info: %w", err))
	}
	if meta.ID == "" {
		return nil, &utils.ValidationError{Field: "id", Message: "video info has no id"}
	}

	utils.LogVerbose("Resolved video %s: %s", meta.ID, meta.Title)
	return &meta, nil
}

// Fetch implements Source
func (y *YtDlp) Fetch(ctx context.Context, identifier, dest string) error {
	args := []string{
		"-f", DownloadFormat,
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--no-progress",
		"--no-warnings",
		"-o", dest,
		identifier,
	}
	if _, err := y.exec.Run(ctx, y.binary, args...); err != nil {
		return fmt.Errorf("failed to download video: %w", err)
	}

	if !utils.FileExists(dest) {
		return utils.UpstreamError("yt-dlp", fmt.Errorf("download finished but %s was not created", dest))
	}
	return nil
}

// FetchSubtitles implements SubtitleFetcher. Uploaded tracks are preferred
// over automatic captions when both exist.
func (y *YtDlp) FetchSubtitles(ctx context.Context, identifier, language string) (string, bool, error) {
	if language == "" {
		return "", false, &utils.ValidationError{Field: "language", Message: "subtitle language is required"}
	}

	tmpDir, err := os.MkdirTemp("", "videonote-subs-")
	if err != nil {
		return "", false, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			utils.LogWarning("Failed to remove temp directory %s: %v", tmpDir, err)
		}
	}()

	for _, flag := range []string{"--write-subs", "--write-auto-subs"} {
		prefix := filepath.Join(tmpDir, flag[len("--write-"):])
		args := []string{
			"--skip-download",
			flag,
			"--sub-langs", language,
			"--sub-format", "vtt",
			"--no-playlist",
			"--no-warnings",
			"-o", prefix,
			identifier,
		}
		if _, err := y.exec.Run(ctx, y.binary, args...); err != nil {
			return "", false, fmt.Errorf("failed to fetch subtitles: %w", err)
		}

		matches, err := filepath.Glob(prefix + ".*.vtt")
		if err != nil {
			return "", false, fmt.Errorf("failed to list subtitles: %w", err)
		}
		if len(matches) == 0 {
			continue
		}
		sort.Strings(matches)

		data, err := os.ReadFile(matches[0])
		if err != nil {
			return "", false, fmt.Errorf("failed to read subtitles: %w", err)
		}
		return string(data), true, nil
	}

	return "", false, nil
}
