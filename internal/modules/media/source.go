// Package media resolves video metadata and downloads media for a remote identifier
package media

import (
	"context"

	"github.com/gnzdotmx/videonote/internal/model"
)

// DownloadFormat selects the best mp4 video at or below 480p plus m4a audio
const DownloadFormat = "bestvideo[ext=mp4][height<=480]+bestaudio[ext=m4a]/best[ext=mp4][height<=480]"

// Source acquires metadata and media bytes for a video identifier
type Source interface {
	// Resolve probes metadata without downloading anything
	Resolve(ctx context.Context, identifier string) (*model.VideoMetadata, error)

	// Fetch downloads the media muxed into a single mp4 at dest
	Fetch(ctx context.Context, identifier, dest string) error
}

// SubtitleFetcher is implemented by sources that can read subtitle tracks
type SubtitleFetcher interface {
	// FetchSubtitles returns the WebVTT track for language. ok is false
	// when the video has no track in that language.
	FetchSubtitles(ctx context.Context, identifier, language string) (text string, ok bool, err error)
}

// Ensure the adapters implement the expected capabilities
var (
	_ Source          = (*YtDlp)(nil)
	_ SubtitleFetcher = (*YtDlp)(nil)
	_ Source          = (*YouTubeAPI)(nil)
)
