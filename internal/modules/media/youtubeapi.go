package media

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gnzdotmx/videonote/internal/model"
	"github.com/gnzdotmx/videonote/internal/utils"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubeAPI resolves metadata through the YouTube Data API and hands
// downloads to another Source. It has no subtitle support.
type YouTubeAPI struct {
	service    *youtube.Service
	downloader Source
}

// YouTubeClientOptions builds client options from a service-account
// credentials file or, failing that, an API key
func YouTubeClientOptions(ctx context.Context, apiKey, credentialsFile string) ([]option.ClientOption, error) {
	if credentialsFile != "" {
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &utils.NotFoundError{Path: credentialsFile, Err: err}
			}
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}

		conf, err := google.JWTConfigFromJSON(data, youtube.YoutubeReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
		}
		return []option.ClientOption{option.WithTokenSource(conf.TokenSource(ctx))}, nil
	}

	if apiKey != "" {
		return []option.ClientOption{option.WithAPIKey(apiKey)}, nil
	}

	return nil, &utils.ValidationError{
		Field:   "YOUTUBE_API_KEY",
		Message: "either YOUTUBE_API_KEY or YOUTUBE_CREDENTIALS_FILE must be set",
	}
}

// NewYouTubeAPI creates a YouTube Data API source. downloader performs Fetch.
func NewYouTubeAPI(ctx context.Context, downloader Source, opts ...option.ClientOption) (*YouTubeAPI, error) {
	if downloader == nil {
		return nil, errors.New("a downloader is required")
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &YouTubeAPI{service: service, downloader: downloader}, nil
}

// Resolve implements Source
func (y *YouTubeAPI) Resolve(ctx context.Context, identifier string) (*model.VideoMetadata, error) {
	videoID, err := ExtractVideoID(identifier)
	if err != nil {
		return nil, &utils.ValidationError{Field: "identifier", Message: "unsupported video identifier", Err: err}
	}

	resp, err := y.service.Videos.
		List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, utils.UpstreamError("youtube", err)
	}
	if len(resp.Items) == 0 {
		return nil, utils.UpstreamError("youtube", fmt.Errorf("video %s not found", videoID))
	}

	item := resp.Items[0]
	meta := &model.VideoMetadata{
		ID:         item.Id,
		WebpageURL: "https://www.youtube.com/watch?v=" + item.Id,
	}

	if s := item.Snippet; s != nil {
		meta.Title = s.Title
		meta.Channel = s.ChannelTitle
		meta.Description = s.Description
		meta.Thumbnail = bestThumbnail(s.Thumbnails)
		if s.CategoryId != "" {
			meta.Categories = []string{y.categoryName(ctx, s.CategoryId)}
		}
	}

	if cd := item.ContentDetails; cd != nil && cd.Duration != "" {
		seconds, err := ParseISODuration(cd.Duration)
		if err != nil {
			utils.LogWarning("Ignoring video duration: %v", err)
		} else {
			meta.Duration = &seconds
		}
	}

	if st := item.Statistics; st != nil {
		views, likes := int64(st.ViewCount), int64(st.LikeCount)
		meta.ViewCount = &views
		meta.LikeCount = &likes
	}

	return meta, nil
}

// Fetch implements Source
func (y *YouTubeAPI) Fetch(ctx context.Context, identifier, dest string) error {
	return y.downloader.Fetch(ctx, identifier, dest)
}

// categoryName looks up the category title, falling back to its ID
func (y *YouTubeAPI) categoryName(ctx context.Context, categoryID string) string {
	resp, err := y.service.VideoCategories.
		List([]string{"snippet"}).
		Id(categoryID).
		Context(ctx).
		Do()
	if err != nil || len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		utils.LogDebug("Category %s lookup failed: %v", categoryID, err)
		return categoryID
	}
	return resp.Items[0].Snippet.Title
}

func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
