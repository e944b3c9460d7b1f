// Package config loads runtime settings from the environment
package config

import (
	"fmt"
	"strings"

	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/spf13/viper"
)

// Supported option values
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	EngineWhisper    = "whisper"
	EngineWhisperCpp = "whisper-cli"

	HighlightCheckDirectory   = "directory"
	HighlightCheckSummaryHash = "summary-hash"

	MetadataSourceYtDlp      = "ytdlp"
	MetadataSourceYouTubeAPI = "youtube-api"

	// DefaultModel is used when no model override is set
	DefaultModel = "gpt-4.1"
)

// Config holds every runtime option. Field tags name the environment variable.
type Config struct {
	TimePickerModel string `mapstructure:"time_picker_model"`
	SummitNoteModel string `mapstructure:"summit_note_model"`

	LLMProvider   string `mapstructure:"llm_provider"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`
	GeminiAPIKey  string `mapstructure:"gemini_api_key"`

	ResultsDir  string `mapstructure:"results_dir"`
	FFmpegPath  string `mapstructure:"ffmpeg_path"`
	YtDlpPath   string `mapstructure:"ytdlp_path"`
	PromptsFile string `mapstructure:"prompts_file"`

	WhisperEngine      string `mapstructure:"whisper_engine"`
	WhisperModel       string `mapstructure:"whisper_model"`
	TranscribeLanguage string `mapstructure:"transcribe_language"`

	ScreenshotConcurrency int    `mapstructure:"screenshot_concurrency"`
	HighlightCheck        string `mapstructure:"highlight_check"`
	SubtitleLanguage      string `mapstructure:"subtitle_language"`

	MetadataSource         string `mapstructure:"metadata_source"`
	YouTubeAPIKey          string `mapstructure:"youtube_api_key"`
	YouTubeCredentialsFile string `mapstructure:"youtube_credentials_file"`
}

var defaults = map[string]interface{}{
	"time_picker_model":        DefaultModel,
	"summit_note_model":        DefaultModel,
	"llm_provider":             ProviderOpenAI,
	"openai_api_key":           "",
	"openai_base_url":          "",
	"gemini_api_key":           "",
	"results_dir":              "./results",
	"ffmpeg_path":              "ffmpeg",
	"ytdlp_path":               "yt-dlp",
	"prompts_file":             "",
	"whisper_engine":           EngineWhisper,
	"whisper_model":            "large-v3-turbo",
	"transcribe_language":      "",
	"screenshot_concurrency":   1,
	"highlight_check":          HighlightCheckDirectory,
	"subtitle_language":        "",
	"metadata_source":          MetadataSourceYtDlp,
	"youtube_api_key":          "",
	"youtube_credentials_file": "",
}

// Load reads the configuration from the process environment and validates it
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads the configuration without validating option values
func Read() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.HighlightCheck = strings.ToLower(strings.TrimSpace(cfg.HighlightCheck))
	cfg.MetadataSource = strings.ToLower(strings.TrimSpace(cfg.MetadataSource))

	resultsDir, err := utils.ExpandHomeDir(cfg.ResultsDir)
	if err != nil {
		return nil, err
	}
	cfg.ResultsDir = resultsDir

	return &cfg, nil
}

// Validate checks option values that have a fixed set of choices
func (c *Config) Validate() error {
	if err := utils.ValidateOneOf("LLM_PROVIDER", c.LLMProvider, []string{ProviderOpenAI, ProviderGemini}); err != nil {
		return err
	}
	if err := utils.ValidateOneOf("WHISPER_ENGINE", c.WhisperEngine, []string{EngineWhisper, EngineWhisperCpp}); err != nil {
		return err
	}
	if err := utils.ValidateOneOf("HIGHLIGHT_CHECK", c.HighlightCheck, []string{HighlightCheckDirectory, HighlightCheckSummaryHash}); err != nil {
		return err
	}
	if err := utils.ValidateOneOf("METADATA_SOURCE", c.MetadataSource, []string{MetadataSourceYtDlp, MetadataSourceYouTubeAPI}); err != nil {
		return err
	}
	if c.ScreenshotConcurrency < 1 {
		return &utils.ValidationError{
			Field:   "SCREENSHOT_CONCURRENCY",
			Message: fmt.Sprintf("must be at least 1, got %d", c.ScreenshotConcurrency),
		}
	}
	if c.ResultsDir == "" {
		return &utils.ValidationError{Field: "RESULTS_DIR", Message: "results directory is required"}
	}
	return nil
}

// APIKeyEnv returns the environment variable holding the active provider's key
func (c *Config) APIKeyEnv() string {
	if c.LLMProvider == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}
