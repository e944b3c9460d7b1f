package validator

import (
	"context"
	"errors"
	"testing"

	"github.com/gnzdotmx/videonote/internal/config"
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor answers version commands from a table of installed tools
type fakeExecutor struct {
	installed map[string]string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if _, ok := f.installed[file]; ok {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *fakeExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	for tool, out := range f.installed {
		if name == "/usr/bin/"+tool {
			return []byte(out), nil
		}
	}
	return nil, &utils.ProcessError{Command: name, Err: errors.New("exit status 1")}
}

func testConfig() *config.Config {
	return &config.Config{
		LLMProvider:           config.ProviderOpenAI,
		OpenAIAPIKey:          "sk-test",
		ResultsDir:            "./results",
		FFmpegPath:            "ffmpeg",
		YtDlpPath:             "yt-dlp",
		WhisperEngine:         config.EngineWhisper,
		ScreenshotConcurrency: 1,
		HighlightCheck:        config.HighlightCheckDirectory,
		MetadataSource:        config.MetadataSourceYtDlp,
	}
}

func allInstalled() *fakeExecutor {
	return &fakeExecutor{installed: map[string]string{
		"ffmpeg":  "ffmpeg version 6.1.1 Copyright (c) 2000-2023",
		"yt-dlp":  "2024.08.06\n",
		"whisper": "usage: whisper [-h] [--model MODEL] audio",
	}}
}

func findCheck(t *testing.T, checks []Check, name string) Check {
	for _, c := range checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %s not found", name)
	return Check{}
}

func TestRun_AllPresent(t *testing.T) {
	checks, err := New(allInstalled(), testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, findCheck(t, checks, "ffmpeg").OK)
	assert.True(t, findCheck(t, checks, "yt-dlp").OK)
	assert.True(t, findCheck(t, checks, "whisper").OK)
	assert.True(t, findCheck(t, checks, "OPENAI_API_KEY").OK)
	assert.True(t, findCheck(t, checks, "configuration").OK)

	cpp := findCheck(t, checks, "whisper-cli")
	assert.False(t, cpp.OK)
	assert.False(t, cpp.Required)
}

func TestRun_MissingRequiredTool(t *testing.T) {
	exec := allInstalled()
	delete(exec.installed, "ffmpeg")

	checks, err := New(exec, testConfig()).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrValidation))
	assert.Contains(t, err.Error(), "ffmpeg")
	assert.Contains(t, findCheck(t, checks, "ffmpeg").Detail, "not available")
}

func TestRun_UnrecognizedVersionOutput(t *testing.T) {
	exec := allInstalled()
	exec.installed["yt-dlp"] = "command not understood"

	_, err := New(exec, testConfig()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yt-dlp")
}

func TestRun_ConfiguredEngineIsRequired(t *testing.T) {
	cfg := testConfig()
	cfg.WhisperEngine = config.EngineWhisperCpp

	checks, err := New(allInstalled(), cfg).Run(context.Background())
	require.Error(t, err)
	assert.True(t, findCheck(t, checks, "whisper-cli").Required)
	assert.False(t, findCheck(t, checks, "whisper").Required)
}

func TestValidateEnvVars_GeminiKey(t *testing.T) {
	cfg := testConfig()
	cfg.LLMProvider = config.ProviderGemini

	checks := New(allInstalled(), cfg).ValidateEnvVars()
	c := findCheck(t, checks, "GEMINI_API_KEY")
	assert.False(t, c.OK)
	assert.Equal(t, "not set", c.Detail)

	cfg.GeminiAPIKey = "g-key"
	checks = New(allInstalled(), cfg).ValidateEnvVars()
	assert.True(t, findCheck(t, checks, "GEMINI_API_KEY").OK)
}

func TestValidateEnvVars_YouTubeAPI(t *testing.T) {
	cfg := testConfig()
	cfg.MetadataSource = config.MetadataSourceYouTubeAPI

	checks := New(allInstalled(), cfg).ValidateEnvVars()
	assert.False(t, findCheck(t, checks, "YOUTUBE_API_KEY / YOUTUBE_CREDENTIALS_FILE").OK)

	cfg.YouTubeCredentialsFile = "/does/not/exist.json"
	checks = New(allInstalled(), cfg).ValidateEnvVars()
	c := findCheck(t, checks, "YOUTUBE_API_KEY / YOUTUBE_CREDENTIALS_FILE")
	assert.False(t, c.OK)
	assert.Contains(t, c.Detail, "credentials file not found")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.HighlightCheck = "sometimes"

	checks, err := New(allInstalled(), cfg).Run(context.Background())
	require.Error(t, err)
	assert.False(t, findCheck(t, checks, "configuration").OK)
	assert.Contains(t, findCheck(t, checks, "configuration").Detail, "HIGHLIGHT_CHECK")
}
