// Package validator checks that the tools and settings a run needs are in place
package validator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gnzdotmx/videonote/internal/config"
	"github.com/gnzdotmx/videonote/internal/utils"
	"github.com/gnzdotmx/videonote/pkg/executor"
)

// ExternalTool represents an external command-line tool requirement
type ExternalTool struct {
	Name        string
	Binary      string
	VersionArgs []string
	Validate    func(output string) bool
	Required    bool
}

// Check is the outcome of one validation
type Check struct {
	Name     string
	OK       bool
	Required bool
	Detail   string
}

var calendarVersion = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}`)

// tools returns the tools a run with cfg depends on
func tools(cfg *config.Config) []ExternalTool {
	list := []ExternalTool{
		{
			Name:        "ffmpeg",
			Binary:      cfg.FFmpegPath,
			VersionArgs: []string{"-version"},
			Validate: func(output string) bool {
				return strings.Contains(output, "ffmpeg version")
			},
			Required: true,
		},
		{
			Name:        "yt-dlp",
			Binary:      cfg.YtDlpPath,
			VersionArgs: []string{"--version"},
			Validate: func(output string) bool {
				return calendarVersion.MatchString(strings.TrimSpace(output))
			},
			Required: true,
		},
		{
			Name:        config.EngineWhisper,
			Binary:      config.EngineWhisper,
			VersionArgs: []string{"--help"},
			Validate: func(output string) bool {
				return strings.Contains(output, "usage") || strings.Contains(output, "Usage") || strings.Contains(output, "options")
			},
		},
		{
			Name:        config.EngineWhisperCpp,
			Binary:      config.EngineWhisperCpp,
			VersionArgs: []string{"--help"},
			Validate: func(output string) bool {
				return strings.Contains(output, "usage") || strings.Contains(output, "options")
			},
		},
	}
	return list
}

// Validator runs the environment checks
type Validator struct {
	exec executor.Executor
	cfg  *config.Config
}

// New creates a Validator
func New(exec executor.Executor, cfg *config.Config) *Validator {
	return &Validator{exec: exec, cfg: cfg}
}

// Run performs every check and returns their outcomes. The error is set when
// a required check failed.
func (v *Validator) Run(ctx context.Context) ([]Check, error) {
	var checks []Check
	checks = append(checks, v.ValidateExternalTools(ctx)...)
	checks = append(checks, v.ValidateEnvVars()...)
	checks = append(checks, v.validateConfig())

	var failed []string
	for _, c := range checks {
		if c.Required && !c.OK {
			failed = append(failed, c.Name)
		}
	}
	if len(failed) > 0 {
		return checks, &utils.ValidationError{
			Field:   "environment",
			Message: fmt.Sprintf("failed checks: %s", strings.Join(failed, ", ")),
		}
	}
	return checks, nil
}

// ValidateExternalTools checks that each tool is on PATH and answers its version command
func (v *Validator) ValidateExternalTools(ctx context.Context) []Check {
	var checks []Check
	for _, tool := range tools(v.cfg) {
		check := Check{Name: tool.Name, Required: tool.Required || tool.Name == v.cfg.WhisperEngine}

		path, err := v.exec.LookPath(tool.Binary)
		if err != nil {
			check.Detail = (&utils.DependencyError{Name: tool.Binary, Err: err}).Error()
			checks = append(checks, check)
			utils.LogVerbose("Tool %s not found: %v", tool.Name, err)
			continue
		}

		output, err := v.exec.Run(ctx, path, tool.VersionArgs...)
		if err != nil {
			check.Detail = fmt.Sprintf("found at %s but failed to run: %v", path, err)
			checks = append(checks, check)
			continue
		}
		if !tool.Validate(string(output)) {
			check.Detail = fmt.Sprintf("found at %s but the output was not recognized", path)
			checks = append(checks, check)
			continue
		}

		check.OK = true
		check.Detail = path
		checks = append(checks, check)
		utils.LogVerbose("✓ %s found at %s", tool.Name, path)
	}
	return checks
}

// ValidateEnvVars checks the credentials the configured services need
func (v *Validator) ValidateEnvVars() []Check {
	key := v.cfg.OpenAIAPIKey
	if v.cfg.LLMProvider == config.ProviderGemini {
		key = v.cfg.GeminiAPIKey
	}

	// Don't print the actual value for security
	checks := []Check{{
		Name:     v.cfg.APIKeyEnv(),
		OK:       key != "",
		Required: true,
		Detail:   setOrMissing(key != ""),
	}}

	if v.cfg.MetadataSource == config.MetadataSourceYouTubeAPI {
		ok := v.cfg.YouTubeAPIKey != "" || v.cfg.YouTubeCredentialsFile != ""
		detail := setOrMissing(ok)
		if v.cfg.YouTubeCredentialsFile != "" && !utils.FileExists(v.cfg.YouTubeCredentialsFile) {
			ok = false
			detail = "credentials file not found: " + v.cfg.YouTubeCredentialsFile
		}
		checks = append(checks, Check{
			Name:     "YOUTUBE_API_KEY / YOUTUBE_CREDENTIALS_FILE",
			OK:       ok,
			Required: true,
			Detail:   detail,
		})
	}
	return checks
}

func (v *Validator) validateConfig() Check {
	check := Check{Name: "configuration", Required: true}
	if err := v.cfg.Validate(); err != nil {
		check.Detail = err.Error()
		return check
	}
	check.OK = true
	check.Detail = "valid"
	return check
}

func setOrMissing(ok bool) string {
	if ok {
		return "set"
	}
	return "not set"
}
