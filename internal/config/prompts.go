package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/gnzdotmx/videonote/internal/utils"
	"gopkg.in/yaml.v3"
)

// Prompts holds the system instructions for every generation call
type Prompts struct {
	Summarizer string `yaml:"summarizer"`
	Enhancer   string `yaml:"enhancer"`
	TimePicker string `yaml:"timePicker"`
}

const defaultSummarizerPrompt = `You are a professional video summarizer who creates concise, informative markdown summaries that capture the key insights, main points, and essential context of the video.

You don't need to emphasize in your content that this is a summary of the video.`

const defaultEnhancerPrompt = `Based on the original summary content, extend and enrich it by incorporating information from the video transcript and appropriately selected user-provided images. Evaluate each image to determine its relevance and value before including it in the Markdown summary, and skip images that are redundant with one already placed. Keep the original summary as the base text instead of rewriting it from scratch. There is no need to mention that the content is enhanced or expanded.

You may insert images only within the content, never in the headings. If the summary includes bullet points, do not place images at the beginning of a bullet point; instead, insert them on a new line within the list. Never place images inside call-out blocks or front matter.

Please select appropriate images in suitable places and insert them using Markdown syntax with the file path given for each image.`

const defaultTimePickerPrompt = `You are a professional content analyst. Based on the provided summary and video transcript, identify specific timestamps in the video where taking screenshots would most enhance or supplement the summary. Choose moments whose visuals would be valuable in reinforcing or clarifying the summary content. Return the timestamps in seconds.`

// DefaultPrompts returns the built-in prompt set
func DefaultPrompts() Prompts {
	return Prompts{
		Summarizer: defaultSummarizerPrompt,
		Enhancer:   defaultEnhancerPrompt,
		TimePicker: defaultTimePickerPrompt,
	}
}

// LoadPrompts returns the default prompts overridden by any non-empty key in the YAML file at path
func LoadPrompts(path string) (Prompts, error) {
	prompts := DefaultPrompts()
	if path == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return prompts, &utils.NotFoundError{Path: path, Err: err}
		}
		return prompts, fmt.Errorf("failed to read prompt file: %w", err)
	}

	var override Prompts
	if err := yaml.Unmarshal(data, &override); err != nil {
		return prompts, fmt.Errorf("failed to parse prompt file: %w", err)
	}

	if s := strings.TrimSpace(override.Summarizer); s != "" {
		prompts.Summarizer = s
	}
	if s := strings.TrimSpace(override.Enhancer); s != "" {
		prompts.Enhancer = s
	}
	if s := strings.TrimSpace(override.TimePicker); s != "" {
		prompts.TimePicker = s
	}

	utils.LogVerbose("Loaded prompt overrides from %s", path)
	return prompts, nil
}
