// Package highlight picks the moments of a video worth a screenshot
package highlight

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gnzdotmx/videonote/internal/model"
	"github.com/gnzdotmx/videonote/internal/services/llm"
	"github.com/gnzdotmx/videonote/internal/utils"
)

var timesSchema = llm.Schema{
	Name:        "highlights",
	Description: "Timestamps in seconds where a screenshot would support the summary",
	Fields: []llm.Field{
		{Name: "timestamps", Type: llm.FieldNumberArray, Description: "Timestamps in seconds"},
	},
}

type timesResult struct {
	Timestamps *[]float64 `json:"timestamps"`
}

// Selector asks a generation service for representative timestamps
type Selector struct {
	llm    llm.Generator
	model  string
	prompt string
}

// New creates a Selector
func New(gen llm.Generator, model, prompt string) *Selector {
	return &Selector{llm: gen, model: model, prompt: prompt}
}

// Select returns the proposed timestamps in the order the service gave them.
// Values are not deduplicated or checked against the video duration.
func (s *Selector) Select(ctx context.Context, meta *model.VideoMetadata, summary string, transcript model.Transcript) ([]float64, error) {
	if meta == nil {
		return nil, &utils.ValidationError{Field: "metadata", Message: "is required"}
	}

	req := llm.Request{
		Model:  s.model,
		System: s.prompt,
		Messages: []llm.Message{
			{Text: meta.Block()},
			{Text: fmt.Sprintf("Video Summary:\n```\n%s\n```\n", summary)},
			{Text: transcript.Block()},
		},
		Schema: &timesSchema,
	}

	utils.LogVerbose("Requesting highlight timestamps from %s", s.model)
	raw, err := s.llm.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var res timesResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, utils.UpstreamError("highlight selection", fmt.Errorf("invalid result: %w", err))
	}
	if res.Timestamps == nil {
		return nil, utils.UpstreamError("highlight selection", fmt.Errorf("result has no timestamps"))
	}

	utils.LogVerbose("Selected %d highlights", len(*res.Timestamps))
	return *res.Timestamps, nil
}
