// Package narrative writes markdown notes from video context through a text generation service
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gnzdotmx/videonote/internal/model"
	"github.com/gnzdotmx/videonote/internal/services/llm"
	"github.com/gnzdotmx/videonote/internal/utils"
)

// noteSchema is the result contract shared by Summarize and Enhance
var noteSchema = llm.Schema{
	Name:        "note",
	Description: "A markdown note about the video",
	Fields: []llm.Field{
		{Name: "markdown", Type: llm.FieldString, Description: "The note in markdown"},
	},
}

type noteResult struct {
	Markdown *string `json:"markdown"`
}

// Generator produces raw and image-enhanced summaries
type Generator struct {
	llm           llm.Generator
	model         string
	summaryPrompt string
	enhancePrompt string
}

// New creates a Generator that calls gen with the given model and system prompts
func New(gen llm.Generator, model, summaryPrompt, enhancePrompt string) *Generator {
	return &Generator{
		llm:           gen,
		model:         model,
		summaryPrompt: summaryPrompt,
		enhancePrompt: enhancePrompt,
	}
}

// Summarize writes a text-only markdown summary from the metadata and transcript
func (g *Generator) Summarize(ctx context.Context, meta *model.VideoMetadata, transcript model.Transcript) (string, error) {
	if meta == nil {
		return "", &utils.ValidationError{Field: "metadata", Message: "is required"}
	}

	req := llm.Request{
		Model:  g.model,
		System: g.summaryPrompt,
		Messages: []llm.Message{
			{Text: meta.Block()},
			{Text: transcript.String()},
		},
		Schema: &noteSchema,
	}

	utils.LogVerbose("Requesting summary from %s", g.model)
	return g.generate(ctx, req)
}

// Enhance merges the screenshots into an existing summary. Each image is
// offered with the relative path it will have in the workspace.
func (g *Generator) Enhance(ctx context.Context, summary string, transcript model.Transcript, images []model.Screenshot) (string, error) {
	messages := []llm.Message{
		{Text: fmt.Sprintf("Existing Summary:\n```\n%s\n```\n", summary)},
		{Text: transcript.Block()},
	}
	for _, img := range images {
		ts := model.FormatTimestamp(img.Timestamp)
		messages = append(messages, llm.Message{
			Text:   fmt.Sprintf("Timestamp: %ss, FilePath: `./screenshots/%s.jpg`", ts, ts),
			Images: []llm.Image{{Data: img.Data, MIMEType: "image/jpeg"}},
		})
	}

	req := llm.Request{
		Model:    g.model,
		System:   g.enhancePrompt,
		Messages: messages,
		Schema:   &noteSchema,
	}

	utils.LogVerbose("Requesting enhanced summary from %s with %d images", g.model, len(images))
	return g.generate(ctx, req)
}

func (g *Generator) generate(ctx context.Context, req llm.Request) (string, error) {
	raw, err := g.llm.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	var res noteResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return "", utils.UpstreamError("note generation", fmt.Errorf("invalid result: %w", err))
	}
	if res.Markdown == nil || strings.TrimSpace(*res.Markdown) == "" {
		return "", utils.UpstreamError("note generation", fmt.Errorf("result has no markdown"))
	}
	return *res.Markdown, nil
}
