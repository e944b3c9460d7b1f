package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/gnzdotmx/videonote/internal/utils"
	"google.golang.org/genai"
)

// Gemini generates structured output through the Gemini API
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini backend
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, utils.UpstreamError("gemini", err)
	}
	return &Gemini{client: client}, nil
}

// Generate implements Generator
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.validate(); err != nil {
		return "", &utils.ValidationError{Field: "request", Message: "invalid generation request", Err: err}
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiSchema(req.Schema),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	utils.LogDebug("Gemini request: model=%s messages=%d", req.Model, len(req.Messages))
	result, err := g.client.Models.GenerateContent(ctx, req.Model, geminiContents(req), cfg)
	if err != nil {
		return "", utils.UpstreamError("gemini", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", utils.UpstreamError("gemini", errors.New("empty response"))
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

func geminiContents(req Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		parts := make([]*genai.Part, 0, len(m.Images)+1)
		if m.Text != "" {
			parts = append(parts, genai.NewPartFromText(m.Text))
		}
		for _, img := range m.Images {
			mime := img.MIMEType
			if mime == "" {
				mime = "image/jpeg"
			}
			parts = append(parts, genai.NewPartFromBytes(img.Data, mime))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}
	return contents
}

func geminiSchema(s *Schema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Fields))
	required := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Type {
		case FieldNumberArray:
			props[f.Name] = &genai.Schema{
				Type:        genai.TypeArray,
				Description: f.Description,
				Items:       &genai.Schema{Type: genai.TypeNumber},
			}
		default:
			props[f.Name] = &genai.Schema{
				Type:        genai.TypeString,
				Description: f.Description,
			}
		}
		required = append(required, f.Name)
	}

	return &genai.Schema{
		Type:        genai.TypeObject,
		Description: s.Description,
		Properties:  props,
		Required:    required,
	}
}
