package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/gnzdotmx/videonote/internal/utils"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// OpenAI generates structured output through the Chat Completions API
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI creates an OpenAI backend. baseURL may be empty.
func NewOpenAI(apiKey, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable is not set")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAI{client: openai.NewClientWithConfig(cfg)}, nil
}

// Generate implements Generator
func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.validate(); err != nil {
		return "", &utils.ValidationError{Field: "request", Message: "invalid generation request", Err: err}
	}

	def := openAISchema(req.Schema)
	chatReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: openAIMessages(req),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      &def,
				Strict:      true,
			},
		},
	}

	utils.LogDebug("OpenAI request: model=%s messages=%d", req.Model, len(chatReq.Messages))
	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", utils.UpstreamError("openai", err)
	}
	if len(resp.Choices) == 0 {
		return "", utils.UpstreamError("openai", errors.New("no choices in response"))
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", utils.UpstreamError("openai", fmt.Errorf("model refused: %s", msg.Refusal))
	}

	utils.LogDebug("OpenAI usage: prompt=%d completion=%d", resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return msg.Content, nil
}

func openAIMessages(req Request) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, m := range req.Messages {
		if len(m.Images) == 0 {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: m.Text,
			})
			continue
		}

		parts := make([]openai.ChatMessagePart, 0, len(m.Images)+1)
		if m.Text != "" {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: m.Text,
			})
		}
		for _, img := range m.Images {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    img.DataURL(),
					Detail: openai.ImageURLDetailAuto,
				},
			})
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		})
	}
	return messages
}

func openAISchema(s *Schema) jsonschema.Definition {
	props := make(map[string]jsonschema.Definition, len(s.Fields))
	required := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Type {
		case FieldNumberArray:
			props[f.Name] = jsonschema.Definition{
				Type:        jsonschema.Array,
				Description: f.Description,
				Items:       &jsonschema.Definition{Type: jsonschema.Number},
			}
		default:
			props[f.Name] = jsonschema.Definition{
				Type:        jsonschema.String,
				Description: f.Description,
			}
		}
		required = append(required, f.Name)
	}

	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		Description:          s.Description,
		Properties:           props,
		Required:             required,
		AdditionalProperties: false,
	}
}
