package llm

import (
	"context"
	"fmt"

	"github.com/gnzdotmx/videonote/internal/config"
)

// New creates the Generator selected by cfg.LLMProvider
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI, "":
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}
