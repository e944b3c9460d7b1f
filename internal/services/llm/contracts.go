// Package llm provides structured text generation over the supported providers
package llm

import (
	"context"
)

// Generator defines the interface for structured generation calls
type Generator interface {
	// Generate sends req and returns the JSON document produced for req.Schema
	Generate(ctx context.Context, req Request) (string, error)
}

// Ensure the backends implement Generator
var (
	_ Generator = (*OpenAI)(nil)
	_ Generator = (*Gemini)(nil)
)
