// Package llm provides LLM provider implementations.
package llm

import "context"

// Provider generates free-form text from a prompt. Implementations
// wrap a remote model and report failures as errors; callers decide
// how to degrade when generation is unavailable.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
