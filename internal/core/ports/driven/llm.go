package driven

import "context"

// CompletionService provides LLM text completion. The pipeline owns
// prompt construction and response parsing; implementations only move
// text in and out of the model.
//
// Implementations may include:
//   - Anthropic (Claude)
//   - OpenAI-compatible endpoints
//   - Ollama (local models)
type CompletionService interface {
	// Complete produces a text completion for a prompt.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures a completion request.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
