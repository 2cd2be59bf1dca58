package driven

import "context"

// LLMService provides text generation for answer synthesis.
//
// Implementations:
//   - Ollama (local models)
//   - OpenAI (cloud chat completions)
//   - Hugging Face inference API (text generation)
//
// An unreachable backend surfaces as domain.ErrProviderUnavailable; a prompt
// over the provider's context limit surfaces as domain.ErrPromptTooLarge.
// Adapters never substitute an answer on failure.
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens caps the completion length.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
