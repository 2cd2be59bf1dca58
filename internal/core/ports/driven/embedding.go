package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorIndex which stores and searches vectors.
// EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations:
//   - Ollama (local models such as nomic-embed-text)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Hugging Face inference API (feature-extraction pipeline)
//
// Adapters embed empty text as-is rather than rejecting it; the resulting
// vector is whatever the model produces for empty input. Adapters never
// retry: transient failures surface to the caller, which owns retry policy.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, one vector per
	// input, aligned by position.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// This is determined by the model and must match the VectorIndex.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
