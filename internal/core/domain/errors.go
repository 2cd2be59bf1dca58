package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input: an empty
	// question, a malformed date range, or a non-positive top-k. Rejected
	// before any provider call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable indicates an embedding or generation backend
	// is unreachable or timed out. The core does not retry; retry policy
	// belongs to the calling layer.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrPromptTooLarge indicates the assembled prompt exceeds the
	// generation provider's context limit. The retrieval pipeline bounds
	// context before calling, so seeing this means the budget is
	// misconfigured for the provider.
	ErrPromptTooLarge = errors.New("prompt too large")

	// ErrDimensionMismatch indicates an embedding's dimension does not
	// match the existing index. Fatal: the write is blocked so vectors
	// from different models are never mixed in one index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrUnsupportedType indicates an unknown provider or file type.
	ErrUnsupportedType = errors.New("unsupported type")
)
