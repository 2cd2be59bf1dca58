package driven

import (
	"context"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

// VectorIndex persists chunk vectors with metadata and serves filtered
// similarity queries.
//
// Entries are keyed by chunk ID: Upsert replaces an existing entry
// atomically, which makes re-ingestion idempotent. All entries in one index
// share a single embedding dimension; the first write fixes it and later
// writes with a different dimension fail with domain.ErrDimensionMismatch
// before anything is stored.
type VectorIndex interface {
	// Upsert inserts or replaces entries keyed by chunk ID. Each entry is
	// replaced atomically; concurrent queries observe either the old or
	// the new entry, never a torn vector.
	Upsert(ctx context.Context, entries []domain.IndexEntry) error

	// DeleteByTranscript removes all entries for the given transcript in
	// one transaction.
	DeleteByTranscript(ctx context.Context, transcriptID int64) error

	// Query returns up to topK entries ranked by descending similarity to
	// the query vector, considering only entries that pass the filter.
	// The filter is applied before ranking, so matches inside topK are
	// never starved by post-hoc truncation. An empty index yields an
	// empty result. topK <= 0 fails with domain.ErrInvalidInput.
	Query(ctx context.Context, vector []float32, topK int, filter domain.QueryFilter) ([]domain.ChunkMatch, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
