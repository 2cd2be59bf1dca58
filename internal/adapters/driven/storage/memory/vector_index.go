// Package memory provides an in-memory vector index. It mirrors the SQLite
// index semantics exactly and backs tests and ephemeral sessions where
// nothing should touch disk.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driven"
)

// VectorIndex is a mutex-guarded in-memory implementation of
// driven.VectorIndex.
type VectorIndex struct {
	mu        sync.RWMutex
	entries   map[string]domain.IndexEntry
	dimension int
}

var _ driven.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates an empty index. The first Upsert fixes the
// embedding dimension.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		entries: make(map[string]domain.IndexEntry),
	}
}

// Upsert inserts or replaces entries keyed by chunk ID. The batch is
// validated before any entry is stored, so a dimension mismatch leaves the
// index untouched.
func (v *VectorIndex) Upsert(_ context.Context, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	dim := len(entries[0].Embedding)
	if dim == 0 {
		return fmt.Errorf("%w: empty embedding", domain.ErrInvalidInput)
	}
	for _, entry := range entries {
		if len(entry.Embedding) != dim {
			return fmt.Errorf("%w: batch mixes dimensions %d and %d",
				domain.ErrDimensionMismatch, dim, len(entry.Embedding))
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.dimension == 0 {
		v.dimension = dim
	} else if v.dimension != dim {
		return fmt.Errorf("%w: index holds %d-dimensional vectors, got %d",
			domain.ErrDimensionMismatch, v.dimension, dim)
	}

	for _, entry := range entries {
		vec := make([]float32, len(entry.Embedding))
		copy(vec, entry.Embedding)
		entry.Embedding = vec
		v.entries[entry.ChunkID] = entry
	}

	return nil
}

// DeleteByTranscript removes all entries for the given transcript.
func (v *VectorIndex) DeleteByTranscript(_ context.Context, transcriptID int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for id, entry := range v.entries {
		if entry.Metadata.TranscriptID == transcriptID {
			delete(v.entries, id)
		}
	}
	return nil
}

// Query returns up to topK entries passing the filter, ranked by cosine
// similarity with chunk ID as the tie-break.
func (v *VectorIndex) Query(_ context.Context, vector []float32, topK int, filter domain.QueryFilter) ([]domain.ChunkMatch, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", domain.ErrInvalidInput, topK)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.dimension != 0 && len(vector) != v.dimension {
		return nil, fmt.Errorf("%w: index holds %d-dimensional vectors, query has %d",
			domain.ErrDimensionMismatch, v.dimension, len(vector))
	}

	var matches []domain.ChunkMatch
	for _, entry := range v.entries {
		if !filter.Matches(entry.Metadata) {
			continue
		}
		matches = append(matches, domain.ChunkMatch{
			ChunkID:  entry.ChunkID,
			Text:     entry.Text,
			Metadata: entry.Metadata,
			Score:    cosineSimilarity(vector, entry.Embedding),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ChunkID < matches[j].ChunkID
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}

// Count returns the number of stored entries.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries), nil
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}

// cosineSimilarity is cosine similarity normalised to [0, 1].
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2
}
