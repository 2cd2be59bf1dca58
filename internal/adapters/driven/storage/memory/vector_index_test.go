package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

func entry(chunkID string, transcriptID int64, speaker string, uploadedAt time.Time, embedding []float32) domain.IndexEntry {
	return domain.IndexEntry{
		ChunkID:   chunkID,
		Text:      "text for " + chunkID,
		Embedding: embedding,
		Metadata: domain.EntryMetadata{
			TranscriptID: transcriptID,
			Filename:     "meeting.txt",
			Speaker:      speaker,
			UploadedAt:   uploadedAt,
		},
	}
}

func TestVectorIndex_UpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()
	now := time.Now()

	err := idx.Upsert(ctx, []domain.IndexEntry{
		entry("a", 1, "alice", now, []float32{1, 0, 0}),
		entry("b", 1, "bob", now, []float32{0, 1, 0}),
		entry("c", 2, "alice", now, []float32{0.9, 0.1, 0}),
	})
	require.NoError(t, err)

	matches, err := idx.Query(ctx, []float32{1, 0, 0}, 2, domain.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ChunkID)
	assert.Equal(t, "c", matches[1].ChunkID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestVectorIndex_UpsertReplacesExisting(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()
	now := time.Now()

	require.NoError(t, idx.Upsert(ctx, []domain.IndexEntry{
		entry("a", 1, "alice", now, []float32{1, 0, 0}),
	}))
	require.NoError(t, idx.Upsert(ctx, []domain.IndexEntry{
		entry("a", 1, "alice", now, []float32{0, 1, 0}),
	}))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	matches, err := idx.Query(ctx, []float32{0, 1, 0}, 1, domain.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestVectorIndex_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()
	now := time.Now()

	require.NoError(t, idx.Upsert(ctx, []domain.IndexEntry{
		entry("a", 1, "", now, []float32{1, 0, 0}),
	}))

	err := idx.Upsert(ctx, []domain.IndexEntry{
		entry("b", 1, "", now, []float32{1, 0}),
	})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	// A failed batch must not leave partial state behind.
	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = idx.Query(ctx, []float32{1, 0}, 1, domain.QueryFilter{})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestVectorIndex_MixedDimensionBatchRejected(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()
	now := time.Now()

	err := idx.Upsert(ctx, []domain.IndexEntry{
		entry("a", 1, "", now, []float32{1, 0, 0}),
		entry("b", 1, "", now, []float32{1, 0}),
	})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestVectorIndex_FilterBeforeRanking(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	// The best-scoring entry falls outside the filter window; the filtered
	// query must still return the in-window entry instead of nothing.
	require.NoError(t, idx.Upsert(ctx, []domain.IndexEntry{
		entry("best-but-old", 1, "alice", old, []float32{1, 0, 0}),
		entry("recent", 2, "bob", recent, []float32{0.5, 0.5, 0}),
	}))

	matches, err := idx.Query(ctx, []float32{1, 0, 0}, 1, domain.QueryFilter{
		From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "recent", matches[0].ChunkID)
}

func TestVectorIndex_SpeakerAndTranscriptFilter(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()
	now := time.Now()

	require.NoError(t, idx.Upsert(ctx, []domain.IndexEntry{
		entry("a", 1, "alice", now, []float32{1, 0}),
		entry("b", 1, "bob", now, []float32{1, 0}),
		entry("c", 2, "alice", now, []float32{1, 0}),
	}))

	matches, err := idx.Query(ctx, []float32{1, 0}, 10, domain.QueryFilter{Speaker: "alice"})
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = idx.Query(ctx, []float32{1, 0}, 10, domain.QueryFilter{
		Speaker:      "alice",
		TranscriptID: 2,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "c", matches[0].ChunkID)
}

func TestVectorIndex_TieBreakByChunkID(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()
	now := time.Now()

	// Identical vectors score identically; order must still be stable.
	require.NoError(t, idx.Upsert(ctx, []domain.IndexEntry{
		entry("zz", 1, "", now, []float32{1, 0}),
		entry("aa", 1, "", now, []float32{1, 0}),
	}))

	for i := 0; i < 5; i++ {
		matches, err := idx.Query(ctx, []float32{1, 0}, 2, domain.QueryFilter{})
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "aa", matches[0].ChunkID)
		assert.Equal(t, "zz", matches[1].ChunkID)
	}
}

func TestVectorIndex_DeleteByTranscript(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()
	now := time.Now()

	require.NoError(t, idx.Upsert(ctx, []domain.IndexEntry{
		entry("a", 1, "", now, []float32{1, 0}),
		entry("b", 1, "", now, []float32{0, 1}),
		entry("c", 2, "", now, []float32{1, 0}),
	}))

	require.NoError(t, idx.DeleteByTranscript(ctx, 1))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	matches, err := idx.Query(ctx, []float32{1, 0}, 10, domain.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "c", matches[0].ChunkID)
}

func TestVectorIndex_InvalidTopK(t *testing.T) {
	idx := NewVectorIndex()
	_, err := idx.Query(context.Background(), []float32{1}, 0, domain.QueryFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorIndex_EmptyIndex(t *testing.T) {
	idx := NewVectorIndex()
	matches, err := idx.Query(context.Background(), []float32{1, 0}, 5, domain.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}
