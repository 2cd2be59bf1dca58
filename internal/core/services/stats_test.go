package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetmind-labs/meetmind-cli/internal/adapters/driven/storage/memory"
	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

func TestStats_EmptyCorpus(t *testing.T) {
	svc := NewStatsService(newFakeTranscriptStore(), memory.NewVectorIndex())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTranscripts)
	assert.Zero(t, stats.IndexedChunks)
	assert.True(t, stats.EarliestUpload.IsZero())
}

func TestStats_AfterIngestion(t *testing.T) {
	ctx := context.Background()
	transcripts := newFakeTranscriptStore()
	index := memory.NewVectorIndex()
	embedder := &fakeEmbedder{}

	ingest := NewIngestService(transcripts, index, embedder, domain.RAGSettings{
		ChunkSize: domain.DefaultChunkSize,
	})
	ingest.SetEmbedRateLimit(0)

	_, indexed, err := ingest.IngestText(ctx, "a.txt", "alice: The deadline moved.\nbob: Noted.")
	require.NoError(t, err)

	stats, err := NewStatsService(transcripts, index).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTranscripts)
	assert.Equal(t, 2, stats.TotalSegments)
	assert.Equal(t, indexed, stats.IndexedChunks)
	assert.False(t, stats.LatestUpload.IsZero())
}
