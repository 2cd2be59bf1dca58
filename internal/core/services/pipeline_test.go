package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetmind-labs/meetmind-cli/internal/adapters/driven/storage/memory"
	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

// TestPipeline_IngestThenAsk exercises the full path: segments in, chunks
// indexed, question answered with citations pointing at the right moment in
// the recording.
func TestPipeline_IngestThenAsk(t *testing.T) {
	ctx := context.Background()
	transcripts := newFakeTranscriptStore()
	index := memory.NewVectorIndex()
	embedder := &fakeEmbedder{}
	llm := &fakeLLM{answer: "The deadline is Feb 28."}
	history := &fakeHistoryStore{}
	settings := defaultSettings()

	ingest := NewIngestService(transcripts, index, embedder, settings)
	ingest.SetEmbedRateLimit(0)

	_, indexed, err := ingest.IngestSegments(ctx, "T1.txt", []domain.Segment{
		{Position: 0, Text: "Deadline is Feb 28", StartTime: 540.0, EndTime: 548.0, Speaker: "SPEAKER_01"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, indexed)

	ask := NewAskService(index, embedder, llm, history, settings)
	ask.SetClock(func() time.Time { return fixedNow })

	answer, err := ask.Ask(ctx, domain.Question{Text: "When is the deadline?"})
	require.NoError(t, err)

	assert.Contains(t, answer.Answer, "Feb 28")
	require.Len(t, answer.Sources, 1)
	src := answer.Sources[0]
	assert.Equal(t, "T1.txt", src.Filename)
	assert.Contains(t, src.Text, "Deadline is Feb 28")
	assert.InDelta(t, 540.0, src.StartTime, 1e-9)
	assert.InDelta(t, 548.0, src.EndTime, 1e-9)
	assert.Equal(t, "SPEAKER_01", src.Speaker)
}

// TestPipeline_ReingestDoesNotGrowIndex checks the idempotence property:
// ingesting identical content twice as the same transcript leaves the entry
// count unchanged.
func TestPipeline_ReingestDoesNotGrowIndex(t *testing.T) {
	ctx := context.Background()
	transcripts := newFakeTranscriptStore()
	index := memory.NewVectorIndex()
	embedder := &fakeEmbedder{}

	ingest := NewIngestService(transcripts, index, embedder, defaultSettings())
	ingest.SetEmbedRateLimit(0)

	transcript, first, err := ingest.IngestSegments(ctx, "T1.txt", []domain.Segment{
		{Position: 0, Text: "Deadline is Feb 28", StartTime: 540.0, EndTime: 548.0, Speaker: "SPEAKER_01"},
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := ingest.Reindex(ctx, transcript.ID)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, count)
}
