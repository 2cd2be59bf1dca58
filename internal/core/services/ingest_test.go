package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetmind-labs/meetmind-cli/internal/adapters/driven/storage/memory"
	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

func newIngestFixture() (*IngestService, *fakeTranscriptStore, *memory.VectorIndex, *fakeEmbedder) {
	transcripts := newFakeTranscriptStore()
	index := memory.NewVectorIndex()
	embedder := &fakeEmbedder{}
	svc := NewIngestService(transcripts, index, embedder, domain.RAGSettings{
		TopK:          domain.DefaultTopK,
		ChunkSize:     80,
		ChunkOverlap:  0,
		ContextBudget: domain.DefaultContextBudget,
	})
	svc.SetEmbedRateLimit(0) // no throttling in tests
	return svc, transcripts, index, embedder
}

func TestIngestText_SpeakerLines(t *testing.T) {
	ctx := context.Background()
	svc, transcripts, index, _ := newIngestFixture()

	content := "alice: The migration deadline is February 28.\n" +
		"bob: Then we should start the security review now.\n"

	transcript, indexed, err := svc.IngestText(ctx, "planning.txt", content)
	require.NoError(t, err)
	assert.Positive(t, indexed)

	stored, err := transcripts.GetTranscript(ctx, transcript.ID)
	require.NoError(t, err)
	require.Len(t, stored.Segments, 2)
	assert.Equal(t, "alice", stored.Segments[0].Speaker)
	assert.Equal(t, "The migration deadline is February 28.", stored.Segments[0].Text)
	assert.Equal(t, "bob", stored.Segments[1].Speaker)

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, indexed, count)
}

func TestIngestText_PlainDocument(t *testing.T) {
	ctx := context.Background()
	svc, transcripts, _, _ := newIngestFixture()

	// A URL contains a colon but this is not a speaker transcript, so the
	// whole document must become a single segment.
	content := "Meeting notes.\nSee https://example.com/page for details.\nEnd."

	transcript, _, err := svc.IngestText(ctx, "notes.txt", content)
	require.NoError(t, err)

	stored, err := transcripts.GetTranscript(ctx, transcript.ID)
	require.NoError(t, err)
	require.Len(t, stored.Segments, 1)
	assert.Empty(t, stored.Segments[0].Speaker)
}

func TestIngestText_Empty(t *testing.T) {
	svc, _, _, _ := newIngestFixture()
	_, _, err := svc.IngestText(context.Background(), "empty.txt", "   \n  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestSegments_NoSegments(t *testing.T) {
	svc, _, _, _ := newIngestFixture()
	_, _, err := svc.IngestSegments(context.Background(), "x.txt", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngest_ReingestIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, index, _ := newIngestFixture()

	segments := []domain.Segment{
		{Position: 0, Text: "The rollout budget was approved.", StartTime: 0, EndTime: 5, Speaker: "alice"},
		{Position: 1, Text: "Launch review happens after the migration.", StartTime: 5, EndTime: 11, Speaker: "bob"},
	}

	transcript, first, err := svc.IngestSegments(ctx, "meeting.txt", segments)
	require.NoError(t, err)

	// Reindexing the same transcript rewrites the same chunk IDs.
	second, err := svc.Reindex(ctx, transcript.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, count)
}

func TestIngest_Delete(t *testing.T) {
	ctx := context.Background()
	svc, transcripts, index, _ := newIngestFixture()

	transcript, _, err := svc.IngestText(ctx, "doomed.txt", "alice: The incident review is done.")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, transcript.ID))

	_, err = transcripts.GetTranscript(ctx, transcript.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIngest_DeleteClearsDanglingIndexEntries(t *testing.T) {
	ctx := context.Background()
	svc, transcripts, index, _ := newIngestFixture()

	transcript, _, err := svc.IngestText(ctx, "doomed.txt", "alice: The incident review is done.")
	require.NoError(t, err)

	// An interrupted delete can leave index entries behind with the
	// transcript row already gone. Re-running the delete must still clear
	// them instead of bailing out on the missing transcript.
	require.NoError(t, transcripts.DeleteTranscript(ctx, transcript.ID))

	err = svc.Delete(ctx, transcript.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIngest_DeleteMissing(t *testing.T) {
	svc, _, _, _ := newIngestFixture()
	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseSpeakerLines(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		segments int
	}{
		{"two speakers", "alice: hello\nbob: hi there", 2},
		{"blank lines skipped", "alice: hello\n\n\nbob: hi", 2},
		{"missing colon", "alice: hello\njust some text", 0},
		{"empty speaker", ": hello", 0},
		{"empty text", "alice:", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := parseSpeakerLines(tt.content)
			assert.Len(t, segments, tt.segments)
		})
	}
}
