package driven

import (
	"context"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

// TranscriptStore persists transcript and segment metadata.
type TranscriptStore interface {
	// SaveTranscript stores a new transcript with its segments and
	// returns the assigned ID.
	SaveTranscript(ctx context.Context, filename string, segments []domain.Segment) (int64, error)

	// GetTranscript retrieves a transcript with its segments.
	// Returns domain.ErrNotFound if it does not exist.
	GetTranscript(ctx context.Context, id int64) (*domain.Transcript, error)

	// ListTranscripts returns transcripts without segments, newest first.
	ListTranscripts(ctx context.Context, limit, offset int) ([]domain.Transcript, error)

	// DeleteTranscript removes a transcript and its segments.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteTranscript(ctx context.Context, id int64) error

	// Stats computes corpus-wide transcript and segment counts plus
	// upload date bounds.
	Stats(ctx context.Context) (domain.Stats, error)
}

// HistoryStore records answered questions.
type HistoryStore interface {
	// SaveHistory appends a question/answer pair.
	SaveHistory(ctx context.Context, question, answer string) error

	// ListHistory returns recent entries, newest first.
	ListHistory(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}
