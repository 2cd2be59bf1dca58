package driving

import (
	"context"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

// IngestService turns raw transcript input into indexed, searchable chunks.
type IngestService interface {
	// IngestText ingests a plain-text transcript. Lines of the form
	// "SPEAKER: text" become individual segments; otherwise the whole
	// document is one segment. Returns the stored transcript and the
	// number of chunks indexed.
	IngestText(ctx context.Context, filename, content string) (*domain.Transcript, int, error)

	// IngestSegments ingests pre-segmented input, e.g. from the
	// transcription service. Returns the stored transcript and the number
	// of chunks indexed.
	IngestSegments(ctx context.Context, filename string, segments []domain.Segment) (*domain.Transcript, int, error)

	// Reindex re-chunks and re-embeds an existing transcript. Chunk IDs
	// are stable, so this is an idempotent overwrite.
	Reindex(ctx context.Context, transcriptID int64) (int, error)

	// Delete removes a transcript, its segments, and all of its index
	// entries.
	Delete(ctx context.Context, transcriptID int64) error
}
