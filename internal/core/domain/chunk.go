package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// chunkNamespace is the UUID namespace for deterministic chunk IDs.
var chunkNamespace = uuid.MustParse("9f2c1a4e-5b1d-4e8a-9c3f-7d2e6b0a8f41")

// ChunkID derives the stable identifier for a chunk from its transcript and
// ordinal position. Re-chunking the same transcript always yields the same
// IDs, which is what makes re-ingestion an idempotent upsert.
func ChunkID(transcriptID int64, ordinal int) string {
	return uuid.NewSHA1(chunkNamespace, fmt.Appendf(nil, "transcript:%d:chunk:%d", transcriptID, ordinal)).String()
}

// Chunk is a retrieval-sized span of transcript text, possibly covering
// several consecutive segments. Chunks are derived, never stored as
// first-class rows: they are recomputed from segments at ingestion time and
// persisted only as index entries.
type Chunk struct {
	// ID is the deterministic chunk identifier (see ChunkID).
	ID string

	// TranscriptID links to the source Transcript.
	TranscriptID int64

	// Position is the ordinal position of the chunk within the transcript.
	Position int

	// Text is the concatenated segment text.
	Text string

	// StartTime is the minimum segment start, EndTime the maximum segment
	// end, across the covered segments. Seconds.
	StartTime float64
	EndTime   float64

	// Speaker is the primary speaker label for the chunk, empty when the
	// covered segments carry no label.
	Speaker string
}

// EntryMetadata is the payload stored alongside a vector in the index and
// returned with every match. It carries everything needed to cite the source
// without a second lookup.
type EntryMetadata struct {
	TranscriptID int64
	Filename     string
	StartTime    float64
	EndTime      float64
	Speaker      string
	UploadedAt   time.Time
}

// IndexEntry pairs a chunk with its embedding vector for storage.
// Entries are keyed by chunk ID; upserting an existing ID replaces the
// previous vector and metadata.
type IndexEntry struct {
	ChunkID   string
	Text      string
	Embedding []float32
	Metadata  EntryMetadata
}

// QueryFilter restricts a similarity query by metadata. Zero values mean
// "no constraint" for the respective field.
type QueryFilter struct {
	// From and To bound the transcript upload date (inclusive).
	From time.Time
	To   time.Time

	// TranscriptID restricts matches to one transcript when non-zero.
	TranscriptID int64

	// Speaker restricts matches to an exact speaker label when non-empty.
	Speaker string
}

// Matches reports whether the given entry metadata passes the filter.
func (f QueryFilter) Matches(m EntryMetadata) bool {
	if !f.From.IsZero() && m.UploadedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && m.UploadedAt.After(f.To) {
		return false
	}
	if f.TranscriptID != 0 && m.TranscriptID != f.TranscriptID {
		return false
	}
	if f.Speaker != "" && m.Speaker != f.Speaker {
		return false
	}
	return true
}

// ChunkMatch is a single similarity search hit.
type ChunkMatch struct {
	ChunkID  string
	Text     string
	Metadata EntryMetadata

	// Score is the normalised cosine similarity in [0, 1]; higher is more
	// similar. Ties are broken by chunk ID for determinism.
	Score float64
}
