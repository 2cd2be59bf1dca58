package domain

import "time"

// Transcript represents one uploaded or transcribed meeting.
// It is immutable once created; segments are only appended while
// transcription completes.
type Transcript struct {
	// ID is the unique, monotonically increasing transcript identifier.
	ID int64

	// Filename is the original upload filename.
	Filename string

	// UploadedAt is when the transcript was created.
	UploadedAt time.Time

	// Segments are the ordered timestamped spans of the transcript.
	Segments []Segment
}

// Segment is a single timestamped span of speech within a transcript.
// Segments are never mutated after creation.
type Segment struct {
	// TranscriptID links to the owning Transcript.
	TranscriptID int64

	// Position is the ordinal position within the transcript, starting at 0.
	Position int

	// Text is the spoken text. Always non-empty.
	Text string

	// StartTime and EndTime are offsets into the recording, in seconds.
	// StartTime <= EndTime.
	StartTime float64
	EndTime   float64

	// Speaker is the optional diarisation label (e.g. "SPEAKER_01").
	Speaker string
}

// Validate checks segment invariants before persistence.
func (s Segment) Validate() error {
	if s.Text == "" {
		return ErrInvalidInput
	}
	if s.StartTime > s.EndTime {
		return ErrInvalidInput
	}
	return nil
}

// Stats holds corpus-wide counts computed from transcript metadata.
type Stats struct {
	TotalTranscripts int
	TotalSegments    int
	IndexedChunks    int

	// EarliestUpload and LatestUpload bound the corpus by upload date.
	// Both are zero when the corpus is empty.
	EarliestUpload time.Time
	LatestUpload   time.Time
}
