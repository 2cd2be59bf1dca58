package driven

import (
	"context"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

// Transcriber converts an audio file into timestamped text segments.
// The speech-to-text engine is a black box behind this port; MeetMind only
// consumes its segment output.
type Transcriber interface {
	// Transcribe reads the audio file at path and returns its segments in
	// order. The language hint may be empty for auto-detection.
	Transcribe(ctx context.Context, path, language string) ([]domain.Segment, error)

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
