package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/meetmind-labs/meetmind-cli/internal/chunker"
	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driven"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driving"
	"github.com/meetmind-labs/meetmind-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// embedBatchSize is the number of chunk texts sent per embedding request.
const embedBatchSize = 32

// defaultEmbedRate caps embedding requests per second so bulk ingestion
// does not hammer a metered provider.
const defaultEmbedRate = 5

// IngestService turns transcripts into indexed chunks.
type IngestService struct {
	transcripts driven.TranscriptStore
	index       driven.VectorIndex
	embedder    driven.EmbeddingService
	chunker     *chunker.Chunker
	limiter     *rate.Limiter
}

// NewIngestService creates a new ingestion service. Chunking parameters come
// from the settings; everything else is injected.
func NewIngestService(
	transcripts driven.TranscriptStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	settings domain.RAGSettings,
) *IngestService {
	return &IngestService{
		transcripts: transcripts,
		index:       index,
		embedder:    embedder,
		chunker: chunker.New(
			chunker.WithChunkSize(settings.ChunkSize),
			chunker.WithOverlap(settings.ChunkOverlap),
		),
		limiter: rate.NewLimiter(rate.Limit(defaultEmbedRate), 1),
	}
}

// SetEmbedRateLimit overrides the embedding request rate. Zero or negative
// disables limiting.
func (s *IngestService) SetEmbedRateLimit(perSecond float64) {
	if perSecond <= 0 {
		s.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
}

// IngestText ingests a plain-text transcript. Lines of the form
// "SPEAKER: text" become individual segments; any other shape makes the whole
// document a single unlabelled segment.
func (s *IngestService) IngestText(ctx context.Context, filename, content string) (*domain.Transcript, int, error) {
	if strings.TrimSpace(content) == "" {
		return nil, 0, fmt.Errorf("%w: empty transcript", domain.ErrInvalidInput)
	}

	segments := parseSpeakerLines(content)
	if segments == nil {
		segments = []domain.Segment{{
			Position: 0,
			Text:     strings.TrimSpace(content),
		}}
	}
	logger.Debug("Parsed %q into %d segments", filename, len(segments))

	return s.IngestSegments(ctx, filename, segments)
}

// IngestSegments stores the transcript and indexes its chunks.
func (s *IngestService) IngestSegments(ctx context.Context, filename string, segments []domain.Segment) (*domain.Transcript, int, error) {
	logger.Section("Ingestion")
	if len(segments) == 0 {
		return nil, 0, fmt.Errorf("%w: no segments", domain.ErrInvalidInput)
	}

	id, err := s.transcripts.SaveTranscript(ctx, filename, segments)
	if err != nil {
		return nil, 0, fmt.Errorf("save transcript: %w", err)
	}

	transcript, err := s.transcripts.GetTranscript(ctx, id)
	if err != nil {
		return nil, 0, fmt.Errorf("load saved transcript: %w", err)
	}

	indexed, err := s.indexTranscript(ctx, transcript)
	if err != nil {
		return nil, 0, err
	}

	logger.Info("Ingested %q: transcript %d, %d chunks", filename, id, indexed)
	return transcript, indexed, nil
}

// Reindex re-chunks and re-embeds an existing transcript. Stale entries from
// a previous, longer chunking are removed first; the stable chunk IDs then
// make the rewrite an upsert.
func (s *IngestService) Reindex(ctx context.Context, transcriptID int64) (int, error) {
	logger.Section("Reindex")

	transcript, err := s.transcripts.GetTranscript(ctx, transcriptID)
	if err != nil {
		return 0, fmt.Errorf("load transcript: %w", err)
	}

	if err := s.index.DeleteByTranscript(ctx, transcriptID); err != nil {
		return 0, fmt.Errorf("clear old index entries: %w", err)
	}

	return s.indexTranscript(ctx, transcript)
}

// Delete removes a transcript, its segments, and its index entries. Index
// entries go first: an interrupted delete then leaves at worst an orphaned
// transcript row, which a re-run removes, never entries citing a transcript
// that no longer exists.
func (s *IngestService) Delete(ctx context.Context, transcriptID int64) error {
	if err := s.index.DeleteByTranscript(ctx, transcriptID); err != nil {
		return fmt.Errorf("delete index entries: %w", err)
	}
	if err := s.transcripts.DeleteTranscript(ctx, transcriptID); err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	logger.Info("Deleted transcript %d", transcriptID)
	return nil
}

// indexTranscript chunks, embeds, and upserts one transcript.
func (s *IngestService) indexTranscript(ctx context.Context, transcript *domain.Transcript) (int, error) {
	defer logger.Timing("indexing", time.Now())

	chunks := s.chunker.Chunk(transcript.ID, transcript.Segments)
	if len(chunks) == 0 {
		return 0, nil
	}
	logger.Debug("Chunked transcript %d into %d chunks", transcript.ID, len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))

		if err := s.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("embedding rate limit: %w", err)
		}
		batch, err := s.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return 0, fmt.Errorf("embed chunks: %w", err)
		}
		if len(batch) != end-start {
			return 0, fmt.Errorf("embed chunks: got %d vectors for %d texts", len(batch), end-start)
		}
		vectors = append(vectors, batch...)
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = domain.IndexEntry{
			ChunkID:   chunk.ID,
			Text:      chunk.Text,
			Embedding: vectors[i],
			Metadata: domain.EntryMetadata{
				TranscriptID: transcript.ID,
				Filename:     transcript.Filename,
				StartTime:    chunk.StartTime,
				EndTime:      chunk.EndTime,
				Speaker:      chunk.Speaker,
				UploadedAt:   transcript.UploadedAt,
			},
		}
	}

	if err := s.index.Upsert(ctx, entries); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}

	return len(entries), nil
}

// parseSpeakerLines parses "SPEAKER: text" formatted transcripts. It returns
// nil unless every non-empty line carries a speaker label, in which case each
// line becomes one segment.
func parseSpeakerLines(content string) []domain.Segment {
	var segments []domain.Segment
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		speaker, text, ok := strings.Cut(line, ":")
		speaker = strings.TrimSpace(speaker)
		text = strings.TrimSpace(text)
		if !ok || speaker == "" || text == "" || len(speaker) > 64 {
			return nil
		}
		// A colon inside a URL is not a speaker label.
		if strings.HasPrefix(text, "//") {
			return nil
		}

		segments = append(segments, domain.Segment{
			Position: len(segments),
			Text:     text,
			Speaker:  speaker,
		})
	}
	return segments
}
