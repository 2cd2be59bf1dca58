// Package chunker splits a transcript's ordered segments into
// retrieval-sized chunks.
//
// Chunking is a pure function of the input segments and configuration:
// chunks are never persisted as rows, only recomputed at ingestion time, and
// their IDs are deterministic, so re-ingesting the same transcript upserts
// the same entries.
package chunker

import (
	"strings"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

// DefaultChunkSize is the default target chunk size in characters.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// separator joins segment texts within a chunk.
const separator = "\n"

// Chunker accumulates consecutive segments into chunks of roughly
// chunkSize characters.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Chunk splits the ordered segments into chunks. Every segment is covered by
// exactly one chunk; a segment longer than the target size becomes its own
// chunk unmodified. When adding a segment would overflow the target size the
// current chunk is closed first, unless it is still empty. With a non-zero
// overlap, the trailing segments of the previous chunk (up to the overlap
// character count) are repeated at the head of the next chunk for context
// continuity; they do not count as coverage.
//
// An empty segment list yields an empty chunk sequence.
func (c *Chunker) Chunk(transcriptID int64, segments []domain.Segment) []domain.Chunk {
	if len(segments) == 0 {
		return nil
	}

	total := 0
	for _, seg := range segments {
		total += len(seg.Text) + len(separator)
	}
	chunks := make([]domain.Chunk, 0, total/c.chunkSize+1)

	var covered []domain.Segment
	var prefix []domain.Segment
	length := 0

	flush := func() {
		if len(covered) == 0 {
			return
		}
		chunks = append(chunks, c.build(transcriptID, len(chunks), prefix, covered))
		prefix = c.overlapTail(covered)
		covered = nil
		length = 0
	}

	for _, seg := range segments {
		segLen := len(seg.Text)
		if len(covered) > 0 && length+len(separator)+segLen > c.chunkSize {
			flush()
		}
		if len(covered) > 0 {
			length += len(separator)
		}
		covered = append(covered, seg)
		length += segLen
	}
	flush()

	return chunks
}

// build assembles one chunk from its overlap prefix and covered segments.
func (c *Chunker) build(transcriptID int64, ordinal int, prefix, covered []domain.Segment) domain.Chunk {
	all := make([]domain.Segment, 0, len(prefix)+len(covered))
	all = append(all, prefix...)
	all = append(all, covered...)

	texts := make([]string, len(all))
	start, end := all[0].StartTime, all[0].EndTime
	for i, seg := range all {
		texts[i] = seg.Text
		if seg.StartTime < start {
			start = seg.StartTime
		}
		if seg.EndTime > end {
			end = seg.EndTime
		}
	}

	return domain.Chunk{
		ID:           domain.ChunkID(transcriptID, ordinal),
		TranscriptID: transcriptID,
		Position:     ordinal,
		Text:         strings.Join(texts, separator),
		StartTime:    start,
		EndTime:      end,
		Speaker:      primarySpeaker(covered),
	}
}

// overlapTail returns the trailing segments of a closed chunk whose combined
// text fits within the overlap budget. With a zero budget, or when even the
// last segment alone exceeds it, no overlap is carried.
func (c *Chunker) overlapTail(covered []domain.Segment) []domain.Segment {
	if c.overlap <= 0 {
		return nil
	}
	total := 0
	i := len(covered)
	for i > 0 {
		next := total + len(covered[i-1].Text)
		if total > 0 {
			next += len(separator)
		}
		if next > c.overlap {
			break
		}
		total = next
		i--
	}
	if i == len(covered) {
		return nil
	}
	return covered[i:]
}

// primarySpeaker picks the label that appears most often among the covered
// segments, preferring the earliest on ties. Empty when no segment is
// labelled.
func primarySpeaker(covered []domain.Segment) string {
	counts := make(map[string]int, 4)
	best := ""
	bestCount := 0
	for _, seg := range covered {
		if seg.Speaker == "" {
			continue
		}
		counts[seg.Speaker]++
		if counts[seg.Speaker] > bestCount {
			best = seg.Speaker
			bestCount = counts[seg.Speaker]
		}
	}
	return best
}
