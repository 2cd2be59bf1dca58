package chunker

import (
	"strings"
	"testing"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

func seg(pos int, text, speaker string, start, end float64) domain.Segment {
	return domain.Segment{
		TranscriptID: 1,
		Position:     pos,
		Text:         text,
		StartTime:    start,
		EndTime:      end,
		Speaker:      speaker,
	}
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, c.chunkSize)
		}
		if c.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, c.overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		c := New(WithChunkSize(500), WithOverlap(50))
		if c.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", c.chunkSize)
		}
		if c.overlap != 50 {
			t.Errorf("expected overlap 50, got %d", c.overlap)
		}
	})

	t.Run("overlap exceeding chunk size is reduced", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(150))
		if c.overlap >= c.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		if c.chunkSize != DefaultChunkSize || c.overlap != DefaultChunkOverlap {
			t.Errorf("expected defaults, got size=%d overlap=%d", c.chunkSize, c.overlap)
		}
	})
}

func TestChunk_EmptyInput(t *testing.T) {
	c := New()
	if chunks := c.Chunk(1, nil); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty input, got %d", len(chunks))
	}
}

func TestChunk_SingleSegment(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(0))
	chunks := c.Chunk(7, []domain.Segment{seg(0, "Deadline is Feb 28", "SPEAKER_01", 540, 548)})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	ch := chunks[0]
	if ch.Text != "Deadline is Feb 28" {
		t.Errorf("unexpected chunk text: %q", ch.Text)
	}
	if ch.TranscriptID != 7 || ch.Position != 0 {
		t.Errorf("unexpected identity: transcript=%d position=%d", ch.TranscriptID, ch.Position)
	}
	if ch.StartTime != 540 || ch.EndTime != 548 {
		t.Errorf("unexpected time range: %v-%v", ch.StartTime, ch.EndTime)
	}
	if ch.Speaker != "SPEAKER_01" {
		t.Errorf("unexpected speaker: %q", ch.Speaker)
	}
	if ch.ID != domain.ChunkID(7, 0) {
		t.Errorf("chunk ID not deterministic: %q", ch.ID)
	}
}

func TestChunk_Reconstruction(t *testing.T) {
	// Without overlap, joining all chunk texts must reconstruct the
	// original segment texts in order.
	segments := []domain.Segment{
		seg(0, "alpha alpha alpha", "A", 0, 5),
		seg(1, "bravo bravo", "B", 5, 9),
		seg(2, "charlie", "A", 9, 12),
		seg(3, "delta delta delta delta", "B", 12, 20),
		seg(4, "echo", "A", 20, 22),
	}

	c := New(WithChunkSize(25), WithOverlap(0))
	chunks := c.Chunk(1, segments)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	var parts []string
	for _, ch := range chunks {
		parts = append(parts, ch.Text)
	}
	var want []string
	for _, s := range segments {
		want = append(want, s.Text)
	}
	if got, expected := strings.Join(parts, separator), strings.Join(want, separator); got != expected {
		t.Errorf("reconstruction mismatch:\n got %q\nwant %q", got, expected)
	}
}

func TestChunk_OversizedSegment(t *testing.T) {
	big := strings.Repeat("x", 300)
	segments := []domain.Segment{
		seg(0, "small", "", 0, 1),
		seg(1, big, "", 1, 2),
		seg(2, "tail", "", 2, 3),
	}

	c := New(WithChunkSize(100), WithOverlap(0))
	chunks := c.Chunk(1, segments)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	// The oversized segment is its own chunk, never truncated.
	if chunks[1].Text != big {
		t.Errorf("oversized segment was modified: len=%d", len(chunks[1].Text))
	}
}

func TestChunk_ClosesBeforeOverflow(t *testing.T) {
	segments := []domain.Segment{
		seg(0, strings.Repeat("a", 60), "", 0, 1),
		seg(1, strings.Repeat("b", 60), "", 1, 2),
	}

	c := New(WithChunkSize(100), WithOverlap(0))
	chunks := c.Chunk(1, segments)

	if len(chunks) != 2 {
		t.Fatalf("expected the chunk to close before the overflowing segment, got %d chunks", len(chunks))
	}
}

func TestChunk_Overlap(t *testing.T) {
	segments := []domain.Segment{
		seg(0, strings.Repeat("a", 40), "", 0, 1),
		seg(1, strings.Repeat("b", 40), "", 1, 2),
		seg(2, strings.Repeat("c", 40), "", 2, 3),
	}

	c := New(WithChunkSize(90), WithOverlap(45))
	chunks := c.Chunk(1, segments)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	// The second chunk repeats the trailing segment of the first.
	if !strings.HasPrefix(chunks[1].Text, strings.Repeat("b", 40)+separator) {
		t.Errorf("second chunk missing overlap prefix: %q", chunks[1].Text[:10])
	}
	// Coverage is not duplicated: the overlapped segment still belongs to
	// the first chunk only, so the last chunk ends with the final segment.
	if !strings.HasSuffix(chunks[1].Text, strings.Repeat("c", 40)) {
		t.Errorf("final coverage broken: %q", chunks[1].Text)
	}
}

func TestChunk_OverlapNeverStalls(t *testing.T) {
	// Overlap close to the chunk size must still make progress.
	var segments []domain.Segment
	for i := 0; i < 50; i++ {
		segments = append(segments, seg(i, strings.Repeat("s", 30), "", float64(i), float64(i+1)))
	}

	c := New(WithChunkSize(100), WithOverlap(90))
	chunks := c.Chunk(1, segments)

	if len(chunks) == 0 || len(chunks) > len(segments) {
		t.Fatalf("unexpected chunk count %d for %d segments", len(chunks), len(segments))
	}
}

func TestChunk_Deterministic(t *testing.T) {
	segments := []domain.Segment{
		seg(0, "first part of the discussion", "A", 0, 10),
		seg(1, "second part of the discussion", "B", 10, 20),
		seg(2, "third part of the discussion", "A", 20, 30),
	}

	c := New(WithChunkSize(40), WithOverlap(10))
	first := c.Chunk(3, segments)
	second := c.Chunk(3, segments)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("chunk %d ID differs across runs", i)
		}
		if first[i].ID != domain.ChunkID(3, i) {
			t.Errorf("chunk %d ID not derived from transcript and ordinal", i)
		}
	}
}

func TestPrimarySpeaker(t *testing.T) {
	segments := []domain.Segment{
		seg(0, "one", "SPEAKER_02", 0, 1),
		seg(1, "two", "SPEAKER_01", 1, 2),
		seg(2, "three", "SPEAKER_01", 2, 3),
	}

	c := New(WithChunkSize(1000), WithOverlap(0))
	chunks := c.Chunk(1, segments)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Speaker != "SPEAKER_01" {
		t.Errorf("expected dominant speaker SPEAKER_01, got %q", chunks[0].Speaker)
	}

	unlabelled := c.Chunk(1, []domain.Segment{seg(0, "plain", "", 0, 1)})
	if unlabelled[0].Speaker != "" {
		t.Errorf("expected empty speaker, got %q", unlabelled[0].Speaker)
	}
}
