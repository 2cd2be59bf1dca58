package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driven"
)

// fakeEmbedder produces deterministic bag-of-words vectors over a small
// vocabulary, so texts sharing terms score as similar without a model.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	fail  error
}

var vocabulary = []string{
	"deadline", "february", "rollout", "budget", "migration",
	"hiring", "launch", "review", "security", "incident",
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}

	vec := make([]float32, len(vocabulary))
	lower := strings.ToLower(text)
	for i, term := range vocabulary {
		vec[i] = float32(strings.Count(lower, term))
	}
	// Bias slot keeps zero-vocabulary texts from producing a zero vector.
	vec = append(vec, 0.1)
	return vec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimensions() int      { return len(vocabulary) + 1 }
func (f *fakeEmbedder) ModelName() string    { return "fake-embedder" }
func (f *fakeEmbedder) Ping(context.Context) error { return nil }
func (f *fakeEmbedder) Close() error         { return nil }

// fakeLLM records the prompt it was given and returns a canned answer.
type fakeLLM struct {
	answer     string
	fail       error
	lastPrompt string
	calls      int
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.fail != nil {
		return "", f.fail
	}
	return f.answer, nil
}

func (f *fakeLLM) ModelName() string        { return "fake-llm" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error             { return nil }

// fakeTranscriptStore keeps transcripts in memory.
type fakeTranscriptStore struct {
	mu          sync.Mutex
	nextID      int64
	transcripts map[int64]*domain.Transcript
	now         time.Time
}

func newFakeTranscriptStore() *fakeTranscriptStore {
	return &fakeTranscriptStore{
		transcripts: make(map[int64]*domain.Transcript),
		now:         time.Date(2025, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func (f *fakeTranscriptStore) SaveTranscript(_ context.Context, filename string, segments []domain.Segment) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, seg := range segments {
		if err := seg.Validate(); err != nil {
			return 0, err
		}
	}

	f.nextID++
	stored := make([]domain.Segment, len(segments))
	copy(stored, segments)
	for i := range stored {
		stored[i].TranscriptID = f.nextID
	}
	f.transcripts[f.nextID] = &domain.Transcript{
		ID:         f.nextID,
		Filename:   filename,
		UploadedAt: f.now,
		Segments:   stored,
	}
	return f.nextID, nil
}

func (f *fakeTranscriptStore) GetTranscript(_ context.Context, id int64) (*domain.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transcripts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTranscriptStore) ListTranscripts(_ context.Context, _, _ int) ([]domain.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Transcript
	for _, t := range f.transcripts {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTranscriptStore) DeleteTranscript(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transcripts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.transcripts, id)
	return nil
}

func (f *fakeTranscriptStore) Stats(_ context.Context) (domain.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := domain.Stats{TotalTranscripts: len(f.transcripts)}
	for _, t := range f.transcripts {
		stats.TotalSegments += len(t.Segments)
		if stats.EarliestUpload.IsZero() || t.UploadedAt.Before(stats.EarliestUpload) {
			stats.EarliestUpload = t.UploadedAt
		}
		if t.UploadedAt.After(stats.LatestUpload) {
			stats.LatestUpload = t.UploadedAt
		}
	}
	return stats, nil
}

// fakeHistoryStore records saved Q/A pairs.
type fakeHistoryStore struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
}

func (f *fakeHistoryStore) SaveHistory(_ context.Context, question, answer string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, domain.HistoryEntry{
		ID:       int64(len(f.entries) + 1),
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now(),
	})
	return nil
}

func (f *fakeHistoryStore) ListHistory(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.HistoryEntry, len(f.entries))
	copy(out, f.entries)
	if len(out) > limit && limit > 0 {
		out = out[:limit]
	}
	return out, nil
}
