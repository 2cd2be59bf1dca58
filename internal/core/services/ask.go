package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driven"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driving"
	"github.com/meetmind-labs/meetmind-cli/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// NoRelevantContentAnswer is returned without consulting the generation
// provider when retrieval finds nothing inside the filter window.
const NoRelevantContentAnswer = "No relevant meeting content was found for this question. " +
	"Try widening the date range with --from, or check that transcripts have been uploaded."

// truncationMarker is appended when a context block had to be cut to fit the
// budget.
const truncationMarker = "\n[... truncated]"

// AskService answers questions over the indexed corpus: embed the question,
// retrieve the closest chunks inside the filter window, assemble a bounded
// context, and have the generation provider synthesise a grounded answer.
type AskService struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	llm      driven.LLMService
	history  driven.HistoryStore
	settings domain.RAGSettings

	now func() time.Time
}

// NewAskService creates a new ask service. The history store is optional
// (can be nil); answers are then simply not recorded.
func NewAskService(
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	history driven.HistoryStore,
	settings domain.RAGSettings,
) *AskService {
	return &AskService{
		index:    index,
		embedder: embedder,
		llm:      llm,
		history:  history,
		settings: settings,
		now:      time.Now,
	}
}

// SetClock overrides the time source. Useful for testing the default
// lookback window.
func (s *AskService) SetClock(now func() time.Time) {
	s.now = now
}

// Ask runs the full retrieval and synthesis pipeline for one question.
func (s *AskService) Ask(ctx context.Context, q domain.Question) (*domain.Answer, error) {
	logger.Section("Ask")
	defer logger.Timing("ask", time.Now())

	question := strings.TrimSpace(q.Text)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return nil, fmt.Errorf("%w: date range ends before it starts", domain.ErrInvalidInput)
	}
	if q.TopK < 0 {
		return nil, fmt.Errorf("%w: top_k must not be negative, got %d", domain.ErrInvalidInput, q.TopK)
	}

	matches, err := s.retrieve(ctx, question, q)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		logger.Info("No matches inside filter window")
		answer := &domain.Answer{
			Question: question,
			Answer:   NoRelevantContentAnswer,
			Sources:  []domain.Source{},
		}
		s.record(ctx, answer)
		return answer, nil
	}

	included, contextText := s.assembleContext(matches)
	logger.Debug("Context: %d of %d chunks, %d characters", len(included), len(matches), len(contextText))

	prompt := s.buildPrompt(contextText, question)

	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.settings.MaxTokens,
		Temperature: s.settings.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	sources := make([]domain.Source, len(included))
	for i, match := range included {
		sources[i] = domain.Source{
			TranscriptID: match.Metadata.TranscriptID,
			Filename:     match.Metadata.Filename,
			Text:         match.Text,
			StartTime:    match.Metadata.StartTime,
			EndTime:      match.Metadata.EndTime,
			Speaker:      match.Metadata.Speaker,
			Score:        match.Score,
		}
	}

	answer := &domain.Answer{
		Question: question,
		Answer:   strings.TrimSpace(text),
		Sources:  sources,
	}
	s.record(ctx, answer)
	return answer, nil
}

// retrieve embeds the question and queries the index with the effective
// filter.
func (s *AskService) retrieve(ctx context.Context, question string, q domain.Question) ([]domain.ChunkMatch, error) {
	defer logger.Timing("retrieval", time.Now())

	filter := domain.QueryFilter{
		From:    q.From,
		To:      q.To,
		Speaker: q.Speaker,
	}
	// Without an explicit range, recent meetings are almost always what the
	// question is about; the lookback window scopes retrieval accordingly.
	if filter.From.IsZero() && filter.To.IsZero() && s.settings.LookbackDays > 0 {
		filter.From = s.now().AddDate(0, 0, -s.settings.LookbackDays)
		logger.Debug("Applying default lookback: %d days", s.settings.LookbackDays)
	}

	topK := q.TopK
	if topK <= 0 {
		topK = s.settings.TopK
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	logger.Debug("Question embedding: %d dimensions", len(vector))

	matches, err := s.index.Query(ctx, vector, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	logger.Debug("Retrieved %d matches", len(matches))

	return matches, nil
}

// assembleContext concatenates match blocks in rank order until the
// character budget is reached. The first block always makes it in, truncated
// if necessary, so the prompt never goes out empty-handed.
func (s *AskService) assembleContext(matches []domain.ChunkMatch) ([]domain.ChunkMatch, string) {
	var b strings.Builder
	var included []domain.ChunkMatch

	for _, match := range matches {
		block := formatContextBlock(match)
		if b.Len() > 0 {
			block = "\n\n" + block
		}

		if b.Len()+len(block) > s.settings.ContextBudget {
			if len(included) > 0 {
				break
			}
			// Lone oversized chunk: cut it visibly rather than failing.
			keep := s.settings.ContextBudget - len(truncationMarker)
			if keep < 0 {
				keep = 0
			}
			// Never cut inside a multi-byte rune.
			for keep > 0 && !utf8.RuneStart(block[keep]) {
				keep--
			}
			block = block[:keep] + truncationMarker
		}

		b.WriteString(block)
		included = append(included, match)
	}

	return included, b.String()
}

// formatContextBlock renders one chunk with its citation header.
func formatContextBlock(match domain.ChunkMatch) string {
	header := fmt.Sprintf("[%s | %s-%s", match.Metadata.Filename,
		formatTimestamp(match.Metadata.StartTime), formatTimestamp(match.Metadata.EndTime))
	if match.Metadata.Speaker != "" {
		header += " | " + match.Metadata.Speaker
	}
	header += "]"
	return header + "\n" + match.Text
}

// formatTimestamp renders seconds as m:ss or h:mm:ss.
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// buildPrompt fills the configured template.
func (s *AskService) buildPrompt(contextText, question string) string {
	prompt := strings.ReplaceAll(s.settings.PromptTemplate, "{context}", contextText)
	return strings.ReplaceAll(prompt, "{question}", question)
}

// record persists the Q/A pair when a history store is wired. Failure to
// record never fails the answer.
func (s *AskService) record(ctx context.Context, answer *domain.Answer) {
	if s.history == nil {
		return
	}
	if err := s.history.SaveHistory(ctx, answer.Question, answer.Answer); err != nil {
		logger.Warn("Failed to record history: %v", err)
	}
}
