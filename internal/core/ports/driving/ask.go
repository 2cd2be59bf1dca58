package driving

import (
	"context"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

// AskService answers natural-language questions from the indexed corpus.
type AskService interface {
	// Ask retrieves relevant chunks for the question and synthesises a
	// grounded answer with citations. An empty corpus or no matches is
	// not an error: the answer states that nothing relevant was found and
	// Sources is empty.
	Ask(ctx context.Context, q domain.Question) (*domain.Answer, error)
}

// StatsService reports corpus-wide statistics.
type StatsService interface {
	Stats(ctx context.Context) (domain.Stats, error)
}
