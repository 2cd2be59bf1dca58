package services

import (
	"context"
	"fmt"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driven"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driving"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService reports corpus-wide statistics.
type StatsService struct {
	transcripts driven.TranscriptStore
	index       driven.VectorIndex
}

// NewStatsService creates a new stats service.
func NewStatsService(transcripts driven.TranscriptStore, index driven.VectorIndex) *StatsService {
	return &StatsService{
		transcripts: transcripts,
		index:       index,
	}
}

// Stats combines transcript metadata counts with the live index size.
func (s *StatsService) Stats(ctx context.Context) (domain.Stats, error) {
	stats, err := s.transcripts.Stats(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("transcript stats: %w", err)
	}

	chunks, err := s.index.Count(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("index count: %w", err)
	}
	stats.IndexedChunks = chunks

	return stats, nil
}
