package app

import (
	"context"

	"chemebot/internal/model"
)

type StatsSource interface {
	Stats(ctx context.Context) (*model.UsageStats, error)
}

// StatsService reports usage aggregates from the interaction log.
type StatsService struct {
	source StatsSource
}

func NewStatsService(source StatsSource) *StatsService {
	return &StatsService{source: source}
}

func (s *StatsService) Usage(ctx context.Context) (*model.UsageStats, error) {
	if s.source == nil {
		return &model.UsageStats{ByCategory: map[string]int64{}}, nil
	}
	return s.source.Stats(ctx)
}
