package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"chemebot/internal/model"
)

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Create(interaction *model.Interaction) error {
	if err := r.db.Create(interaction).Error; err != nil {
		return fmt.Errorf("create interaction failed: %w", err)
	}
	return nil
}

// Stats aggregates the audit log: total answered, per-category counts,
// and how many landed in the last hour.
func (r *InteractionRepository) Stats(ctx context.Context) (*model.UsageStats, error) {
	stats := &model.UsageStats{ByCategory: map[string]int64{}}

	if err := r.db.WithContext(ctx).Model(&model.Interaction{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("count interactions failed: %w", err)
	}

	type categoryCount struct {
		Category string
		Count    int64
	}
	var rows []categoryCount
	if err := r.db.WithContext(ctx).Model(&model.Interaction{}).
		Select("category, count(*) as count").
		Group("category").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("count interactions by category failed: %w", err)
	}
	for _, row := range rows {
		stats.ByCategory[row.Category] = row.Count
	}

	cutoff := time.Now().Add(-time.Hour)
	if err := r.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("created_at >= ?", cutoff).
		Count(&stats.LastHour).Error; err != nil {
		return nil, fmt.Errorf("count recent interactions failed: %w", err)
	}

	return stats, nil
}
