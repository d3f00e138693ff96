package repository

import (
	"context"
	"errors"

	"contentpilot/internal/model"
	"contentpilot/pkg/utils"

	"gorm.io/gorm"
)

type GenerationLogRepository interface {
	Create(ctx context.Context, entry *model.GenerationLog, opts ...utils.DBOption) error
	FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.GenerationLog, error)
	Update(ctx context.Context, entry *model.GenerationLog, opts ...utils.DBOption) error
}

type generationLogRepository struct {
	db *gorm.DB
}

func NewGenerationLogRepository(db *gorm.DB) GenerationLogRepository {
	return &generationLogRepository{db: db}
}

func (r *generationLogRepository) Create(ctx context.Context, entry *model.GenerationLog, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(entry).Error
}

// FindByID returns (nil, nil) when no entry exists; callers treat a missing
// entry as a defensive no-op, not an error.
func (r *generationLogRepository) FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.GenerationLog, error) {
	var entry model.GenerationLog
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *generationLogRepository) Update(ctx context.Context, entry *model.GenerationLog, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(entry).
		Select("status", "error_message", "ai_model", "duration_ms", "cost_credits").
		Updates(entry).Error
}
