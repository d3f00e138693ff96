package repository

import (
	"contentpilot/config"
	"contentpilot/pkg/cache"
	"contentpilot/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	GenerationLogRepo GenerationLogRepository
	AdminAlertRepo    AdminAlertRepository
	ProjectRepo       ProjectRepository
	ContentRepo       ContentRepository
	AIRepo            AIRepository
	UnitOfWork        UnitOfWork
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	aiRepo, err := NewGeminiAIRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		GenerationLogRepo: NewGenerationLogRepository(db),
		AdminAlertRepo:    NewAdminAlertRepository(db),
		ProjectRepo:       NewProjectRepository(db, log, inmemoryCache, cfg.Generation.LimitCacheExpiry),
		ContentRepo:       NewContentRepository(db),
		AIRepo:            aiRepo,
		UnitOfWork:        NewUnitOfWork(db),
	}, nil
}
