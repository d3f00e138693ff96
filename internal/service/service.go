package service

import (
	"contentpilot/config"
	"contentpilot/internal/repository"
	"contentpilot/pkg/logger"
	"contentpilot/pkg/tasks"
	"contentpilot/pkg/telegram"
)

type Service struct {
	GenerationService GenerationService
	GenerationTracker GenerationTracker
	SchedulerService  SchedulerService
	AlertService      AlertService
	TaskRegistry      *tasks.Registry
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	registry *tasks.Registry,
	notifier *telegram.Notifier,
) *Service {
	tracker := NewGenerationTracker(cfg, log, repo.GenerationLogRepo, repo.ProjectRepo, repo.AdminAlertRepo, notifier)
	generationService := NewGenerationService(cfg, log, registry, tracker, repo.ContentRepo, repo.AIRepo, repo.UnitOfWork)
	schedulerService := NewSchedulerService(cfg, log, registry, repo.AdminAlertRepo)
	alertService := NewAlertService(log, repo.AdminAlertRepo)

	return &Service{
		GenerationService: generationService,
		GenerationTracker: tracker,
		SchedulerService:  schedulerService,
		AlertService:      alertService,
		TaskRegistry:      registry,
	}
}
