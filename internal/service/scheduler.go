package service

import (
	"context"
	"fmt"
	"time"

	"contentpilot/config"
	"contentpilot/internal/repository"
	"contentpilot/pkg/logger"
	"contentpilot/pkg/tasks"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs the periodic housekeeping: task registry eviction
// and purging of old resolved alerts.
type SchedulerService interface {
	Start() error
	Stop()
}

type schedulerService struct {
	cfg       *config.Config
	log       *logger.Logger
	registry  *tasks.Registry
	alertRepo repository.AdminAlertRepository
	cron      *cron.Cron
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	registry *tasks.Registry,
	alertRepo repository.AdminAlertRepository,
) SchedulerService {
	return &schedulerService{
		cfg:       cfg,
		log:       log,
		registry:  registry,
		alertRepo: alertRepo,
		cron:      cron.New(),
	}
}

func (s *schedulerService) Start() error {
	cleanupSpec := fmt.Sprintf("@every %s", s.cfg.Tasks.CleanupInterval)
	if _, err := s.cron.AddFunc(cleanupSpec, s.cleanupTasks); err != nil {
		return fmt.Errorf("failed to schedule task cleanup: %w", err)
	}

	if _, err := s.cron.AddFunc("@daily", s.purgeResolvedAlerts); err != nil {
		return fmt.Errorf("failed to schedule alert purge: %w", err)
	}

	s.cron.Start()
	s.log.Info("Scheduler started",
		logger.StringField("task_cleanup", cleanupSpec),
	)
	return nil
}

func (s *schedulerService) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		s.log.Warn("Timeout waiting for scheduled jobs to finish")
	}
}

func (s *schedulerService) cleanupTasks() {
	removed := s.registry.CleanupOld(s.cfg.Tasks.MaxAge)
	if removed > 0 {
		s.log.Info("Evicted finished tasks", logger.IntField("removed", removed))
	}
}

func (s *schedulerService) purgeResolvedAlerts() {
	cutoff := time.Now().Add(-s.cfg.Generation.AlertRetention)
	deleted, err := s.alertRepo.DeleteResolvedOlderThan(context.Background(), cutoff)
	if err != nil {
		s.log.Error("Failed to purge resolved alerts", logger.ErrorField(err))
		return
	}
	if deleted > 0 {
		s.log.Info("Purged resolved alerts", logger.Field("deleted", deleted))
	}
}
