package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"contentpilot/config"
	"contentpilot/internal/dto"
	"contentpilot/internal/model"
	"contentpilot/internal/repository"
	"contentpilot/pkg/common"
	"contentpilot/pkg/logger"
	"contentpilot/pkg/tasks"
	"contentpilot/pkg/utils"
)

// ErrQuotaExceeded is returned before any work starts when the tenant's
// monthly limit for the resource type is exhausted.
var ErrQuotaExceeded = errors.New("generation quota exceeded for this billing period")

// GenerationService is the path every generation route goes through:
// quota check, resource row, then a fire-and-forget task the client polls.
type GenerationService interface {
	StartGeneration(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error)
}

type generationService struct {
	cfg         *config.Config
	log         *logger.Logger
	registry    *tasks.Registry
	tracker     GenerationTracker
	contentRepo repository.ContentRepository
	aiRepo      repository.AIRepository
	uow         repository.UnitOfWork
}

func NewGenerationService(
	cfg *config.Config,
	log *logger.Logger,
	registry *tasks.Registry,
	tracker GenerationTracker,
	contentRepo repository.ContentRepository,
	aiRepo repository.AIRepository,
	uow repository.UnitOfWork,
) GenerationService {
	return &generationService{
		cfg:         cfg,
		log:         log,
		registry:    registry,
		tracker:     tracker,
		contentRepo: contentRepo,
		aiRepo:      aiRepo,
		uow:         uow,
	}
}

// StartGeneration rejects over-quota requests, creates the resource row in
// generating state and enqueues the actual work. It returns immediately
// with the task id derived from the resource, so a client retry for the
// same resource coalesces in the registry instead of double-generating.
func (s *generationService) StartGeneration(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	resourceType := model.ResourceType(req.ResourceType)
	if !resourceType.Valid() {
		return nil, fmt.Errorf("unknown resource type: %s", req.ResourceType)
	}

	if !s.tracker.CheckLimit(ctx, req.ProjectID, resourceType) {
		return nil, ErrQuotaExceeded
	}

	resourceID, err := s.createResource(ctx, resourceType, req)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to create resource row",
			logger.ErrorField(err),
			logger.StringField("resource_type", req.ResourceType),
		)
		return nil, fmt.Errorf("failed to create %s: %w", req.ResourceType, err)
	}

	taskID := fmt.Sprintf(common.KeyTaskIDGeneration, resourceType, resourceID)
	s.registry.Enqueue(taskID, func(taskCtx context.Context) (interface{}, error) {
		return s.runGeneration(taskCtx, resourceType, resourceID, req)
	})

	s.log.InfoContext(ctx, "Generation enqueued",
		logger.StringField("task_id", taskID),
		logger.UintField("user_id", req.UserID),
	)

	return &dto.GenerateResponse{TaskID: taskID, ResourceID: resourceID}, nil
}

// runGeneration is the unit of work the registry executes: start entry,
// AI call, then success or failure bookkeeping, each stage in its own
// transaction so the success marking and the usage increment commit
// together.
func (s *generationService) runGeneration(ctx context.Context, resourceType model.ResourceType, resourceID uint, req dto.GenerateRequest) (interface{}, error) {
	if !utils.ShouldContinue(ctx, s.log) {
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Generation.Timeout)
	defer cancel()

	metadata, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input metadata: %w", err)
	}

	var logID uint
	err = s.uow.Run(func(opts ...utils.DBOption) error {
		id, startErr := s.tracker.LogStart(ctx, req.UserID, req.ProjectID, resourceType, resourceID, metadata, opts...)
		logID = id
		return startErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to log generation start: %w", err)
	}

	start := time.Now()
	result, aiErr := s.generate(ctx, resourceType, req)
	durationMs := time.Since(start).Milliseconds()

	// The deadline bounds the AI call only. When it is the deadline itself
	// that failed the call, the bookkeeping below must still reach the
	// database, so it runs on a detached context.
	bkCtx := context.WithoutCancel(ctx)

	if aiErr != nil {
		failErr := s.uow.Run(func(opts ...utils.DBOption) error {
			s.tracker.LogFailure(bkCtx, logID, aiErr.Error(), durationMs, opts...)
			return s.markResourceFailed(bkCtx, resourceType, resourceID, opts...)
		})
		if failErr != nil {
			s.log.ErrorContextWithAlert(bkCtx, "Failed to record generation failure",
				logger.ErrorField(failErr),
				logger.UintField("log_id", logID),
			)
		}
		return nil, aiErr
	}

	err = s.uow.Run(func(opts ...utils.DBOption) error {
		if updateErr := s.storeResult(bkCtx, resourceType, resourceID, result, opts...); updateErr != nil {
			return updateErr
		}
		s.tracker.LogSuccess(bkCtx, logID, result.Model, durationMs, opts...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store generation result: %w", err)
	}

	return map[string]interface{}{
		"resource_type": string(resourceType),
		"resource_id":   resourceID,
	}, nil
}

func (s *generationService) generate(ctx context.Context, resourceType model.ResourceType, req dto.GenerateRequest) (*dto.AIGenerationResult, error) {
	switch resourceType {
	case model.ResourceTypeArticle:
		return s.aiRepo.GenerateArticle(ctx, req)
	case model.ResourceTypeOutline:
		return s.aiRepo.GenerateOutline(ctx, req)
	case model.ResourceTypeImage:
		return s.aiRepo.GenerateImage(ctx, req)
	}
	return nil, fmt.Errorf("unknown resource type: %s", resourceType)
}

func (s *generationService) createResource(ctx context.Context, resourceType model.ResourceType, req dto.GenerateRequest) (uint, error) {
	switch resourceType {
	case model.ResourceTypeArticle:
		article := &model.Article{
			UserID:    req.UserID,
			ProjectID: req.ProjectID,
			Title:     req.Topic,
			Status:    model.ContentStatusGenerating,
		}
		if err := s.contentRepo.CreateArticle(ctx, article); err != nil {
			return 0, err
		}
		return article.ID, nil
	case model.ResourceTypeOutline:
		outline := &model.Outline{
			UserID:    req.UserID,
			ProjectID: req.ProjectID,
			Topic:     req.Topic,
			Status:    model.ContentStatusGenerating,
		}
		if err := s.contentRepo.CreateOutline(ctx, outline); err != nil {
			return 0, err
		}
		return outline.ID, nil
	case model.ResourceTypeImage:
		image := &model.GeneratedImage{
			UserID:    req.UserID,
			ProjectID: req.ProjectID,
			Prompt:    req.Topic,
			Status:    model.ContentStatusGenerating,
		}
		if err := s.contentRepo.CreateImage(ctx, image); err != nil {
			return 0, err
		}
		return image.ID, nil
	}
	return 0, fmt.Errorf("unknown resource type: %s", resourceType)
}

func (s *generationService) storeResult(ctx context.Context, resourceType model.ResourceType, resourceID uint, result *dto.AIGenerationResult, opts ...utils.DBOption) error {
	switch resourceType {
	case model.ResourceTypeArticle:
		return s.contentRepo.UpdateArticle(ctx, &model.Article{
			ID:      resourceID,
			Content: result.Content,
			Status:  model.ContentStatusReady,
		}, opts...)
	case model.ResourceTypeOutline:
		return s.contentRepo.UpdateOutline(ctx, &model.Outline{
			ID:      resourceID,
			Content: result.Content,
			Status:  model.ContentStatusReady,
		}, opts...)
	case model.ResourceTypeImage:
		return s.contentRepo.UpdateImage(ctx, &model.GeneratedImage{
			ID:     resourceID,
			URL:    result.ImageURL,
			Status: model.ContentStatusReady,
		}, opts...)
	}
	return fmt.Errorf("unknown resource type: %s", resourceType)
}

func (s *generationService) markResourceFailed(ctx context.Context, resourceType model.ResourceType, resourceID uint, opts ...utils.DBOption) error {
	switch resourceType {
	case model.ResourceTypeArticle:
		return s.contentRepo.UpdateArticle(ctx, &model.Article{ID: resourceID, Status: model.ContentStatusFailed}, opts...)
	case model.ResourceTypeOutline:
		return s.contentRepo.UpdateOutline(ctx, &model.Outline{ID: resourceID, Status: model.ContentStatusFailed}, opts...)
	case model.ResourceTypeImage:
		return s.contentRepo.UpdateImage(ctx, &model.GeneratedImage{ID: resourceID, Status: model.ContentStatusFailed}, opts...)
	}
	return fmt.Errorf("unknown resource type: %s", resourceType)
}
