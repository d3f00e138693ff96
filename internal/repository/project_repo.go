package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contentpilot/internal/model"
	"contentpilot/pkg/cache"
	"contentpilot/pkg/common"
	"contentpilot/pkg/logger"
	"contentpilot/pkg/utils"

	"gorm.io/gorm"
)

// ProjectRepository is the tenant usage store. All three quota operations
// tolerate an unknown project id: they no-op (or allow) instead of failing.
type ProjectRepository interface {
	FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Project, error)
	ResetIfNeeded(ctx context.Context, projectID uint, opts ...utils.DBOption) error
	IncrementUsage(ctx context.Context, projectID uint, pluralResourceType string, opts ...utils.DBOption) error
	CheckProjectLimit(ctx context.Context, projectID uint, pluralResourceType string, opts ...utils.DBOption) (bool, error)
}

type projectRepository struct {
	db          *gorm.DB
	log         *logger.Logger
	cache       cache.Cache
	cacheExpiry time.Duration
}

func NewProjectRepository(db *gorm.DB, log *logger.Logger, inmemoryCache cache.Cache, cacheExpiry time.Duration) ProjectRepository {
	return &projectRepository{
		db:          db,
		log:         log,
		cache:       inmemoryCache,
		cacheExpiry: cacheExpiry,
	}
}

func (r *projectRepository) FindByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Project, error) {
	var project model.Project
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// ResetIfNeeded zeroes the monthly counters when the reset date has passed.
// Unknown projects are a no-op.
func (r *projectRepository) ResetIfNeeded(ctx context.Context, projectID uint, opts ...utils.DBOption) error {
	project, err := r.FindByID(ctx, projectID, opts...)
	if err != nil {
		return err
	}
	if project == nil {
		return nil
	}

	now := time.Now()
	if !project.UsageResetAt.IsZero() && project.UsageResetAt.After(now) {
		return nil
	}

	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"articles_used":  0,
			"outlines_used":  0,
			"images_used":    0,
			"usage_reset_at": utils.NextMonthlyReset(now),
		}).Error
}

// IncrementUsage bumps one counter atomically in SQL. Calling it for a
// project without a row affects nothing and returns no error.
func (r *projectRepository) IncrementUsage(ctx context.Context, projectID uint, pluralResourceType string, opts ...utils.DBOption) error {
	column, ok := model.UsageColumn(pluralResourceType)
	if !ok {
		return fmt.Errorf("unknown resource type: %s", pluralResourceType)
	}

	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Project{}).
		Where("id = ?", projectID).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}

// CheckProjectLimit compares the current counter against the plan limit.
// Unknown projects and unlimited plans are allowed.
func (r *projectRepository) CheckProjectLimit(ctx context.Context, projectID uint, pluralResourceType string, opts ...utils.DBOption) (bool, error) {
	project, err := r.FindByID(ctx, projectID, opts...)
	if err != nil {
		return false, err
	}
	if project == nil {
		r.log.WarnContext(ctx, "Limit check for unknown project", logger.UintField("project_id", projectID))
		return true, nil
	}

	plan, err := r.planByID(ctx, project.PlanID, opts...)
	if err != nil {
		return false, err
	}

	limit := plan.LimitFor(pluralResourceType)
	if limit == model.UnlimitedUsage {
		return true, nil
	}
	return project.UsageFor(pluralResourceType) < limit, nil
}

// planByID serves plan rows from the in-memory cache; plans change rarely
// while limits are checked on every generation.
func (r *projectRepository) planByID(ctx context.Context, planID uint, opts ...utils.DBOption) (*model.SubscriptionPlan, error) {
	key := fmt.Sprintf(common.KeyProjectPlan, planID)
	if cached, found := r.cache.Get(key); found {
		if plan, ok := cached.(*model.SubscriptionPlan); ok {
			return plan, nil
		}
	}

	var plan model.SubscriptionPlan
	if err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).First(&plan, planID).Error; err != nil {
		return nil, err
	}

	r.cache.Set(key, &plan, r.cacheExpiry)
	return &plan, nil
}
