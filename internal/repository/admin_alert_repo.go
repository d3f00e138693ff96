package repository

import (
	"context"
	"time"

	"contentpilot/internal/model"
	"contentpilot/pkg/utils"

	"gorm.io/gorm"
)

type GetAlertParam struct {
	UnresolvedOnly bool
	Limit          int
	Offset         int
}

type AdminAlertRepository interface {
	Create(ctx context.Context, alert *model.AdminAlert, opts ...utils.DBOption) error
	Get(ctx context.Context, param *GetAlertParam, opts ...utils.DBOption) ([]model.AdminAlert, error)
	DeleteResolvedOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error)
}

type adminAlertRepository struct {
	db *gorm.DB
}

func NewAdminAlertRepository(db *gorm.DB) AdminAlertRepository {
	return &adminAlertRepository{db: db}
}

func (r *adminAlertRepository) Create(ctx context.Context, alert *model.AdminAlert, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(alert).Error
}

func (r *adminAlertRepository) Get(ctx context.Context, param *GetAlertParam, opts ...utils.DBOption) ([]model.AdminAlert, error) {
	var alerts []model.AdminAlert
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Model(&model.AdminAlert{})
	if param.UnresolvedOnly {
		db = db.Where("is_resolved = ?", false)
	}
	if param.Limit > 0 {
		db = db.Limit(param.Limit)
	}
	if param.Offset > 0 {
		db = db.Offset(param.Offset)
	}
	if err := db.Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *adminAlertRepository) DeleteResolvedOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	result := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("is_resolved = ? AND created_at < ?", true, date).
		Delete(&model.AdminAlert{})
	return result.RowsAffected, result.Error
}
