package repository

import (
	"context"

	"contentpilot/internal/model"
	"contentpilot/pkg/utils"

	"gorm.io/gorm"
)

// ContentRepository persists the resource rows whose generation is tracked.
type ContentRepository interface {
	CreateArticle(ctx context.Context, article *model.Article, opts ...utils.DBOption) error
	UpdateArticle(ctx context.Context, article *model.Article, opts ...utils.DBOption) error
	CreateOutline(ctx context.Context, outline *model.Outline, opts ...utils.DBOption) error
	UpdateOutline(ctx context.Context, outline *model.Outline, opts ...utils.DBOption) error
	CreateImage(ctx context.Context, image *model.GeneratedImage, opts ...utils.DBOption) error
	UpdateImage(ctx context.Context, image *model.GeneratedImage, opts ...utils.DBOption) error
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) CreateArticle(ctx context.Context, article *model.Article, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(article).Error
}

func (r *contentRepository) UpdateArticle(ctx context.Context, article *model.Article, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(article).Error
}

func (r *contentRepository) CreateOutline(ctx context.Context, outline *model.Outline, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(outline).Error
}

func (r *contentRepository) UpdateOutline(ctx context.Context, outline *model.Outline, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(outline).Error
}

func (r *contentRepository) CreateImage(ctx context.Context, image *model.GeneratedImage, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(image).Error
}

func (r *contentRepository) UpdateImage(ctx context.Context, image *model.GeneratedImage, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(image).Error
}
