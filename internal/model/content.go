package model

import "time"

type ContentStatus string

const (
	ContentStatusDraft      ContentStatus = "draft"
	ContentStatusGenerating ContentStatus = "generating"
	ContentStatusReady      ContentStatus = "ready"
	ContentStatusFailed     ContentStatus = "failed"
)

type Article struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	ProjectID *uint         `gorm:"index" json:"project_id"`
	Title     string        `gorm:"type:varchar(500);not null" json:"title"`
	Content   string        `gorm:"type:text" json:"content"`
	Status    ContentStatus `gorm:"type:varchar(20);not null;default:draft" json:"status"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Article) TableName() string {
	return "articles"
}

type Outline struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	ProjectID *uint         `gorm:"index" json:"project_id"`
	Topic     string        `gorm:"type:varchar(500);not null" json:"topic"`
	Content   string        `gorm:"type:text" json:"content"`
	Status    ContentStatus `gorm:"type:varchar(20);not null;default:draft" json:"status"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Outline) TableName() string {
	return "outlines"
}

type GeneratedImage struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	ProjectID *uint         `gorm:"index" json:"project_id"`
	Prompt    string        `gorm:"type:text;not null" json:"prompt"`
	URL       string        `gorm:"type:varchar(1000)" json:"url"`
	Status    ContentStatus `gorm:"type:varchar(20);not null;default:draft" json:"status"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (GeneratedImage) TableName() string {
	return "generated_images"
}
