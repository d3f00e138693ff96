package model

import (
	"time"

	"gorm.io/datatypes"
)

type ResourceType string

const (
	ResourceTypeArticle ResourceType = "article"
	ResourceTypeOutline ResourceType = "outline"
	ResourceTypeImage   ResourceType = "image"
)

func (r ResourceType) Valid() bool {
	switch r {
	case ResourceTypeArticle, ResourceTypeOutline, ResourceTypeImage:
		return true
	}
	return false
}

// Plural returns the form used by usage counters and plan limits.
func (r ResourceType) Plural() string {
	return string(r) + "s"
}

type GenerationStatus string

const (
	GenerationStatusStarted GenerationStatus = "started"
	GenerationStatusSuccess GenerationStatus = "success"
	GenerationStatusFailed  GenerationStatus = "failed"
)

// MaxErrorMessageLength bounds stored failure messages.
const MaxErrorMessageLength = 500

// GenerationLog records one generation attempt. cost_credits stays 0 unless
// the attempt ends in success.
type GenerationLog struct {
	ID            uint             `gorm:"primaryKey"`
	UserID        uint             `gorm:"not null;index"`
	ProjectID     *uint            `gorm:"index"`
	ResourceType  ResourceType     `gorm:"type:varchar(20);not null"`
	ResourceID    uint             `gorm:"not null;index"`
	Status        GenerationStatus `gorm:"type:varchar(20);not null;default:started"`
	ErrorMessage  string           `gorm:"type:varchar(500)"`
	AIModel       string           `gorm:"type:varchar(100)"`
	DurationMs    int64
	InputMetadata datatypes.JSON `gorm:"type:jsonb"`
	CostCredits   int            `gorm:"not null;default:0"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (GenerationLog) TableName() string {
	return "generation_logs"
}
