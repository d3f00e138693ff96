package model

import "time"

// UnlimitedUsage is the plan-limit sentinel meaning no cap.
const UnlimitedUsage = -1

type SubscriptionPlan struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	ArticleLimit int       `gorm:"not null;default:0"`
	OutlineLimit int       `gorm:"not null;default:0"`
	ImageLimit   int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// LimitFor returns the monthly cap for a plural resource type,
// UnlimitedUsage when the plan does not meter it.
func (p *SubscriptionPlan) LimitFor(pluralResourceType string) int {
	switch pluralResourceType {
	case "articles":
		return p.ArticleLimit
	case "outlines":
		return p.OutlineLimit
	case "images":
		return p.ImageLimit
	}
	return UnlimitedUsage
}

// Project is the billable tenant. Monthly usage counters roll over at
// UsageResetAt.
type Project struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"type:varchar(255);not null"`
	OwnerID      uint   `gorm:"not null;index"`
	PlanID       uint   `gorm:"not null"`
	ArticlesUsed int    `gorm:"not null;default:0"`
	OutlinesUsed int    `gorm:"not null;default:0"`
	ImagesUsed   int    `gorm:"not null;default:0"`
	UsageResetAt time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	Plan SubscriptionPlan `gorm:"foreignKey:PlanID;references:ID"`
}

func (Project) TableName() string {
	return "projects"
}

// UsageFor returns the current monthly counter for a plural resource type.
func (p *Project) UsageFor(pluralResourceType string) int {
	switch pluralResourceType {
	case "articles":
		return p.ArticlesUsed
	case "outlines":
		return p.OutlinesUsed
	case "images":
		return p.ImagesUsed
	}
	return 0
}

// UsageColumn maps a plural resource type to its counter column.
func UsageColumn(pluralResourceType string) (string, bool) {
	switch pluralResourceType {
	case "articles":
		return "articles_used", true
	case "outlines":
		return "outlines_used", true
	case "images":
		return "images_used", true
	}
	return "", false
}
