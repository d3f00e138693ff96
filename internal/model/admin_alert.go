package model

import "time"

// AdminAlert is an operator-visible event. Rows are append-only from the
// application's point of view; read/resolved flags are flipped by the
// operator UI.
type AdminAlert struct {
	ID           uint         `gorm:"primaryKey"`
	AlertType    string       `gorm:"type:varchar(50);not null;index"`
	Severity     string       `gorm:"type:varchar(20);not null"`
	Title        string       `gorm:"type:varchar(255);not null"`
	Message      string       `gorm:"type:text"`
	ResourceType ResourceType `gorm:"type:varchar(20)"`
	ResourceID   uint
	UserID       uint      `gorm:"index"`
	ProjectID    *uint     `gorm:"index"`
	IsRead       bool      `gorm:"not null;default:false"`
	IsResolved   bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (AdminAlert) TableName() string {
	return "admin_alerts"
}
