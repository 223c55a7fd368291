package model

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the three known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	Priority    Priority `gorm:"default:medium"`
	Tags        string
	DueDate     *time.Time
	Completed   bool `gorm:"default:false"`
	CompletedAt *time.Time
	// Minutes before the due date to fire a notification.
	NotificationTimeBefore *int
	CreatedAt              time.Time `gorm:"autoCreateTime"`
	UpdatedAt              time.Time

	Owner User `gorm:"foreignKey:UserID"`
}
