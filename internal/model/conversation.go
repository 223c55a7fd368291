package model

import (
	"time"

	"github.com/google/uuid"
)

const DefaultConversationTitle = "New Conversation"

type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"default:New Conversation"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Owner User `gorm:"foreignKey:UserID"`
}
