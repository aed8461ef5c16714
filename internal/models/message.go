package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID             string    `gorm:"primaryKey"`
	ConversationID string    `gorm:"not null;index:idx_messages_conversation_created,priority:1"`
	UserID         string    `gorm:"not null"`
	Content        string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"index:idx_messages_conversation_created,priority:2"`

	User User `gorm:"foreignKey:UserID"`
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
