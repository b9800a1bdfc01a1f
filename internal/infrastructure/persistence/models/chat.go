package models

import (
	"time"

	"github.com/merrysway/storefront/internal/domain/chat"
)

// ChatSessionModel is a conversation thread keyed by the client session id
type ChatSessionModel struct {
	ID         string    `gorm:"type:varchar(64);primaryKey"`
	UserEmail  string    `gorm:"type:varchar(255);not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
	LastActive time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChatSessionModel) TableName() string {
	return "chat_sessions"
}

// ChatMessageModel is one message; ID order is conversation order
type ChatMessageModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	SessionID string    `gorm:"type:varchar(64);not null;index"`
	UserEmail string    `gorm:"type:varchar(255);not null"`
	Role      chat.Role `gorm:"type:varchar(20);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChatMessageModel) TableName() string {
	return "chat_messages"
}

// ToDomain converts the model to a domain Message
func (m *ChatMessageModel) ToDomain() chat.Message {
	return chat.Message{Role: m.Role, Content: m.Content, Timestamp: m.CreatedAt}
}
