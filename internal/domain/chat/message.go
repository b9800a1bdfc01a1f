// Package chat models conversations with the ordering assistant.
package chat

import (
	"strings"
	"time"

	"github.com/merrysway/storefront/internal/domain/shared"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one side of a conversation turn
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// Session is a conversation thread. Its ID is generated by the client on
// every login and correlates the chat history.
type Session struct {
	ID         string
	UserEmail  string
	CreatedAt  time.Time
	LastActive time.Time
}

// NewTurn builds the user/assistant message pair appended after each reply
func NewTurn(userInput, reply string, at time.Time) ([]Message, error) {
	if strings.TrimSpace(userInput) == "" {
		return nil, shared.NewDomainError("EMPTY_MESSAGE", "Message cannot be empty")
	}
	return []Message{
		{Role: RoleUser, Content: userInput, Timestamp: at},
		{Role: RoleAssistant, Content: reply, Timestamp: at},
	}, nil
}
