package chat

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/merrysway/storefront/internal/domain/chat"
	"github.com/merrysway/storefront/internal/domain/order"
)

// AgentRequest is everything the ordering assistant sees for one turn
type AgentRequest struct {
	SessionID string
	UserEmail string
	UserInput string
	Order     []order.OrderItem
	Total     decimal.Decimal
	History   []chat.Message
}

// AgentReply is the assistant's answer. Order is non-nil when the
// assistant changed the order; an empty non-nil slice empties it.
type AgentReply struct {
	Response string
	Order    []order.LineInput
}

// AgentGateway forwards a turn to the ordering assistant
type AgentGateway interface {
	Reply(ctx context.Context, req AgentRequest) (*AgentReply, error)
}
