// Package chat relays customer messages to the ordering assistant and
// keeps the conversation log.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/domain/chat"
	"github.com/merrysway/storefront/internal/domain/order"
	"github.com/merrysway/storefront/internal/domain/shared"
	"github.com/merrysway/storefront/internal/infrastructure/logger"
)

// fallbackReply is sent when the assistant answers with nothing
const fallbackReply = "Sorry, I had a little trouble with that. Could you try again?"

// ErrAgentUnavailable is returned when the assistant cannot be reached
var ErrAgentUnavailable = shared.NewDomainError("AGENT_UNAVAILABLE", "The ordering assistant is unavailable")

// OrderBook reads and replaces the user's active order
type OrderBook interface {
	Active(ctx context.Context, userEmail string) (*order.ActiveOrder, error)
	Replace(ctx context.Context, userEmail string, lines []order.LineInput) (*order.ActiveOrder, error)
}

// Service runs chat turns
type Service struct {
	repo   chat.Repository
	orders OrderBook
	agent  AgentGateway
	now    func() time.Time
	logger *zap.Logger
}

// NewService creates a new chat service
func NewService(repo chat.Repository, orders OrderBook, agent AgentGateway, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		orders: orders,
		agent:  agent,
		now:    time.Now,
		logger: logger,
	}
}

// Send runs one turn: the assistant sees the current order and history,
// its reply is logged, and an order it changed becomes the active order.
// The storefront cart picks that change up on its next refresh.
func (s *Service) Send(ctx context.Context, userEmail string, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.UserInput) == "" {
		return nil, shared.NewDomainError("EMPTY_MESSAGE", "Message cannot be empty")
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log := logger.L(logger.WithSessionID(ctx, sessionID))

	if err := s.repo.Touch(ctx, sessionID, userEmail); err != nil {
		return nil, err
	}

	agentReq := AgentRequest{
		SessionID: sessionID,
		UserEmail: userEmail,
		UserInput: req.UserInput,
		Total:     decimal.Zero,
	}
	active, err := s.orders.Active(ctx, userEmail)
	if err != nil {
		log.Warn("Active order unavailable for chat turn", zap.Error(err))
	} else if active != nil {
		agentReq.Order = active.Items
		agentReq.Total = active.Total
	}

	history, err := s.repo.Load(ctx, sessionID, userEmail)
	if err != nil {
		return nil, err
	}
	agentReq.History = history

	reply, err := s.agent.Reply(ctx, agentReq)
	if err != nil {
		log.Error("Agent call failed", zap.Error(err))
		return nil, ErrAgentUnavailable
	}
	response := strings.TrimSpace(reply.Response)
	if response == "" {
		response = fallbackReply
	}

	if reply.Order != nil {
		if _, err := s.orders.Replace(ctx, userEmail, reply.Order); err != nil {
			log.Warn("Failed to store order from agent", zap.Int("items", len(reply.Order)), zap.Error(err))
		} else {
			log.Info("Active order updated by agent", zap.Int("items", len(reply.Order)))
		}
	}

	turn, err := chat.NewTurn(req.UserInput, response, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Append(ctx, sessionID, userEmail, turn); err != nil {
		return nil, err
	}

	return &ChatResponse{SessionID: sessionID, Response: response}, nil
}

// History lists the messages of one of the user's sessions oldest first
func (s *Service) History(ctx context.Context, userEmail, sessionID string) ([]MessageResponse, error) {
	messages, err := s.repo.Load(ctx, sessionID, userEmail)
	if err != nil {
		return nil, err
	}
	return toMessageResponses(messages), nil
}
