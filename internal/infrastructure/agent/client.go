// Package agent calls the ordering assistant service over HTTP.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	chatapp "github.com/merrysway/storefront/internal/application/chat"
	"github.com/merrysway/storefront/internal/domain/order"
	"github.com/merrysway/storefront/internal/infrastructure/config"
)

var _ chatapp.AgentGateway = (*Client)(nil)

const replyPath = "/v1/reply"

// ErrBadStatus is wrapped when the assistant answers with a non-2xx status
var ErrBadStatus = errors.New("agent: unexpected status")

type itemBody struct {
	Name         string           `json:"name"`
	Quantity     int              `json:"quantity"`
	PerUnitPrice decimal.Decimal  `json:"per_unit_price"`
	TotalPrice   *decimal.Decimal `json:"total_price,omitempty"`
}

type orderBody struct {
	Items []itemBody      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type messageBody struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type replyRequest struct {
	SessionID string        `json:"session_id"`
	UserEmail string        `json:"user_email"`
	UserInput string        `json:"user_input"`
	Order     orderBody     `json:"order"`
	Messages  []messageBody `json:"messages"`
}

type replyResponse struct {
	Response string     `json:"response"`
	Order    *orderBody `json:"order"`
}

// Client is an AgentGateway backed by the assistant's HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an assistant client from configuration
func NewClient(cfg config.AgentConfig, logger *zap.Logger) (*Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("agent base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.Named("agent"),
	}, nil
}

// Reply sends one chat turn and returns the assistant's answer
func (c *Client) Reply(ctx context.Context, req chatapp.AgentRequest) (*chatapp.AgentReply, error) {
	payload, err := json.Marshal(toReplyRequest(req))
	if err != nil {
		return nil, fmt.Errorf("agent: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+replyPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("agent: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Agent replied",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("session_id", req.SessionID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w %d: %s", ErrBadStatus, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var body replyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("agent: decode response: %w", err)
	}
	return body.toReply(), nil
}

func toReplyRequest(req chatapp.AgentRequest) replyRequest {
	items := make([]itemBody, 0, len(req.Order))
	for _, item := range req.Order {
		total := item.TotalPrice
		items = append(items, itemBody{
			Name:         item.Name,
			Quantity:     item.Quantity,
			PerUnitPrice: item.PerUnitPrice,
			TotalPrice:   &total,
		})
	}
	messages := make([]messageBody, 0, len(req.History))
	for _, m := range req.History {
		messages = append(messages, messageBody{Role: string(m.Role), Content: m.Content})
	}
	return replyRequest{
		SessionID: req.SessionID,
		UserEmail: req.UserEmail,
		UserInput: req.UserInput,
		Order:     orderBody{Items: items, Total: req.Total},
		Messages:  messages,
	}
}

func (r replyResponse) toReply() *chatapp.AgentReply {
	reply := &chatapp.AgentReply{Response: r.Response}
	if r.Order == nil {
		return reply
	}
	reply.Order = make([]order.LineInput, 0, len(r.Order.Items))
	for _, item := range r.Order.Items {
		reply.Order = append(reply.Order, order.LineInput{
			Name:         item.Name,
			Quantity:     item.Quantity,
			PerUnitPrice: item.PerUnitPrice,
		})
	}
	return reply
}
