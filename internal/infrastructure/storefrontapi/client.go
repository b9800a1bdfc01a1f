// Package storefrontapi implements the HTTP accessors the storefront client
// uses to talk to the storefront server: active order, catalog, ordering
// assistant chat and authentication.
package storefrontapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	apiPrefix = "/api/v1"

	pathAuthRegister = apiPrefix + "/auth/register"
	pathAuthLogin    = apiPrefix + "/auth/login"
	pathProducts     = apiPrefix + "/products"
	pathChat         = apiPrefix + "/chat"
	pathChatHistory  = apiPrefix + "/chat/history"
	pathActiveOrder  = apiPrefix + "/orders/active"
	pathOrderHistory = apiPrefix + "/orders/history"

	maxErrorBody = 64 << 10
)

// Config holds client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration

	// TracerProvider records client spans; nil uses the global provider
	TracerProvider trace.TracerProvider
}

// Validate validates the client configuration
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidRequest)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base URL %q is not absolute", ErrInvalidRequest, c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout cannot be negative", ErrInvalidRequest)
	}
	return nil
}

// Client is the shared HTTP transport of all accessors
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	logger     *zap.Logger
	validate   *validator.Validate
}

// NewClient creates a client bound to session
func NewClient(config Config, session *Session, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if session == nil {
		session = NewSession()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	transportOpts := []otelhttp.Option{otelhttp.WithSpanNameFormatter(spanName)}
	if config.TracerProvider != nil {
		transportOpts = append(transportOpts, otelhttp.WithTracerProvider(config.TracerProvider))
	}
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport, transportOpts...),
		},
		session:    session,
		logger:     logger.Named("storefrontapi"),
		validate:   validator.New(),
	}, nil
}

// Session returns the session the client authenticates with
func (c *Client) Session() *Session {
	return c.session
}

// Orders returns the active order accessor
func (c *Client) Orders() *OrdersClient {
	return &OrdersClient{client: c}
}

// Products returns the catalog accessor
func (c *Client) Products() *ProductsClient {
	return &ProductsClient{client: c}
}

// Chat returns the ordering assistant accessor
func (c *Client) Chat() *ChatClient {
	return &ChatClient{client: c}
}

// Auth returns the authentication accessor
func (c *Client) Auth() *AuthClient {
	return &AuthClient{client: c}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

// errorBody accepts both the server envelope and a bare {detail} body
type errorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail string `json:"detail"`
}

// do performs req and decodes a successful JSON body into out. out may be
// nil for responses without a body.
func (c *Client) do(ctx context.Context, req request, out any) error {
	var reqBody io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%w: encode body: %v", ErrInvalidRequest, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, reqBody)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrInvalidRequest, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.auth {
		token := c.session.Token()
		if token == "" {
			return ErrNotLoggedIn
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("Request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, req.method, req.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Request completed",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s %s: empty response body", ErrTransport, req.method, req.path)
		}
		return fmt.Errorf("%w: %s %s: decode response: %v", ErrTransport, req.method, req.path, err)
	}
	return nil
}

// spanName names client spans after the endpoint, without the query
func spanName(_ string, r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

func decodeError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: HTTP %d", ErrUnauthorized, resp.StatusCode)
	}

	rejection := &RejectionError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return rejection
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return rejection
	}
	switch {
	case body.Error != nil:
		rejection.Code = body.Error.Code
		if body.Error.Message != "" {
			rejection.Message = body.Error.Message
		}
	case body.Detail != "":
		rejection.Message = body.Detail
	}
	return rejection
}
