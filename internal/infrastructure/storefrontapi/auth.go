package storefrontapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// AuthClient registers and logs in customers
type AuthClient struct {
	client *Client
}

// Register creates an account; it does not log in
func (c *AuthClient) Register(ctx context.Context, username, email, password string) error {
	payload := registerBody{Username: strings.TrimSpace(username), Email: strings.TrimSpace(email), Password: password}
	if err := c.client.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var body envelope[userBody]
	if err := c.client.do(ctx, request{method: http.MethodPost, path: pathAuthRegister, body: payload}, &body); err != nil {
		return err
	}
	c.client.logger.Info("Account registered", zap.String("user_id", body.Data.ID), zap.String("username", body.Data.Username))
	return nil
}

// Login exchanges credentials for a token and begins a new session
func (c *AuthClient) Login(ctx context.Context, email, password string) error {
	payload := loginBody{Email: strings.TrimSpace(email), Password: password}
	if err := c.client.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var body envelope[tokenBody]
	if err := c.client.do(ctx, request{method: http.MethodPost, path: pathAuthLogin, body: payload}, &body); err != nil {
		return err
	}
	if body.Data.AccessToken == "" {
		return fmt.Errorf("%w: login response carries no token", ErrTransport)
	}
	c.client.session.Begin(payload.Email, body.Data.AccessToken)
	return nil
}

// Logout ends the session locally; tokens are stateless on the server
func (c *AuthClient) Logout() {
	c.client.session.End()
}
