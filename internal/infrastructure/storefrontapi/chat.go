package storefrontapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/merrysway/storefront/internal/domain/chat"
)

// ChatClient talks to the ordering assistant. The assistant may change the
// active order as a side effect of a message.
type ChatClient struct {
	client *Client
}

// Send posts an utterance in the current chat session and returns the reply
func (c *ChatClient) Send(ctx context.Context, utterance string) (string, error) {
	if strings.TrimSpace(utterance) == "" {
		return "", fmt.Errorf("%w: message cannot be empty", ErrInvalidRequest)
	}
	payload := chatRequestBody{UserInput: utterance, SessionID: c.client.session.ID()}

	var body chatResponseBody
	if err := c.client.do(ctx, request{method: http.MethodPost, path: pathChat, body: payload, auth: true}, &body); err != nil {
		return "", err
	}
	return body.Response, nil
}

// History returns the messages of the current chat session in order
func (c *ChatClient) History(ctx context.Context) ([]chat.Message, error) {
	query := url.Values{"session_id": {c.client.session.ID()}}

	var body []messageBody
	if err := c.client.do(ctx, request{method: http.MethodGet, path: pathChatHistory, query: query, auth: true}, &body); err != nil {
		return nil, err
	}
	messages := make([]chat.Message, 0, len(body))
	for _, m := range body {
		messages = append(messages, m.toDomain())
	}
	return messages, nil
}
