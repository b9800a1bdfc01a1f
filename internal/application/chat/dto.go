package chat

import "github.com/merrysway/storefront/internal/domain/chat"

// ChatRequest is one customer utterance. A missing session id starts a
// new session.
type ChatRequest struct {
	UserInput string `json:"user_input" binding:"required,max=2000"`
	SessionID string `json:"session_id" binding:"max=64"`
}

// ChatResponse carries the assistant reply and the session it belongs to
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

// HistoryQuery selects the session whose messages are listed
type HistoryQuery struct {
	SessionID string `form:"session_id" binding:"required,max=64"`
}

// MessageResponse is one message of the session log
type MessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func toMessageResponses(messages []chat.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageResponse{Role: string(m.Role), Content: m.Content})
	}
	return out
}
