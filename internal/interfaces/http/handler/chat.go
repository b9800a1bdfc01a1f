package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	chatapp "github.com/merrysway/storefront/internal/application/chat"
)

// ChatHandler serves the ordering assistant
type ChatHandler struct {
	BaseHandler
	chatService *chatapp.Service
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *chatapp.Service) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Send runs one assistant turn
// POST /api/v1/chat
func (h *ChatHandler) Send(c *gin.Context) {
	email, ok := h.userEmail(c)
	if !ok {
		return
	}
	var req chatapp.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	resp, err := h.chatService.Send(c.Request.Context(), email, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Resource(c, http.StatusOK, resp)
}

// History lists a session's messages
// GET /api/v1/chat/history?session_id=
func (h *ChatHandler) History(c *gin.Context) {
	email, ok := h.userEmail(c)
	if !ok {
		return
	}
	var query chatapp.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err)
		return
	}
	messages, err := h.chatService.History(c.Request.Context(), email, query.SessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Resource(c, http.StatusOK, messages)
}
