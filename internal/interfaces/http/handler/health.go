package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/infrastructure/logger"
	"github.com/merrysway/storefront/internal/interfaces/http/dto"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping() error
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
	Time     string `json:"time"`
}

// HealthHandler answers liveness checks
type HealthHandler struct {
	BaseHandler
	db      Pinger
	version string
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version, now: time.Now}
}

// Check pings the database
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Database: "ok",
		Time:     h.now().UTC().Format(time.RFC3339),
	}
	if err := h.db.Ping(); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp, Error: &dto.ErrorInfo{
			Code:      dto.ErrCodeInternal,
			Message:   "database unreachable",
			RequestID: c.GetString(logger.GinRequestIDKey),
		}})
		return
	}
	h.Success(c, resp)
}
