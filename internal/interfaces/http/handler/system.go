package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SystemHandler handles system and health API endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	pingDB    func(ctx context.Context) error
}

// NewSystemHandler creates a new SystemHandler. pingDB may be nil when
// no database check is wanted on the health endpoint.
func NewSystemHandler(pingDB func(ctx context.Context) error) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		pingDB:    pingDB,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns basic system information including version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "Stock Ledger API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Health reports process liveness and database reachability
func (h *SystemHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if h.pingDB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.pingDB(ctx); err != nil {
			response.Status = "degraded"
			response.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(response))
			return
		}
		response.Database = "ok"
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Ping is a simple responsiveness check
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message":   "pong",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}))
}
