package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-facade/internal/service"
	"go.uber.org/zap"
)

type HealthHandler struct {
	keys      service.KeySource
	logger    *zap.Logger
	startTime time.Time
}

func NewHealthHandler(keys service.KeySource, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		keys:      keys,
		logger:    logger,
		startTime: time.Now(),
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

// Readiness fails while the provider key is missing; every lookup would fail.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if _, err := h.keys.APIKey(); err != nil {
		h.logger.Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Uptime: time.Since(h.startTime).String(),
			Checks: map[string]string{"api_key": "missing"},
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).String(),
		Checks: map[string]string{"api_key": "ok"},
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
