package handler

import (
	"context"
	"time"

	"sound-byte/internal/domain"
	"sound-byte/internal/dto"
	"sound-byte/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// PingFunc checks a backing store.
type PingFunc func(ctx context.Context) error

// HealthHandler reports liveness of the storage backend and the optional cache.
type HealthHandler struct {
	storage string
	ping    PingFunc
	cache   domain.Cache
}

// NewHealthHandler creates a HealthHandler. ping and cache may be nil.
func NewHealthHandler(storage string, ping PingFunc, cache domain.Cache) *HealthHandler {
	return &HealthHandler{storage: storage, ping: ping, cache: cache}
}

// Check godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Storage: h.storage}
	status := fiber.StatusOK

	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			logger.Get().Warn("Storage health check failed", zap.String("storage", h.storage), zap.Error(err))
			resp.Status = "down"
			status = fiber.StatusServiceUnavailable
		}
	}

	if h.cache != nil {
		resp.Cache = "up"
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Cache health check failed", zap.Error(err))
			resp.Cache = "down"
			if status == fiber.StatusOK {
				resp.Status = "degraded"
			}
		}
	}

	return c.Status(status).JSON(resp)
}
