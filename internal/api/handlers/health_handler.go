package handlers

import (
	"context"
	"time"

	"ustva-extractor/internal/dto"
	"ustva-extractor/internal/repository"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

type HealthHandler struct {
	store  repository.Store
	logger *zap.Logger
}

func NewHealthHandler(store repository.Store, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

// Health godoc
// @Summary Health check
// @Description Reports whether a database is configured and reachable. The service
// @Description keeps working without one.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	res := dto.HealthResponse{OK: true, DB: h.store.Enabled()}

	if res.DB {
		ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn("Database ping failed", zap.Error(err))
		} else {
			res.DBPing = true
		}
	}

	return c.JSON(res)
}
