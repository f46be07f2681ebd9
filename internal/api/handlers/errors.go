package handlers

import (
	"context"
	"errors"

	"ustva-extractor/internal/dto"
	"ustva-extractor/internal/service"
	"ustva-extractor/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// fail maps service errors to responses: validation errors become 400 with
// their message, deadline errors are left to the timeout middleware and
// everything else is logged and reported as msg with 500.
func fail(c *fiber.Ctx, logger *zap.Logger, err error, msg string) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: verr.Message})
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	logger.Error(msg, zap.String("request_id", requestID(c)), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg})
}

// requestID returns the id assigned by the requestid middleware.
func requestID(c *fiber.Ctx) string {
	v, _ := c.Locals("requestid").(string)
	return v
}

func identity(c *fiber.Ctx) service.Identity {
	return service.Identity{
		RequestID: requestID(c),
		TenantID:  middleware.TenantID(c),
		UserID:    middleware.UserID(c),
	}
}
