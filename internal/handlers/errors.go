package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/services"
	"github.com/gofiber/fiber/v2"
)

// serviceError maps service errors onto HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	var validation *services.ValidationError
	var notFound *services.NotFoundError

	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: validation.Error(), Field: validation.Field,
		})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: notFound.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
