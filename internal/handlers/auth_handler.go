package handlers

import (
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return serviceError(c, services.ErrUnauthenticated)
	}
	h.authService.Logout(sid)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return serviceError(c, services.ErrUnauthenticated)
	}
	return c.JSON(identity)
}
