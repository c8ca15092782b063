package middleware

import (
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localIdentity  = "identity"
	localSessionID = "session_id"
)

// GetIdentity returns the identity set by SessionRequired, or nil.
func GetIdentity(c *fiber.Ctx) *models.Identity {
	if identity, ok := c.Locals(localIdentity).(*models.Identity); ok {
		return identity
	}
	return nil
}

// GetSessionID returns the session id set by SessionRequired.
func GetSessionID(c *fiber.Ctx) (uuid.UUID, bool) {
	sid, ok := c.Locals(localSessionID).(uuid.UUID)
	return sid, ok
}
