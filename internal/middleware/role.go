package middleware

import (
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/gofiber/fiber/v2"
)

// RoleRequired lets the request through only for the listed roles. It must run
// after SessionRequired.
func RoleRequired(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := GetIdentity(c)
		if identity == nil {
			return unauthorized(c, "Unauthorized")
		}
		for _, role := range roles {
			if identity.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "This action is not available for the " + string(identity.Role) + " role",
		})
	}
}
