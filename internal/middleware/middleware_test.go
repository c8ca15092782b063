package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/config"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/gofiber/fiber/v2"
)

func TestRoleRequired(t *testing.T) {
	tests := []struct {
		name     string
		identity *models.Identity
		want     int
	}{
		{"no identity", nil, fiber.StatusUnauthorized},
		{"submitter", &models.Identity{Username: "s1", Role: models.RoleSubmitter}, fiber.StatusForbidden},
		{"reviewer", &models.Identity{Username: "admin", Role: models.RoleReviewer}, fiber.StatusOK},
		{"fulfiller", &models.Identity{Username: "tech1", Role: models.RoleFulfiller}, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(func(c *fiber.Ctx) error {
				if tt.identity != nil {
					c.Locals(localIdentity, tt.identity)
				}
				return c.Next()
			})
			app.Get("/", RoleRequired(models.RoleReviewer, models.RoleFulfiller), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name            string
		origins         string
		wantOrigin      string
		wantCredentials string
	}{
		{"wildcard", "*", "*", ""},
		{"explicit origin", "https://reports.campus.example", "https://reports.campus.example", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(CORS(&config.Config{CORSOrigins: tt.origins}))
			app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

			req := httptest.NewRequest("OPTIONS", "/", nil)
			req.Header.Set("Origin", "https://reports.campus.example")
			req.Header.Set("Access-Control-Request-Method", "GET")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if got := resp.Header.Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Errorf("Allow-Credentials = %q, want %q", got, tt.wantCredentials)
			}
		})
	}
}
