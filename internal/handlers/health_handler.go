package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/services"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/session"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	reports  *services.ReportService
	sessions *session.Store
	ping     func() error
}

// NewHealthHandler takes the storage ping; nil means the in-memory store.
func NewHealthHandler(reports *services.ReportService, sessions *session.Store, ping func() error) *HealthHandler {
	return &HealthHandler{reports: reports, sessions: sessions, ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	storageStatus := "memory"
	if h.ping != nil {
		storageStatus = "ok"
		if err := h.ping(); err != nil {
			storageStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Storage:     storageStatus,
		ReportCount: h.reports.Count(),
		Sessions:    h.sessions.Len(),
	})
}
