package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      models.Identity `json:"user"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Storage     string `json:"storage"`
	ReportCount int    `json:"report_count"`
	Sessions    int    `json:"sessions"`
}
