package dto

import "github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"

type CreateReportRequest struct {
	Title       string              `json:"title"`
	Category    models.Category     `json:"category"`
	Content     string              `json:"content"`
	Image       string              `json:"image,omitempty"`
	Coordinates *CoordinatesInput `json:"coordinates,omitempty"`
}

// CoordinatesInput keeps absent components distinguishable from zero.
type CoordinatesInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type UpdateStatusRequest struct {
	Status models.Status `json:"status"`
}

type ReplyRequest struct {
	Reply string `json:"reply"`
}

type AssignRequest struct {
	Fulfiller string `json:"fulfiller"`
}

type ReportListResponse struct {
	Reports []models.Report `json:"reports"`
	Count   int             `json:"count"`
}

type StatusOption struct {
	Value models.Status `json:"value"`
	Label string        `json:"label"`
}

type MetaResponse struct {
	Categories   []models.Category `json:"categories"`
	Statuses     []StatusOption    `json:"statuses"`
	ImageTypes   []string          `json:"image_types"`
	MaxImageSize int               `json:"max_image_size"`
}

type LocateRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	ErrorCode int      `json:"error_code"`
}

type LocateResponse struct {
	Coordinates models.Coordinates `json:"coordinates"`
	Label       string             `json:"label"`
}
