package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/geo"
	"github.com/gofiber/fiber/v2"
)

type GeoHandler struct{}

func NewGeoHandler() *GeoHandler {
	return &GeoHandler{}
}

// Locate validates a browser-reported position (or failure code) and returns a
// display label for the report form.
func (h *GeoHandler) Locate(c *fiber.Ctx) error {
	var req dto.LocateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	coords, err := geo.Resolve(c.UserContext(), geo.ClientReport{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		ErrorCode: req.ErrorCode,
	}, geo.DefaultTimeout)
	if err != nil {
		status := fiber.StatusUnprocessableEntity
		if errors.Is(err, geo.ErrOutOfRange) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(dto.ErrorResponse{
			Error: true, Message: geo.Message(err), Field: "coordinates",
		})
	}

	return c.JSON(dto.LocateResponse{
		Coordinates: coords,
		Label:       geo.Label(coords),
	})
}
