package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/services"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/storage"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	reports, err := h.reportService.Query(middleware.GetIdentity(c), services.ReportFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("q"),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.ReportListResponse{Reports: reports, Count: len(reports)})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}
	report, err := h.reportService.Get(middleware.GetIdentity(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.Create(c.UserContext(), middleware.GetIdentity(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.reportService.Aggregate(middleware.GetIdentity(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.UpdateStatus(c.UserContext(), middleware.GetIdentity(c), id, req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) ReviewerReply(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.AddReviewerReply(c.UserContext(), middleware.GetIdentity(c), id, req.Reply)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Assign(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.Assign(c.UserContext(), middleware.GetIdentity(c), id, req.Fulfiller)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) FulfillerReply(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.AddFulfillerReply(c.UserContext(), middleware.GetIdentity(c), id, req.Reply)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Fulfillers(c *fiber.Ctx) error {
	fulfillers, err := h.reportService.Fulfillers(middleware.GetIdentity(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"fulfillers": fulfillers})
}

// Meta lists the fixed lookup tables the forms and filters are built from.
func (h *ReportHandler) Meta(c *fiber.Ctx) error {
	statuses := make([]dto.StatusOption, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		statuses = append(statuses, dto.StatusOption{Value: s, Label: s.Label()})
	}
	return c.JSON(dto.MetaResponse{
		Categories:   models.Categories,
		Statuses:     statuses,
		ImageTypes:   storage.AllowedTypes(),
		MaxImageSize: storage.MaxImageSize,
	})
}

func reportID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
