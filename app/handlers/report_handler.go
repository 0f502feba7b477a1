package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/tatame-app/tatame/app/dto"
	businessflow "github.com/tatame-app/tatame/business_flow"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandlerInterface defines the contract for report handlers
type ReportHandlerInterface interface {
	Export(c fiber.Ctx) error
}

// ReportHandler handles report export HTTP requests
type ReportHandler struct {
	flow      businessflow.ReportFlow
	validator *validator.Validate
}

// NewReportHandler creates a new report handler
func NewReportHandler(flow businessflow.ReportFlow) *ReportHandler {
	return &ReportHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Export streams an xlsx with payments and check-ins for a period
func (h *ReportHandler) Export(c fiber.Ctx) error {
	req := dto.ExportReportRequest{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	filename, data, err := h.flow.ExportPayments(createRequestContext(c, "/api/v1/reports/export"), &req, metadata)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Start date is after end date", "INVALID_DATE_RANGE", nil)
		}
		log.Println("Export report failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to export report", "EXPORT_REPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
