package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/app/middleware"
	businessflow "github.com/tatame-app/tatame/business_flow"
)

// CheckinHandlerInterface defines the contract for check-in handlers
type CheckinHandlerInterface interface {
	Checkin(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// CheckinHandler handles front-desk check-in HTTP requests
type CheckinHandler struct {
	flow      businessflow.CheckinFlow
	validator *validator.Validate
}

// NewCheckinHandler creates a new check-in handler
func NewCheckinHandler(flow businessflow.CheckinFlow) *CheckinHandler {
	return &CheckinHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Checkin validates one member at the door
func (h *CheckinHandler) Checkin(c fiber.Ctx) error {
	var req dto.CheckinRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Checkin(createRequestContext(c, "/api/v1/checkins"), &req, metadata)
	if err != nil {
		if businessflow.IsMemberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Member not found", "MEMBER_NOT_FOUND", nil)
		}
		if businessflow.IsCheckinThrottled(err) {
			return errorResponse(c, fiber.StatusTooManyRequests, "Check-in already registered", "CHECKIN_THROTTLED", nil)
		}
		log.Println("Checkin failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to process check-in", "CHECKIN_FAILED", nil)
	}

	middleware.RecordCheckinVerdict(result.Result)

	// Denied verdicts are still a successful request; the front desk
	// branches on the payload
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// List returns a page of the check-in log
func (h *CheckinHandler) List(c fiber.Ctx) error {
	req := dto.ListCheckinsRequest{
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "page_size", 20),
	}
	if memberUUID := c.Query("member_uuid"); memberUUID != "" {
		req.MemberUUID = &memberUUID
	}
	if result := c.Query("result"); result != "" {
		req.Result = &result
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.ListCheckins(createRequestContext(c, "/api/v1/checkins"), &req, metadata)
	if err != nil {
		if businessflow.IsMemberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Member not found", "MEMBER_NOT_FOUND", nil)
		}
		log.Println("List checkins failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list check-ins", "LIST_CHECKINS_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}
