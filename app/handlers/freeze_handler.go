package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/tatame-app/tatame/app/dto"
	businessflow "github.com/tatame-app/tatame/business_flow"
)

// FreezeHandlerInterface defines the contract for freeze handlers
type FreezeHandlerInterface interface {
	Status(c fiber.Ctx) error
	Freeze(c fiber.Ctx) error
	Unfreeze(c fiber.Ctx) error
}

// FreezeHandler handles subscription freeze HTTP requests
type FreezeHandler struct {
	flow      businessflow.FreezeFlow
	validator *validator.Validate
}

// NewFreezeHandler creates a new freeze handler
func NewFreezeHandler(flow businessflow.FreezeFlow) *FreezeHandler {
	return &FreezeHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Status summarizes a member's freeze budget
func (h *FreezeHandler) Status(c fiber.Ctx) error {
	memberUUID := c.Params("uuid")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.GetFreezeStatus(createRequestContext(c, "/api/v1/members/"+memberUUID+"/freeze"), memberUUID, metadata)
	if err != nil {
		if businessflow.IsMemberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Member not found", "MEMBER_NOT_FOUND", nil)
		}
		log.Println("Freeze status failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load freeze status", "FREEZE_STATUS_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// Freeze pauses a member's subscription
func (h *FreezeHandler) Freeze(c fiber.Ctx) error {
	var req dto.RequestFreezeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.MemberUUID = c.Params("uuid")
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.RequestFreeze(createRequestContext(c, "/api/v1/members/"+req.MemberUUID+"/freeze"), &req, metadata)
	if err != nil {
		if businessflow.IsMemberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Member not found", "MEMBER_NOT_FOUND", nil)
		}
		if businessflow.IsMemberAlreadyFrozen(err) {
			return errorResponse(c, fiber.StatusConflict, "Subscription is already frozen", "MEMBER_ALREADY_FROZEN", nil)
		}
		if businessflow.IsFreezeNotAllowed(err) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Freeze request not allowed", "FREEZE_NOT_ALLOWED", err.Error())
		}
		log.Println("Freeze request failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to freeze subscription", "FREEZE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// Unfreeze reactivates a frozen subscription
func (h *FreezeHandler) Unfreeze(c fiber.Ctx) error {
	memberUUID := c.Params("uuid")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Unfreeze(createRequestContext(c, "/api/v1/members/"+memberUUID+"/unfreeze"), memberUUID, metadata)
	if err != nil {
		if businessflow.IsMemberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Member not found", "MEMBER_NOT_FOUND", nil)
		}
		if businessflow.IsMemberNotFrozen(err) {
			return errorResponse(c, fiber.StatusConflict, "Subscription is not frozen", "MEMBER_NOT_FROZEN", nil)
		}
		log.Println("Unfreeze failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to unfreeze subscription", "UNFREEZE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}
