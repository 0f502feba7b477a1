package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/tatame-app/tatame/app/dto"
	businessflow "github.com/tatame-app/tatame/business_flow"
)

// EnrollmentHandlerInterface defines the contract for enrollment handlers
type EnrollmentHandlerInterface interface {
	Quote(c fiber.Ctx) error
	Enroll(c fiber.Ctx) error
}

// EnrollmentHandler handles enrollment HTTP requests
type EnrollmentHandler struct {
	flow      businessflow.EnrollmentFlow
	validator *validator.Validate
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(flow businessflow.EnrollmentFlow) *EnrollmentHandler {
	return &EnrollmentHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Quote prices an enrollment without side effects
func (h *EnrollmentHandler) Quote(c fiber.Ctx) error {
	var req dto.QuoteEnrollmentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.QuoteEnrollment(createRequestContext(c, "/api/v1/enrollments/quote"), &req, metadata)
	if err != nil {
		if mapped := mapEnrollmentError(c, err); mapped != nil {
			return mapped
		}
		log.Println("Quote enrollment failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to quote enrollment", "QUOTE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// Enroll charges the first payment and activates the member
func (h *EnrollmentHandler) Enroll(c fiber.Ctx) error {
	var req dto.EnrollMemberRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.EnrollMember(createRequestContext(c, "/api/v1/enrollments"), &req, metadata)
	if err != nil {
		if mapped := mapEnrollmentError(c, err); mapped != nil {
			return mapped
		}
		if businessflow.IsPromoCodeInvalid(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Promo code is invalid", "PROMO_CODE_INVALID", err.Error())
		}
		if businessflow.IsPromoCodeExhausted(err) {
			return errorResponse(c, fiber.StatusConflict, "Promo code usage cap reached", "PROMO_CODE_EXHAUSTED", nil)
		}
		if businessflow.IsCashSessionNotOpen(err) || businessflow.IsCashSessionNotFound(err) {
			return errorResponse(c, fiber.StatusConflict, "Cash payment requires an open cash session", "CASH_SESSION_UNAVAILABLE", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "MEMBER_FROZEN", "MEMBER_BLOCKED":
				return errorResponse(c, fiber.StatusConflict, be.Message, be.Code, nil)
			}
		}
		log.Println("Enroll member failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to enroll member", "ENROLLMENT_FAILED", nil)
	}
	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// mapEnrollmentError covers lookups shared by quote and enroll
func mapEnrollmentError(c fiber.Ctx, err error) error {
	if businessflow.IsMemberNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Member not found", "MEMBER_NOT_FOUND", nil)
	}
	if businessflow.IsPlanNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Plan not found", "PLAN_NOT_FOUND", nil)
	}
	if businessflow.IsPlanInactive(err) {
		return errorResponse(c, fiber.StatusConflict, "Plan is inactive", "PLAN_INACTIVE", nil)
	}
	if businessflow.IsPricingConfigMissing(err) {
		return errorResponse(c, fiber.StatusConflict, "Pricing is not configured", "PRICING_CONFIG_MISSING", nil)
	}
	return nil
}
