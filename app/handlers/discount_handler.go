package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/tatame-app/tatame/app/dto"
	businessflow "github.com/tatame-app/tatame/business_flow"
)

// DiscountHandlerInterface defines the contract for discount handlers
type DiscountHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Deactivate(c fiber.Ctx) error
	ValidatePromo(c fiber.Ctx) error
}

// DiscountHandler handles discount administration HTTP requests
type DiscountHandler struct {
	flow      businessflow.DiscountAdminFlow
	validator *validator.Validate
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(flow businessflow.DiscountAdminFlow) *DiscountHandler {
	return &DiscountHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Create adds a commitment tier or promo code
func (h *DiscountHandler) Create(c fiber.Ctx) error {
	var req dto.CreateDiscountRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CreateDiscount(createRequestContext(c, "/api/v1/discounts"), &req, metadata)
	if err != nil {
		if businessflow.IsDiscountValueInvalid(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Discount value is out of range", "DISCOUNT_VALUE_INVALID", err.Error())
		}
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "DISCOUNT_VALIDATION_FAILED" {
			return errorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, nil)
		}
		log.Println("Create discount failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create discount", "CREATE_DISCOUNT_FAILED", nil)
	}
	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// List returns discounts, optionally filtered by category and active flag
func (h *DiscountHandler) List(c fiber.Ctx) error {
	var req dto.ListDiscountsRequest
	if category := c.Query("category"); category != "" {
		req.Category = &category
	}
	if active := c.Query("ativo"); active != "" {
		isActive := active == "true"
		req.Active = &isActive
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.ListDiscounts(createRequestContext(c, "/api/v1/discounts"), &req, metadata)
	if err != nil {
		log.Println("List discounts failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list discounts", "LIST_DISCOUNTS_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// Deactivate turns a discount off without deleting its history
func (h *DiscountHandler) Deactivate(c fiber.Ctx) error {
	discountUUID := c.Params("uuid")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.DeactivateDiscount(createRequestContext(c, "/api/v1/discounts/"+discountUUID), discountUUID, metadata)
	if err != nil {
		if businessflow.IsDiscountNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Discount not found", "DISCOUNT_NOT_FOUND", nil)
		}
		log.Println("Deactivate discount failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to deactivate discount", "DEACTIVATE_DISCOUNT_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ValidatePromo checks a code for the enrollment UI
func (h *DiscountHandler) ValidatePromo(c fiber.Ctx) error {
	var req dto.ValidatePromoRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.ValidatePromo(createRequestContext(c, "/api/v1/discounts/validate"), &req, metadata)
	if err != nil {
		if businessflow.IsMemberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Member not found", "MEMBER_NOT_FOUND", nil)
		}
		log.Println("Validate promo failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to validate promo code", "VALIDATE_PROMO_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}
