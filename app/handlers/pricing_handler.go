package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/tatame-app/tatame/app/dto"
	businessflow "github.com/tatame-app/tatame/business_flow"
)

// PricingHandlerInterface defines the contract for pricing admin handlers
type PricingHandlerInterface interface {
	GetConfig(c fiber.Ctx) error
	UpdateConfig(c fiber.Ctx) error
	UpsertPlanOverride(c fiber.Ctx) error
}

// PricingHandler handles pricing configuration HTTP requests
type PricingHandler struct {
	flow      businessflow.PricingAdminFlow
	validator *validator.Validate
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(flow businessflow.PricingAdminFlow) *PricingHandler {
	return &PricingHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// GetConfig returns the current studio pricing config
func (h *PricingHandler) GetConfig(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.GetPricingConfig(createRequestContext(c, "/api/v1/pricing/config"), metadata)
	if err != nil {
		if businessflow.IsPricingConfigMissing(err) {
			return errorResponse(c, fiber.StatusNotFound, "Pricing is not configured", "PRICING_CONFIG_MISSING", nil)
		}
		log.Println("Get pricing config failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load pricing config", "GET_PRICING_CONFIG_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// UpdateConfig writes a new studio pricing config row
func (h *PricingHandler) UpdateConfig(c fiber.Ctx) error {
	var req dto.UpdatePricingConfigRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpdatePricingConfig(createRequestContext(c, "/api/v1/pricing/config"), &req, metadata)
	if err != nil {
		log.Println("Update pricing config failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update pricing config", "UPDATE_PRICING_CONFIG_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// UpsertPlanOverride sets per-plan price overrides
func (h *PricingHandler) UpsertPlanOverride(c fiber.Ctx) error {
	var req dto.UpsertPlanOverrideRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.PlanUUID = c.Params("uuid")
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpsertPlanOverride(createRequestContext(c, "/api/v1/pricing/plans/"+req.PlanUUID+"/override"), &req, metadata)
	if err != nil {
		if businessflow.IsPlanNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Plan not found", "PLAN_NOT_FOUND", nil)
		}
		log.Println("Upsert plan override failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to save plan override", "UPSERT_PLAN_OVERRIDE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}
