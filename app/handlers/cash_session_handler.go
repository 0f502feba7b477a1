package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/app/middleware"
	businessflow "github.com/tatame-app/tatame/business_flow"
)

// CashSessionHandlerInterface defines the contract for cash session handlers
type CashSessionHandlerInterface interface {
	Open(c fiber.Ctx) error
	Close(c fiber.Ctx) error
	Get(c fiber.Ctx) error
}

// CashSessionHandler handles cash drawer HTTP requests
type CashSessionHandler struct {
	flow      businessflow.CashSessionFlow
	validator *validator.Validate
}

// NewCashSessionHandler creates a new cash session handler
func NewCashSessionHandler(flow businessflow.CashSessionFlow) *CashSessionHandler {
	return &CashSessionHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Open starts a drawer session for the authenticated staff
func (h *CashSessionHandler) Open(c fiber.Ctx) error {
	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTH_REQUIRED", nil)
	}

	var req dto.OpenCashSessionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.OpenSession(createRequestContext(c, "/api/v1/cash-sessions"), staffID, &req, metadata)
	if err != nil {
		if businessflow.IsCashSessionAlreadyOpen(err) {
			return errorResponse(c, fiber.StatusConflict, "You already have an open cash session", "CASH_SESSION_ALREADY_OPEN", nil)
		}
		log.Println("Open cash session failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to open cash session", "OPEN_CASH_SESSION_FAILED", nil)
	}
	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// Close reconciles the drawer against the expected total
func (h *CashSessionHandler) Close(c fiber.Ctx) error {
	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTH_REQUIRED", nil)
	}

	var req dto.CloseCashSessionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SessionUUID = c.Params("uuid")
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CloseSession(createRequestContext(c, "/api/v1/cash-sessions/"+req.SessionUUID+"/close"), staffID, &req, metadata)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "CASH_SESSION_WRONG_STAFF" {
			return errorResponse(c, fiber.StatusForbidden, be.Message, be.Code, nil)
		}
		if businessflow.IsCashSessionNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Cash session not found", "CASH_SESSION_NOT_FOUND", nil)
		}
		if businessflow.IsCashSessionNotOpen(err) {
			return errorResponse(c, fiber.StatusConflict, "Cash session is not open", "CASH_SESSION_NOT_OPEN", nil)
		}
		log.Println("Close cash session failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to close cash session", "CLOSE_CASH_SESSION_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// Get returns one session by UUID
func (h *CashSessionHandler) Get(c fiber.Ctx) error {
	sessionUUID := c.Params("uuid")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.GetSession(createRequestContext(c, "/api/v1/cash-sessions/"+sessionUUID), sessionUUID, metadata)
	if err != nil {
		if businessflow.IsCashSessionNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Cash session not found", "CASH_SESSION_NOT_FOUND", nil)
		}
		log.Println("Get cash session failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to get cash session", "GET_CASH_SESSION_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}
