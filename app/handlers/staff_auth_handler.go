package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/tatame-app/tatame/app/dto"
	businessflow "github.com/tatame-app/tatame/business_flow"
)

// StaffAuthHandlerInterface defines the contract for staff auth handlers
type StaffAuthHandlerInterface interface {
	Captcha(c fiber.Ctx) error
	Login(c fiber.Ctx) error
}

// StaffAuthHandler handles staff authentication HTTP requests
type StaffAuthHandler struct {
	flow      businessflow.StaffAuthFlow
	validator *validator.Validate
}

// NewStaffAuthHandler creates a new staff auth handler
func NewStaffAuthHandler(flow businessflow.StaffAuthFlow) *StaffAuthHandler {
	return &StaffAuthHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Captcha issues a rotate captcha challenge for the login form
func (h *StaffAuthHandler) Captcha(c fiber.Ctx) error {
	result, err := h.flow.InitCaptcha(createRequestContext(c, "/api/v1/auth/captcha"))
	if err != nil {
		log.Println("Captcha init failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to generate captcha", "CAPTCHA_INIT_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// Login authenticates a staff account
func (h *StaffAuthHandler) Login(c fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Login(createRequestContext(c, "/api/v1/auth/login"), &req, metadata)
	if err != nil {
		if businessflow.IsCaptchaInvalid(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Captcha validation failed", "CAPTCHA_INVALID", nil)
		}
		// Wrong email and wrong password answer identically
		if businessflow.IsStaffNotFound(err) || businessflow.IsIncorrectPassword(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsStaffInactive(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Staff account is inactive", "STAFF_INACTIVE", nil)
		}
		log.Println("Staff login failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}
