// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/app/services"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/repository"
	"github.com/tatame-app/tatame/utils"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
	staffRepo    repository.StaffRepository
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService, staffRepo repository.StaffRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		staffRepo:    staffRepo,
	}
}

// Authenticate is the middleware function that validates staff JWT tokens
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Get the Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authorization header is required",
				Error: dto.ErrorDetail{
					Code: "MISSING_AUTHORIZATION_HEADER",
				},
			})
		}

		// Check if the header starts with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Invalid authorization header format. Expected 'Bearer <token>'",
				Error: dto.ErrorDetail{
					Code: "INVALID_AUTHORIZATION_FORMAT",
				},
			})
		}

		// Extract the token (remove "Bearer " prefix)
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Access token is required",
				Error: dto.ErrorDetail{
					Code: "MISSING_ACCESS_TOKEN",
				},
			})
		}

		// Validate the token (this already checks for revocation)
		claims, err := m.tokenService.ValidateStaffToken(token)
		if err != nil {
			var errorCode string
			var message string

			// Determine the specific error type
			if errors.Is(err, services.ErrTokenExpired) {
				errorCode = "TOKEN_EXPIRED"
				message = "Access token has expired"
			} else if errors.Is(err, services.ErrTokenInvalid) {
				errorCode = "TOKEN_INVALID"
				message = "Invalid access token"
			} else if errors.Is(err, services.ErrTokenRevoked) {
				errorCode = "TOKEN_REVOKED"
				message = "Access token has been revoked"
			} else {
				errorCode = "TOKEN_VALIDATION_FAILED"
				message = "Token validation failed"
			}

			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: message,
				Error: dto.ErrorDetail{
					Code: errorCode,
				},
			})
		}

		// Refresh tokens never authenticate a request directly
		if claims.TokenType != "access" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Invalid access token",
				Error:   dto.ErrorDetail{Code: "TOKEN_INVALID"},
			})
		}

		// Store staff information in context for downstream handlers
		c.Locals("staff_id", claims.StaffID)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		// Store RequestID for audit logging
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		// Continue to the next handler
		return c.Next()
	}
}

// AdminOnly gates admin endpoints: the authenticated staff account must carry
// the admin role and still be active. Runs after Authenticate.
func (m *AuthMiddleware) AdminOnly() fiber.Handler {
	return func(c fiber.Ctx) error {
		staffID, ok := GetStaffIDFromContext(c)
		if !ok || staffID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authentication required",
				Error:   dto.ErrorDetail{Code: "AUTHENTICATION_REQUIRED"},
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		staff, err := m.staffRepo.ByID(ctx, staffID)
		if err != nil || staff == nil || !utils.IsTrue(staff.IsActive) {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Staff account not available",
				Error:   dto.ErrorDetail{Code: "STAFF_UNAVAILABLE"},
			})
		}
		if staff.Role != models.StaffRoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Admin role required",
				Error:   dto.ErrorDetail{Code: "ADMIN_ROLE_REQUIRED"},
			})
		}

		return c.Next()
	}
}

// GetStaffIDFromContext extracts the staff ID from the request context
func GetStaffIDFromContext(c fiber.Ctx) (uint, bool) {
	staffID, ok := c.Locals("staff_id").(uint)
	return staffID, ok
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.StaffTokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.StaffTokenClaims)
	return claims, ok
}

// RequireAuth is a helper function that ensures authentication is required
func RequireAuth(c fiber.Ctx) error {
	staffID, exists := GetStaffIDFromContext(c)
	if !exists {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Authentication required",
			Error: dto.ErrorDetail{
				Code: "AUTHENTICATION_REQUIRED",
			},
		})
	}

	if staffID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid staff ID",
			Error: dto.ErrorDetail{
				Code: "INVALID_STAFF_ID",
			},
		})
	}

	return nil
}
