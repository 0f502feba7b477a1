// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"

	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/app/services"
	"github.com/tatame-app/tatame/repository"
	"github.com/tatame-app/tatame/utils"
	"golang.org/x/crypto/bcrypt"
)

// StaffAuthFlow represents the staff authentication flow used by handlers
type StaffAuthFlow interface {
	InitCaptcha(ctx context.Context) (*dto.CaptchaChallengeResponse, error)
	Login(ctx context.Context, req *dto.StaffLoginRequest, metadata *ClientMetadata) (*dto.StaffLoginResponse, error)
}

// StaffAuthFlowImpl provides captcha-init and staff credential verification
type StaffAuthFlowImpl struct {
	staffRepo    repository.StaffRepository
	tokenService services.TokenService
	captchaSvc   services.CaptchaService
}

func NewStaffAuthFlow(staffRepo repository.StaffRepository, tokenService services.TokenService, captchaSvc services.CaptchaService) StaffAuthFlow {
	return &StaffAuthFlowImpl{
		staffRepo:    staffRepo,
		tokenService: tokenService,
		captchaSvc:   captchaSvc,
	}
}

func (af *StaffAuthFlowImpl) InitCaptcha(ctx context.Context) (*dto.CaptchaChallengeResponse, error) {
	if af.captchaSvc == nil {
		return nil, NewBusinessError("CAPTCHA_NOT_AVAILABLE", "Captcha service not available", nil)
	}
	ch, err := af.captchaSvc.GenerateRotate(ctx)
	if err != nil {
		return nil, NewBusinessError("CAPTCHA_INIT_FAILED", "Failed to initialize captcha", err)
	}
	return &dto.CaptchaChallengeResponse{
		Message:           "Captcha challenge generated",
		ChallengeID:       ch.ID,
		MasterImageBase64: ch.MasterImageBase64,
		ThumbImageBase64:  ch.ThumbImageBase64,
	}, nil
}

func (af *StaffAuthFlowImpl) Login(ctx context.Context, req *dto.StaffLoginRequest, metadata *ClientMetadata) (*dto.StaffLoginResponse, error) {
	// Validate request
	if req == nil {
		return nil, NewBusinessError("STAFF_LOGIN_VALIDATION_FAILED", "Staff login validation failed", ErrStaffNotFound)
	}
	if len(req.Email) == 0 || len(req.Password) == 0 {
		return nil, NewBusinessError("STAFF_LOGIN_VALIDATION_FAILED", "Staff login validation failed", ErrIncorrectPassword)
	}
	if len(req.CaptchaChallengeID) == 0 {
		return nil, NewBusinessError("CAPTCHA_INVALID", "Captcha challenge missing", ErrCaptchaInvalid)
	}

	// Verify captcha first
	if af.captchaSvc == nil || !af.captchaSvc.VerifyRotate(ctx, req.CaptchaChallengeID, req.CaptchaAngle) {
		return nil, NewBusinessError("CAPTCHA_INVALID", "Captcha validation failed", ErrCaptchaInvalid)
	}

	// Lookup staff account
	staff, err := af.staffRepo.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewBusinessError("STAFF_LOOKUP_FAILED", "Failed to lookup staff account", err)
	}
	if staff == nil {
		return nil, NewBusinessError("STAFF_NOT_FOUND", "Staff account not found", ErrStaffNotFound)
	}
	if !utils.IsTrue(staff.IsActive) {
		return nil, NewBusinessError("STAFF_INACTIVE", "Staff account is inactive", ErrStaffInactive)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("STAFF_INCORRECT_PASSWORD", "Incorrect password", ErrIncorrectPassword)
	}

	// Generate tokens
	accessToken, refreshToken, err := af.tokenService.GenerateStaffTokens(staff.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	// Best-effort login stamp; a failed stamp never blocks the login
	_ = af.staffRepo.UpdateLastLogin(ctx, staff.ID, utils.UTCNow())

	return &dto.StaffLoginResponse{
		Message: "Login efetuado com sucesso",
		Staff: dto.StaffDTO{
			UUID:  staff.UUID.String(),
			Name:  staff.Name,
			Email: staff.Email,
			Role:  string(staff.Role),
		},
		Session: dto.StaffSessionDTO{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}
