// Package businessflow contains the business logic for the studio management system.
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Member-related errors
	ErrMemberNotFound       = errors.New("member not found")
	ErrMemberInactive       = errors.New("member is not active")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrMemberAlreadyEnrolled = errors.New("member already has an active plan")

	// Plan and pricing errors
	ErrPlanNotFound        = errors.New("plan not found")
	ErrPlanInactive        = errors.New("plan is inactive")
	ErrPricingConfigMissing = errors.New("pricing config not found")

	// Discount errors
	ErrDiscountNotFound  = errors.New("discount not found")
	ErrPromoCodeInvalid  = errors.New("promo code is invalid")
	ErrPromoCodeExhausted = errors.New("promo code usage cap reached")
	ErrDiscountValueInvalid = errors.New("discount value is out of range")

	// Check-in errors
	ErrCheckinThrottled = errors.New("duplicate check-in within guard window")

	// Freeze errors
	ErrFreezeNotAllowed   = errors.New("freeze request not allowed")
	ErrMemberNotFrozen    = errors.New("member is not frozen")
	ErrMemberAlreadyFrozen = errors.New("member is already frozen")

	// Cash session errors
	ErrCashSessionNotFound   = errors.New("cash session not found")
	ErrCashSessionNotOpen    = errors.New("cash session is not open")
	ErrCashSessionAlreadyOpen = errors.New("staff already has an open cash session")

	// Staff auth errors
	ErrStaffNotFound     = errors.New("staff not found")
	ErrStaffInactive     = errors.New("staff account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrCaptchaInvalid    = errors.New("captcha verification failed")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsMemberNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound)
}

func IsMemberInactive(err error) bool {
	return errors.Is(err, ErrMemberInactive)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsMemberAlreadyEnrolled(err error) bool {
	return errors.Is(err, ErrMemberAlreadyEnrolled)
}

func IsPlanNotFound(err error) bool {
	return errors.Is(err, ErrPlanNotFound)
}

func IsPlanInactive(err error) bool {
	return errors.Is(err, ErrPlanInactive)
}

func IsPricingConfigMissing(err error) bool {
	return errors.Is(err, ErrPricingConfigMissing)
}

func IsDiscountNotFound(err error) bool {
	return errors.Is(err, ErrDiscountNotFound)
}

func IsPromoCodeInvalid(err error) bool {
	return errors.Is(err, ErrPromoCodeInvalid)
}

func IsPromoCodeExhausted(err error) bool {
	return errors.Is(err, ErrPromoCodeExhausted)
}

func IsDiscountValueInvalid(err error) bool {
	return errors.Is(err, ErrDiscountValueInvalid)
}

func IsCheckinThrottled(err error) bool {
	return errors.Is(err, ErrCheckinThrottled)
}

func IsFreezeNotAllowed(err error) bool {
	return errors.Is(err, ErrFreezeNotAllowed)
}

func IsMemberNotFrozen(err error) bool {
	return errors.Is(err, ErrMemberNotFrozen)
}

func IsMemberAlreadyFrozen(err error) bool {
	return errors.Is(err, ErrMemberAlreadyFrozen)
}

func IsCashSessionNotFound(err error) bool {
	return errors.Is(err, ErrCashSessionNotFound)
}

func IsCashSessionNotOpen(err error) bool {
	return errors.Is(err, ErrCashSessionNotOpen)
}

func IsCashSessionAlreadyOpen(err error) bool {
	return errors.Is(err, ErrCashSessionAlreadyOpen)
}

func IsStaffNotFound(err error) bool {
	return errors.Is(err, ErrStaffNotFound)
}

func IsStaffInactive(err error) bool {
	return errors.Is(err, ErrStaffInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsCaptchaInvalid(err error) bool {
	return errors.Is(err, ErrCaptchaInvalid)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}
