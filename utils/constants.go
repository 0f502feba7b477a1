package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for staff access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Billing and access constants
const (
	// BRLCurrency is the ISO code of the display currency
	BRLCurrency = "BRL"

	// BRLCurrencySymbol prefixes every formatted amount
	BRLCurrencySymbol = "R$"

	// MaxFreezeDaysPerYear is the annual freeze-day budget per member
	MaxFreezeDaysPerYear = 30

	// CheckinDoubleTapWindow guards against the same member checking in
	// twice in quick succession (turnstile double-tap)
	CheckinDoubleTapWindow = 10 * time.Second
)

// ContextKey types request-scoped context values
type ContextKey string

// Context keys for request-scoped values propagated from handlers to flows
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)

// Cache keys
const (
	// ActiveDiscountsCacheKey stores the serialized list of active discounts
	ActiveDiscountsCacheKey = "discounts:active"

	// CheckinGuardKeyPrefix is followed by the member UUID
	CheckinGuardKeyPrefix = "checkin:guard:"
)
