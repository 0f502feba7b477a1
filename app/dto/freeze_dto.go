package dto

// FreezeStatusResponse summarizes a member's freeze budget
type FreezeStatusResponse struct {
	Message         string   `json:"message"`
	RemainingDays   int      `json:"remaining_days"`
	CurrentlyFrozen bool     `json:"currently_frozen"`
	CurrentPeriod   *string  `json:"current_period,omitempty"`
	History         []string `json:"history"`
}

// RequestFreezeRequest freezes a member's subscription
type RequestFreezeRequest struct {
	MemberUUID    string `json:"-"`
	Days          int    `json:"days" validate:"required"`
	StaffOverride bool   `json:"staff_override"`
}

// RequestFreezeResponse confirms the freeze and the recalculated expiry
type RequestFreezeResponse struct {
	Message         string `json:"message"`
	FrozenUntil     string `json:"frozen_until"`
	NewExpiresAt    string `json:"new_expires_at"`
	RemainingDays   int    `json:"remaining_days"`
	FormattedPeriod string `json:"formatted_period"`
}

// UnfreezeResponse confirms reactivation
type UnfreezeResponse struct {
	Message string    `json:"message"`
	Member  MemberDTO `json:"member"`
}
