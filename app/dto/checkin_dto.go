package dto

// CheckinRequest validates one member at the door
type CheckinRequest struct {
	MemberUUID string `json:"member_uuid" validate:"required,uuid4"`
}

// CheckinResponse carries the verdict for the front desk
type CheckinResponse struct {
	Message          string    `json:"message"`
	Allowed          bool      `json:"allowed"`
	Result           string    `json:"result"`
	Member           MemberDTO `json:"member"`
	CreditsRemaining *int      `json:"credits_remaining,omitempty"`
}

// CheckinLogEntryDTO is one audit row of the check-in log
type CheckinLogEntryDTO struct {
	MemberID    uint   `json:"member_id"`
	Result      string `json:"result"`
	Message     string `json:"message"`
	CheckedInAt string `json:"checked_in_at"`
}

// ListCheckinsRequest filters the check-in log
type ListCheckinsRequest struct {
	MemberUUID *string `json:"member_uuid,omitempty" validate:"omitempty,uuid4"`
	Result     *string `json:"result,omitempty" validate:"omitempty,oneof=ALLOWED BLOCKED EXPIRED NO_CREDITS"`
	Page       int     `json:"page" validate:"omitempty,min=1"`
	PageSize   int     `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListCheckinsResponse returns a page of log rows
type ListCheckinsResponse struct {
	Message string               `json:"message"`
	Items   []CheckinLogEntryDTO `json:"items"`
	Total   int64                `json:"total"`
}
