package dto

// CashSessionDTO is the wire representation of a cash drawer session
type CashSessionDTO struct {
	UUID            string  `json:"uuid"`
	StaffID         uint    `json:"staff_id"`
	Status          string  `json:"status"`
	OpeningCents    int64   `json:"opening_cents"`
	ExpectedCents   int64   `json:"expected_cents"`
	CountedCents    *int64  `json:"counted_cents,omitempty"`
	DifferenceCents *int64  `json:"difference_cents,omitempty"`
	Difference      *string `json:"difference,omitempty"`
	OpenedAt        string  `json:"opened_at"`
	ClosedAt        *string `json:"closed_at,omitempty"`
}

// OpenCashSessionRequest opens a drawer for the authenticated staff
type OpenCashSessionRequest struct {
	OpeningCents int64 `json:"opening_cents" validate:"min=0"`
}

// OpenCashSessionResponse returns the open session
type OpenCashSessionResponse struct {
	Message string         `json:"message"`
	Session CashSessionDTO `json:"session"`
}

// CloseCashSessionRequest reconciles and closes a session
type CloseCashSessionRequest struct {
	SessionUUID  string `json:"-"`
	CountedCents int64  `json:"counted_cents" validate:"min=0"`
}

// CloseCashSessionResponse returns the reconciled session
type CloseCashSessionResponse struct {
	Message string         `json:"message"`
	Session CashSessionDTO `json:"session"`
}

// GetCashSessionResponse returns one session
type GetCashSessionResponse struct {
	Message string         `json:"message"`
	Session CashSessionDTO `json:"session"`
}
