package dto

// QuoteEnrollmentRequest asks for a price breakdown without any side effects
type QuoteEnrollmentRequest struct {
	MemberUUID       string   `json:"member_uuid" validate:"required,uuid4"`
	PlanUUID         string   `json:"plan_uuid" validate:"required,uuid4"`
	Modalities       []string `json:"modalities" validate:"required,min=1,dive,min=2,max=64"`
	CommitmentMonths int      `json:"commitment_months" validate:"min=1,max=36"`
	PromoCode        *string  `json:"promo_code,omitempty" validate:"omitempty,min=2,max=64"`
}

// QuoteEnrollmentResponse returns the breakdown plus promo feedback
type QuoteEnrollmentResponse struct {
	Message    string              `json:"message"`
	Breakdown  PricingBreakdownDTO `json:"breakdown"`
	PromoValid *bool               `json:"promo_valid,omitempty"`
	PromoError *string             `json:"promo_error,omitempty"`
}

// EnrollMemberRequest charges the first payment and activates the member
type EnrollMemberRequest struct {
	MemberUUID       string   `json:"member_uuid" validate:"required,uuid4"`
	PlanUUID         string   `json:"plan_uuid" validate:"required,uuid4"`
	Modalities       []string `json:"modalities" validate:"required,min=1,dive,min=2,max=64"`
	CommitmentMonths int      `json:"commitment_months" validate:"min=1,max=36"`
	PromoCode        *string  `json:"promo_code,omitempty" validate:"omitempty,min=2,max=64"`
	PaymentMethod    string   `json:"payment_method" validate:"required,oneof=cash card pix online"`
	CashSessionUUID  *string  `json:"cash_session_uuid,omitempty" validate:"omitempty,uuid4"`
}

// EnrollMemberResponse returns the activated member and the payment record
type EnrollMemberResponse struct {
	Message   string              `json:"message"`
	Member    MemberDTO           `json:"member"`
	Breakdown PricingBreakdownDTO `json:"breakdown"`
	PaymentID string              `json:"payment_id"`
}
