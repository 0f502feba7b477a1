package dto

// PricingBreakdownDTO mirrors the calculation result with formatted amounts
// alongside the raw cents so the UI never re-does money math.
type PricingBreakdownDTO struct {
	MonthlyPriceCents       int64   `json:"monthly_price_cents"`
	MonthlyPrice            string  `json:"monthly_price"`
	ExtraModalitiesCount    int     `json:"extra_modalities_count"`
	ExtraModalitiesCents    int64   `json:"extra_modalities_cents"`
	CommitmentDiscountPct   float64 `json:"commitment_discount_pct"`
	CommitmentDiscountCents int64   `json:"commitment_discount_cents"`
	PromoDiscountCents      int64   `json:"promo_discount_cents"`
	EnrollmentFeeCents      int64   `json:"enrollment_fee_cents"`
	TotalFirstPaymentCents  int64   `json:"total_first_payment_cents"`
	TotalFirstPayment       string  `json:"total_first_payment"`
}

// PricingConfigDTO is the wire representation of the studio pricing config
type PricingConfigDTO struct {
	BasePriceCents          int64 `json:"base_price_cents"`
	ExtraModalityPriceCents int64 `json:"extra_modality_price_cents"`
	EnrollmentFeeCents      int64 `json:"enrollment_fee_cents"`
	SingleClassPriceCents   int64 `json:"single_class_price_cents"`
	DayPassPriceCents       int64 `json:"day_pass_price_cents"`
}

// GetPricingConfigResponse returns the current config
type GetPricingConfigResponse struct {
	Message string           `json:"message"`
	Config  PricingConfigDTO `json:"config"`
}

// UpdatePricingConfigRequest replaces the studio pricing config
type UpdatePricingConfigRequest struct {
	BasePriceCents          int64 `json:"base_price_cents" validate:"min=0"`
	ExtraModalityPriceCents int64 `json:"extra_modality_price_cents" validate:"min=0"`
	EnrollmentFeeCents      int64 `json:"enrollment_fee_cents" validate:"min=0"`
	SingleClassPriceCents   int64 `json:"single_class_price_cents" validate:"min=0"`
	DayPassPriceCents       int64 `json:"day_pass_price_cents" validate:"min=0"`
}

// UpdatePricingConfigResponse confirms the update
type UpdatePricingConfigResponse struct {
	Message string           `json:"message"`
	Config  PricingConfigDTO `json:"config"`
}

// UpsertPlanOverrideRequest sets or replaces a plan's pricing override.
// Nil fields fall back to the studio config at calculation time.
type UpsertPlanOverrideRequest struct {
	PlanUUID                string `json:"-"`
	BasePriceCents          *int64 `json:"base_price_cents,omitempty" validate:"omitempty,min=0"`
	ExtraModalityPriceCents *int64 `json:"extra_modality_price_cents,omitempty" validate:"omitempty,min=0"`
	EnrollmentFeeCents      *int64 `json:"enrollment_fee_cents,omitempty" validate:"omitempty,min=0"`
}

// UpsertPlanOverrideResponse confirms the override
type UpsertPlanOverrideResponse struct {
	Message string `json:"message"`
}
