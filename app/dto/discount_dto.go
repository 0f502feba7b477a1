package dto

// DiscountDTO is the wire representation of a discount record
type DiscountDTO struct {
	UUID                string  `json:"uuid"`
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	Type                string  `json:"type"`
	Value               float64 `json:"value"`
	MinCommitmentMonths *int    `json:"min_commitment_months,omitempty"`
	Code                *string `json:"code,omitempty"`
	ValidFrom           *string `json:"valid_from,omitempty"`
	ValidUntil          *string `json:"valid_until,omitempty"`
	MaxUses             *int    `json:"max_uses,omitempty"`
	CurrentUses         int     `json:"current_uses"`
	NewMembersOnly      bool    `json:"new_members_only"`
	Active              bool    `json:"ativo"`
}

// CreateDiscountRequest creates a commitment tier or a promo code
type CreateDiscountRequest struct {
	Name                string  `json:"name" validate:"required,min=2,max=255"`
	Category            string  `json:"category" validate:"required,oneof=commitment promo"`
	Type                string  `json:"type" validate:"required,oneof=percentage fixed"`
	Value               float64 `json:"value" validate:"required,gt=0"`
	MinCommitmentMonths *int    `json:"min_commitment_months,omitempty" validate:"omitempty,min=1,max=36"`
	Code                *string `json:"code,omitempty" validate:"omitempty,min=2,max=64"`
	ValidFrom           *string `json:"valid_from,omitempty"`
	ValidUntil          *string `json:"valid_until,omitempty"`
	MaxUses             *int    `json:"max_uses,omitempty" validate:"omitempty,min=1"`
	NewMembersOnly      bool    `json:"new_members_only"`
}

// CreateDiscountResponse returns the created record
type CreateDiscountResponse struct {
	Message  string      `json:"message"`
	Discount DiscountDTO `json:"discount"`
}

// ListDiscountsRequest filters by category/active
type ListDiscountsRequest struct {
	Category *string `json:"category,omitempty" validate:"omitempty,oneof=commitment promo"`
	Active   *bool   `json:"ativo,omitempty"`
}

// ListDiscountsResponse returns matching discounts
type ListDiscountsResponse struct {
	Message string        `json:"message"`
	Items   []DiscountDTO `json:"items"`
}

// DeactivateDiscountResponse confirms deactivation
type DeactivateDiscountResponse struct {
	Message string `json:"message"`
}

// ValidatePromoRequest checks a code for the enrollment UI
type ValidatePromoRequest struct {
	Code       string `json:"code" validate:"required,min=2,max=64"`
	MemberUUID string `json:"member_uuid" validate:"required,uuid4"`
}

// ValidatePromoResponse is the discriminated validation outcome
type ValidatePromoResponse struct {
	Message  string       `json:"message"`
	Valid    bool         `json:"valid"`
	Error    *string      `json:"error,omitempty"`
	Discount *DiscountDTO `json:"discount,omitempty"`
}
