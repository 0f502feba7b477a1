package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountCategory separates commitment tiers from promo codes.
type DiscountCategory string

const (
	// DiscountCategoryCommitment is tied to a minimum commitment length
	DiscountCategoryCommitment DiscountCategory = "commitment"
	// DiscountCategoryPromo is unlocked by a user-entered code
	DiscountCategoryPromo DiscountCategory = "promo"
)

// DiscountType is how the discount value is interpreted.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Discount is either a commitment tier (MinCommitmentMonths set, percentage
// only) or a promo code (Code set). Value holds percent points for
// percentage discounts and integer cents for fixed ones.
type Discount struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_discounts_uuid" json:"uuid"`

	Name     string           `gorm:"size:255;not null" json:"name"`
	Category DiscountCategory `gorm:"size:16;not null;index:idx_discounts_category" json:"category"`
	Type     DiscountType     `gorm:"size:16;not null;default:'percentage'" json:"type"`
	Value    float64          `gorm:"type:numeric(12,2);not null" json:"value"`

	// Commitment discounts only
	MinCommitmentMonths *int `json:"min_commitment_months,omitempty"`

	// Promo discounts only
	Code           *string    `gorm:"size:64;uniqueIndex:uk_discounts_code" json:"code,omitempty"`
	ValidFrom      *time.Time `json:"valid_from,omitempty"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
	MaxUses        *int       `json:"max_uses,omitempty"`
	CurrentUses    int        `gorm:"not null;default:0" json:"current_uses"`
	NewMembersOnly bool       `gorm:"not null;default:false" json:"new_members_only"`

	Active bool `gorm:"column:ativo;not null;default:true" json:"ativo"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Discount) TableName() string {
	return "discounts"
}

// BeforeCreate ensures UUID is set for Discount
func (d *Discount) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == uuid.Nil {
		d.UUID = uuid.New()
	}
	return nil
}

// DiscountFilter represents filter criteria for discount queries
type DiscountFilter struct {
	ID       *uint             `json:"id,omitempty"`
	UUID     *uuid.UUID        `json:"uuid,omitempty"`
	Category *DiscountCategory `json:"category,omitempty"`
	Type     *DiscountType     `json:"type,omitempty"`
	Code     *string           `json:"code,omitempty"`
	Active   *bool             `json:"ativo,omitempty"`
}
