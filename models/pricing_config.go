package models

import (
	"time"
)

// PricingConfig is the studio-wide pricing record. All amounts are integer
// cents. A single row is kept; administrative updates append a new row and
// reads take the latest, so price changes stay auditable.
type PricingConfig struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// BasePriceCents is the monthly price covering the first modality
	BasePriceCents int64 `gorm:"not null;default:0" json:"base_price_cents"`
	// ExtraModalityPriceCents is charged per modality beyond the first
	ExtraModalityPriceCents int64 `gorm:"not null;default:0" json:"extra_modality_price_cents"`
	// EnrollmentFeeCents is the default one-time fee for first enrollments
	EnrollmentFeeCents int64 `gorm:"not null;default:0" json:"enrollment_fee_cents"`

	// Auxiliary flat prices
	SingleClassPriceCents int64 `gorm:"not null;default:0" json:"single_class_price_cents"`
	DayPassPriceCents     int64 `gorm:"not null;default:0" json:"day_pass_price_cents"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (PricingConfig) TableName() string {
	return "pricing_configs"
}
