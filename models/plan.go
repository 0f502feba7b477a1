package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan represents a subscription plan offered by the studio.
type Plan struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_plans_uuid" json:"uuid"`

	Name        string  `gorm:"size:255;not null" json:"name"`
	Description *string `gorm:"size:1024" json:"description,omitempty"`

	// AccessType granted on enrollment into this plan
	AccessType AccessType `gorm:"size:16;not null;default:'SUBSCRIPTION'" json:"access_type"`
	// CreditsGranted applies only to CREDITS plans
	CreditsGranted *int `json:"credits_granted,omitempty"`
	// DurationDays is the access window granted per payment cycle
	DurationDays int `gorm:"not null;default:30" json:"duration_days"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	PricingOverride *PlanPricingOverride `gorm:"foreignKey:PlanID" json:"pricing_override,omitempty"`
}

func (Plan) TableName() string {
	return "plans"
}

// BeforeCreate ensures UUID is set for Plan
func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// PlanPricingOverride replaces a subset of the global pricing config for one
// plan. Nil fields fall back to the global PricingConfig at calculation time.
type PlanPricingOverride struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	PlanID uint `gorm:"not null;uniqueIndex:uk_plan_pricing_overrides_plan_id" json:"plan_id"`

	BasePriceCents          *int64 `json:"base_price_cents,omitempty"`
	ExtraModalityPriceCents *int64 `json:"extra_modality_price_cents,omitempty"`
	EnrollmentFeeCents      *int64 `json:"enrollment_fee_cents,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (PlanPricingOverride) TableName() string {
	return "plan_pricing_overrides"
}

// PlanFilter represents filter criteria for plan queries
type PlanFilter struct {
	ID         *uint       `json:"id,omitempty"`
	UUID       *uuid.UUID  `json:"uuid,omitempty"`
	Name       *string     `json:"name,omitempty"`
	AccessType *AccessType `json:"access_type,omitempty"`
	IsActive   *bool       `json:"is_active,omitempty"`
}
