package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentMethod enumerates how a payment was taken at the front desk.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodPix    PaymentMethod = "pix"
	PaymentMethodOnline PaymentMethod = "online"
)

// Payment is the persisted record built from a PricingBreakdown when an
// enrollment or renewal is charged. All amounts are integer cents.
type Payment struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_payments_uuid" json:"uuid"`

	MemberID uint  `gorm:"not null;index:idx_payments_member_id" json:"member_id"`
	PlanID   *uint `json:"plan_id,omitempty"`

	MonthlyPriceCents       int64 `gorm:"not null" json:"monthly_price_cents"`
	CommitmentDiscountCents int64 `gorm:"not null;default:0" json:"commitment_discount_cents"`
	PromoDiscountCents      int64 `gorm:"not null;default:0" json:"promo_discount_cents"`
	EnrollmentFeeCents      int64 `gorm:"not null;default:0" json:"enrollment_fee_cents"`
	TotalCents              int64 `gorm:"not null" json:"total_cents"`

	PromoCode *string `gorm:"size:64" json:"promo_code,omitempty"`

	Method        PaymentMethod `gorm:"size:16;not null;default:'cash'" json:"method"`
	CashSessionID *uint         `gorm:"index:idx_payments_cash_session_id" json:"cash_session_id,omitempty"`

	PaidAt    time.Time `gorm:"not null;index:idx_payments_paid_at" json:"paid_at"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate ensures UUID is set for Payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// PaymentFilter represents filter criteria for payment queries
type PaymentFilter struct {
	ID            *uint          `json:"id,omitempty"`
	UUID          *uuid.UUID     `json:"uuid,omitempty"`
	MemberID      *uint          `json:"member_id,omitempty"`
	CashSessionID *uint          `json:"cash_session_id,omitempty"`
	Method        *PaymentMethod `json:"method,omitempty"`
	PaidAfter     *time.Time     `json:"paid_after,omitempty"`
	PaidBefore    *time.Time     `json:"paid_before,omitempty"`
}
