package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CashSessionStatus tracks the lifecycle of a front-desk cash drawer session.
type CashSessionStatus string

const (
	CashSessionOpen   CashSessionStatus = "open"
	CashSessionClosed CashSessionStatus = "closed"
)

// CashSession aggregates the cash movements of one staff shift. Expected
// totals are updated with atomic SQL increments so concurrent payment
// registrations never lose updates.
type CashSession struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_cash_sessions_uuid" json:"uuid"`

	StaffID uint              `gorm:"not null;index:idx_cash_sessions_staff_id" json:"staff_id"`
	Status  CashSessionStatus `gorm:"size:16;not null;default:'open'" json:"status"`

	OpeningCents  int64 `gorm:"not null;default:0" json:"opening_cents"`
	ExpectedCents int64 `gorm:"not null;default:0" json:"expected_cents"`
	// CountedCents and DifferenceCents are filled at close (reconciliation)
	CountedCents    *int64 `json:"counted_cents,omitempty"`
	DifferenceCents *int64 `json:"difference_cents,omitempty"`

	OpenedAt  time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (CashSession) TableName() string {
	return "cash_sessions"
}

// BeforeCreate ensures UUID is set for CashSession
func (c *CashSession) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

// CashSessionFilter represents filter criteria for cash session queries
type CashSessionFilter struct {
	ID           *uint              `json:"id,omitempty"`
	UUID         *uuid.UUID         `json:"uuid,omitempty"`
	StaffID      *uint              `json:"staff_id,omitempty"`
	Status       *CashSessionStatus `json:"status,omitempty"`
	OpenedAfter  *time.Time         `json:"opened_after,omitempty"`
	OpenedBefore *time.Time         `json:"opened_before,omitempty"`
}
