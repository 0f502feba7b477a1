package models

import (
	"time"
)

// FreezeHistory records one completed or in-progress freeze period of a
// member's subscription. Invariant: FrozenUntil >= FrozenAt.
type FreezeHistory struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	MemberID uint `gorm:"not null;index:idx_freeze_history_member_id" json:"member_id"`

	FrozenAt    time.Time `gorm:"not null" json:"frozen_at"`
	FrozenUntil time.Time `gorm:"not null" json:"frozen_until"`

	// RequestedDays as entered by the member/staff, before expiry math
	RequestedDays int `gorm:"not null" json:"requested_days"`
	// StaffOverride marks freezes granted beyond the annual budget
	StaffOverride bool `gorm:"not null;default:false" json:"staff_override"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (FreezeHistory) TableName() string {
	return "freeze_history"
}

// FreezeHistoryFilter represents filter criteria for freeze history queries
type FreezeHistoryFilter struct {
	ID           *uint      `json:"id,omitempty"`
	MemberID     *uint      `json:"member_id,omitempty"`
	FrozenAfter  *time.Time `json:"frozen_after,omitempty"`
	FrozenBefore *time.Time `json:"frozen_before,omitempty"`
}
