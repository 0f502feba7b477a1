package models

import (
	"time"
)

// CheckInResult is the verdict of one access validation at the door.
type CheckInResult string

const (
	CheckInAllowed   CheckInResult = "ALLOWED"
	CheckInBlocked   CheckInResult = "BLOCKED"
	CheckInExpired   CheckInResult = "EXPIRED"
	CheckInNoCredits CheckInResult = "NO_CREDITS"
)

// CheckIn is an append-only log row written for every check-in attempt,
// regardless of outcome.
type CheckIn struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	MemberID uint `gorm:"not null;index:idx_check_ins_member_id" json:"member_id"`

	Result  CheckInResult `gorm:"size:16;not null;index:idx_check_ins_result" json:"result"`
	Message string        `gorm:"size:255" json:"message"`

	// CreditConsumed is set when an ALLOWED credits check-in decremented the balance
	CreditConsumed bool `gorm:"not null;default:false" json:"credit_consumed"`

	CheckedInAt time.Time `gorm:"not null;index:idx_check_ins_checked_in_at" json:"checked_in_at"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (CheckIn) TableName() string {
	return "check_ins"
}

// CheckInFilter represents filter criteria for check-in queries
type CheckInFilter struct {
	ID       *uint          `json:"id,omitempty"`
	MemberID *uint          `json:"member_id,omitempty"`
	Result   *CheckInResult `json:"result,omitempty"`
	After    *time.Time     `json:"after,omitempty"`
	Before   *time.Time     `json:"before,omitempty"`
}
