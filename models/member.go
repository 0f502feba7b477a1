// Package models contains domain entities and business models for the studio management system
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MemberStatus enumerates the lifecycle states of a member.
type MemberStatus string

const (
	// MemberStatusLead is a prospect who never paid an enrollment
	MemberStatusLead MemberStatus = "LEAD"
	// MemberStatusAtivo is an active paying member
	MemberStatusAtivo MemberStatus = "ATIVO"
	// MemberStatusBloqueado is blocked by staff (overdue payment, misconduct)
	MemberStatusBloqueado MemberStatus = "BLOQUEADO"
	// MemberStatusPausado has a frozen subscription
	MemberStatusPausado MemberStatus = "PAUSADO"
	// MemberStatusCancelado ended the relationship with the studio
	MemberStatusCancelado MemberStatus = "CANCELADO"
)

// AccessType enumerates how a member is entitled to enter the facility.
type AccessType string

const (
	AccessTypeSubscription AccessType = "SUBSCRIPTION"
	AccessTypeCredits      AccessType = "CREDITS"
	AccessTypeDailyPass    AccessType = "DAILY_PASS"
)

type Member struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_members_uuid" json:"uuid"`

	Name  string  `gorm:"size:255;not null" json:"name"`
	Email string  `gorm:"size:255;not null;uniqueIndex:uk_members_email" json:"email"`
	Phone *string `gorm:"size:32" json:"phone,omitempty"`

	Status MemberStatus `gorm:"size:16;not null;default:'LEAD';index:idx_members_status" json:"status"`

	// AccessType is nil while the member has no plan (leads)
	AccessType *AccessType `gorm:"size:16" json:"access_type,omitempty"`
	// AccessExpiresAt nil means the access never expires
	AccessExpiresAt  *time.Time `json:"access_expires_at,omitempty"`
	CreditsRemaining *int       `json:"credits_remaining,omitempty"`

	PlanID           *uint          `gorm:"index:idx_members_plan_id" json:"plan_id,omitempty"`
	Modalities       pq.StringArray `gorm:"type:text[]" json:"modalities,omitempty"`
	CommitmentMonths int            `gorm:"not null;default:1" json:"commitment_months"`

	// Current freeze window; both nil when the subscription is not frozen
	FrozenAt    *time.Time `json:"frozen_at,omitempty"`
	FrozenUntil *time.Time `json:"frozen_until,omitempty"`

	PhotoPath  *string    `gorm:"size:512" json:"photo_path,omitempty"`
	EnrolledAt *time.Time `json:"enrolled_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relationships
	Plan          *Plan           `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	CheckIns      []CheckIn       `gorm:"foreignKey:MemberID" json:"check_ins,omitempty"`
	FreezeHistory []FreezeHistory `gorm:"foreignKey:MemberID" json:"freeze_history,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

// BeforeCreate ensures UUID is set for Member
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	return nil
}

// MemberFilter represents filter criteria for member queries
type MemberFilter struct {
	ID            *uint         `json:"id,omitempty"`
	UUID          *uuid.UUID    `json:"uuid,omitempty"`
	Email         *string       `json:"email,omitempty"`
	Status        *MemberStatus `json:"status,omitempty"`
	AccessType    *AccessType   `json:"access_type,omitempty"`
	PlanID        *uint         `json:"plan_id,omitempty"`
	ExpiresBefore *time.Time    `json:"expires_before,omitempty"`
	ExpiresAfter  *time.Time    `json:"expires_after,omitempty"`
	CreatedAfter  *time.Time    `json:"created_after,omitempty"`
	CreatedBefore *time.Time    `json:"created_before,omitempty"`
}
