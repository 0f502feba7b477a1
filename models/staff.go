package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffRole gates administrative endpoints.
type StaffRole string

const (
	StaffRoleAdmin     StaffRole = "admin"
	StaffRoleReception StaffRole = "reception"
)

// Staff is an employee account used to operate the front desk and admin
// endpoints. Members never log in; staff act on their behalf.
type Staff struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_staff_uuid" json:"uuid"`

	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uk_staff_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         StaffRole `gorm:"size:16;not null;default:'reception'" json:"role"`

	IsActive    *bool      `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Staff) TableName() string {
	return "staff"
}

// BeforeCreate ensures UUID is set for Staff
func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	return nil
}

// StaffFilter represents filter criteria for staff queries
type StaffFilter struct {
	ID       *uint      `json:"id,omitempty"`
	UUID     *uuid.UUID `json:"uuid,omitempty"`
	Email    *string    `json:"email,omitempty"`
	Role     *StaffRole `json:"role,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}
