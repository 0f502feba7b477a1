// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/tatame-app/tatame/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// MemberRepository defines operations for members
type MemberRepository interface {
	Repository[models.Member, models.MemberFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Member, error)
	ByEmail(ctx context.Context, email string) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	UpdateStatus(ctx context.Context, memberID uint, status models.MemberStatus) error
	// DecrementCredits atomically takes one credit. Returns false when the
	// balance was already zero (lost race or stale read).
	DecrementCredits(ctx context.Context, memberID uint) (bool, error)
	SetFreezeWindow(ctx context.Context, memberID uint, frozenAt, frozenUntil time.Time, newExpiresAt *time.Time) error
	ClearFreezeWindow(ctx context.Context, memberID uint) error
	// ListFreezesDue returns frozen members whose window ended before the cutoff
	ListFreezesDue(ctx context.Context, cutoff time.Time, limit int) ([]*models.Member, error)
}

// PlanRepository defines operations for plans and their pricing overrides
type PlanRepository interface {
	Repository[models.Plan, models.PlanFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Plan, error)
	ListActive(ctx context.Context) ([]*models.Plan, error)
	OverrideByPlanID(ctx context.Context, planID uint) (*models.PlanPricingOverride, error)
	UpsertOverride(ctx context.Context, override *models.PlanPricingOverride) error
}

// PricingConfigRepository defines operations for the studio pricing config
type PricingConfigRepository interface {
	Latest(ctx context.Context) (*models.PricingConfig, error)
	Save(ctx context.Context, config *models.PricingConfig) error
}

// DiscountRepository defines operations for commitment tiers and promo codes
type DiscountRepository interface {
	Repository[models.Discount, models.DiscountFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Discount, error)
	ListActive(ctx context.Context) ([]*models.Discount, error)
	// IncrementUsage bumps current_uses only while below max_uses. Returns
	// false when the cap was reached by a concurrent redemption.
	IncrementUsage(ctx context.Context, discountID uint) (bool, error)
	Deactivate(ctx context.Context, discountID uint) error
}

// CheckInRepository defines operations for the check-in audit log
type CheckInRepository interface {
	Repository[models.CheckIn, models.CheckInFilter]
	ListByMember(ctx context.Context, memberID uint, limit, offset int) ([]*models.CheckIn, error)
}

// FreezeHistoryRepository defines operations for freeze accounting
type FreezeHistoryRepository interface {
	Repository[models.FreezeHistory, models.FreezeHistoryFilter]
	ListByMember(ctx context.Context, memberID uint) ([]*models.FreezeHistory, error)
}

// PaymentRepository defines operations for payments
type PaymentRepository interface {
	Repository[models.Payment, models.PaymentFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Payment, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.Payment, error)
}

// CashSessionRepository defines operations for cash drawer sessions
type CashSessionRepository interface {
	Repository[models.CashSession, models.CashSessionFilter]
	ByUUID(ctx context.Context, uuid string) (*models.CashSession, error)
	OpenByStaff(ctx context.Context, staffID uint) (*models.CashSession, error)
	// AddToExpected bumps the running expected total with an atomic SQL
	// increment; only open sessions are touched.
	AddToExpected(ctx context.Context, sessionID uint, amountCents int64) error
	Close(ctx context.Context, sessionID uint, countedCents, differenceCents int64, closedAt time.Time) error
}

// StaffRepository defines operations for staff accounts
type StaffRepository interface {
	Repository[models.Staff, models.StaffFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Staff, error)
	ByEmail(ctx context.Context, email string) (*models.Staff, error)
	UpdateLastLogin(ctx context.Context, staffID uint, at time.Time) error
}
