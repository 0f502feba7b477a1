package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
	"gorm.io/gorm"
)

// PaymentRepositoryImpl implements PaymentRepository interface
type PaymentRepositoryImpl struct {
	*BaseRepository[models.Payment, models.PaymentFilter]
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Payment, models.PaymentFilter](db),
	}
}

// ByUUID retrieves a payment by UUID
func (r *PaymentRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Payment, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.PaymentFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListBetween retrieves payments in a closed period, oldest first
func (r *PaymentRepositoryImpl) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Payment, error) {
	db := r.getDB(ctx)
	var rows []*models.Payment
	err := db.Where("paid_at >= ? AND paid_at <= ?", from, to).
		Order("paid_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments between %s and %s: %w",
			from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *PaymentRepositoryImpl) applyFilter(query *gorm.DB, filter models.PaymentFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.CashSessionID != nil {
		query = query.Where("cash_session_id = ?", *filter.CashSessionID)
	}
	if filter.Method != nil {
		query = query.Where("method = ?", *filter.Method)
	}
	if filter.PaidAfter != nil {
		query = query.Where("paid_at > ?", *filter.PaidAfter)
	}
	if filter.PaidBefore != nil {
		query = query.Where("paid_at < ?", *filter.PaidBefore)
	}
	return query
}

// ByFilter retrieves payments based on filter criteria
func (r *PaymentRepositoryImpl) ByFilter(ctx context.Context, filter models.PaymentFilter, orderBy string, limit, offset int) ([]*models.Payment, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Payment{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Payment
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of payments matching filter
func (r *PaymentRepositoryImpl) Count(ctx context.Context, filter models.PaymentFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Payment{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any payment matches the filter
func (r *PaymentRepositoryImpl) Exists(ctx context.Context, filter models.PaymentFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
