package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
	"gorm.io/gorm"
)

// CashSessionRepositoryImpl implements CashSessionRepository interface
type CashSessionRepositoryImpl struct {
	*BaseRepository[models.CashSession, models.CashSessionFilter]
}

// NewCashSessionRepository creates a new cash session repository
func NewCashSessionRepository(db *gorm.DB) CashSessionRepository {
	return &CashSessionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CashSession, models.CashSessionFilter](db),
	}
}

// ByUUID retrieves a cash session by UUID
func (r *CashSessionRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.CashSession, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.CashSessionFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// OpenByStaff retrieves the staff member's currently open session, nil when none
func (r *CashSessionRepositoryImpl) OpenByStaff(ctx context.Context, staffID uint) (*models.CashSession, error) {
	open := models.CashSessionOpen
	rows, err := r.ByFilter(ctx, models.CashSessionFilter{StaffID: &staffID, Status: &open}, "opened_at DESC", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find open cash session for staff %d: %w", staffID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// AddToExpected bumps the running expected total with an atomic SQL increment.
// Only open sessions are touched so a late payment can never land in a
// reconciled drawer.
func (r *CashSessionRepositoryImpl) AddToExpected(ctx context.Context, sessionID uint, amountCents int64) error {
	db := r.getDB(ctx)
	res := db.Model(&models.CashSession{}).
		Where("id = ? AND status = ?", sessionID, models.CashSessionOpen).
		Updates(map[string]any{
			"expected_cents": gorm.Expr("expected_cents + ?", amountCents),
			"updated_at":     utils.UTCNow(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to add to expected total of session %d: %w", sessionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cash session %d is not open", sessionID)
	}
	return nil
}

// Close reconciles and closes a session
func (r *CashSessionRepositoryImpl) Close(ctx context.Context, sessionID uint, countedCents, differenceCents int64, closedAt time.Time) error {
	db := r.getDB(ctx)
	res := db.Model(&models.CashSession{}).
		Where("id = ? AND status = ?", sessionID, models.CashSessionOpen).
		Updates(map[string]any{
			"status":           models.CashSessionClosed,
			"counted_cents":    countedCents,
			"difference_cents": differenceCents,
			"closed_at":        closedAt,
			"updated_at":       utils.UTCNow(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to close cash session %d: %w", sessionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cash session %d is not open", sessionID)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *CashSessionRepositoryImpl) applyFilter(query *gorm.DB, filter models.CashSessionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.StaffID != nil {
		query = query.Where("staff_id = ?", *filter.StaffID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.OpenedAfter != nil {
		query = query.Where("opened_at > ?", *filter.OpenedAfter)
	}
	if filter.OpenedBefore != nil {
		query = query.Where("opened_at < ?", *filter.OpenedBefore)
	}
	return query
}

// ByFilter retrieves cash sessions based on filter criteria
func (r *CashSessionRepositoryImpl) ByFilter(ctx context.Context, filter models.CashSessionFilter, orderBy string, limit, offset int) ([]*models.CashSession, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.CashSession{})

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

	var rows []*models.CashSession
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of cash sessions matching filter
func (r *CashSessionRepositoryImpl) Count(ctx context.Context, filter models.CashSessionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.CashSession{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any cash session matches the filter
func (r *CashSessionRepositoryImpl) Exists(ctx context.Context, filter models.CashSessionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
