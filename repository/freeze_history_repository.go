package repository

import (
	"context"
	"fmt"

	"github.com/tatame-app/tatame/models"
	"gorm.io/gorm"
)

// FreezeHistoryRepositoryImpl implements FreezeHistoryRepository interface
type FreezeHistoryRepositoryImpl struct {
	*BaseRepository[models.FreezeHistory, models.FreezeHistoryFilter]
}

// NewFreezeHistoryRepository creates a new freeze history repository
func NewFreezeHistoryRepository(db *gorm.DB) FreezeHistoryRepository {
	return &FreezeHistoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.FreezeHistory, models.FreezeHistoryFilter](db),
	}
}

// ListByMember retrieves a member's full freeze history, oldest first
func (r *FreezeHistoryRepositoryImpl) ListByMember(ctx context.Context, memberID uint) ([]*models.FreezeHistory, error) {
	rows, err := r.ByFilter(ctx, models.FreezeHistoryFilter{MemberID: &memberID}, "frozen_at ASC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list freeze history for member %d: %w", memberID, err)
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *FreezeHistoryRepositoryImpl) applyFilter(query *gorm.DB, filter models.FreezeHistoryFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.FrozenAfter != nil {
		query = query.Where("frozen_at > ?", *filter.FrozenAfter)
	}
	if filter.FrozenBefore != nil {
		query = query.Where("frozen_at < ?", *filter.FrozenBefore)
	}
	return query
}

// ByFilter retrieves freeze history rows based on filter criteria
func (r *FreezeHistoryRepositoryImpl) ByFilter(ctx context.Context, filter models.FreezeHistoryFilter, orderBy string, limit, offset int) ([]*models.FreezeHistory, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.FreezeHistory{})

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

	var rows []*models.FreezeHistory
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of freeze history rows matching filter
func (r *FreezeHistoryRepositoryImpl) Count(ctx context.Context, filter models.FreezeHistoryFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.FreezeHistory{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any freeze history row matches the filter
func (r *FreezeHistoryRepositoryImpl) Exists(ctx context.Context, filter models.FreezeHistoryFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
