package repository

import (
	"context"

	"github.com/tatame-app/tatame/models"
	"gorm.io/gorm"
)

// CheckInRepositoryImpl implements CheckInRepository interface
type CheckInRepositoryImpl struct {
	*BaseRepository[models.CheckIn, models.CheckInFilter]
}

// NewCheckInRepository creates a new check-in repository
func NewCheckInRepository(db *gorm.DB) CheckInRepository {
	return &CheckInRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CheckIn, models.CheckInFilter](db),
	}
}

// ListByMember retrieves the most recent check-ins of one member
func (r *CheckInRepositoryImpl) ListByMember(ctx context.Context, memberID uint, limit, offset int) ([]*models.CheckIn, error) {
	return r.ByFilter(ctx, models.CheckInFilter{MemberID: &memberID}, "checked_in_at DESC", limit, offset)
}

// applyFilter applies filter criteria to a GORM query
func (r *CheckInRepositoryImpl) applyFilter(query *gorm.DB, filter models.CheckInFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.Result != nil {
		query = query.Where("result = ?", *filter.Result)
	}
	if filter.After != nil {
		query = query.Where("checked_in_at > ?", *filter.After)
	}
	if filter.Before != nil {
		query = query.Where("checked_in_at < ?", *filter.Before)
	}
	return query
}

// ByFilter retrieves check-ins based on filter criteria
func (r *CheckInRepositoryImpl) ByFilter(ctx context.Context, filter models.CheckInFilter, orderBy string, limit, offset int) ([]*models.CheckIn, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.CheckIn{})

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

	var rows []*models.CheckIn
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of check-ins matching filter
func (r *CheckInRepositoryImpl) Count(ctx context.Context, filter models.CheckInFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.CheckIn{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any check-in matches the filter
func (r *CheckInRepositoryImpl) Exists(ctx context.Context, filter models.CheckInFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
