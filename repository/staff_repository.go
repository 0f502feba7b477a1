package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
	"gorm.io/gorm"
)

// StaffRepositoryImpl implements StaffRepository interface
type StaffRepositoryImpl struct {
	*BaseRepository[models.Staff, models.StaffFilter]
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &StaffRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Staff, models.StaffFilter](db),
	}
}

// ByUUID retrieves a staff account by UUID
func (r *StaffRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Staff, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.StaffFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ByEmail retrieves a staff account by email address
func (r *StaffRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Staff, error) {
	rows, err := r.ByFilter(ctx, models.StaffFilter{Email: &email}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find staff by email: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// UpdateLastLogin stamps a successful login
func (r *StaffRepositoryImpl) UpdateLastLogin(ctx context.Context, staffID uint, at time.Time) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Staff{}).
		Where("id = ?", staffID).
		Updates(map[string]any{
			"last_login_at": at,
			"updated_at":    utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update last login for staff %d: %w", staffID, err)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *StaffRepositoryImpl) applyFilter(query *gorm.DB, filter models.StaffFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves staff accounts based on filter criteria
func (r *StaffRepositoryImpl) ByFilter(ctx context.Context, filter models.StaffFilter, orderBy string, limit, offset int) ([]*models.Staff, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Staff{})

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

	var rows []*models.Staff
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of staff accounts matching filter
func (r *StaffRepositoryImpl) Count(ctx context.Context, filter models.StaffFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Staff{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any staff account matches the filter
func (r *StaffRepositoryImpl) Exists(ctx context.Context, filter models.StaffFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
