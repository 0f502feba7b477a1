package repository

import (
	"context"
	"fmt"

	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
	"gorm.io/gorm"
)

// DiscountRepositoryImpl implements DiscountRepository interface
type DiscountRepositoryImpl struct {
	*BaseRepository[models.Discount, models.DiscountFilter]
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &DiscountRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Discount, models.DiscountFilter](db),
	}
}

// ByUUID retrieves a discount by UUID
func (r *DiscountRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Discount, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.DiscountFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListActive retrieves every active discount, commitment tiers and promos alike
func (r *DiscountRepositoryImpl) ListActive(ctx context.Context) ([]*models.Discount, error) {
	active := true
	rows, err := r.ByFilter(ctx, models.DiscountFilter{Active: &active}, "id ASC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list active discounts: %w", err)
	}
	return rows, nil
}

// IncrementUsage bumps current_uses only while below max_uses (unlimited when
// max_uses is NULL). The guard makes concurrent redemptions of the last slot
// safe: exactly one update wins.
func (r *DiscountRepositoryImpl) IncrementUsage(ctx context.Context, discountID uint) (bool, error) {
	db := r.getDB(ctx)
	res := db.Model(&models.Discount{}).
		Where("id = ? AND (max_uses IS NULL OR current_uses < max_uses)", discountID).
		Updates(map[string]any{
			"current_uses": gorm.Expr("current_uses + 1"),
			"updated_at":   utils.UTCNow(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to increment usage for discount %d: %w", discountID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Deactivate soft-disables a discount; history and past payments keep the record
func (r *DiscountRepositoryImpl) Deactivate(ctx context.Context, discountID uint) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Discount{}).
		Where("id = ?", discountID).
		Updates(map[string]any{
			"ativo":      false,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate discount %d: %w", discountID, err)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *DiscountRepositoryImpl) applyFilter(query *gorm.DB, filter models.DiscountFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Code != nil {
		query = query.Where("code = ?", *filter.Code)
	}
	if filter.Active != nil {
		query = query.Where("ativo = ?", *filter.Active)
	}
	return query
}

// ByFilter retrieves discounts based on filter criteria
func (r *DiscountRepositoryImpl) ByFilter(ctx context.Context, filter models.DiscountFilter, orderBy string, limit, offset int) ([]*models.Discount, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Discount{})

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

	var rows []*models.Discount
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of discounts matching filter
func (r *DiscountRepositoryImpl) Count(ctx context.Context, filter models.DiscountFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Discount{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any discount matches the filter
func (r *DiscountRepositoryImpl) Exists(ctx context.Context, filter models.DiscountFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
