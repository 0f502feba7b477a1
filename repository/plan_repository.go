package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanRepositoryImpl implements PlanRepository interface
type PlanRepositoryImpl struct {
	*BaseRepository[models.Plan, models.PlanFilter]
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &PlanRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Plan, models.PlanFilter](db),
	}
}

// ByUUID retrieves a plan by UUID, preloading its pricing override
func (r *PlanRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Plan, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	db := r.getDB(ctx)
	var row models.Plan
	err = db.Preload("PricingOverride").Where("uuid = ?", parsed).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find plan by UUID: %w", err)
	}
	return &row, nil
}

// ListActive retrieves all plans currently offered
func (r *PlanRepositoryImpl) ListActive(ctx context.Context) ([]*models.Plan, error) {
	db := r.getDB(ctx)
	var rows []*models.Plan
	err := db.Where("is_active = ?", true).
		Order("id ASC").
		Preload("PricingOverride").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}
	return rows, nil
}

// OverrideByPlanID retrieves a plan's pricing override, nil when absent
func (r *PlanRepositoryImpl) OverrideByPlanID(ctx context.Context, planID uint) (*models.PlanPricingOverride, error) {
	db := r.getDB(ctx)
	var row models.PlanPricingOverride
	err := db.Where("plan_id = ?", planID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pricing override for plan %d: %w", planID, err)
	}
	return &row, nil
}

// UpsertOverride creates or replaces a plan's pricing override in one statement
func (r *PlanRepositoryImpl) UpsertOverride(ctx context.Context, override *models.PlanPricingOverride) error {
	db := r.getDB(ctx)
	override.UpdatedAt = utils.UTCNow()
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "plan_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"base_price_cents",
			"extra_modality_price_cents",
			"enrollment_fee_cents",
			"updated_at",
		}),
	}).Create(override).Error
	if err != nil {
		return fmt.Errorf("failed to upsert pricing override for plan %d: %w", override.PlanID, err)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *PlanRepositoryImpl) applyFilter(query *gorm.DB, filter models.PlanFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.AccessType != nil {
		query = query.Where("access_type = ?", *filter.AccessType)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves plans based on filter criteria
func (r *PlanRepositoryImpl) ByFilter(ctx context.Context, filter models.PlanFilter, orderBy string, limit, offset int) ([]*models.Plan, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Plan{})

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

	var rows []*models.Plan
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of plans matching filter
func (r *PlanRepositoryImpl) Count(ctx context.Context, filter models.PlanFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Plan{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any plan matches the filter
func (r *PlanRepositoryImpl) Exists(ctx context.Context, filter models.PlanFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
