package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tatame-app/tatame/models"
	"gorm.io/gorm"
)

// PricingConfigRepositoryImpl implements PricingConfigRepository interface.
// Updates append a new row; reads take the latest, keeping price history auditable.
type PricingConfigRepositoryImpl struct {
	db *gorm.DB
}

// NewPricingConfigRepository creates a new pricing config repository
func NewPricingConfigRepository(db *gorm.DB) PricingConfigRepository {
	return &PricingConfigRepositoryImpl{db: db}
}

func (r *PricingConfigRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// Latest returns the current pricing config, nil when none was ever saved
func (r *PricingConfigRepositoryImpl) Latest(ctx context.Context) (*models.PricingConfig, error) {
	db := r.getDB(ctx)
	var row models.PricingConfig
	err := db.Order("id DESC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load pricing config: %w", err)
	}
	return &row, nil
}

// Save appends a new pricing config row
func (r *PricingConfigRepositoryImpl) Save(ctx context.Context, config *models.PricingConfig) error {
	db := r.getDB(ctx)
	if err := db.Create(config).Error; err != nil {
		return fmt.Errorf("failed to save pricing config: %w", err)
	}
	return nil
}
