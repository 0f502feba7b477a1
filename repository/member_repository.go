package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
	"gorm.io/gorm"
)

// MemberRepositoryImpl implements MemberRepository interface
type MemberRepositoryImpl struct {
	*BaseRepository[models.Member, models.MemberFilter]
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &MemberRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Member, models.MemberFilter](db),
	}
}

// ByUUID retrieves a member by UUID
func (r *MemberRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Member, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.MemberFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ByEmail retrieves a member by email address
func (r *MemberRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Member, error) {
	rows, err := r.ByFilter(ctx, models.MemberFilter{Email: &email}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find member by email: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Update persists all fields of an existing member row
func (r *MemberRepositoryImpl) Update(ctx context.Context, member *models.Member) error {
	db := r.getDB(ctx)
	member.UpdatedAt = utils.UTCNow()
	if err := db.Save(member).Error; err != nil {
		return fmt.Errorf("failed to update member %d: %w", member.ID, err)
	}
	return nil
}

// UpdateStatus changes only the lifecycle status of a member
func (r *MemberRepositoryImpl) UpdateStatus(ctx context.Context, memberID uint, status models.MemberStatus) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Member{}).
		Where("id = ?", memberID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update member %d status: %w", memberID, err)
	}
	return nil
}

// DecrementCredits atomically consumes one credit. The guard in the WHERE
// clause makes concurrent check-ins safe: only one of two racing updates
// can see credits_remaining > 0 at balance 1.
func (r *MemberRepositoryImpl) DecrementCredits(ctx context.Context, memberID uint) (bool, error) {
	db := r.getDB(ctx)
	res := db.Model(&models.Member{}).
		Where("id = ? AND credits_remaining > 0", memberID).
		Updates(map[string]any{
			"credits_remaining": gorm.Expr("credits_remaining - 1"),
			"updated_at":        utils.UTCNow(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to decrement credits for member %d: %w", memberID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetFreezeWindow marks a member frozen and optionally pushes the access expiry
func (r *MemberRepositoryImpl) SetFreezeWindow(ctx context.Context, memberID uint, frozenAt, frozenUntil time.Time, newExpiresAt *time.Time) error {
	db := r.getDB(ctx)
	updates := map[string]any{
		"status":       models.MemberStatusPausado,
		"frozen_at":    frozenAt,
		"frozen_until": frozenUntil,
		"updated_at":   utils.UTCNow(),
	}
	if newExpiresAt != nil {
		updates["access_expires_at"] = *newExpiresAt
	}
	err := db.Model(&models.Member{}).Where("id = ?", memberID).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to set freeze window for member %d: %w", memberID, err)
	}
	return nil
}

// ClearFreezeWindow reactivates a frozen member
func (r *MemberRepositoryImpl) ClearFreezeWindow(ctx context.Context, memberID uint) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Member{}).
		Where("id = ? AND status = ?", memberID, models.MemberStatusPausado).
		Updates(map[string]any{
			"status":       models.MemberStatusAtivo,
			"frozen_at":    nil,
			"frozen_until": nil,
			"updated_at":   utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to clear freeze window for member %d: %w", memberID, err)
	}
	return nil
}

// ListFreezesDue returns frozen members whose window ended before the cutoff
func (r *MemberRepositoryImpl) ListFreezesDue(ctx context.Context, cutoff time.Time, limit int) ([]*models.Member, error) {
	db := r.getDB(ctx)
	var rows []*models.Member
	query := db.Where("status = ? AND frozen_until IS NOT NULL AND frozen_until < ?", models.MemberStatusPausado, cutoff).
		Order("frozen_until ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list due freezes: %w", err)
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *MemberRepositoryImpl) applyFilter(query *gorm.DB, filter models.MemberFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AccessType != nil {
		query = query.Where("access_type = ?", *filter.AccessType)
	}
	if filter.PlanID != nil {
		query = query.Where("plan_id = ?", *filter.PlanID)
	}
	if filter.ExpiresBefore != nil {
		query = query.Where("access_expires_at < ?", *filter.ExpiresBefore)
	}
	if filter.ExpiresAfter != nil {
		query = query.Where("access_expires_at > ?", *filter.ExpiresAfter)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves members based on filter criteria
func (r *MemberRepositoryImpl) ByFilter(ctx context.Context, filter models.MemberFilter, orderBy string, limit, offset int) ([]*models.Member, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Member{})

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

	var rows []*models.Member
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of members matching filter
func (r *MemberRepositoryImpl) Count(ctx context.Context, filter models.MemberFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Member{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any member matches the filter
func (r *MemberRepositoryImpl) Exists(ctx context.Context, filter models.MemberFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
