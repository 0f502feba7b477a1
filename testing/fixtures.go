package testing

import (
	"fmt"

	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
	"golang.org/x/crypto/bcrypt"
)

// InsertDefaultPricingConfig seeds a studio pricing config with round values
// (R$ 150 base, R$ 60 per extra modality, R$ 99 enrollment fee)
func (tdb *TestDB) InsertDefaultPricingConfig() (*models.PricingConfig, error) {
	cfg := &models.PricingConfig{
		BasePriceCents:          15000,
		ExtraModalityPriceCents: 6000,
		EnrollmentFeeCents:      9900,
		SingleClassPriceCents:   5000,
		DayPassPriceCents:       7000,
	}
	if err := tdb.DB.Create(cfg).Error; err != nil {
		return nil, fmt.Errorf("failed to insert pricing config: %w", err)
	}
	return cfg, nil
}

// InsertTestPlan seeds a subscription plan
func (tdb *TestDB) InsertTestPlan(name string, accessType models.AccessType, durationDays int) (*models.Plan, error) {
	plan := &models.Plan{
		Name:         name,
		AccessType:   accessType,
		DurationDays: durationDays,
		IsActive:     true,
	}
	if accessType == models.AccessTypeCredits {
		plan.CreditsGranted = utils.ToPtr(10)
	}
	if err := tdb.DB.Create(plan).Error; err != nil {
		return nil, fmt.Errorf("failed to insert plan %s: %w", name, err)
	}
	return plan, nil
}

// InsertTestMember seeds a member in the given lifecycle state
func (tdb *TestDB) InsertTestMember(name, email string, status models.MemberStatus) (*models.Member, error) {
	member := &models.Member{
		Name:             name,
		Email:            email,
		Status:           status,
		CommitmentMonths: 1,
	}
	if err := tdb.DB.Create(member).Error; err != nil {
		return nil, fmt.Errorf("failed to insert member %s: %w", email, err)
	}
	return member, nil
}

// InsertTestStaff seeds a staff account with a bcrypt-hashed password
func (tdb *TestDB) InsertTestStaff(name, email, password string, role models.StaffRole) (*models.Staff, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	staff := &models.Staff{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     utils.ToPtr(true),
	}
	if err := tdb.DB.Create(staff).Error; err != nil {
		return nil, fmt.Errorf("failed to insert staff %s: %w", email, err)
	}
	return staff, nil
}

// InsertCommitmentDiscounts seeds the usual commitment tiers (3, 6 and 12 months)
func (tdb *TestDB) InsertCommitmentDiscounts() ([]*models.Discount, error) {
	tiers := []*models.Discount{
		{
			Name:                "Trimestral",
			Category:            models.DiscountCategoryCommitment,
			Type:                models.DiscountTypePercentage,
			Value:               5,
			MinCommitmentMonths: utils.ToPtr(3),
			Active:              true,
		},
		{
			Name:                "Semestral",
			Category:            models.DiscountCategoryCommitment,
			Type:                models.DiscountTypePercentage,
			Value:               10,
			MinCommitmentMonths: utils.ToPtr(6),
			Active:              true,
		},
		{
			Name:                "Anual",
			Category:            models.DiscountCategoryCommitment,
			Type:                models.DiscountTypePercentage,
			Value:               15,
			MinCommitmentMonths: utils.ToPtr(12),
			Active:              true,
		},
	}
	for _, tier := range tiers {
		if err := tdb.DB.Create(tier).Error; err != nil {
			return nil, fmt.Errorf("failed to insert commitment discount %s: %w", tier.Name, err)
		}
	}
	return tiers, nil
}
