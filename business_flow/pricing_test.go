package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
)

func baseConfig() models.PricingConfig {
	return models.PricingConfig{
		BasePriceCents:          6000,
		ExtraModalityPriceCents: 3000,
		EnrollmentFeeCents:      5000,
	}
}

func TestResolvePrices(t *testing.T) {
	cfg := baseConfig()

	t.Run("NilOverrideFallsBackToConfig", func(t *testing.T) {
		resolved := ResolvePrices(cfg, nil)
		assert.Equal(t, int64(6000), resolved.BasePriceCents)
		assert.Equal(t, int64(3000), resolved.ExtraModalityPriceCents)
		assert.Equal(t, int64(5000), resolved.EnrollmentFeeCents)
	})

	t.Run("PartialOverrideWinsFieldByField", func(t *testing.T) {
		override := &models.PlanPricingOverride{
			BasePriceCents: utils.ToPtr(int64(9000)),
		}
		resolved := ResolvePrices(cfg, override)
		assert.Equal(t, int64(9000), resolved.BasePriceCents)
		assert.Equal(t, int64(3000), resolved.ExtraModalityPriceCents)
		assert.Equal(t, int64(5000), resolved.EnrollmentFeeCents)
	})

	t.Run("Idempotent", func(t *testing.T) {
		override := &models.PlanPricingOverride{
			EnrollmentFeeCents: utils.ToPtr(int64(0)),
		}
		first := ResolvePrices(cfg, override)
		second := ResolvePrices(cfg, override)
		assert.Equal(t, first, second)
		// Fields the override leaves out always fall back to config
		assert.Equal(t, cfg.BasePriceCents, second.BasePriceCents)
		assert.Equal(t, int64(0), second.EnrollmentFeeCents)
	})
}

func TestFindCommitmentDiscount(t *testing.T) {
	tiers := []models.Discount{
		{Category: models.DiscountCategoryCommitment, Active: true, Value: 5, MinCommitmentMonths: utils.ToPtr(3)},
		{Category: models.DiscountCategoryCommitment, Active: true, Value: 10, MinCommitmentMonths: utils.ToPtr(6)},
		{Category: models.DiscountCategoryCommitment, Active: true, Value: 15, MinCommitmentMonths: utils.ToPtr(12)},
	}

	t.Run("PicksHighestQualifyingPercentage", func(t *testing.T) {
		result := FindCommitmentDiscount(tiers, 24)
		assert.NotNil(t, result.Discount)
		assert.Equal(t, 15.0, result.Percentage)
	})

	t.Run("IntermediateCommitment", func(t *testing.T) {
		result := FindCommitmentDiscount(tiers, 6)
		assert.Equal(t, 10.0, result.Percentage)
	})

	t.Run("BelowEveryTier", func(t *testing.T) {
		result := FindCommitmentDiscount(tiers, 1)
		assert.Nil(t, result.Discount)
		assert.Equal(t, 0.0, result.Percentage)
	})

	t.Run("HighestPercentageWinsOverLongestTier", func(t *testing.T) {
		// A non-monotonic tier table: the shorter tier carries the bigger discount
		odd := []models.Discount{
			{Category: models.DiscountCategoryCommitment, Active: true, Value: 20, MinCommitmentMonths: utils.ToPtr(3)},
			{Category: models.DiscountCategoryCommitment, Active: true, Value: 10, MinCommitmentMonths: utils.ToPtr(12)},
		}
		result := FindCommitmentDiscount(odd, 12)
		assert.Equal(t, 20.0, result.Percentage)
	})

	t.Run("IgnoresInactiveAndPromoRecords", func(t *testing.T) {
		mixed := []models.Discount{
			{Category: models.DiscountCategoryCommitment, Active: false, Value: 50, MinCommitmentMonths: utils.ToPtr(1)},
			{Category: models.DiscountCategoryPromo, Active: true, Value: 40, Code: utils.ToPtr("XYZ")},
			{Category: models.DiscountCategoryCommitment, Active: true, Value: 5, MinCommitmentMonths: utils.ToPtr(1)},
		}
		result := FindCommitmentDiscount(mixed, 12)
		assert.Equal(t, 5.0, result.Percentage)
	})

	t.Run("EmptyListYieldsNoDiscount", func(t *testing.T) {
		result := FindCommitmentDiscount(nil, 12)
		assert.Nil(t, result.Discount)
		assert.Equal(t, 0.0, result.Percentage)
	})
}

func TestCalculatePrice(t *testing.T) {
	t.Run("ThreeModalitiesNoDiscounts", func(t *testing.T) {
		breakdown := CalculatePrice(CalculatePriceParams{
			Config:        baseConfig(),
			ModalityCount: 3,
		})
		assert.Equal(t, int64(12000), breakdown.MonthlyPriceCents)
		assert.Equal(t, 2, breakdown.ExtraModalitiesCount)
		assert.Equal(t, int64(6000), breakdown.ExtraModalitiesCents)
		assert.Equal(t, int64(0), breakdown.EnrollmentFeeCents)
		assert.Equal(t, int64(12000), breakdown.TotalFirstPaymentCents)
	})

	t.Run("DiscountsChainSequentially", func(t *testing.T) {
		// 10% commitment then 20% promo on 6000: 6000*0.9*0.8 = 4320,
		// not 6000*0.7 = 4200
		breakdown := CalculatePrice(CalculatePriceParams{
			Config:                baseConfig(),
			ModalityCount:         1,
			CommitmentDiscountPct: 10,
			PromoDiscount:         &PromoDiscount{Type: models.DiscountTypePercentage, Value: 20},
		})
		assert.Equal(t, int64(4320), breakdown.MonthlyPriceCents)
		assert.Equal(t, int64(600), breakdown.CommitmentDiscountCents)
		assert.Equal(t, int64(1080), breakdown.PromoDiscountCents)
	})

	t.Run("FixedPromoCappedNeverNegative", func(t *testing.T) {
		breakdown := CalculatePrice(CalculatePriceParams{
			Config:        baseConfig(),
			ModalityCount: 1,
			PromoDiscount: &PromoDiscount{Type: models.DiscountTypeFixed, Value: 10000},
		})
		assert.Equal(t, int64(0), breakdown.MonthlyPriceCents)
		assert.Equal(t, int64(6000), breakdown.PromoDiscountCents)
	})

	t.Run("ZeroModalityCountBillsAsOne", func(t *testing.T) {
		breakdown := CalculatePrice(CalculatePriceParams{
			Config:        baseConfig(),
			ModalityCount: 0,
		})
		assert.Equal(t, int64(6000), breakdown.MonthlyPriceCents)
		assert.Equal(t, 0, breakdown.ExtraModalitiesCount)

		negative := CalculatePrice(CalculatePriceParams{
			Config:        baseConfig(),
			ModalityCount: -3,
		})
		assert.Equal(t, breakdown, negative)
	})

	t.Run("EnrollmentFeeOnlyForFirstTimers", func(t *testing.T) {
		first := CalculatePrice(CalculatePriceParams{
			Config:        baseConfig(),
			ModalityCount: 1,
			IsFirstTime:   true,
		})
		assert.Equal(t, int64(5000), first.EnrollmentFeeCents)
		assert.Equal(t, int64(11000), first.TotalFirstPaymentCents)

		renewal := CalculatePrice(CalculatePriceParams{
			Config:        baseConfig(),
			ModalityCount: 1,
			IsFirstTime:   false,
		})
		assert.Equal(t, int64(0), renewal.EnrollmentFeeCents)
		assert.Equal(t, int64(6000), renewal.TotalFirstPaymentCents)
	})

	t.Run("RoundHalfUpOnOddAmounts", func(t *testing.T) {
		// 3333 * 0.85 = 2833.05 -> 2833; 3333 * 0.925 = 3083.025 -> 3083
		cfg := models.PricingConfig{BasePriceCents: 3333}
		breakdown := CalculatePrice(CalculatePriceParams{
			Config:                cfg,
			ModalityCount:         1,
			CommitmentDiscountPct: 15,
		})
		assert.Equal(t, int64(2833), breakdown.MonthlyPriceCents)
		assert.Equal(t, int64(500), breakdown.CommitmentDiscountCents)

		// 1250 * 0.5 = 625 exactly; 125 * 0.5 = 62.5 rounds up to 63
		half := CalculatePrice(CalculatePriceParams{
			Config:                models.PricingConfig{BasePriceCents: 125},
			ModalityCount:         1,
			CommitmentDiscountPct: 50,
		})
		assert.Equal(t, int64(63), half.MonthlyPriceCents)
	})

	t.Run("MonotonicInModalityCount", func(t *testing.T) {
		prev := int64(-1)
		for count := 1; count <= 6; count++ {
			breakdown := CalculatePrice(CalculatePriceParams{
				Config:        baseConfig(),
				ModalityCount: count,
			})
			assert.GreaterOrEqual(t, breakdown.MonthlyPriceCents, prev)
			prev = breakdown.MonthlyPriceCents
		}
	})

	t.Run("NonIncreasingInCommitmentDiscount", func(t *testing.T) {
		prev := int64(1 << 40)
		for pct := 0.0; pct <= 100; pct += 5 {
			breakdown := CalculatePrice(CalculatePriceParams{
				Config:                baseConfig(),
				ModalityCount:         2,
				CommitmentDiscountPct: pct,
			})
			assert.LessOrEqual(t, breakdown.MonthlyPriceCents, prev)
			assert.GreaterOrEqual(t, breakdown.MonthlyPriceCents, int64(0))
			prev = breakdown.MonthlyPriceCents
		}
	})

	t.Run("PlanOverrideFlowsThrough", func(t *testing.T) {
		breakdown := CalculatePrice(CalculatePriceParams{
			Config:        baseConfig(),
			ModalityCount: 2,
			PlanOverride: &models.PlanPricingOverride{
				BasePriceCents:          utils.ToPtr(int64(10000)),
				ExtraModalityPriceCents: utils.ToPtr(int64(2000)),
			},
		})
		assert.Equal(t, int64(12000), breakdown.MonthlyPriceCents)
		assert.Equal(t, int64(2000), breakdown.ExtraModalitiesCents)
	})
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "R$ 0,00", FormatCurrency(0))
	assert.Equal(t, "R$ 60,00", FormatCurrency(6000))
	assert.Equal(t, "R$ 1.234,56", FormatCurrency(123456))
	assert.Equal(t, "R$ 12.345.678,90", FormatCurrency(1234567890))
	assert.Equal(t, "R$ 0,05", FormatCurrency(5))
	assert.Equal(t, "R$ -43,21", FormatCurrency(-4321))
}
