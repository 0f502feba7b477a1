package businessflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
)

func promoFixture() []models.Discount {
	return []models.Discount{
		{
			Category: models.DiscountCategoryPromo,
			Type:     models.DiscountTypePercentage,
			Value:    20,
			Code:     utils.ToPtr("BEMVINDO20"),
			Active:   true,
		},
		{
			Category:       models.DiscountCategoryPromo,
			Type:           models.DiscountTypeFixed,
			Value:          3000,
			Code:           utils.ToPtr("NOVATO30"),
			Active:         true,
			NewMembersOnly: true,
		},
	}
}

func TestValidatePromoCode(t *testing.T) {
	today := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ValidCode", func(t *testing.T) {
		result := ValidatePromoCode("BEMVINDO20", promoFixture(), models.MemberStatusAtivo, today)
		require.True(t, result.Valid)
		require.NotNil(t, result.Discount)
		assert.Equal(t, 20.0, result.Discount.Value)
		assert.Empty(t, result.Error)
	})

	t.Run("MatchIsCaseInsensitive", func(t *testing.T) {
		result := ValidatePromoCode("bemvindo20", promoFixture(), models.MemberStatusAtivo, today)
		assert.True(t, result.Valid)

		padded := ValidatePromoCode("  BemVindo20 ", promoFixture(), models.MemberStatusAtivo, today)
		assert.True(t, padded.Valid)
	})

	t.Run("UnknownCode", func(t *testing.T) {
		result := ValidatePromoCode("NAOEXISTE", promoFixture(), models.MemberStatusAtivo, today)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "inválido")
	})

	t.Run("InactiveCodeIsNotFound", func(t *testing.T) {
		discounts := promoFixture()
		discounts[0].Active = false
		result := ValidatePromoCode("BEMVINDO20", discounts, models.MemberStatusAtivo, today)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "inválido")
	})

	t.Run("NotYetValid", func(t *testing.T) {
		discounts := promoFixture()
		discounts[0].ValidFrom = utils.ToPtr(today.AddDate(0, 0, 7))
		result := ValidatePromoCode("BEMVINDO20", discounts, models.MemberStatusAtivo, today)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "not yet valid")
	})

	t.Run("Expired", func(t *testing.T) {
		discounts := promoFixture()
		discounts[0].ValidUntil = utils.ToPtr(today.AddDate(0, 0, -1))
		result := ValidatePromoCode("BEMVINDO20", discounts, models.MemberStatusAtivo, today)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "expirado")
	})

	t.Run("WindowBoundsAreInclusive", func(t *testing.T) {
		discounts := promoFixture()
		discounts[0].ValidFrom = utils.ToPtr(today)
		discounts[0].ValidUntil = utils.ToPtr(today)
		result := ValidatePromoCode("BEMVINDO20", discounts, models.MemberStatusAtivo, today)
		assert.True(t, result.Valid)
	})

	t.Run("Exhausted", func(t *testing.T) {
		discounts := promoFixture()
		discounts[0].MaxUses = utils.ToPtr(50)
		discounts[0].CurrentUses = 50
		result := ValidatePromoCode("BEMVINDO20", discounts, models.MemberStatusAtivo, today)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "esgotado")
	})

	t.Run("UsesLeftStillValid", func(t *testing.T) {
		discounts := promoFixture()
		discounts[0].MaxUses = utils.ToPtr(50)
		discounts[0].CurrentUses = 49
		result := ValidatePromoCode("BEMVINDO20", discounts, models.MemberStatusAtivo, today)
		assert.True(t, result.Valid)
	})

	t.Run("NewMembersOnlyRejectsActiveMember", func(t *testing.T) {
		result := ValidatePromoCode("NOVATO30", promoFixture(), models.MemberStatusAtivo, today)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "new members only")
	})

	t.Run("NewMembersOnlyAcceptsLead", func(t *testing.T) {
		result := ValidatePromoCode("NOVATO30", promoFixture(), models.MemberStatusLead, today)
		require.True(t, result.Valid)
		assert.Equal(t, models.DiscountTypeFixed, result.Discount.Type)
	})

	t.Run("ValidationDoesNotMutateUsageCounter", func(t *testing.T) {
		discounts := promoFixture()
		discounts[0].MaxUses = utils.ToPtr(10)
		discounts[0].CurrentUses = 3
		_ = ValidatePromoCode("BEMVINDO20", discounts, models.MemberStatusAtivo, today)
		assert.Equal(t, 3, discounts[0].CurrentUses)
	})
}

func TestPromoDiscountFrom(t *testing.T) {
	assert.Nil(t, PromoDiscountFrom(nil))

	d := &models.Discount{Type: models.DiscountTypeFixed, Value: 2500}
	promo := PromoDiscountFrom(d)
	require.NotNil(t, promo)
	assert.Equal(t, models.DiscountTypeFixed, promo.Type)
	assert.Equal(t, 2500.0, promo.Value)
}
