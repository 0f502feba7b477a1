package businessflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGetRemainingFreezeDays(t *testing.T) {
	today := date(2026, 9, 1)

	t.Run("EmptyHistoryFullBudget", func(t *testing.T) {
		assert.Equal(t, 30, GetRemainingFreezeDays(nil, today))
	})

	t.Run("SumsCurrentYearEntries", func(t *testing.T) {
		history := []models.FreezeHistory{
			{FrozenAt: date(2026, 1, 1), FrozenUntil: date(2026, 1, 25)}, // 24 days
		}
		assert.Equal(t, 6, GetRemainingFreezeDays(history, today))
	})

	t.Run("IgnoresPreviousYears", func(t *testing.T) {
		history := []models.FreezeHistory{
			{FrozenAt: date(2025, 11, 1), FrozenUntil: date(2025, 11, 28)},
			{FrozenAt: date(2026, 3, 1), FrozenUntil: date(2026, 3, 11)}, // 10 days
		}
		assert.Equal(t, 20, GetRemainingFreezeDays(history, today))
	})

	t.Run("NeverNegativeAfterStaffOverride", func(t *testing.T) {
		history := []models.FreezeHistory{
			{FrozenAt: date(2026, 1, 1), FrozenUntil: date(2026, 2, 15), StaffOverride: true}, // 45 days
		}
		assert.Equal(t, 0, GetRemainingFreezeDays(history, today))
	})
}

func TestValidateFreezeRequest(t *testing.T) {
	today := date(2026, 9, 1)

	t.Run("AcceptsWithinBudget", func(t *testing.T) {
		result := ValidateFreezeRequest(nil, 15, false, today)
		assert.True(t, result.Valid)
		assert.Equal(t, 30, result.RemainingDays)
	})

	t.Run("RejectsNonPositivePeriod", func(t *testing.T) {
		zero := ValidateFreezeRequest(nil, 0, false, today)
		assert.False(t, zero.Valid)
		assert.Contains(t, zero.Error, "inválido")

		negative := ValidateFreezeRequest(nil, -5, true, today)
		assert.False(t, negative.Valid)
	})

	t.Run("RejectsOverBudgetWithRemainingCount", func(t *testing.T) {
		history := []models.FreezeHistory{
			{FrozenAt: date(2026, 1, 1), FrozenUntil: date(2026, 1, 25)}, // 24 used, 6 remain
		}
		result := ValidateFreezeRequest(history, 10, false, today)
		assert.False(t, result.Valid)
		assert.Equal(t, 6, result.RemainingDays)
		assert.Contains(t, result.Error, "6")
	})

	t.Run("StaffOverrideBypassesBudget", func(t *testing.T) {
		history := []models.FreezeHistory{
			{FrozenAt: date(2026, 1, 1), FrozenUntil: date(2026, 1, 25)},
		}
		result := ValidateFreezeRequest(history, 10, true, today)
		assert.True(t, result.Valid)
		assert.Equal(t, 6, result.RemainingDays)
	})

	t.Run("ExactBudgetBoundary", func(t *testing.T) {
		result := ValidateFreezeRequest(nil, 30, false, today)
		assert.True(t, result.Valid)

		over := ValidateFreezeRequest(nil, 31, false, today)
		assert.False(t, over.Valid)
	})
}

func TestCalculateNewExpiresAt(t *testing.T) {
	today := date(2026, 9, 1)

	t.Run("ExtendsByFreezeLength", func(t *testing.T) {
		currentExpiry := date(2026, 12, 15)
		freezeUntil := date(2026, 9, 15) // 14 days from today
		newExpiry := CalculateNewExpiresAt(currentExpiry, freezeUntil, today)
		assert.Equal(t, date(2026, 12, 29), newExpiry)
	})

	t.Run("TimeOfDayDoesNotChangeDayCount", func(t *testing.T) {
		noonToday := time.Date(2026, 9, 1, 12, 45, 0, 0, time.UTC)
		freezeUntil := time.Date(2026, 9, 8, 8, 0, 0, 0, time.UTC) // 7 calendar days
		newExpiry := CalculateNewExpiresAt(date(2026, 10, 1), freezeUntil, noonToday)
		assert.Equal(t, date(2026, 10, 8), newExpiry)
	})
}

func TestIsCurrentlyFrozen(t *testing.T) {
	frozenAt := date(2026, 9, 1)
	frozenUntil := date(2026, 9, 10)

	t.Run("InclusiveBounds", func(t *testing.T) {
		assert.True(t, IsCurrentlyFrozen(&frozenAt, &frozenUntil, date(2026, 9, 1)))
		assert.True(t, IsCurrentlyFrozen(&frozenAt, &frozenUntil, date(2026, 9, 5)))
		assert.True(t, IsCurrentlyFrozen(&frozenAt, &frozenUntil, date(2026, 9, 10)))
	})

	t.Run("OutsideWindow", func(t *testing.T) {
		assert.False(t, IsCurrentlyFrozen(&frozenAt, &frozenUntil, date(2026, 8, 31)))
		assert.False(t, IsCurrentlyFrozen(&frozenAt, &frozenUntil, date(2026, 9, 11)))
	})

	t.Run("MissingBoundsMeanNotFrozen", func(t *testing.T) {
		assert.False(t, IsCurrentlyFrozen(nil, &frozenUntil, date(2026, 9, 5)))
		assert.False(t, IsCurrentlyFrozen(&frozenAt, nil, date(2026, 9, 5)))
		assert.False(t, IsCurrentlyFrozen(nil, nil, date(2026, 9, 5)))
	})
}

func TestFormatFreezePeriod(t *testing.T) {
	formatted := FormatFreezePeriod(date(2026, 2, 1), date(2026, 2, 15))
	assert.Equal(t, "01/02/2026 até 15/02/2026 (14 dias)", formatted)
}

func TestFreezeBudgetConstant(t *testing.T) {
	assert.Equal(t, 30, utils.MaxFreezeDaysPerYear)
}
