package businessflow

import (
	"fmt"
	"time"

	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
)

// FreezeValidation is a discriminated result for a freeze request.
// RemainingDays reflects the annual budget before the requested freeze.
type FreezeValidation struct {
	Valid         bool   `json:"valid"`
	Error         string `json:"error,omitempty"`
	RemainingDays int    `json:"remaining_days"`
}

// GetRemainingFreezeDays sums the freeze days already used in today's
// calendar year and returns what is left of the annual budget. Never
// negative, even when staff overrides pushed usage beyond the cap.
func GetRemainingFreezeDays(history []models.FreezeHistory, today time.Time) int {
	used := 0
	for i := range history {
		if history[i].FrozenAt.Year() != today.Year() {
			continue
		}
		used += utils.DaysBetween(history[i].FrozenAt, history[i].FrozenUntil)
	}
	remaining := utils.MaxFreezeDaysPerYear - used
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ValidateFreezeRequest checks a requested freeze length against the annual
// budget. Staff override bypasses the cap entirely; a non-positive period is
// always rejected.
func ValidateFreezeRequest(history []models.FreezeHistory, requestedDays int, isStaffOverride bool, today time.Time) FreezeValidation {
	remaining := GetRemainingFreezeDays(history, today)

	if requestedDays <= 0 {
		return FreezeValidation{Valid: false, Error: "Período de congelamento inválido", RemainingDays: remaining}
	}
	if requestedDays > remaining && !isStaffOverride {
		return FreezeValidation{
			Valid:         false,
			Error:         fmt.Sprintf("Limite anual excedido: restam %d dias de congelamento neste ano", remaining),
			RemainingDays: remaining,
		}
	}
	return FreezeValidation{Valid: true, RemainingDays: remaining}
}

// CalculateNewExpiresAt compensates a frozen member by pushing the current
// expiration forward by the freeze length, measured from today until
// freezeUntil.
func CalculateNewExpiresAt(currentExpiresAt time.Time, freezeUntil time.Time, today time.Time) time.Time {
	freezeDays := utils.DaysBetween(today, freezeUntil)
	return currentExpiresAt.AddDate(0, 0, freezeDays)
}

// IsCurrentlyFrozen reports whether today falls inside the freeze window,
// inclusive on both ends. Missing bounds mean not frozen.
func IsCurrentlyFrozen(frozenAt, frozenUntil *time.Time, today time.Time) bool {
	if frozenAt == nil || frozenUntil == nil {
		return false
	}
	day := utils.StartOfDay(today)
	return !day.Before(utils.StartOfDay(*frozenAt)) && !day.After(utils.StartOfDay(*frozenUntil))
}

// FormatFreezePeriod renders a freeze window for display:
// "01/02/2026 até 15/02/2026 (14 dias)".
func FormatFreezePeriod(frozenAt, frozenUntil time.Time) string {
	days := utils.DaysBetween(frozenAt, frozenUntil)
	return fmt.Sprintf("%s até %s (%d dias)",
		frozenAt.Format(utils.BRDateLayout),
		frozenUntil.Format(utils.BRDateLayout),
		days,
	)
}
