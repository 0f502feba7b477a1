package businessflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
)

func TestValidateMemberAccess(t *testing.T) {
	today := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

	subscription := utils.ToPtr(models.AccessTypeSubscription)
	credits := utils.ToPtr(models.AccessTypeCredits)
	dayPass := utils.ToPtr(models.AccessTypeDailyPass)

	t.Run("BlockedMemberWithValidSubscriptionStaysBlocked", func(t *testing.T) {
		member := &models.Member{
			Status:          models.MemberStatusBloqueado,
			AccessType:      subscription,
			AccessExpiresAt: utils.ToPtr(today.AddDate(0, 6, 0)),
		}
		result := ValidateMemberAccess(member, today)
		assert.False(t, result.Allowed)
		assert.Equal(t, models.CheckInBlocked, result.Result)
	})

	t.Run("CancelledMemberIsBlocked", func(t *testing.T) {
		member := &models.Member{Status: models.MemberStatusCancelado, AccessType: subscription}
		result := ValidateMemberAccess(member, today)
		assert.False(t, result.Allowed)
		assert.Equal(t, models.CheckInBlocked, result.Result)
	})

	t.Run("FrozenMemberIsBlockedWithDistinctMessage", func(t *testing.T) {
		member := &models.Member{Status: models.MemberStatusPausado, AccessType: subscription}
		result := ValidateMemberAccess(member, today)
		assert.False(t, result.Allowed)
		assert.Equal(t, models.CheckInBlocked, result.Result)
		assert.Contains(t, result.Message, "congelada")
	})

	t.Run("LeadHasNoActivePlan", func(t *testing.T) {
		member := &models.Member{Status: models.MemberStatusLead}
		result := ValidateMemberAccess(member, today)
		assert.False(t, result.Allowed)
		assert.Equal(t, models.CheckInExpired, result.Result)
	})

	t.Run("ActiveMemberWithoutAccessTypeIsExpired", func(t *testing.T) {
		member := &models.Member{Status: models.MemberStatusAtivo}
		result := ValidateMemberAccess(member, today)
		assert.False(t, result.Allowed)
		assert.Equal(t, models.CheckInExpired, result.Result)
	})

	t.Run("SameDayExpirationStillAllowed", func(t *testing.T) {
		member := &models.Member{
			Status:          models.MemberStatusAtivo,
			AccessType:      subscription,
			AccessExpiresAt: utils.ToPtr(utils.StartOfDay(today)),
		}
		result := ValidateMemberAccess(member, today)
		assert.True(t, result.Allowed)
		assert.Equal(t, models.CheckInAllowed, result.Result)
	})

	t.Run("ExpiredOneDayEarlier", func(t *testing.T) {
		member := &models.Member{
			Status:          models.MemberStatusAtivo,
			AccessType:      subscription,
			AccessExpiresAt: utils.ToPtr(utils.StartOfDay(today).AddDate(0, 0, -1)),
		}
		result := ValidateMemberAccess(member, today)
		assert.False(t, result.Allowed)
		assert.Equal(t, models.CheckInExpired, result.Result)
	})

	t.Run("NilExpirationNeverExpires", func(t *testing.T) {
		member := &models.Member{Status: models.MemberStatusAtivo, AccessType: subscription}
		member.AccessExpiresAt = nil
		result := ValidateMemberAccess(member, today)
		// AccessType present and no expiry date: access never lapses
		assert.True(t, result.Allowed)
	})

	t.Run("DayPassExpiresLikeSubscription", func(t *testing.T) {
		member := &models.Member{
			Status:          models.MemberStatusAtivo,
			AccessType:      dayPass,
			AccessExpiresAt: utils.ToPtr(today.AddDate(0, 0, -2)),
		}
		result := ValidateMemberAccess(member, today)
		assert.Equal(t, models.CheckInExpired, result.Result)
	})

	t.Run("CreditsZeroRemaining", func(t *testing.T) {
		member := &models.Member{
			Status:           models.MemberStatusAtivo,
			AccessType:       credits,
			CreditsRemaining: utils.ToPtr(0),
		}
		result := ValidateMemberAccess(member, today)
		assert.False(t, result.Allowed)
		assert.Equal(t, models.CheckInNoCredits, result.Result)
	})

	t.Run("CreditsNilRemaining", func(t *testing.T) {
		member := &models.Member{Status: models.MemberStatusAtivo, AccessType: credits}
		result := ValidateMemberAccess(member, today)
		assert.Equal(t, models.CheckInNoCredits, result.Result)
	})

	t.Run("CreditsPositiveAllowed", func(t *testing.T) {
		member := &models.Member{
			Status:           models.MemberStatusAtivo,
			AccessType:       credits,
			CreditsRemaining: utils.ToPtr(1),
		}
		result := ValidateMemberAccess(member, today)
		assert.True(t, result.Allowed)
		assert.Equal(t, models.CheckInAllowed, result.Result)
	})

	t.Run("CreditsIgnoreExpirationDate", func(t *testing.T) {
		// Credits access is governed by balance, not by date
		member := &models.Member{
			Status:           models.MemberStatusAtivo,
			AccessType:       credits,
			CreditsRemaining: utils.ToPtr(5),
			AccessExpiresAt:  utils.ToPtr(today.AddDate(0, 0, -30)),
		}
		result := ValidateMemberAccess(member, today)
		assert.True(t, result.Allowed)
	})
}
