package businessflow

import (
	"fmt"
	"time"

	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
)

// AccessValidation is the verdict for one check-in attempt. Callers must
// branch on Allowed; Message is shown at the front desk as-is.
type AccessValidation struct {
	Allowed bool                 `json:"allowed"`
	Result  models.CheckInResult `json:"result"`
	Message string               `json:"message"`
}

// ValidateMemberAccess decides whether a member presenting at the door gets
// in. Rules are evaluated in priority order and the first match wins: a
// blocked member with a valid subscription is still BLOCKED.
//
// Side effects are the caller's job: on ALLOWED with credits access the
// caller decrements the balance, and a check-in log row is recorded for
// every attempt regardless of outcome.
func ValidateMemberAccess(member *models.Member, today time.Time) AccessValidation {
	switch member.Status {
	case models.MemberStatusBloqueado:
		return AccessValidation{Allowed: false, Result: models.CheckInBlocked, Message: "Acesso bloqueado. Procure a recepção."}
	case models.MemberStatusCancelado:
		return AccessValidation{Allowed: false, Result: models.CheckInBlocked, Message: "Matrícula cancelada."}
	case models.MemberStatusPausado:
		return AccessValidation{Allowed: false, Result: models.CheckInBlocked, Message: "Assinatura congelada. Acesso suspenso durante o congelamento."}
	}

	if member.Status == models.MemberStatusLead || member.AccessType == nil {
		return AccessValidation{Allowed: false, Result: models.CheckInExpired, Message: "Nenhum plano ativo."}
	}

	switch *member.AccessType {
	case models.AccessTypeSubscription, models.AccessTypeDailyPass:
		// Same-day expiration still passes; a nil expiry never expires.
		if member.AccessExpiresAt != nil && member.AccessExpiresAt.Before(utils.StartOfDay(today)) {
			return AccessValidation{
				Allowed: false,
				Result:  models.CheckInExpired,
				Message: fmt.Sprintf("Acesso expirado em %s.", member.AccessExpiresAt.Format(utils.BRDateLayout)),
			}
		}
	case models.AccessTypeCredits:
		if member.CreditsRemaining == nil || *member.CreditsRemaining <= 0 {
			return AccessValidation{Allowed: false, Result: models.CheckInNoCredits, Message: "Créditos esgotados."}
		}
	}

	return AccessValidation{Allowed: true, Result: models.CheckInAllowed, Message: "Acesso liberado. Bom treino!"}
}
