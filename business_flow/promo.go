package businessflow

import (
	"strings"
	"time"

	"github.com/tatame-app/tatame/models"
)

// PromoCodeValidation is a discriminated result: callers must branch on
// Valid. Error carries the human-readable reason when invalid.
type PromoCodeValidation struct {
	Valid    bool             `json:"valid"`
	Discount *models.Discount `json:"discount,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// ValidatePromoCode checks a user-supplied code against the active promo
// discounts. Matching is case-insensitive; the first failing rule wins.
// The usage counter is NOT mutated here; the caller increments it
// atomically on successful redemption.
func ValidatePromoCode(code string, discounts []models.Discount, memberStatus models.MemberStatus, today time.Time) PromoCodeValidation {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	var match *models.Discount
	for i := range discounts {
		d := &discounts[i]
		if d.Category != models.DiscountCategoryPromo || !d.Active || d.Code == nil {
			continue
		}
		if strings.ToUpper(strings.TrimSpace(*d.Code)) == normalized {
			match = d
			break
		}
	}
	if match == nil {
		return PromoCodeValidation{Valid: false, Error: "Código promocional inválido"}
	}

	if match.ValidFrom != nil && today.Before(*match.ValidFrom) {
		return PromoCodeValidation{Valid: false, Error: "Código promocional ainda não é válido (not yet valid)"}
	}
	if match.ValidUntil != nil && today.After(*match.ValidUntil) {
		return PromoCodeValidation{Valid: false, Error: "Código promocional expirado"}
	}
	if match.MaxUses != nil && match.CurrentUses >= *match.MaxUses {
		return PromoCodeValidation{Valid: false, Error: "Código promocional esgotado"}
	}
	if match.NewMembersOnly && memberStatus != models.MemberStatusLead {
		return PromoCodeValidation{Valid: false, Error: "Código promocional válido apenas para novos alunos (new members only)"}
	}

	return PromoCodeValidation{Valid: true, Discount: match}
}

// PromoDiscountFrom converts a validated discount into the shape the price
// calculator consumes.
func PromoDiscountFrom(d *models.Discount) *PromoDiscount {
	if d == nil {
		return nil
	}
	return &PromoDiscount{Type: d.Type, Value: d.Value}
}
