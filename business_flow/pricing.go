// Package businessflow contains the business logic for the studio management system.
package businessflow

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
)

// ResolvedPrices are the effective prices after merging a plan override over
// the studio-wide config.
type ResolvedPrices struct {
	BasePriceCents          int64 `json:"base_price_cents"`
	ExtraModalityPriceCents int64 `json:"extra_modality_price_cents"`
	EnrollmentFeeCents      int64 `json:"enrollment_fee_cents"`
}

// CommitmentDiscountResult is the outcome of the commitment tier lookup.
// Discount is nil and Percentage zero when no tier qualifies.
type CommitmentDiscountResult struct {
	Discount   *models.Discount `json:"discount,omitempty"`
	Percentage float64          `json:"percentage"`
}

// PromoDiscount is the discount portion of a validated promo code as the
// calculator consumes it: percent points for percentage type, cents for fixed.
type PromoDiscount struct {
	Type  models.DiscountType `json:"type"`
	Value float64             `json:"value"`
}

// CalculatePriceParams carries every input of one pricing calculation.
// The clock never enters here; date-sensitive checks happen in the promo
// validator before this point.
type CalculatePriceParams struct {
	Config                models.PricingConfig
	PlanOverride          *models.PlanPricingOverride
	ModalityCount         int
	CommitmentMonths      int
	CommitmentDiscountPct float64
	PromoDiscount         *PromoDiscount
	IsFirstTime           bool
}

// PricingBreakdown is the transient result of one calculation. It is never
// persisted as-is; callers build a Payment record from it.
type PricingBreakdown struct {
	MonthlyPriceCents       int64   `json:"monthly_price_cents"`
	ExtraModalitiesCount    int     `json:"extra_modalities_count"`
	ExtraModalitiesCents    int64   `json:"extra_modalities_cents"`
	CommitmentDiscountPct   float64 `json:"commitment_discount_pct"`
	CommitmentDiscountCents int64   `json:"commitment_discount_cents"`
	PromoDiscountCents      int64   `json:"promo_discount_cents"`
	EnrollmentFeeCents      int64   `json:"enrollment_fee_cents"`
	TotalFirstPaymentCents  int64   `json:"total_first_payment_cents"`
}

// ResolvePrices merges a plan's partial pricing override over the studio
// config, field by field. Nil override or nil fields fall back to config.
func ResolvePrices(config models.PricingConfig, override *models.PlanPricingOverride) ResolvedPrices {
	resolved := ResolvedPrices{
		BasePriceCents:          config.BasePriceCents,
		ExtraModalityPriceCents: config.ExtraModalityPriceCents,
		EnrollmentFeeCents:      config.EnrollmentFeeCents,
	}
	if override == nil {
		return resolved
	}
	if override.BasePriceCents != nil {
		resolved.BasePriceCents = *override.BasePriceCents
	}
	if override.ExtraModalityPriceCents != nil {
		resolved.ExtraModalityPriceCents = *override.ExtraModalityPriceCents
	}
	if override.EnrollmentFeeCents != nil {
		resolved.EnrollmentFeeCents = *override.EnrollmentFeeCents
	}
	return resolved
}

// FindCommitmentDiscount picks the best qualifying commitment tier: among
// active commitment discounts whose minimum does not exceed commitmentMonths,
// the HIGHEST percentage wins (not the longest tier). No candidate yields a
// nil discount and zero percentage.
func FindCommitmentDiscount(discounts []models.Discount, commitmentMonths int) CommitmentDiscountResult {
	var best *models.Discount
	for i := range discounts {
		d := &discounts[i]
		if d.Category != models.DiscountCategoryCommitment || !d.Active {
			continue
		}
		if d.MinCommitmentMonths == nil || *d.MinCommitmentMonths > commitmentMonths {
			continue
		}
		if best == nil || d.Value > best.Value {
			best = d
		}
	}
	if best == nil {
		return CommitmentDiscountResult{}
	}
	return CommitmentDiscountResult{Discount: best, Percentage: best.Value}
}

// CalculatePrice composes base price, extra modalities, commitment discount,
// promo discount and enrollment fee into a full breakdown. Discounts chain
// sequentially: the promo applies on top of the commitment-discounted amount.
// Inputs are clamped rather than rejected; the result is always defined and
// never negative.
func CalculatePrice(params CalculatePriceParams) PricingBreakdown {
	resolved := ResolvePrices(params.Config, params.PlanOverride)

	// Zero or negative modality counts bill as a single modality.
	effectiveModalityCount := params.ModalityCount
	if effectiveModalityCount < 1 {
		effectiveModalityCount = 1
	}

	extraModalitiesCount := effectiveModalityCount - 1
	extraModalitiesCents := int64(extraModalitiesCount) * resolved.ExtraModalityPriceCents
	subtotal := resolved.BasePriceCents + extraModalitiesCents

	afterCommitment := roundHalfUp(float64(subtotal) * (1 - params.CommitmentDiscountPct/100))
	commitmentDiscountCents := subtotal - afterCommitment

	var promoDiscountCents int64
	afterPromo := afterCommitment
	if params.PromoDiscount != nil {
		switch params.PromoDiscount.Type {
		case models.DiscountTypePercentage:
			afterPromo = roundHalfUp(float64(afterCommitment) * (1 - params.PromoDiscount.Value/100))
			promoDiscountCents = afterCommitment - afterPromo
		case models.DiscountTypeFixed:
			// Capped at the remaining amount so the price never goes negative.
			promoDiscountCents = int64(params.PromoDiscount.Value)
			if promoDiscountCents > afterCommitment {
				promoDiscountCents = afterCommitment
			}
			afterPromo = afterCommitment - promoDiscountCents
		}
	}

	var enrollmentFeeCents int64
	if params.IsFirstTime {
		enrollmentFeeCents = resolved.EnrollmentFeeCents
	}

	return PricingBreakdown{
		MonthlyPriceCents:       afterPromo,
		ExtraModalitiesCount:    extraModalitiesCount,
		ExtraModalitiesCents:    extraModalitiesCents,
		CommitmentDiscountPct:   params.CommitmentDiscountPct,
		CommitmentDiscountCents: commitmentDiscountCents,
		PromoDiscountCents:      promoDiscountCents,
		EnrollmentFeeCents:      enrollmentFeeCents,
		TotalFirstPaymentCents:  afterPromo + enrollmentFeeCents,
	}
}

// roundHalfUp rounds to the nearest integer cent, halves away from zero.
func roundHalfUp(v float64) int64 {
	if v < 0 {
		return -int64(math.Floor(-v + 0.5))
	}
	return int64(math.Floor(v + 0.5))
}

// FormatCurrency renders integer cents as a pt-BR amount with the currency
// symbol: 123456 -> "R$ 1.234,56", 0 -> "R$ 0,00". The convention is fixed
// rather than locale-dependent so output is stable across deployments.
func FormatCurrency(cents int64) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	reais := cents / 100
	centavos := cents % 100

	digits := strconv.FormatInt(reais, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s %s%s,%02d", utils.BRLCurrencySymbol, sign, b.String(), centavos)
}
