// Package businessflow contains the business logic for the studio management system.
package businessflow

import (
	"time"

	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return utils.ToPtr(t.Format(utils.BRDateLayout))
}

// ToMemberDTO converts a member model to its wire representation
func ToMemberDTO(member models.Member) dto.MemberDTO {
	var accessType *string
	if member.AccessType != nil {
		accessType = utils.ToPtr(string(*member.AccessType))
	}
	var enrolledAt *string
	if member.EnrolledAt != nil {
		enrolledAt = utils.ToPtr(member.EnrolledAt.Format(time.RFC3339))
	}
	return dto.MemberDTO{
		ID:               member.ID,
		UUID:             member.UUID.String(),
		Name:             member.Name,
		Email:            member.Email,
		Phone:            member.Phone,
		Status:           string(member.Status),
		AccessType:       accessType,
		AccessExpiresAt:  formatDatePtr(member.AccessExpiresAt),
		CreditsRemaining: member.CreditsRemaining,
		PlanID:           member.PlanID,
		Modalities:       member.Modalities,
		CommitmentMonths: member.CommitmentMonths,
		FrozenAt:         formatDatePtr(member.FrozenAt),
		FrozenUntil:      formatDatePtr(member.FrozenUntil),
		PhotoURL:         member.PhotoPath,
		EnrolledAt:       enrolledAt,
		CreatedAt:        member.CreatedAt.Format(time.RFC3339),
	}
}

// ToPricingBreakdownDTO attaches formatted amounts to a calculation result
func ToPricingBreakdownDTO(b PricingBreakdown) dto.PricingBreakdownDTO {
	return dto.PricingBreakdownDTO{
		MonthlyPriceCents:       b.MonthlyPriceCents,
		MonthlyPrice:            FormatCurrency(b.MonthlyPriceCents),
		ExtraModalitiesCount:    b.ExtraModalitiesCount,
		ExtraModalitiesCents:    b.ExtraModalitiesCents,
		CommitmentDiscountPct:   b.CommitmentDiscountPct,
		CommitmentDiscountCents: b.CommitmentDiscountCents,
		PromoDiscountCents:      b.PromoDiscountCents,
		EnrollmentFeeCents:      b.EnrollmentFeeCents,
		TotalFirstPaymentCents:  b.TotalFirstPaymentCents,
		TotalFirstPayment:       FormatCurrency(b.TotalFirstPaymentCents),
	}
}

// ToDiscountDTO converts a discount model to its wire representation
func ToDiscountDTO(d models.Discount) dto.DiscountDTO {
	var validFrom, validUntil *string
	if d.ValidFrom != nil {
		validFrom = utils.ToPtr(d.ValidFrom.Format(time.RFC3339))
	}
	if d.ValidUntil != nil {
		validUntil = utils.ToPtr(d.ValidUntil.Format(time.RFC3339))
	}
	return dto.DiscountDTO{
		UUID:                d.UUID.String(),
		Name:                d.Name,
		Category:            string(d.Category),
		Type:                string(d.Type),
		Value:               d.Value,
		MinCommitmentMonths: d.MinCommitmentMonths,
		Code:                d.Code,
		ValidFrom:           validFrom,
		ValidUntil:          validUntil,
		MaxUses:             d.MaxUses,
		CurrentUses:         d.CurrentUses,
		NewMembersOnly:      d.NewMembersOnly,
		Active:              d.Active,
	}
}

// ToCashSessionDTO converts a cash session model to its wire representation
func ToCashSessionDTO(s models.CashSession) dto.CashSessionDTO {
	var closedAt *string
	if s.ClosedAt != nil {
		closedAt = utils.ToPtr(s.ClosedAt.Format(time.RFC3339))
	}
	var difference *string
	if s.DifferenceCents != nil {
		difference = utils.ToPtr(FormatCurrency(*s.DifferenceCents))
	}
	return dto.CashSessionDTO{
		UUID:            s.UUID.String(),
		StaffID:         s.StaffID,
		Status:          string(s.Status),
		OpeningCents:    s.OpeningCents,
		ExpectedCents:   s.ExpectedCents,
		CountedCents:    s.CountedCents,
		DifferenceCents: s.DifferenceCents,
		Difference:      difference,
		OpenedAt:        s.OpenedAt.Format(time.RFC3339),
		ClosedAt:        closedAt,
	}
}
