package businessflow

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/repository"
	"github.com/tatame-app/tatame/utils"
	"gorm.io/gorm"
)

// EnrollmentFlow quotes and charges plan enrollments at the front desk
type EnrollmentFlow interface {
	QuoteEnrollment(ctx context.Context, req *dto.QuoteEnrollmentRequest, metadata *ClientMetadata) (*dto.QuoteEnrollmentResponse, error)
	EnrollMember(ctx context.Context, req *dto.EnrollMemberRequest, metadata *ClientMetadata) (*dto.EnrollMemberResponse, error)
}

// EnrollmentFlowImpl implements EnrollmentFlow
type EnrollmentFlowImpl struct {
	memberRepo      repository.MemberRepository
	planRepo        repository.PlanRepository
	configRepo      repository.PricingConfigRepository
	discountRepo    repository.DiscountRepository
	paymentRepo     repository.PaymentRepository
	cashSessionRepo repository.CashSessionRepository
	db              *gorm.DB
}

func NewEnrollmentFlow(
	memberRepo repository.MemberRepository,
	planRepo repository.PlanRepository,
	configRepo repository.PricingConfigRepository,
	discountRepo repository.DiscountRepository,
	paymentRepo repository.PaymentRepository,
	cashSessionRepo repository.CashSessionRepository,
	db *gorm.DB,
) EnrollmentFlow {
	return &EnrollmentFlowImpl{
		memberRepo:      memberRepo,
		planRepo:        planRepo,
		configRepo:      configRepo,
		discountRepo:    discountRepo,
		paymentRepo:     paymentRepo,
		cashSessionRepo: cashSessionRepo,
		db:              db,
	}
}

// enrollmentInputs bundles everything a quote or a charge needs to price one
// enrollment.
type enrollmentInputs struct {
	member    *models.Member
	plan      *models.Plan
	config    *models.PricingConfig
	discounts []models.Discount
}

func (f *EnrollmentFlowImpl) loadInputs(ctx context.Context, memberUUID, planUUID string) (*enrollmentInputs, error) {
	member, err := f.memberRepo.ByUUID(ctx, memberUUID)
	if err != nil {
		return nil, NewBusinessError("MEMBER_LOOKUP_FAILED", "Failed to lookup member", err)
	}
	if member == nil {
		return nil, NewBusinessError("MEMBER_NOT_FOUND", "Aluno não encontrado", ErrMemberNotFound)
	}

	plan, err := f.planRepo.ByUUID(ctx, planUUID)
	if err != nil {
		return nil, NewBusinessError("PLAN_LOOKUP_FAILED", "Failed to lookup plan", err)
	}
	if plan == nil {
		return nil, NewBusinessError("PLAN_NOT_FOUND", "Plano não encontrado", ErrPlanNotFound)
	}
	if !plan.IsActive {
		return nil, NewBusinessError("PLAN_INACTIVE", "Plano não está disponível", ErrPlanInactive)
	}

	config, err := f.configRepo.Latest(ctx)
	if err != nil {
		return nil, NewBusinessError("PRICING_CONFIG_LOOKUP_FAILED", "Failed to load pricing config", err)
	}
	if config == nil {
		return nil, NewBusinessError("PRICING_CONFIG_MISSING", "Tabela de preços não configurada", ErrPricingConfigMissing)
	}

	rows, err := f.discountRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("DISCOUNT_LOOKUP_FAILED", "Failed to load discounts", err)
	}
	discounts := make([]models.Discount, 0, len(rows))
	for _, d := range rows {
		discounts = append(discounts, *d)
	}

	return &enrollmentInputs{member: member, plan: plan, config: config, discounts: discounts}, nil
}

func (f *EnrollmentFlowImpl) QuoteEnrollment(ctx context.Context, req *dto.QuoteEnrollmentRequest, metadata *ClientMetadata) (*dto.QuoteEnrollmentResponse, error) {
	in, err := f.loadInputs(ctx, req.MemberUUID, req.PlanUUID)
	if err != nil {
		return nil, err
	}

	today := utils.UTCNow()
	commitment := FindCommitmentDiscount(in.discounts, req.CommitmentMonths)

	resp := &dto.QuoteEnrollmentResponse{Message: "Orçamento calculado"}

	var promo *PromoDiscount
	if req.PromoCode != nil {
		validation := ValidatePromoCode(*req.PromoCode, in.discounts, in.member.Status, today)
		resp.PromoValid = utils.ToPtr(validation.Valid)
		if validation.Valid {
			promo = PromoDiscountFrom(validation.Discount)
		} else {
			resp.PromoError = utils.ToPtr(validation.Error)
		}
	}

	breakdown := CalculatePrice(CalculatePriceParams{
		Config:                *in.config,
		PlanOverride:          in.plan.PricingOverride,
		ModalityCount:         len(req.Modalities),
		CommitmentMonths:      req.CommitmentMonths,
		CommitmentDiscountPct: commitment.Percentage,
		PromoDiscount:         promo,
		IsFirstTime:           in.member.EnrolledAt == nil,
	})

	resp.Breakdown = ToPricingBreakdownDTO(breakdown)
	return resp, nil
}

func (f *EnrollmentFlowImpl) EnrollMember(ctx context.Context, req *dto.EnrollMemberRequest, metadata *ClientMetadata) (*dto.EnrollMemberResponse, error) {
	in, err := f.loadInputs(ctx, req.MemberUUID, req.PlanUUID)
	if err != nil {
		return nil, err
	}

	member := in.member
	if member.Status == models.MemberStatusPausado {
		return nil, NewBusinessError("MEMBER_FROZEN", "Assinatura congelada. Descongele antes de renovar.", ErrFreezeNotAllowed)
	}
	if member.Status == models.MemberStatusBloqueado {
		return nil, NewBusinessError("MEMBER_BLOCKED", "Aluno bloqueado. Regularize a situação antes de matricular.", ErrMemberInactive)
	}

	today := utils.UTCNow()
	commitment := FindCommitmentDiscount(in.discounts, req.CommitmentMonths)

	var promoDiscount *models.Discount
	var promo *PromoDiscount
	if req.PromoCode != nil {
		validation := ValidatePromoCode(*req.PromoCode, in.discounts, member.Status, today)
		if !validation.Valid {
			return nil, NewBusinessError("PROMO_CODE_INVALID", validation.Error, ErrPromoCodeInvalid)
		}
		promoDiscount = validation.Discount
		promo = PromoDiscountFrom(promoDiscount)
	}

	// A cash payment must land in an open drawer
	var session *models.CashSession
	if req.PaymentMethod == string(models.PaymentMethodCash) {
		if req.CashSessionUUID == nil {
			return nil, NewBusinessError("CASH_SESSION_REQUIRED", "Pagamento em dinheiro exige um caixa aberto", ErrCashSessionNotOpen)
		}
		session, err = f.cashSessionRepo.ByUUID(ctx, *req.CashSessionUUID)
		if err != nil {
			return nil, NewBusinessError("CASH_SESSION_LOOKUP_FAILED", "Failed to lookup cash session", err)
		}
		if session == nil {
			return nil, NewBusinessError("CASH_SESSION_NOT_FOUND", "Caixa não encontrado", ErrCashSessionNotFound)
		}
		if session.Status != models.CashSessionOpen {
			return nil, NewBusinessError("CASH_SESSION_NOT_OPEN", "Caixa já foi fechado", ErrCashSessionNotOpen)
		}
	}

	isFirstTime := member.EnrolledAt == nil
	breakdown := CalculatePrice(CalculatePriceParams{
		Config:                *in.config,
		PlanOverride:          in.plan.PricingOverride,
		ModalityCount:         len(req.Modalities),
		CommitmentMonths:      req.CommitmentMonths,
		CommitmentDiscountPct: commitment.Percentage,
		PromoDiscount:         promo,
		IsFirstTime:           isFirstTime,
	})

	var payment models.Payment
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		// Redeem the promo with a compare-and-increment so a concurrent
		// redemption of the last use fails here instead of overshooting
		// the cap.
		if promoDiscount != nil {
			ok, err := f.discountRepo.IncrementUsage(txCtx, promoDiscount.ID)
			if err != nil {
				return fmt.Errorf("failed to redeem promo code: %w", err)
			}
			if !ok {
				return ErrPromoCodeExhausted
			}
		}

		payment = models.Payment{
			MemberID:                member.ID,
			PlanID:                  &in.plan.ID,
			MonthlyPriceCents:       breakdown.MonthlyPriceCents,
			CommitmentDiscountCents: breakdown.CommitmentDiscountCents,
			PromoDiscountCents:      breakdown.PromoDiscountCents,
			EnrollmentFeeCents:      breakdown.EnrollmentFeeCents,
			TotalCents:              breakdown.TotalFirstPaymentCents,
			PromoCode:               req.PromoCode,
			Method:                  models.PaymentMethod(req.PaymentMethod),
			PaidAt:                  today,
		}
		if session != nil {
			payment.CashSessionID = &session.ID
		}
		if err := f.paymentRepo.Save(txCtx, &payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		if session != nil {
			if err := f.cashSessionRepo.AddToExpected(txCtx, session.ID, payment.TotalCents); err != nil {
				return err
			}
		}

		// Activate the member
		member.Status = models.MemberStatusAtivo
		member.AccessType = utils.ToPtr(in.plan.AccessType)
		member.PlanID = &in.plan.ID
		member.Modalities = pq.StringArray(req.Modalities)
		member.CommitmentMonths = req.CommitmentMonths
		switch in.plan.AccessType {
		case models.AccessTypeCredits:
			member.CreditsRemaining = in.plan.CreditsGranted
			member.AccessExpiresAt = nil
		default:
			member.CreditsRemaining = nil
			member.AccessExpiresAt = utils.ToPtr(utils.StartOfDay(today).AddDate(0, 0, in.plan.DurationDays))
		}
		if isFirstTime {
			member.EnrolledAt = &today
		}
		if err := f.memberRepo.Update(txCtx, member); err != nil {
			return fmt.Errorf("failed to activate member: %w", err)
		}
		return nil
	})
	if err != nil {
		if IsPromoCodeExhausted(err) {
			return nil, NewBusinessError("PROMO_CODE_EXHAUSTED", "Código promocional esgotado", err)
		}
		return nil, NewBusinessError("ENROLLMENT_FAILED", "Failed to enroll member", err)
	}

	return &dto.EnrollMemberResponse{
		Message:   "Matrícula realizada com sucesso",
		Member:    ToMemberDTO(*member),
		Breakdown: ToPricingBreakdownDTO(breakdown),
		PaymentID: payment.UUID.String(),
	}, nil
}
