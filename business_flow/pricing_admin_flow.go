package businessflow

import (
	"context"

	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/repository"
)

// PricingAdminFlow manages the studio price table and per-plan overrides
type PricingAdminFlow interface {
	GetPricingConfig(ctx context.Context, metadata *ClientMetadata) (*dto.GetPricingConfigResponse, error)
	UpdatePricingConfig(ctx context.Context, req *dto.UpdatePricingConfigRequest, metadata *ClientMetadata) (*dto.UpdatePricingConfigResponse, error)
	UpsertPlanOverride(ctx context.Context, req *dto.UpsertPlanOverrideRequest, metadata *ClientMetadata) (*dto.UpsertPlanOverrideResponse, error)
}

// PricingAdminFlowImpl implements PricingAdminFlow
type PricingAdminFlowImpl struct {
	configRepo repository.PricingConfigRepository
	planRepo   repository.PlanRepository
}

func NewPricingAdminFlow(configRepo repository.PricingConfigRepository, planRepo repository.PlanRepository) PricingAdminFlow {
	return &PricingAdminFlowImpl{configRepo: configRepo, planRepo: planRepo}
}

func toPricingConfigDTO(c models.PricingConfig) dto.PricingConfigDTO {
	return dto.PricingConfigDTO{
		BasePriceCents:          c.BasePriceCents,
		ExtraModalityPriceCents: c.ExtraModalityPriceCents,
		EnrollmentFeeCents:      c.EnrollmentFeeCents,
		SingleClassPriceCents:   c.SingleClassPriceCents,
		DayPassPriceCents:       c.DayPassPriceCents,
	}
}

func (f *PricingAdminFlowImpl) GetPricingConfig(ctx context.Context, metadata *ClientMetadata) (*dto.GetPricingConfigResponse, error) {
	config, err := f.configRepo.Latest(ctx)
	if err != nil {
		return nil, NewBusinessError("PRICING_CONFIG_LOOKUP_FAILED", "Failed to load pricing config", err)
	}
	if config == nil {
		return nil, NewBusinessError("PRICING_CONFIG_MISSING", "Tabela de preços não configurada", ErrPricingConfigMissing)
	}
	return &dto.GetPricingConfigResponse{
		Message: "Tabela de preços",
		Config:  toPricingConfigDTO(*config),
	}, nil
}

// UpdatePricingConfig appends a new config row rather than mutating the
// current one, so price changes stay auditable.
func (f *PricingAdminFlowImpl) UpdatePricingConfig(ctx context.Context, req *dto.UpdatePricingConfigRequest, metadata *ClientMetadata) (*dto.UpdatePricingConfigResponse, error) {
	config := models.PricingConfig{
		BasePriceCents:          req.BasePriceCents,
		ExtraModalityPriceCents: req.ExtraModalityPriceCents,
		EnrollmentFeeCents:      req.EnrollmentFeeCents,
		SingleClassPriceCents:   req.SingleClassPriceCents,
		DayPassPriceCents:       req.DayPassPriceCents,
	}
	if err := f.configRepo.Save(ctx, &config); err != nil {
		return nil, NewBusinessError("PRICING_CONFIG_SAVE_FAILED", "Failed to save pricing config", err)
	}
	return &dto.UpdatePricingConfigResponse{
		Message: "Tabela de preços atualizada",
		Config:  toPricingConfigDTO(config),
	}, nil
}

func (f *PricingAdminFlowImpl) UpsertPlanOverride(ctx context.Context, req *dto.UpsertPlanOverrideRequest, metadata *ClientMetadata) (*dto.UpsertPlanOverrideResponse, error) {
	plan, err := f.planRepo.ByUUID(ctx, req.PlanUUID)
	if err != nil {
		return nil, NewBusinessError("PLAN_LOOKUP_FAILED", "Failed to lookup plan", err)
	}
	if plan == nil {
		return nil, NewBusinessError("PLAN_NOT_FOUND", "Plano não encontrado", ErrPlanNotFound)
	}

	override := models.PlanPricingOverride{
		PlanID:                  plan.ID,
		BasePriceCents:          req.BasePriceCents,
		ExtraModalityPriceCents: req.ExtraModalityPriceCents,
		EnrollmentFeeCents:      req.EnrollmentFeeCents,
	}
	if err := f.planRepo.UpsertOverride(ctx, &override); err != nil {
		return nil, NewBusinessError("PLAN_OVERRIDE_SAVE_FAILED", "Failed to save plan override", err)
	}

	return &dto.UpsertPlanOverrideResponse{Message: "Preços do plano atualizados"}, nil
}
