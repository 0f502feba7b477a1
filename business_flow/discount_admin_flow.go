package businessflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/config"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/repository"
	"github.com/tatame-app/tatame/utils"
)

// DiscountAdminFlow manages commitment tiers and promo codes
type DiscountAdminFlow interface {
	CreateDiscount(ctx context.Context, req *dto.CreateDiscountRequest, metadata *ClientMetadata) (*dto.CreateDiscountResponse, error)
	ListDiscounts(ctx context.Context, req *dto.ListDiscountsRequest, metadata *ClientMetadata) (*dto.ListDiscountsResponse, error)
	DeactivateDiscount(ctx context.Context, discountUUID string, metadata *ClientMetadata) (*dto.DeactivateDiscountResponse, error)
	ValidatePromo(ctx context.Context, req *dto.ValidatePromoRequest, metadata *ClientMetadata) (*dto.ValidatePromoResponse, error)
}

// DiscountAdminFlowImpl implements DiscountAdminFlow
type DiscountAdminFlowImpl struct {
	discountRepo repository.DiscountRepository
	memberRepo   repository.MemberRepository
	rc           *redis.Client
	cacheConfig  *config.CacheConfig
}

func NewDiscountAdminFlow(
	discountRepo repository.DiscountRepository,
	memberRepo repository.MemberRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) DiscountAdminFlow {
	return &DiscountAdminFlowImpl{
		discountRepo: discountRepo,
		memberRepo:   memberRepo,
		rc:           rc,
		cacheConfig:  cacheConfig,
	}
}

// loadActiveDiscounts reads the active discount list through the redis cache.
// Cache misses and redis failures fall back to the database.
func (f *DiscountAdminFlowImpl) loadActiveDiscounts(ctx context.Context) ([]models.Discount, error) {
	var cacheKey string
	if f.rc != nil {
		cacheKey = redisKey(*f.cacheConfig, utils.ActiveDiscountsCacheKey)
		if raw, err := f.rc.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []models.Discount
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	rows, err := f.discountRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("DISCOUNT_LOOKUP_FAILED", "Failed to load discounts", err)
	}
	discounts := make([]models.Discount, 0, len(rows))
	for _, d := range rows {
		discounts = append(discounts, *d)
	}

	if f.rc != nil {
		if raw, err := json.Marshal(discounts); err == nil {
			_ = f.rc.Set(ctx, cacheKey, raw, f.cacheConfig.DefaultTTL).Err()
		}
	}
	return discounts, nil
}

// invalidateCache drops the cached active list after any mutation
func (f *DiscountAdminFlowImpl) invalidateCache(ctx context.Context) {
	if f.rc == nil {
		return
	}
	_ = f.rc.Del(ctx, redisKey(*f.cacheConfig, utils.ActiveDiscountsCacheKey)).Err()
}

func (f *DiscountAdminFlowImpl) CreateDiscount(ctx context.Context, req *dto.CreateDiscountRequest, metadata *ClientMetadata) (*dto.CreateDiscountResponse, error) {
	category := models.DiscountCategory(req.Category)
	dtype := models.DiscountType(req.Type)

	// Percentage values live on (0, 100]; fixed values are cents > 0
	if dtype == models.DiscountTypePercentage && (req.Value <= 0 || req.Value > 100) {
		return nil, NewBusinessError("DISCOUNT_VALUE_INVALID", "Desconto percentual deve estar entre 0 e 100", ErrDiscountValueInvalid)
	}
	if dtype == models.DiscountTypeFixed && req.Value <= 0 {
		return nil, NewBusinessError("DISCOUNT_VALUE_INVALID", "Desconto fixo deve ser maior que zero", ErrDiscountValueInvalid)
	}

	switch category {
	case models.DiscountCategoryCommitment:
		if req.MinCommitmentMonths == nil {
			return nil, NewBusinessError("DISCOUNT_VALIDATION_FAILED", "Desconto de fidelidade exige período mínimo", nil)
		}
		if dtype != models.DiscountTypePercentage {
			return nil, NewBusinessError("DISCOUNT_VALIDATION_FAILED", "Desconto de fidelidade deve ser percentual", nil)
		}
	case models.DiscountCategoryPromo:
		if req.Code == nil || len(*req.Code) == 0 {
			return nil, NewBusinessError("DISCOUNT_VALIDATION_FAILED", "Código promocional exige um código", nil)
		}
	}

	discount := models.Discount{
		Name:                req.Name,
		Category:            category,
		Type:                dtype,
		Value:               req.Value,
		MinCommitmentMonths: req.MinCommitmentMonths,
		Code:                req.Code,
		MaxUses:             req.MaxUses,
		NewMembersOnly:      req.NewMembersOnly,
		Active:              true,
	}
	if req.ValidFrom != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidFrom)
		if err != nil {
			return nil, NewBusinessError("DISCOUNT_VALIDATION_FAILED", "Data inicial inválida", err)
		}
		discount.ValidFrom = &t
	}
	if req.ValidUntil != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidUntil)
		if err != nil {
			return nil, NewBusinessError("DISCOUNT_VALIDATION_FAILED", "Data final inválida", err)
		}
		discount.ValidUntil = &t
	}

	if err := f.discountRepo.Save(ctx, &discount); err != nil {
		return nil, NewBusinessError("DISCOUNT_SAVE_FAILED", "Failed to save discount", err)
	}
	f.invalidateCache(ctx)

	return &dto.CreateDiscountResponse{
		Message:  "Desconto criado",
		Discount: ToDiscountDTO(discount),
	}, nil
}

func (f *DiscountAdminFlowImpl) ListDiscounts(ctx context.Context, req *dto.ListDiscountsRequest, metadata *ClientMetadata) (*dto.ListDiscountsResponse, error) {
	filter := models.DiscountFilter{Active: req.Active}
	if req.Category != nil {
		filter.Category = utils.ToPtr(models.DiscountCategory(*req.Category))
	}

	rows, err := f.discountRepo.ByFilter(ctx, filter, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("DISCOUNT_LIST_FAILED", "Failed to list discounts", err)
	}

	items := make([]dto.DiscountDTO, 0, len(rows))
	for _, d := range rows {
		items = append(items, ToDiscountDTO(*d))
	}
	return &dto.ListDiscountsResponse{Message: "Descontos listados", Items: items}, nil
}

func (f *DiscountAdminFlowImpl) DeactivateDiscount(ctx context.Context, discountUUID string, metadata *ClientMetadata) (*dto.DeactivateDiscountResponse, error) {
	discount, err := f.discountRepo.ByUUID(ctx, discountUUID)
	if err != nil {
		return nil, NewBusinessError("DISCOUNT_LOOKUP_FAILED", "Failed to lookup discount", err)
	}
	if discount == nil {
		return nil, NewBusinessError("DISCOUNT_NOT_FOUND", "Desconto não encontrado", ErrDiscountNotFound)
	}

	if err := f.discountRepo.Deactivate(ctx, discount.ID); err != nil {
		return nil, NewBusinessError("DISCOUNT_DEACTIVATE_FAILED", "Failed to deactivate discount", err)
	}
	f.invalidateCache(ctx)

	return &dto.DeactivateDiscountResponse{Message: "Desconto desativado"}, nil
}

func (f *DiscountAdminFlowImpl) ValidatePromo(ctx context.Context, req *dto.ValidatePromoRequest, metadata *ClientMetadata) (*dto.ValidatePromoResponse, error) {
	member, err := f.memberRepo.ByUUID(ctx, req.MemberUUID)
	if err != nil {
		return nil, NewBusinessError("MEMBER_LOOKUP_FAILED", "Failed to lookup member", err)
	}
	if member == nil {
		return nil, NewBusinessError("MEMBER_NOT_FOUND", "Aluno não encontrado", ErrMemberNotFound)
	}

	discounts, err := f.loadActiveDiscounts(ctx)
	if err != nil {
		return nil, err
	}

	validation := ValidatePromoCode(req.Code, discounts, member.Status, utils.UTCNow())
	resp := &dto.ValidatePromoResponse{
		Message: "Código verificado",
		Valid:   validation.Valid,
	}
	if validation.Valid {
		resp.Discount = utils.ToPtr(ToDiscountDTO(*validation.Discount))
	} else {
		resp.Error = utils.ToPtr(validation.Error)
	}
	return resp, nil
}
