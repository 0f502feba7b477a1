package businessflow

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/config"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/repository"
	"github.com/tatame-app/tatame/utils"
)

// CheckinFlow validates members at the door and keeps the audit log
type CheckinFlow interface {
	Checkin(ctx context.Context, req *dto.CheckinRequest, metadata *ClientMetadata) (*dto.CheckinResponse, error)
	ListCheckins(ctx context.Context, req *dto.ListCheckinsRequest, metadata *ClientMetadata) (*dto.ListCheckinsResponse, error)
}

// CheckinFlowImpl implements CheckinFlow
type CheckinFlowImpl struct {
	memberRepo  repository.MemberRepository
	checkinRepo repository.CheckInRepository
	rc          *redis.Client
	cacheConfig *config.CacheConfig
}

func NewCheckinFlow(
	memberRepo repository.MemberRepository,
	checkinRepo repository.CheckInRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) CheckinFlow {
	return &CheckinFlowImpl{
		memberRepo:  memberRepo,
		checkinRepo: checkinRepo,
		rc:          rc,
		cacheConfig: cacheConfig,
	}
}

// redisKey prefixes a cache key with the configured namespace
func redisKey(cfg config.CacheConfig, key string) string {
	if cfg.RedisPrefix == "" {
		return key
	}
	return cfg.RedisPrefix + key
}

func (f *CheckinFlowImpl) Checkin(ctx context.Context, req *dto.CheckinRequest, metadata *ClientMetadata) (*dto.CheckinResponse, error) {
	member, err := f.memberRepo.ByUUID(ctx, req.MemberUUID)
	if err != nil {
		return nil, NewBusinessError("MEMBER_LOOKUP_FAILED", "Failed to lookup member", err)
	}
	if member == nil {
		return nil, NewBusinessError("MEMBER_NOT_FOUND", "Aluno não encontrado", ErrMemberNotFound)
	}

	// Turnstile double-tap guard: SETNX with a short TTL per member. The
	// first tap wins; repeats inside the window are dropped without
	// touching credits or the log. Guard failures (redis down) fail open.
	if f.rc != nil {
		guardKey := redisKey(*f.cacheConfig, utils.CheckinGuardKeyPrefix+member.UUID.String())
		ok, err := f.rc.SetNX(ctx, guardKey, "1", utils.CheckinDoubleTapWindow).Result()
		if err == nil && !ok {
			return nil, NewBusinessError("CHECKIN_THROTTLED", "Check-in já registrado. Aguarde alguns segundos.", ErrCheckinThrottled)
		}
	}

	now := utils.UTCNow()
	verdict := ValidateMemberAccess(member, now)

	creditConsumed := false
	if verdict.Allowed && member.AccessType != nil && *member.AccessType == models.AccessTypeCredits {
		taken, err := f.memberRepo.DecrementCredits(ctx, member.ID)
		if err != nil {
			return nil, NewBusinessError("CREDIT_DECREMENT_FAILED", "Failed to consume credit", err)
		}
		if !taken {
			// Lost the race for the last credit; the verdict flips.
			verdict = AccessValidation{Allowed: false, Result: models.CheckInNoCredits, Message: "Créditos esgotados."}
		} else {
			creditConsumed = true
			remaining := *member.CreditsRemaining - 1
			member.CreditsRemaining = &remaining
		}
	}

	// Every attempt is logged, denied ones included
	logRow := models.CheckIn{
		MemberID:       member.ID,
		Result:         verdict.Result,
		Message:        verdict.Message,
		CreditConsumed: creditConsumed,
		CheckedInAt:    now,
	}
	if err := f.checkinRepo.Save(ctx, &logRow); err != nil {
		return nil, NewBusinessError("CHECKIN_LOG_FAILED", "Failed to record check-in", err)
	}

	resp := &dto.CheckinResponse{
		Message: verdict.Message,
		Allowed: verdict.Allowed,
		Result:  string(verdict.Result),
		Member:  ToMemberDTO(*member),
	}
	if member.AccessType != nil && *member.AccessType == models.AccessTypeCredits {
		resp.CreditsRemaining = member.CreditsRemaining
	}
	return resp, nil
}

func (f *CheckinFlowImpl) ListCheckins(ctx context.Context, req *dto.ListCheckinsRequest, metadata *ClientMetadata) (*dto.ListCheckinsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := models.CheckInFilter{}
	if req.MemberUUID != nil {
		member, err := f.memberRepo.ByUUID(ctx, *req.MemberUUID)
		if err != nil {
			return nil, NewBusinessError("MEMBER_LOOKUP_FAILED", "Failed to lookup member", err)
		}
		if member == nil {
			return nil, NewBusinessError("MEMBER_NOT_FOUND", "Aluno não encontrado", ErrMemberNotFound)
		}
		filter.MemberID = &member.ID
	}
	if req.Result != nil {
		filter.Result = utils.ToPtr(models.CheckInResult(*req.Result))
	}

	rows, err := f.checkinRepo.ByFilter(ctx, filter, "checked_in_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("CHECKIN_LIST_FAILED", "Failed to list check-ins", err)
	}
	total, err := f.checkinRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CHECKIN_COUNT_FAILED", "Failed to count check-ins", err)
	}

	items := make([]dto.CheckinLogEntryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.CheckinLogEntryDTO{
			MemberID:    row.MemberID,
			Result:      string(row.Result),
			Message:     row.Message,
			CheckedInAt: row.CheckedInAt.Format(time.RFC3339),
		})
	}

	return &dto.ListCheckinsResponse{
		Message: "Check-ins listados",
		Items:   items,
		Total:   total,
	}, nil
}
