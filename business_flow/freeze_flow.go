package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/repository"
	"github.com/tatame-app/tatame/utils"
	"gorm.io/gorm"
)

// FreezeFlow manages subscription freeze requests and the annual budget
type FreezeFlow interface {
	GetFreezeStatus(ctx context.Context, memberUUID string, metadata *ClientMetadata) (*dto.FreezeStatusResponse, error)
	RequestFreeze(ctx context.Context, req *dto.RequestFreezeRequest, metadata *ClientMetadata) (*dto.RequestFreezeResponse, error)
	Unfreeze(ctx context.Context, memberUUID string, metadata *ClientMetadata) (*dto.UnfreezeResponse, error)
}

// FreezeFlowImpl implements FreezeFlow
type FreezeFlowImpl struct {
	memberRepo repository.MemberRepository
	freezeRepo repository.FreezeHistoryRepository
	db         *gorm.DB
}

func NewFreezeFlow(memberRepo repository.MemberRepository, freezeRepo repository.FreezeHistoryRepository, db *gorm.DB) FreezeFlow {
	return &FreezeFlowImpl{memberRepo: memberRepo, freezeRepo: freezeRepo, db: db}
}

func (f *FreezeFlowImpl) loadMember(ctx context.Context, memberUUID string) (*models.Member, error) {
	member, err := f.memberRepo.ByUUID(ctx, memberUUID)
	if err != nil {
		return nil, NewBusinessError("MEMBER_LOOKUP_FAILED", "Failed to lookup member", err)
	}
	if member == nil {
		return nil, NewBusinessError("MEMBER_NOT_FOUND", "Aluno não encontrado", ErrMemberNotFound)
	}
	return member, nil
}

func (f *FreezeFlowImpl) loadHistory(ctx context.Context, memberID uint) ([]models.FreezeHistory, error) {
	rows, err := f.freezeRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, NewBusinessError("FREEZE_HISTORY_LOOKUP_FAILED", "Failed to load freeze history", err)
	}
	history := make([]models.FreezeHistory, 0, len(rows))
	for _, row := range rows {
		history = append(history, *row)
	}
	return history, nil
}

func (f *FreezeFlowImpl) GetFreezeStatus(ctx context.Context, memberUUID string, metadata *ClientMetadata) (*dto.FreezeStatusResponse, error) {
	member, err := f.loadMember(ctx, memberUUID)
	if err != nil {
		return nil, err
	}
	history, err := f.loadHistory(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	now := utils.UTCNow()
	resp := &dto.FreezeStatusResponse{
		Message:         "Situação de congelamento",
		RemainingDays:   GetRemainingFreezeDays(history, now),
		CurrentlyFrozen: IsCurrentlyFrozen(member.FrozenAt, member.FrozenUntil, now),
		History:         make([]string, 0, len(history)),
	}
	if resp.CurrentlyFrozen {
		resp.CurrentPeriod = utils.ToPtr(FormatFreezePeriod(*member.FrozenAt, *member.FrozenUntil))
	}
	for i := range history {
		resp.History = append(resp.History, FormatFreezePeriod(history[i].FrozenAt, history[i].FrozenUntil))
	}
	return resp, nil
}

func (f *FreezeFlowImpl) RequestFreeze(ctx context.Context, req *dto.RequestFreezeRequest, metadata *ClientMetadata) (*dto.RequestFreezeResponse, error) {
	member, err := f.loadMember(ctx, req.MemberUUID)
	if err != nil {
		return nil, err
	}
	if member.Status == models.MemberStatusPausado {
		return nil, NewBusinessError("MEMBER_ALREADY_FROZEN", "Assinatura já está congelada", ErrMemberAlreadyFrozen)
	}
	if member.Status != models.MemberStatusAtivo {
		return nil, NewBusinessError("FREEZE_NOT_ALLOWED", "Apenas assinaturas ativas podem ser congeladas", ErrFreezeNotAllowed)
	}

	history, err := f.loadHistory(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	now := utils.UTCNow()
	validation := ValidateFreezeRequest(history, req.Days, req.StaffOverride, now)
	if !validation.Valid {
		return nil, NewBusinessError("FREEZE_NOT_ALLOWED", validation.Error, ErrFreezeNotAllowed)
	}

	frozenAt := utils.StartOfDay(now)
	frozenUntil := frozenAt.AddDate(0, 0, req.Days)

	// Frozen time is given back: the expiry moves forward by the freeze
	// length. Credit balances are untouched; they simply wait.
	var newExpiresAt *time.Time
	if member.AccessExpiresAt != nil {
		newExpiresAt = utils.ToPtr(CalculateNewExpiresAt(*member.AccessExpiresAt, frozenUntil, now))
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.memberRepo.SetFreezeWindow(txCtx, member.ID, frozenAt, frozenUntil, newExpiresAt); err != nil {
			return fmt.Errorf("failed to set freeze window: %w", err)
		}
		row := models.FreezeHistory{
			MemberID:      member.ID,
			FrozenAt:      frozenAt,
			FrozenUntil:   frozenUntil,
			RequestedDays: req.Days,
			StaffOverride: req.StaffOverride,
		}
		if err := f.freezeRepo.Save(txCtx, &row); err != nil {
			return fmt.Errorf("failed to record freeze: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("FREEZE_FAILED", "Failed to freeze subscription", err)
	}

	remaining := validation.RemainingDays - req.Days
	if remaining < 0 {
		remaining = 0
	}

	resp := &dto.RequestFreezeResponse{
		Message:         "Assinatura congelada",
		FrozenUntil:     frozenUntil.Format(utils.BRDateLayout),
		RemainingDays:   remaining,
		FormattedPeriod: FormatFreezePeriod(frozenAt, frozenUntil),
	}
	if newExpiresAt != nil {
		resp.NewExpiresAt = newExpiresAt.Format(utils.BRDateLayout)
	}
	return resp, nil
}

func (f *FreezeFlowImpl) Unfreeze(ctx context.Context, memberUUID string, metadata *ClientMetadata) (*dto.UnfreezeResponse, error) {
	member, err := f.loadMember(ctx, memberUUID)
	if err != nil {
		return nil, err
	}
	if member.Status != models.MemberStatusPausado {
		return nil, NewBusinessError("MEMBER_NOT_FROZEN", "Assinatura não está congelada", ErrMemberNotFrozen)
	}

	if err := f.memberRepo.ClearFreezeWindow(ctx, member.ID); err != nil {
		return nil, NewBusinessError("UNFREEZE_FAILED", "Failed to unfreeze subscription", err)
	}

	member.Status = models.MemberStatusAtivo
	member.FrozenAt = nil
	member.FrozenUntil = nil

	return &dto.UnfreezeResponse{
		Message: "Assinatura reativada",
		Member:  ToMemberDTO(*member),
	}, nil
}
