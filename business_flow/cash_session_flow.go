package businessflow

import (
	"context"

	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/repository"
	"github.com/tatame-app/tatame/utils"
)

// CashSessionFlow manages front-desk cash drawer sessions
type CashSessionFlow interface {
	OpenSession(ctx context.Context, staffID uint, req *dto.OpenCashSessionRequest, metadata *ClientMetadata) (*dto.OpenCashSessionResponse, error)
	CloseSession(ctx context.Context, staffID uint, req *dto.CloseCashSessionRequest, metadata *ClientMetadata) (*dto.CloseCashSessionResponse, error)
	GetSession(ctx context.Context, sessionUUID string, metadata *ClientMetadata) (*dto.GetCashSessionResponse, error)
}

// CashSessionFlowImpl implements CashSessionFlow
type CashSessionFlowImpl struct {
	sessionRepo repository.CashSessionRepository
}

func NewCashSessionFlow(sessionRepo repository.CashSessionRepository) CashSessionFlow {
	return &CashSessionFlowImpl{sessionRepo: sessionRepo}
}

func (f *CashSessionFlowImpl) OpenSession(ctx context.Context, staffID uint, req *dto.OpenCashSessionRequest, metadata *ClientMetadata) (*dto.OpenCashSessionResponse, error) {
	// One open drawer per staff member at a time
	open, err := f.sessionRepo.OpenByStaff(ctx, staffID)
	if err != nil {
		return nil, NewBusinessError("CASH_SESSION_LOOKUP_FAILED", "Failed to check open sessions", err)
	}
	if open != nil {
		return nil, NewBusinessError("CASH_SESSION_ALREADY_OPEN", "Já existe um caixa aberto para este usuário", ErrCashSessionAlreadyOpen)
	}

	session := models.CashSession{
		StaffID:      staffID,
		Status:       models.CashSessionOpen,
		OpeningCents: req.OpeningCents,
		OpenedAt:     utils.UTCNow(),
	}
	if err := f.sessionRepo.Save(ctx, &session); err != nil {
		return nil, NewBusinessError("CASH_SESSION_SAVE_FAILED", "Failed to open cash session", err)
	}

	return &dto.OpenCashSessionResponse{
		Message: "Caixa aberto",
		Session: ToCashSessionDTO(session),
	}, nil
}

func (f *CashSessionFlowImpl) CloseSession(ctx context.Context, staffID uint, req *dto.CloseCashSessionRequest, metadata *ClientMetadata) (*dto.CloseCashSessionResponse, error) {
	session, err := f.sessionRepo.ByUUID(ctx, req.SessionUUID)
	if err != nil {
		return nil, NewBusinessError("CASH_SESSION_LOOKUP_FAILED", "Failed to lookup cash session", err)
	}
	if session == nil {
		return nil, NewBusinessError("CASH_SESSION_NOT_FOUND", "Caixa não encontrado", ErrCashSessionNotFound)
	}
	if session.StaffID != staffID {
		return nil, NewBusinessError("CASH_SESSION_WRONG_STAFF", "Caixa pertence a outro usuário", nil)
	}
	if session.Status != models.CashSessionOpen {
		return nil, NewBusinessError("CASH_SESSION_NOT_OPEN", "Caixa já foi fechado", ErrCashSessionNotOpen)
	}

	// Reconciliation: what was counted in the drawer against what the
	// opening float plus registered cash payments says should be there.
	difference := req.CountedCents - (session.OpeningCents + session.ExpectedCents)
	closedAt := utils.UTCNow()

	if err := f.sessionRepo.Close(ctx, session.ID, req.CountedCents, difference, closedAt); err != nil {
		return nil, NewBusinessError("CASH_SESSION_CLOSE_FAILED", "Failed to close cash session", err)
	}

	session.Status = models.CashSessionClosed
	session.CountedCents = &req.CountedCents
	session.DifferenceCents = &difference
	session.ClosedAt = &closedAt

	return &dto.CloseCashSessionResponse{
		Message: "Caixa fechado",
		Session: ToCashSessionDTO(*session),
	}, nil
}

func (f *CashSessionFlowImpl) GetSession(ctx context.Context, sessionUUID string, metadata *ClientMetadata) (*dto.GetCashSessionResponse, error) {
	session, err := f.sessionRepo.ByUUID(ctx, sessionUUID)
	if err != nil {
		return nil, NewBusinessError("CASH_SESSION_LOOKUP_FAILED", "Failed to lookup cash session", err)
	}
	if session == nil {
		return nil, NewBusinessError("CASH_SESSION_NOT_FOUND", "Caixa não encontrado", ErrCashSessionNotFound)
	}
	return &dto.GetCashSessionResponse{
		Message: "Caixa encontrado",
		Session: ToCashSessionDTO(*session),
	}, nil
}
