package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/repository"
	"github.com/tatame-app/tatame/utils"
	"github.com/xuri/excelize/v2"
)

// ReportFlow exports operational spreadsheets for the studio owner
type ReportFlow interface {
	// ExportPayments returns an xlsx of payments and check-ins over the
	// period as (filename, content, error)
	ExportPayments(ctx context.Context, req *dto.ExportReportRequest, metadata *ClientMetadata) (string, []byte, error)
}

// ReportFlowImpl implements ReportFlow
type ReportFlowImpl struct {
	paymentRepo repository.PaymentRepository
	checkinRepo repository.CheckInRepository
}

func NewReportFlow(paymentRepo repository.PaymentRepository, checkinRepo repository.CheckInRepository) ReportFlow {
	return &ReportFlowImpl{paymentRepo: paymentRepo, checkinRepo: checkinRepo}
}

const reportDateLayout = "2006-01-02"

func (f *ReportFlowImpl) ExportPayments(ctx context.Context, req *dto.ExportReportRequest, metadata *ClientMetadata) (string, []byte, error) {
	from, err := time.Parse(reportDateLayout, req.From)
	if err != nil {
		return "", nil, NewBusinessError("REPORT_VALIDATION_FAILED", "Data inicial inválida", err)
	}
	to, err := time.Parse(reportDateLayout, req.To)
	if err != nil {
		return "", nil, NewBusinessError("REPORT_VALIDATION_FAILED", "Data final inválida", err)
	}
	if from.After(to) {
		return "", nil, NewBusinessError("REPORT_VALIDATION_FAILED", "Período inválido", ErrStartDateAfterEndDate)
	}
	// Both bounds inclusive: the end date covers its whole day
	toEnd := utils.StartOfDay(to).AddDate(0, 0, 1).Add(-time.Second)

	payments, err := f.paymentRepo.ListBetween(ctx, utils.StartOfDay(from), toEnd)
	if err != nil {
		return "", nil, NewBusinessError("REPORT_QUERY_FAILED", "Failed to load payments", err)
	}

	checkins, err := f.checkinRepo.ByFilter(ctx, models.CheckInFilter{
		After:  utils.ToPtr(utils.StartOfDay(from)),
		Before: utils.ToPtr(toEnd),
	}, "checked_in_at ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("REPORT_QUERY_FAILED", "Failed to load check-ins", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	// Payments sheet
	paymentsSheet := "Pagamentos"
	xl.SetSheetName(xl.GetSheetName(0), paymentsSheet)
	header := []string{"uuid", "member_id", "plan_id", "monthly_price", "commitment_discount", "promo_discount", "enrollment_fee", "total", "promo_code", "method", "paid_at"}
	_ = xl.SetSheetRow(paymentsSheet, "A1", &header)

	var totalCents int64
	for i, p := range payments {
		promoCode := ""
		if p.PromoCode != nil {
			promoCode = *p.PromoCode
		}
		var planID any
		if p.PlanID != nil {
			planID = *p.PlanID
		}
		record := []any{
			p.UUID.String(),
			p.MemberID,
			planID,
			FormatCurrency(p.MonthlyPriceCents),
			FormatCurrency(p.CommitmentDiscountCents),
			FormatCurrency(p.PromoDiscountCents),
			FormatCurrency(p.EnrollmentFeeCents),
			FormatCurrency(p.TotalCents),
			promoCode,
			string(p.Method),
			p.PaidAt.Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = xl.SetSheetRow(paymentsSheet, cellRef, &record)
		totalCents += p.TotalCents
	}
	totalRef, _ := excelize.CoordinatesToCellName(1, len(payments)+3)
	totalRow := []any{"TOTAL", "", "", "", "", "", "", FormatCurrency(totalCents)}
	_ = xl.SetSheetRow(paymentsSheet, totalRef, &totalRow)

	// Check-ins sheet
	checkinsSheet := "Check-ins"
	_, _ = xl.NewSheet(checkinsSheet)
	checkinHeader := []string{"member_id", "result", "message", "credit_consumed", "checked_in_at"}
	_ = xl.SetSheetRow(checkinsSheet, "A1", &checkinHeader)
	for i, c := range checkins {
		record := []any{
			c.MemberID,
			string(c.Result),
			c.Message,
			c.CreditConsumed,
			c.CheckedInAt.Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = xl.SetSheetRow(checkinsSheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to build report", err)
	}

	filename := fmt.Sprintf("relatorio_%s_%s.xlsx", from.Format(reportDateLayout), to.Format(reportDateLayout))
	return filename, buf.Bytes(), nil
}
