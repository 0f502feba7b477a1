package dto

// ExportReportRequest bounds a report export period (inclusive dates,
// formatted 2006-01-02)
type ExportReportRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}
