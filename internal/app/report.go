package app

import (
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
)

// SubmitReportRequest carries a field report as entered. Date is an
// ISO-8601 calendar date ("2025-05-31").
type SubmitReportRequest struct {
	SubActivityID     string
	Date              string
	ProgressIncrement float64
	Note              string
	ReportedBy        string
}

type SubmitReportResponse struct {
	Report      *domain.DailyProgressReport
	Instruction progress.UpsertInstruction
	// Entry is the stored entry after the atomic increment.
	Entry  *domain.ScheduleEntry
	Series []progress.CumulativeResult
}
