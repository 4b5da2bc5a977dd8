package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/domain"
)

// FormatReportResult summarizes a recorded daily report and where it landed.
func FormatReportResult(resp *app.SubmitReportResponse) string {
	var b strings.Builder
	in := resp.Instruction

	action := "updated"
	if in.Create {
		action = "created"
	}
	b.WriteString(fmt.Sprintf("%s %s on %s\n",
		StyleGreen.Render("✔ Recorded"),
		StyleBold.Render(Percent(resp.Report.ProgressIncrement)),
		HumanDate(resp.Report.Date)))
	b.WriteString(fmt.Sprintf("  week %s (%s entry)\n",
		StyleBlue.Render(fmt.Sprintf("%d-%02d W%d", in.Year, in.Month, in.Week)), action))
	b.WriteString(fmt.Sprintf("  actual now %s, plan %s\n",
		StyleBold.Render(Percent(resp.Entry.Actual())), Percent(resp.Entry.Plan())))
	if resp.Report.Note != "" {
		b.WriteString("  " + Dim(resp.Report.Note) + "\n")
	}
	return b.String()
}

// FormatReportList renders recent daily reports, newest first.
func FormatReportList(reports []*domain.DailyProgressReport) string {
	headers := []string{"DATE", "WEEK", "INCREMENT", "BY", "NOTE"}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			r.Date.Format("2006-01-02"),
			fmt.Sprintf("%d-%02d W%d", r.Week.Year, r.Week.Month, r.Week.Week),
			Percent(r.ProgressIncrement),
			orDash(r.ReportedBy),
			orDash(r.Note),
		})
	}
	return RenderTable(headers, rows, 2)
}
