package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/progress"
)

// SeriesRows turns a cumulative series into table cells. The interactive
// viewer and the plain table share it.
func SeriesRows(points []progress.CumulativeResult, th progress.Thresholds) [][]string {
	rows := make([][]string, 0, len(points))
	for _, r := range points {
		rows = append(rows, []string{
			fmt.Sprintf("%d-%02d W%d", r.Year, r.Month, r.Week),
			r.Label,
			fmt.Sprintf("%.2f", r.WeeklyPlan),
			fmt.Sprintf("%.2f", r.WeeklyActual),
			fmt.Sprintf("%.2f", r.CumulativePlan),
			fmt.Sprintf("%.2f", r.CumulativeActual),
			Deviation(r.CumulativeDeviation, th),
		})
	}
	return rows
}

// SeriesHeaders are the column titles for SeriesRows.
var SeriesHeaders = []string{"WEEK", "DAYS", "PLAN", "ACTUAL", "CUM PLAN", "CUM ACTUAL", "DEVIATION"}

// FormatSeries renders the cumulative plan/actual table for a project.
func FormatSeries(resp *app.SeriesResponse, th progress.Thresholds) string {
	var b strings.Builder
	scope := "contract period"
	if resp.Year != 0 {
		scope = fmt.Sprintf("year %d", resp.Year)
	}
	b.WriteString(Dim(fmt.Sprintf("%s · %s · %d weeks", resp.Project.DisplayID(), scope, len(resp.Points))) + "\n\n")

	if len(resp.Points) == 0 {
		b.WriteString(Dim("No weeks in range.") + "\n")
	} else {
		b.WriteString(RenderTable(SeriesHeaders, SeriesRows(resp.Points, th), 2, 3, 4, 5, 6))
	}
	if resp.Calendar.Fallback {
		b.WriteString("\n" + StyleYellow.Render("  WARNING: contract dates unusable, default calendar shown") + "\n")
	}
	return RenderBox(resp.Project.Name, b.String())
}
