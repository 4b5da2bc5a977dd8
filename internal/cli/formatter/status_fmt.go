package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/progress"
)

const statusProgressBarWidth = 10

// FormatStatus renders the portfolio dashboard, worst projects first as the
// service already orders them.
func FormatStatus(resp *app.StatusResponse, th progress.Thresholds) string {
	var b strings.Builder

	headers := []string{"ID", "NAME", "WEEK", "PLAN", "ACTUAL", "DEVIATION", "LEVEL", "LAST REPORT"}
	rows := make([][]string, 0, len(resp.Projects))
	for _, p := range resp.Projects {
		week := Dim("not started")
		if p.Progress.Started {
			week = p.Progress.Label
		}
		last := Dim("--")
		if p.LastReport != nil {
			last = HumanDate(*p.LastReport)
		}
		name := Bold(p.ProjectName)
		if p.Fallback {
			name += StyleYellow.Render(" *")
		}
		rows = append(rows, []string{
			p.ShortID,
			name,
			week,
			Percent(p.Progress.CumulativePlan),
			RenderProgress(p.Progress.CumulativeActual, statusProgressBarWidth),
			Deviation(p.Progress.Deviation, th),
			LevelIndicator(p.Progress.Level),
			last,
		})
	}
	if len(rows) == 0 {
		b.WriteString(Dim("No projects.") + "\n")
	} else {
		b.WriteString(RenderTable(headers, rows, 3, 5))
	}

	s := resp.Summary
	b.WriteString("\n")
	b.WriteString(strings.Join([]string{
		StyleRed.Render(fmt.Sprintf("%d Critical", s.CountsCritical)),
		StyleYellow.Render(fmt.Sprintf("%d Behind", s.CountsBehind)),
		StyleGreen.Render(fmt.Sprintf("%d On Schedule", s.CountsOnTrack)),
		StyleBlue.Render(fmt.Sprintf("%d Ahead", s.CountsAhead)),
	}, ", ") + Dim(fmt.Sprintf("  as of %s", HumanDate(s.GeneratedAt))) + "\n")

	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(StyleYellow.Render(fmt.Sprintf("  WARNING: %s", w)) + "\n")
		}
	}
	return RenderBox("Status", b.String())
}
