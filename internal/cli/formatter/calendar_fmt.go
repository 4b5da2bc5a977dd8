package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/irrigo/internal/calendar"
)

// FormatCalendar lists each month of a calendar with its owned weeks.
func FormatCalendar(cal calendar.Calendar) string {
	var b strings.Builder
	if cal.Fallback {
		b.WriteString(StyleYellow.Render("Default calendar (contract dates unusable)") + "\n\n")
	} else {
		b.WriteString(Dim(fmt.Sprintf("%s → %s", HumanDate(cal.Start), HumanDate(cal.End))) + "\n\n")
	}

	for i, m := range cal.Months {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(StyleBold.Render(m.Label()) + "\n")
		for _, w := range m.Weeks {
			days := fmt.Sprintf("%d days", w.Days())
			if w.Days() == 1 {
				days = "1 day"
			}
			b.WriteString(fmt.Sprintf("  %s  %-16s %s\n",
				StyleBlue.Render(fmt.Sprintf("Wk%d", w.Week)), w.Label(), Dim(days)))
		}
	}
	return RenderBox("Calendar", b.String())
}
