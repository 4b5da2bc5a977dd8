package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/irrigo/internal/app"
)

// FormatVerify reports whether the cached series matches a fresh computation.
func FormatVerify(res *app.VerifyResult) string {
	if len(res.Drift) == 0 {
		return StyleGreen.Render(fmt.Sprintf("✔ snapshots match (%d weeks)", res.Weeks)) + "\n"
	}

	var b strings.Builder
	b.WriteString(StyleRed.Render(fmt.Sprintf("✖ %d of %d weeks drifted", len(res.Drift), res.Weeks)) + "\n\n")
	rows := make([][]string, 0, len(res.Drift))
	for _, d := range res.Drift {
		cached, fresh := Dim("missing"), Dim("stale")
		if d.Cached != nil {
			cached = fmt.Sprintf("%.2f / %.2f", d.Cached.CumulativePlan, d.Cached.CumulativeActual)
		}
		if d.Fresh != nil {
			fresh = fmt.Sprintf("%.2f / %.2f", d.Fresh.CumulativePlan, d.Fresh.CumulativeActual)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d-%02d W%d", d.Key.Year, d.Key.Month, d.Key.Week),
			cached,
			fresh,
		})
	}
	b.WriteString(RenderTable([]string{"WEEK", "CACHED PLAN / ACTUAL", "FRESH PLAN / ACTUAL"}, rows))
	return b.String()
}
