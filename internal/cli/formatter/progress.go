package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a completion bar like [████░░░░] 45%. pct is a
// percentage in 0..100 and is clamped.
func RenderProgress(pct float64, width int) string {
	pct = min(max(pct, 0), domain.MaxPercentage)
	width = max(width, 2)

	filled := min(int(pct/domain.MaxPercentage*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct < 33:
		style = StyleRed
	case pct < 66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct)
}

// Percent formats a percentage with two decimals.
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// Deviation renders plan minus actual with an explicit sign, colored by the
// level it falls into.
func Deviation(dev float64, th progress.Thresholds) string {
	return LevelColor(progress.ClassifyDeviation(dev, th)).Render(fmt.Sprintf("%+.2f", dev))
}
