package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// LevelColor returns the style for a progress level.
func LevelColor(level domain.ProgressLevel) lipgloss.Style {
	switch level {
	case domain.LevelCritical:
		return StyleRed
	case domain.LevelBehind:
		return StyleYellow
	case domain.LevelOnSchedule:
		return StyleGreen
	case domain.LevelAhead:
		return StyleBlue
	default:
		return StyleDim
	}
}

// LevelIndicator returns a colored marker such as "● BEHIND".
func LevelIndicator(level domain.ProgressLevel) string {
	switch level {
	case domain.LevelCritical:
		return StyleRed.Render("● CRITICAL")
	case domain.LevelBehind:
		return StyleYellow.Render("● BEHIND")
	case domain.LevelOnSchedule:
		return StyleGreen.Render("● ON SCHEDULE")
	case domain.LevelAhead:
		return StyleBlue.Render("▲ AHEAD")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// Header renders an upper-cased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
