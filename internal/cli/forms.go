package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/irrigo/internal/cli/formatter"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// runForm is swapped out in tests.
var runForm = func(f *huh.Form) error { return f.Run() }

func irrigoHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	return t
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(irrigoHuhTheme()).WithShowHelp(false)
}

func confirmForm(title string, result *bool) *huh.Form {
	return newForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(result),
	))
}

func projectSelect(projects []*domain.Project, value *string) *huh.Form {
	opts := make([]huh.Option[string], 0, len(projects))
	for _, p := range projects {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s  %s", p.DisplayID(), p.Name), p.ID))
	}
	return newForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Project").Options(opts...).Value(value),
	))
}

// reportFields are the answers of the daily report form, as typed.
type reportFields struct {
	ItemID     string
	Date       string
	Increment  string
	Note       string
	ReportedBy string
}

// reportForm asks for whatever the command line left out. subActivities
// may be nil when the item is already known.
func reportForm(subActivities []*domain.WorkItem, f *reportFields) *huh.Form {
	var fields []huh.Field
	if subActivities != nil {
		opts := make([]huh.Option[string], 0, len(subActivities))
		for _, w := range subActivities {
			opts = append(opts, huh.NewOption(w.Name, w.ID))
		}
		fields = append(fields, huh.NewSelect[string]().Title("Sub-activity").Options(opts...).Value(&f.ItemID))
	}
	if f.Date == "" {
		f.Date = time.Now().Format("2006-01-02")
	}
	fields = append(fields,
		huh.NewInput().Title("Date (YYYY-MM-DD)").Value(&f.Date).Validate(validateDate),
		huh.NewInput().Title("Progress today (%)").Placeholder("2.5").Value(&f.Increment).Validate(validateIncrement),
		huh.NewInput().Title("Note").Value(&f.Note).CharLimit(500),
		huh.NewInput().Title("Reported by").Value(&f.ReportedBy).CharLimit(120),
	)
	return newForm(huh.NewGroup(fields...))
}

func validateDate(s string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateIncrement(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > domain.MaxPercentage {
		return fmt.Errorf("enter a percentage between 0 and 100")
	}
	return nil
}
