package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/cli/formatter"
	"github.com/alexanderramin/irrigo/internal/progress"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type seriesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k seriesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Quit}
}

func (k seriesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Toggle, k.Help, k.Quit}}
}

var seriesKeys = seriesKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys("tab", "w"), key.WithHelp("tab", "weekly/cumulative")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// seriesView is a scrollable table over a project's weekly series. It
// shows cumulative figures by default and weekly ones after a toggle.
type seriesView struct {
	resp   *app.SeriesResponse
	th     progress.Thresholds
	table  table.Model
	help   help.Model
	weekly bool
}

func newSeriesView(resp *app.SeriesResponse, th progress.Thresholds) *seriesView {
	v := &seriesView{resp: resp, th: th, help: help.New()}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(formatter.ColorDim).
		BorderBottom(true).
		Foreground(formatter.ColorHeader).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(formatter.ColorFg).Background(formatter.ColorBlue).Bold(false)

	v.table = table.New(
		table.WithColumns(v.columns()),
		table.WithRows(v.rows()),
		table.WithFocused(true),
		table.WithHeight(min(len(resp.Points)+1, 20)),
		table.WithStyles(styles),
	)
	return v
}

func (v *seriesView) columns() []table.Column {
	plan, actual := "CUM PLAN", "CUM ACTUAL"
	if v.weekly {
		plan, actual = "PLAN", "ACTUAL"
	}
	return []table.Column{
		{Title: "WEEK", Width: 11},
		{Title: "DAYS", Width: 16},
		{Title: plan, Width: 10},
		{Title: actual, Width: 10},
		{Title: "DEVIATION", Width: 10},
	}
}

func (v *seriesView) rows() []table.Row {
	rows := make([]table.Row, 0, len(v.resp.Points))
	for _, r := range v.resp.Points {
		plan, actual, dev := r.CumulativePlan, r.CumulativeActual, r.CumulativeDeviation
		if v.weekly {
			plan, actual, dev = r.WeeklyPlan, r.WeeklyActual, r.WeeklyPlan-r.WeeklyActual
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d-%02d W%d", r.Year, r.Month, r.Week),
			r.Label,
			fmt.Sprintf("%.2f", plan),
			fmt.Sprintf("%.2f", actual),
			fmt.Sprintf("%+.2f", dev),
		})
	}
	return rows
}

func (v *seriesView) Init() tea.Cmd { return nil }

func (v *seriesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.table.SetHeight(max(msg.Height-8, 3))
		v.help.Width = msg.Width
		return v, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, seriesKeys.Quit):
			return v, tea.Quit
		case key.Matches(msg, seriesKeys.Toggle):
			v.weekly = !v.weekly
			v.table.SetColumns(v.columns())
			v.table.SetRows(v.rows())
			return v, nil
		case key.Matches(msg, seriesKeys.Help):
			v.help.ShowAll = !v.help.ShowAll
			return v, nil
		}
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// selected returns the point under the cursor, if any.
func (v *seriesView) selected() (progress.CumulativeResult, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.resp.Points) {
		return progress.CumulativeResult{}, false
	}
	return v.resp.Points[i], true
}

func (v *seriesView) View() string {
	var b strings.Builder
	mode := "cumulative"
	if v.weekly {
		mode = "weekly"
	}
	b.WriteString(formatter.StyleHeader.Render(v.resp.Project.Name))
	b.WriteString(formatter.Dim(fmt.Sprintf("  %s · %s", v.resp.Project.DisplayID(), mode)) + "\n\n")
	b.WriteString(v.table.View() + "\n\n")

	if r, ok := v.selected(); ok {
		level := progress.ClassifyDeviation(r.CumulativeDeviation, v.th)
		b.WriteString(fmt.Sprintf("%s  plan %s  actual %s  %s\n",
			formatter.Bold(r.Label),
			formatter.Percent(r.CumulativePlan),
			formatter.Percent(r.CumulativeActual),
			formatter.LevelIndicator(level)))
	} else {
		b.WriteString(formatter.Dim("No weeks in range.") + "\n")
	}
	b.WriteString(v.help.View(seriesKeys))
	return b.String()
}
