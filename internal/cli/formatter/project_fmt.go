package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders the project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "LOCATION", "CONTRACT", "STATUS"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		id := p.ShortID
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}
		rows = append(rows, []string{
			id,
			Bold(p.Name),
			orDash(p.Location),
			contractRange(p),
			StatusPill(p.Status),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

func contractRange(p *domain.Project) string {
	if p.ContractStart == "" && p.ContractEnd == "" {
		return Dim("--")
	}
	return fmt.Sprintf("%s → %s", orDash(p.ContractStart), orDash(p.ContractEnd))
}

// ProjectInspectData holds everything the inspect card shows.
type ProjectInspectData struct {
	Project  *domain.Project
	Calendar calendar.Calendar
	Items    []*domain.WorkItem
}

// FormatProjectInspect renders project metadata beside its work item tree.
func FormatProjectInspect(data ProjectInspectData) string {
	left := buildMetadataPanel(data.Project, data.Calendar)
	right := FormatItemTree(data.Items)
	if right == "" {
		right = Dim("No work items")
	}
	right = StyleHeader.Render("WORK ITEMS") + "\n" + Dim(strings.Repeat("─", 10)) + "\n" + right
	return RenderBox("", lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
}

func buildMetadataPanel(p *domain.Project, cal calendar.Calendar) string {
	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-10s", label)), value))
	}

	b.WriteString(StyleBold.Render(p.Name) + "\n\n")
	field("STATUS", StatusPill(p.Status))
	field("ID", p.DisplayID())
	field("UUID", TruncID(p.ID))
	field("LOCATION", orDash(p.Location))
	field("CONTRACTOR", orDash(p.Contractor))
	field("CONTRACT", contractRange(p))
	field("YEAR", fmt.Sprintf("%d", p.Year))

	weeks := fmt.Sprintf("%d weeks in %d months", len(cal.Weeks()), len(cal.Months))
	if cal.Fallback {
		weeks += " " + StyleYellow.Render("(default calendar)")
	}
	field("CALENDAR", weeks)
	if p.ArchivedAt != nil {
		field("ARCHIVED", HumanDate(*p.ArchivedAt))
	}
	field("UPDATED", HumanDate(p.UpdatedAt))

	return lipgloss.NewStyle().Width(52).Render(b.String())
}
