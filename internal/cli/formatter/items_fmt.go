package formatter

import (
	"fmt"

	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
)

// FormatItemTree renders the work item hierarchy with each item's weight and
// accumulated actual progress.
func FormatItemTree(roots []*domain.WorkItem) string {
	summaries := progress.ItemProgress(roots)
	items := make([]TreeItem, 0, len(summaries))
	for i, s := range summaries {
		items = append(items, TreeItem{
			Title:    s.Name,
			Level:    s.Depth,
			IsLast:   isLastSibling(summaries, i),
			Complete: s.Weight > 0 && s.Actual >= s.Weight,
			Detail:   fmt.Sprintf("w %.0f · %.2f%%", s.Weight, s.Actual),
		})
	}
	return RenderTree(items)
}

func isLastSibling(summaries []progress.ItemSummary, i int) bool {
	depth := summaries[i].Depth
	for _, s := range summaries[i+1:] {
		if s.Depth < depth {
			return true
		}
		if s.Depth == depth {
			return false
		}
	}
	return true
}

// FormatItemTable renders one row per work item with plan, actual and the
// contribution to the project total.
func FormatItemTable(roots []*domain.WorkItem) string {
	summaries := progress.ItemProgress(roots)
	headers := []string{"ITEM", "KIND", "WEIGHT", "PLANNED", "ACTUAL", "COMPLETION", "CONTRIB"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		name := s.Name
		if s.Depth > 0 {
			name = "  " + name
		} else {
			name = Bold(name)
		}
		rows = append(rows, []string{
			name,
			KindBadge(s.Kind),
			fmt.Sprintf("%.2f", s.Weight),
			Percent(s.Planned),
			Percent(s.Actual),
			RenderProgress(s.Completion, 10),
			fmt.Sprintf("%.2f", s.Contribution),
		})
	}
	return RenderTable(headers, rows, 2, 3, 4, 6)
}
