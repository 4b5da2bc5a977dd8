package progress

import "github.com/alexanderramin/irrigo/internal/domain"

// ItemSummary is the planned and actual total of one work item's subtree.
type ItemSummary struct {
	ID        string
	ParentID  *string
	Name      string
	Kind      domain.WorkItemKind
	Depth     int
	Weight    float64
	Planned   float64
	Actual    float64
	Deviation float64
	// Completion is Actual as a share of Weight, in percent. Zero when the
	// item carries no weight.
	Completion float64
	// Contribution is the points the item adds to its parent: Actual scaled
	// by Weight.
	Contribution float64
}

// ItemProgress flattens the hierarchy depth-first and totals every item's
// own and descendant schedule entries.
func ItemProgress(items []*domain.WorkItem) []ItemSummary {
	var out []ItemSummary
	for _, root := range items {
		if root != nil {
			out = appendSummary(out, root, 0)
		}
	}
	return out
}

func appendSummary(out []ItemSummary, item *domain.WorkItem, depth int) []ItemSummary {
	idx := len(out)
	out = append(out, ItemSummary{
		ID:       item.ID,
		ParentID: item.ParentID,
		Name:     item.Name,
		Kind:     item.Kind,
		Depth:    depth,
		Weight:   item.Weight,
	})

	var planned, actual float64
	for _, e := range item.Schedules {
		planned += e.Plan()
		actual += e.Actual()
	}
	for _, c := range item.Children {
		childIdx := len(out)
		out = appendSummary(out, c, depth+1)
		planned += out[childIdx].Planned
		actual += out[childIdx].Actual
	}

	s := &out[idx]
	s.Planned = planned
	s.Actual = actual
	s.Deviation = planned - actual
	if item.Weight > 0 {
		s.Completion = actual / item.Weight * 100
	}
	s.Contribution = actual / MaxPercentage * item.Weight
	return out
}
