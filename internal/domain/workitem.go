package domain

import (
	"sort"
	"time"
)

// WorkItem is an activity or a sub-activity of a project. Only leaf
// sub-activities normally carry schedule entries, but entries attached at any
// level are honoured by the aggregation.
type WorkItem struct {
	ID         string
	ProjectID  string
	ParentID   *string
	Name       string
	Kind       WorkItemKind
	OrderIndex int
	// Weight is the percentage points the item contributes at its level.
	Weight float64

	Schedules []ScheduleEntry
	Children  []*WorkItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLeaf reports whether the item has no children.
func (w *WorkItem) IsLeaf() bool {
	return len(w.Children) == 0
}

// Walk visits w and all of its descendants depth-first in order.
func (w *WorkItem) Walk(fn func(item *WorkItem)) {
	fn(w)
	for _, c := range w.Children {
		c.Walk(fn)
	}
}

// BuildTree links flat work items into their parent/child hierarchy and
// attaches schedule entries to their owning item. Roots and children are
// ordered by OrderIndex, then name. Items whose parent is missing are
// treated as roots.
func BuildTree(flat []*WorkItem, entries []ScheduleEntry) []*WorkItem {
	byID := make(map[string]*WorkItem, len(flat))
	for _, w := range flat {
		w.Children = nil
		w.Schedules = nil
		byID[w.ID] = w
	}
	for _, e := range entries {
		if owner, ok := byID[e.WorkItemID]; ok {
			owner.Schedules = append(owner.Schedules, e)
		}
	}

	var roots []*WorkItem
	for _, w := range flat {
		if w.ParentID != nil {
			if parent, ok := byID[*w.ParentID]; ok {
				parent.Children = append(parent.Children, w)
				continue
			}
		}
		roots = append(roots, w)
	}

	sortItems(roots)
	for _, w := range flat {
		sortItems(w.Children)
		sort.SliceStable(w.Schedules, func(i, j int) bool {
			return w.Schedules[i].Key().Less(w.Schedules[j].Key())
		})
	}
	return roots
}

func sortItems(items []*WorkItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].OrderIndex != items[j].OrderIndex {
			return items[i].OrderIndex < items[j].OrderIndex
		}
		return items[i].Name < items[j].Name
	})
}
