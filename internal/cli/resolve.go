package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/repository"
)

// resolveItem finds a work item by exact ID, or within projectRef by ID
// prefix or case-insensitive name.
func resolveItem(ctx context.Context, app *App, projectRef, ref string) (*domain.WorkItem, error) {
	if ref == "" {
		return nil, fmt.Errorf("work item is required")
	}
	if w, err := app.WorkItems.GetByID(ctx, ref); err == nil {
		return w, nil
	}
	if projectRef == "" {
		return nil, fmt.Errorf("work item %q not found (pass --project to match by name)", ref)
	}

	p, err := app.Projects.Resolve(ctx, projectRef)
	if err != nil {
		return nil, err
	}
	items, err := app.WorkItems.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	var matches []*domain.WorkItem
	for _, w := range items {
		if strings.EqualFold(w.Name, ref) {
			return w, nil
		}
		if strings.HasPrefix(w.ID, ref) {
			matches = append(matches, w)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("work item %q in %s: %w", ref, p.DisplayID(), repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("work item prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}
