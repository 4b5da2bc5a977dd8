package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/google/uuid"
)

type workItemService struct {
	workItems repository.WorkItemRepo
	schedules repository.ScheduleRepo
	projects  repository.ProjectRepo
}

func NewWorkItemService(workItems repository.WorkItemRepo, schedules repository.ScheduleRepo, projects repository.ProjectRepo) WorkItemService {
	return &workItemService{workItems: workItems, schedules: schedules, projects: projects}
}

// Create adds an activity or a sub-activity. Activities sit at the root;
// sub-activities must name an activity of the same project as parent.
func (s *workItemService) Create(ctx context.Context, w *domain.WorkItem) error {
	if strings.TrimSpace(w.Name) == "" {
		return app.NewRequestError(app.ErrInvalidInput, "work item name is required")
	}
	if w.Weight < 0 || w.Weight > domain.MaxPercentage {
		return app.NewRequestError(app.ErrInvalidInput, fmt.Sprintf("weight %.2f must be between 0 and 100", w.Weight))
	}
	if _, err := s.projects.GetByID(ctx, w.ProjectID); err != nil {
		return err
	}

	switch w.Kind {
	case domain.KindActivity:
		if w.ParentID != nil {
			return app.NewRequestError(app.ErrInvalidInput, "an activity cannot have a parent")
		}
	case domain.KindSubActivity:
		if w.ParentID == nil {
			return app.NewRequestError(app.ErrInvalidInput, "a sub-activity needs a parent activity")
		}
		parent, err := s.workItems.GetByID(ctx, *w.ParentID)
		if err != nil {
			return err
		}
		if parent.Kind != domain.KindActivity || parent.ProjectID != w.ProjectID {
			return app.NewRequestError(app.ErrInvalidInput,
				fmt.Sprintf("parent %q is not an activity of this project", parent.Name))
		}
	default:
		return app.NewRequestError(app.ErrInvalidInput, fmt.Sprintf("unknown work item kind %q", w.Kind))
	}

	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	return s.workItems.Create(ctx, w)
}

func (s *workItemService) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.workItems.GetByID(ctx, id)
}

func (s *workItemService) ListByProject(ctx context.Context, projectID string) ([]*domain.WorkItem, error) {
	return s.workItems.ListByProject(ctx, projectID)
}

func (s *workItemService) Tree(ctx context.Context, projectID string) ([]*domain.WorkItem, error) {
	return loadTree(ctx, s.workItems, s.schedules, projectID)
}

func (s *workItemService) Update(ctx context.Context, w *domain.WorkItem) error {
	if w.Weight < 0 || w.Weight > domain.MaxPercentage {
		return app.NewRequestError(app.ErrInvalidInput, fmt.Sprintf("weight %.2f must be between 0 and 100", w.Weight))
	}
	w.UpdatedAt = time.Now().UTC()
	return s.workItems.Update(ctx, w)
}

// Delete removes the item with its children and their schedule entries.
func (s *workItemService) Delete(ctx context.Context, id string) error {
	return s.workItems.Delete(ctx, id)
}
