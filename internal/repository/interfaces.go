package repository

import (
	"context"

	"github.com/alexanderramin/irrigo/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type WorkItemRepo interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.WorkItem, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	Delete(ctx context.Context, id string) error
}

// ScheduleRepo stores weekly plan/actual entries keyed by
// (work item, year, month, week).
type ScheduleRepo interface {
	GetByKey(ctx context.Context, workItemID string, key domain.ScheduleKey) (*domain.ScheduleEntry, error)
	ListByWorkItem(ctx context.Context, workItemID string) ([]domain.ScheduleEntry, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.ScheduleEntry, error)
	// UpsertCell creates the entry or overwrites only its non-nil percentages.
	UpsertCell(ctx context.Context, e *domain.ScheduleEntry) (*domain.ScheduleEntry, error)
	// ApplyIncrement atomically adds increment to the entry's actual
	// percentage, creating the entry with a zero plan when absent, and caps
	// the result at domain.MaxPercentage.
	ApplyIncrement(ctx context.Context, workItemID string, key domain.ScheduleKey, increment float64) (*domain.ScheduleEntry, error)
	Delete(ctx context.Context, id string) error
}

type DailyReportRepo interface {
	Create(ctx context.Context, r *domain.DailyProgressReport) error
	ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.DailyProgressReport, error)
	ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.DailyProgressReport, error)
}

// SnapshotRepo caches computed cumulative series per project.
type SnapshotRepo interface {
	Replace(ctx context.Context, projectID string, snaps []domain.CumulativeSnapshot) error
	ListByProject(ctx context.Context, projectID string) ([]domain.CumulativeSnapshot, error)
}
