package service

import (
	"context"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts a project UUID or short ID.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
	Calendar(ctx context.Context, id string) (calendar.Calendar, error)
}

type WorkItemService interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.WorkItem, error)
	// Tree returns the project's activities with sub-activities and schedule
	// entries attached.
	Tree(ctx context.Context, projectID string) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	Delete(ctx context.Context, id string) error
}

type ScheduleService interface {
	SetCell(ctx context.Context, req app.SetCellRequest) (*domain.ScheduleEntry, error)
	ListByWorkItem(ctx context.Context, workItemID string) ([]domain.ScheduleEntry, error)
	Series(ctx context.Context, req app.SeriesRequest) (*app.SeriesResponse, error)
}

type ProgressService interface {
	SubmitDailyReport(ctx context.Context, req app.SubmitReportRequest) (*app.SubmitReportResponse, error)
	ListReports(ctx context.Context, projectID string, limit int) ([]*domain.DailyProgressReport, error)
}

type StatusService interface {
	GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusResponse, error)
}

type SnapshotService interface {
	Refresh(ctx context.Context, projectID string) (int, error)
	// RefreshAll rebuilds the cache of every non-archived project and returns
	// the number of projects refreshed.
	RefreshAll(ctx context.Context) (int, error)
	Verify(ctx context.Context, projectID string) (*app.VerifyResult, error)
}

// ImportResult holds the outcome of a project import.
type ImportResult struct {
	Project          *domain.Project
	ActivityCount    int
	SubActivityCount int
	EntryCount       int
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
