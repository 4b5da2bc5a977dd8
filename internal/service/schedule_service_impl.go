package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/db"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/samber/lo"
)

type scheduleService struct {
	projects  repository.ProjectRepo
	workItems repository.WorkItemRepo
	schedules repository.ScheduleRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewScheduleService(
	projects repository.ProjectRepo,
	workItems repository.WorkItemRepo,
	schedules repository.ScheduleRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		projects:  projects,
		workItems: workItems,
		schedules: schedules,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// SetCell writes an explicit plan/actual edit and refreshes the project's
// snapshot cache in the same transaction.
func (s *scheduleService) SetCell(ctx context.Context, req app.SetCellRequest) (entry *domain.ScheduleEntry, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "schedule.set_cell", start, err, map[string]any{
			"work_item_id": req.WorkItemID, "month": req.Month, "week": req.Week,
		})
	}()

	if err := validateCell(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txItems := repository.NewSQLiteWorkItemRepo(tx)
		txSchedules := repository.NewSQLiteScheduleRepo(tx)
		txSnapshots := repository.NewSQLiteSnapshotRepo(tx)

		item, err := txItems.GetByID(ctx, req.WorkItemID)
		if err != nil {
			return err
		}
		p, err := txProjects.GetByID(ctx, item.ProjectID)
		if err != nil {
			return err
		}

		year := req.Year
		if year == 0 {
			year = calendar.CellYear(projectCalendar(p, now), req.Month, referenceYear(p, now))
		}
		entry, err = txSchedules.UpsertCell(ctx, &domain.ScheduleEntry{
			WorkItemID:       item.ID,
			Year:             year,
			Month:            req.Month,
			Week:             req.Week,
			PlanPercentage:   req.Plan,
			ActualPercentage: req.Actual,
		})
		if err != nil {
			return err
		}

		_, err = rebuildSnapshots(ctx, p, txItems, txSchedules, txSnapshots, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func validateCell(req app.SetCellRequest) error {
	if req.WorkItemID == "" {
		return app.NewRequestError(app.ErrInvalidInput, "work item is required")
	}
	if req.Month < 1 || req.Month > 12 {
		return app.NewRequestError(app.ErrInvalidMonth, fmt.Sprintf("month %d must be between 1 and 12", req.Month))
	}
	if req.Week < 1 || req.Week > domain.MaxWeekIndex {
		return app.NewRequestError(app.ErrInvalidWeekIndex,
			fmt.Sprintf("week %d must be between 1 and %d", req.Week, domain.MaxWeekIndex))
	}
	if req.Plan == nil && req.Actual == nil {
		return app.NewRequestError(app.ErrInvalidInput, "nothing to set: give a plan or an actual percentage")
	}
	if err := checkPercentage("plan", req.Plan); err != nil {
		return err
	}
	return checkPercentage("actual", req.Actual)
}

func checkPercentage(name string, v *float64) error {
	if v != nil && (*v < 0 || *v > domain.MaxPercentage) {
		return app.NewRequestError(app.ErrInvalidInput, fmt.Sprintf("%s %.2f must be between 0 and 100", name, *v))
	}
	return nil
}

func (s *scheduleService) ListByWorkItem(ctx context.Context, workItemID string) ([]domain.ScheduleEntry, error) {
	return s.schedules.ListByWorkItem(ctx, workItemID)
}

// Series recomputes the cumulative series from stored entries. It never
// reads the snapshot cache.
func (s *scheduleService) Series(ctx context.Context, req app.SeriesRequest) (resp *app.SeriesResponse, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "schedule.series", start, err, map[string]any{"project": req.ProjectID, "year": req.Year})
	}()

	p, err := resolveProject(ctx, s.projects, req.ProjectID)
	if err != nil {
		return nil, err
	}
	roots, err := loadTree(ctx, s.workItems, s.schedules, p.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cal := projectCalendar(p, now)
	buckets := seriesBuckets(cal, req.Year)
	points, err := progress.ComputeCumulativeSeries(roots, buckets, lo.Ternary(req.Year != 0, req.Year, referenceYear(p, now)))
	if err != nil {
		return nil, fmt.Errorf("computing series: %w", err)
	}

	return &app.SeriesResponse{
		Project:  p,
		Year:     req.Year,
		Calendar: cal,
		Buckets:  buckets,
		Points:   points,
		Items:    roots,
	}, nil
}
