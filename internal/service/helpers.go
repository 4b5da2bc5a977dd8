package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/samber/lo"
)

func isRequestError(err error) bool {
	_, ok := app.AsRequestError(err)
	return ok
}

// projectCalendar partitions the project's contract. Projects without usable
// contract dates get the skeleton of their reference year.
func projectCalendar(p *domain.Project, now time.Time) calendar.Calendar {
	return calendar.FromContract(p.ContractStart, p.ContractEnd, referenceYear(p, now))
}

func referenceYear(p *domain.Project, now time.Time) int {
	return calendar.ReferenceYear(p.Year, p.ContractStart, now)
}

// resolveProject looks a project up by UUID first, then by short ID.
func resolveProject(ctx context.Context, projects repository.ProjectRepo, ref string) (*domain.Project, error) {
	p, err := projects.GetByID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return projects.GetByShortID(ctx, ref)
}

// loadTree reads the project's work items and schedule entries and links
// them into the activity hierarchy.
func loadTree(ctx context.Context, items repository.WorkItemRepo, schedules repository.ScheduleRepo, projectID string) ([]*domain.WorkItem, error) {
	flat, err := items.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading work items: %w", err)
	}
	entries, err := schedules.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading schedule entries: %w", err)
	}
	return domain.BuildTree(flat, entries), nil
}

// seriesBuckets selects the weeks a series covers. Year 0 means the whole
// contract; a year outside the contract uses that year's natural weeks.
func seriesBuckets(cal calendar.Calendar, year int) []calendar.WeekBucket {
	if year == 0 {
		return cal.Weeks()
	}
	if weeks := cal.WeeksInYear(year); len(weeks) > 0 {
		return weeks
	}
	return calendar.ForYear(year).Weeks()
}

func toSnapshots(projectID string, series []progress.CumulativeResult, now time.Time) []domain.CumulativeSnapshot {
	return lo.Map(series, func(r progress.CumulativeResult, _ int) domain.CumulativeSnapshot {
		return domain.CumulativeSnapshot{
			ProjectID:           projectID,
			Year:                r.Year,
			Month:               r.Month,
			Week:                r.Week,
			Label:               r.Label,
			WeeklyPlan:          r.WeeklyPlan,
			WeeklyActual:        r.WeeklyActual,
			CumulativePlan:      r.CumulativePlan,
			CumulativeActual:    r.CumulativeActual,
			CumulativeDeviation: r.CumulativeDeviation,
			ComputedAt:          now,
		}
	})
}

// rebuildSnapshots recomputes the full contract series from stored entries
// and replaces the project's cache with it.
func rebuildSnapshots(
	ctx context.Context,
	p *domain.Project,
	items repository.WorkItemRepo,
	schedules repository.ScheduleRepo,
	snapshots repository.SnapshotRepo,
	now time.Time,
) ([]progress.CumulativeResult, error) {
	roots, err := loadTree(ctx, items, schedules, p.ID)
	if err != nil {
		return nil, err
	}
	cal := projectCalendar(p, now)
	series, err := progress.ComputeCumulativeSeries(roots, cal.Weeks(), referenceYear(p, now))
	if err != nil {
		return nil, fmt.Errorf("computing series: %w", err)
	}
	if err := snapshots.Replace(ctx, p.ID, toSnapshots(p.ID, series, now)); err != nil {
		return nil, err
	}
	return series, nil
}
