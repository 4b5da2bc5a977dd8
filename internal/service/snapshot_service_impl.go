package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/db"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/samber/lo"
)

// driftTolerance absorbs float noise between a cached and a fresh value.
const driftTolerance = 1e-9

// snapshotService builds tx-scoped repositories for every read and write;
// projects is only used to enumerate refresh targets.
type snapshotService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSnapshotService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SnapshotService {
	return &snapshotService{
		projects: projects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Refresh rebuilds one project's cache and returns the number of weeks written.
func (s *snapshotService) Refresh(ctx context.Context, projectID string) (int, error) {
	var weeks int
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := resolveProject(ctx, repository.NewSQLiteProjectRepo(tx), projectID)
		if err != nil {
			return err
		}
		series, err := rebuildSnapshots(ctx, p,
			repository.NewSQLiteWorkItemRepo(tx),
			repository.NewSQLiteScheduleRepo(tx),
			repository.NewSQLiteSnapshotRepo(tx),
			time.Now().UTC())
		weeks = len(series)
		return err
	})
	return weeks, err
}

func (s *snapshotService) RefreshAll(ctx context.Context) (refreshed int, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "snapshot.refresh_all", start, err, map[string]any{"projects": refreshed})
	}()

	projects, err := s.projects.List(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("loading projects: %w", err)
	}
	for _, p := range projects {
		if _, err := s.Refresh(ctx, p.ID); err != nil {
			return refreshed, fmt.Errorf("refreshing %s: %w", p.DisplayID(), err)
		}
		refreshed++
	}
	return refreshed, nil
}

// Verify compares the cached series with a fresh computation and reports
// every week that is missing from either side or differs.
func (s *snapshotService) Verify(ctx context.Context, projectID string) (*app.VerifyResult, error) {
	var result *app.VerifyResult
	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := resolveProject(ctx, repository.NewSQLiteProjectRepo(tx), projectID)
		if err != nil {
			return err
		}
		roots, err := loadTree(ctx, repository.NewSQLiteWorkItemRepo(tx), repository.NewSQLiteScheduleRepo(tx), p.ID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		cal := projectCalendar(p, now)
		fresh, err := progress.ComputeCumulativeSeries(roots, cal.Weeks(), referenceYear(p, now))
		if err != nil {
			return fmt.Errorf("computing series: %w", err)
		}
		cached, err := repository.NewSQLiteSnapshotRepo(tx).ListByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		result = &app.VerifyResult{
			ProjectID: p.ID,
			Weeks:     len(fresh),
			Drift:     diffSnapshots(cached, fresh),
		}
		return nil
	})
	return result, err
}

func diffSnapshots(cached []domain.CumulativeSnapshot, fresh []progress.CumulativeResult) []app.SnapshotDrift {
	cachedByKey := lo.KeyBy(cached, func(s domain.CumulativeSnapshot) domain.ScheduleKey { return s.Key() })

	var drift []app.SnapshotDrift
	for i := range fresh {
		r := &fresh[i]
		c, ok := cachedByKey[r.Key()]
		if !ok {
			drift = append(drift, app.SnapshotDrift{Key: r.Key(), Fresh: r})
			continue
		}
		delete(cachedByKey, r.Key())
		if !sameValues(c, *r) {
			cc := c
			drift = append(drift, app.SnapshotDrift{Key: r.Key(), Cached: &cc, Fresh: r})
		}
	}
	// weeks cached but no longer part of the calendar
	for _, c := range cached {
		if _, stale := cachedByKey[c.Key()]; stale {
			cc := c
			drift = append(drift, app.SnapshotDrift{Key: c.Key(), Cached: &cc})
		}
	}
	return drift
}

func sameValues(c domain.CumulativeSnapshot, r progress.CumulativeResult) bool {
	pairs := [][2]float64{
		{c.WeeklyPlan, r.WeeklyPlan},
		{c.WeeklyActual, r.WeeklyActual},
		{c.CumulativePlan, r.CumulativePlan},
		{c.CumulativeActual, r.CumulativeActual},
		{c.CumulativeDeviation, r.CumulativeDeviation},
	}
	return lo.EveryBy(pairs, func(p [2]float64) bool {
		return math.Abs(p[0]-p[1]) <= driftTolerance
	})
}
