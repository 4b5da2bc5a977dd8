package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/irrigo/internal/db"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/alexanderramin/irrigo/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	db        *sql.DB
	projects  repository.ProjectRepo
	workItems repository.WorkItemRepo
	schedules repository.ScheduleRepo
	reports   repository.DailyReportRepo
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
}

func setupRepos(t *testing.T) testRepos {
	return reposOn(testutil.NewTestDB(t))
}

func reposOn(database *sql.DB) testRepos {
	return testRepos{
		db:        database,
		projects:  repository.NewSQLiteProjectRepo(database),
		workItems: repository.NewSQLiteWorkItemRepo(database),
		schedules: repository.NewSQLiteScheduleRepo(database),
		reports:   repository.NewSQLiteDailyReportRepo(database),
		snapshots: repository.NewSQLiteSnapshotRepo(database),
		uow:       testutil.NewTestUoW(database),
	}
}

func (r testRepos) scheduleService() ScheduleService {
	return NewScheduleService(r.projects, r.workItems, r.schedules, r.uow)
}

func (r testRepos) progressService() ProgressService {
	return NewProgressService(r.reports, r.uow)
}

func (r testRepos) statusService() StatusService {
	return NewStatusService(r.projects, r.workItems, r.schedules, r.reports, progress.DefaultThresholds())
}

func (r testRepos) snapshotService() SnapshotService {
	return NewSnapshotService(r.projects, r.uow)
}

// seededProject holds the canal scenario: one activity with two
// sub-activities on the 22 May - 19 Sep 2025 contract.
type seededProject struct {
	project    *domain.Project
	activity   *domain.WorkItem
	excavation *domain.WorkItem
	lining     *domain.WorkItem
}

func seedCanal(t *testing.T, r testRepos, opts ...testutil.ProjectOption) seededProject {
	t.Helper()
	ctx := context.Background()

	p := testutil.NewTestProject("Canal", opts...)
	require.NoError(t, r.projects.Create(ctx, p))
	act := testutil.NewTestActivity(p.ID, "Earthworks", testutil.WithWeight(100))
	require.NoError(t, r.workItems.Create(ctx, act))
	exc := testutil.NewTestSubActivity(p.ID, act.ID, "Excavation", testutil.WithWeight(60), testutil.WithOrderIndex(1))
	require.NoError(t, r.workItems.Create(ctx, exc))
	lin := testutil.NewTestSubActivity(p.ID, act.ID, "Lining", testutil.WithWeight(40), testutil.WithOrderIndex(2))
	require.NoError(t, r.workItems.Create(ctx, lin))

	return seededProject{project: p, activity: act, excavation: exc, lining: lin}
}

func seedEntry(t *testing.T, r testRepos, e *domain.ScheduleEntry) {
	t.Helper()
	_, err := r.schedules.UpsertCell(context.Background(), e)
	require.NoError(t, err)
}
