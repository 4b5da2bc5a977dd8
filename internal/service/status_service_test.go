package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusService_SortsWorstFirst(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	onTrack := seedCanal(t, r, testutil.WithShortID("ONT01"))
	seedEntry(t, r, testutil.NewTestEntry(onTrack.excavation.ID, 2025, 6, 1, 10, 8))

	critical := seedCanal(t, r, testutil.WithShortID("CRT01"))
	seedEntry(t, r, testutil.NewTestEntry(critical.excavation.ID, 2025, 6, 1, 30, 5))

	ahead := seedCanal(t, r, testutil.WithShortID("AHD01"))
	seedEntry(t, r, testutil.NewTestEntry(ahead.lining.ID, 2025, 5, 2, 5, 12))

	// planned after the status date, so it is not yet due
	future := seedCanal(t, r, testutil.WithShortID("FUT01"))
	seedEntry(t, r, testutil.NewTestEntry(future.lining.ID, 2025, 8, 1, 50, 0))

	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	resp, err := r.statusService().GetStatus(ctx, app.StatusRequest{Now: &now})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 4)

	order := make([]string, 0, len(resp.Projects))
	for _, v := range resp.Projects {
		order = append(order, v.ShortID)
	}
	assert.Equal(t, []string{"CRT01", "ONT01", "FUT01", "AHD01"}, order)

	crit := resp.Projects[0]
	assert.Equal(t, domain.LevelCritical, crit.Progress.Level)
	assert.Equal(t, domain.ScheduleKey{Year: 2025, Month: 6, Week: 1}, crit.Progress.AsOf)
	assert.Equal(t, 25.0, crit.Progress.Deviation)
	assert.False(t, crit.Fallback)

	fut := resp.Projects[2]
	assert.Equal(t, 0.0, fut.Progress.Deviation)
	assert.Equal(t, 50.0, fut.Progress.FinalPlan)

	assert.Equal(t, 4, resp.Summary.CountsTotal)
	assert.Equal(t, 1, resp.Summary.CountsCritical)
	assert.Equal(t, 2, resp.Summary.CountsOnTrack)
	assert.Equal(t, 1, resp.Summary.CountsAhead)
	assert.Empty(t, resp.Warnings)
}

func TestStatusService_ScopeArchivedAndFallback(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	kept := seedCanal(t, r, testutil.WithShortID("KEP01"), testutil.WithContract("n/a", "n/a"))
	archived := seedCanal(t, r, testutil.WithShortID("ARC01"))
	require.NoError(t, r.projects.Archive(ctx, archived.project.ID))
	seedCanal(t, r, testutil.WithShortID("OUT01"))

	resp, err := r.statusService().GetStatus(ctx, app.StatusRequest{ProjectScope: []string{"KEP01", archived.project.ID}})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 1, "archived projects are hidden unless asked for")
	assert.Equal(t, kept.project.ID, resp.Projects[0].ProjectID)
	assert.True(t, resp.Projects[0].Fallback)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "KEP01")

	resp, err = r.statusService().GetStatus(ctx, app.StatusRequest{ProjectScope: []string{"KEP01", "ARC01"}, IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, resp.Projects, 2)
}

func TestStatusService_LastReport(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	seeded := seedCanal(t, r)

	_, err := r.progressService().SubmitDailyReport(ctx, app.SubmitReportRequest{
		SubActivityID: seeded.lining.ID, Date: "2025-06-02", ProgressIncrement: 3,
	})
	require.NoError(t, err)

	resp, err := r.statusService().GetStatus(ctx, app.StatusRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 1)
	assert.NotNil(t, resp.Projects[0].LastReport)
}

func TestStatusService_AsOfOutsideContract(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	seeded := seedCanal(t, r, testutil.WithShortID("PRE01"))
	seedEntry(t, r, testutil.NewTestEntry(seeded.excavation.ID, 2025, 5, 1, 40, 0))

	before := time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)
	resp, err := r.statusService().GetStatus(ctx, app.StatusRequest{Now: &before})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 1)
	v := resp.Projects[0].Progress
	assert.False(t, v.Started, "nothing is due before the contract starts")
	assert.Equal(t, 0.0, v.Deviation)
	assert.Equal(t, domain.LevelOnSchedule, v.Level)

	after := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	resp, err = r.statusService().GetStatus(ctx, app.StatusRequest{Now: &after})
	require.NoError(t, err)
	v = resp.Projects[0].Progress
	assert.True(t, v.Started)
	assert.Equal(t, domain.ScheduleKey{Year: 2025, Month: 9, Week: 3}, v.AsOf, "last contract week")
	assert.Equal(t, domain.LevelCritical, v.Level)
}
