package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotService_RefreshThenVerifyIsClean(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := r.snapshotService()

	first := seedCanal(t, r)
	seedEntry(t, r, testutil.NewTestEntry(first.excavation.ID, 2025, 6, 1, 10, 4))
	seedCanal(t, r)

	n, err := svc.RefreshAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	res, err := svc.Verify(ctx, first.project.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, res.Weeks)
	assert.Empty(t, res.Drift)
}

func TestSnapshotService_VerifyReportsDrift(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := r.snapshotService()
	seeded := seedCanal(t, r)

	weeks, err := svc.Refresh(ctx, seeded.project.ShortID)
	require.NoError(t, err)
	assert.Equal(t, 18, weeks)

	// a write that bypasses the services leaves the cache stale
	seedEntry(t, r, testutil.NewTestEntry(seeded.lining.ID, 2025, 9, 2, 6, 0))

	res, err := svc.Verify(ctx, seeded.project.ID)
	require.NoError(t, err)
	require.NotEmpty(t, res.Drift)
	first := res.Drift[0]
	assert.Equal(t, domain.ScheduleKey{Year: 2025, Month: 9, Week: 2}, first.Key)
	require.NotNil(t, first.Cached)
	require.NotNil(t, first.Fresh)
	assert.Equal(t, 0.0, first.Cached.CumulativePlan)
	assert.Equal(t, 6.0, first.Fresh.CumulativePlan)
}

func TestSnapshotService_VerifyEmptyCache(t *testing.T) {
	r := setupRepos(t)
	seeded := seedCanal(t, r)

	res, err := r.snapshotService().Verify(context.Background(), seeded.project.ID)
	require.NoError(t, err)
	assert.Len(t, res.Drift, 18, "every week is missing from the cache")
	assert.Nil(t, res.Drift[0].Cached)
}
