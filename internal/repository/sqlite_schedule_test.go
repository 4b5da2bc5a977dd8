package repository

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedSubActivity creates a project with one activity and one sub-activity
// and returns the sub-activity.
func seedSubActivity(t *testing.T, db *sql.DB) (*domain.Project, *domain.WorkItem) {
	t.Helper()
	ctx := context.Background()
	proj := testutil.NewTestProject("Canal")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	items := NewSQLiteWorkItemRepo(db)
	act := testutil.NewTestActivity(proj.ID, "Earthworks")
	require.NoError(t, items.Create(ctx, act))
	sub := testutil.NewTestSubActivity(proj.ID, act.ID, "Excavation", testutil.WithWeight(50))
	require.NoError(t, items.Create(ctx, sub))
	return proj, sub
}

func TestScheduleRepo_UpsertCell_WritesOnlyGivenFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, sub := seedSubActivity(t, db)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	created, err := repo.UpsertCell(ctx, testutil.NewTestEntry(sub.ID, 2025, 6, 1, 10, 4))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.InDelta(t, 10, created.Plan(), 1e-9)
	assert.InDelta(t, 4, created.Actual(), 1e-9)

	updated, err := repo.UpsertCell(ctx, &domain.ScheduleEntry{
		WorkItemID: sub.ID, Year: 2025, Month: 6, Week: 1,
		PlanPercentage: domain.Float64Ptr(12),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "upsert keeps the existing row")
	assert.InDelta(t, 12, updated.Plan(), 1e-9)
	assert.InDelta(t, 4, updated.Actual(), 1e-9, "actual untouched when not given")
}

func TestScheduleRepo_UpsertCell_NilPercentagesStayNull(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, sub := seedSubActivity(t, db)
	repo := NewSQLiteScheduleRepo(db)

	e, err := repo.UpsertCell(context.Background(), &domain.ScheduleEntry{
		WorkItemID: sub.ID, Year: 2025, Month: 6, Week: 2, PlanPercentage: domain.Float64Ptr(3),
	})
	require.NoError(t, err)
	assert.Nil(t, e.ActualPercentage)
}

func TestScheduleRepo_UpsertCell_RejectsWeekSix(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, sub := seedSubActivity(t, db)

	_, err := NewSQLiteScheduleRepo(db).UpsertCell(context.Background(), testutil.NewTestEntry(sub.ID, 2025, 6, 6, 1, 0))
	assert.Error(t, err)
}

func TestScheduleRepo_ApplyIncrement(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, sub := seedSubActivity(t, db)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()
	key := domain.ScheduleKey{Year: 2025, Month: 5, Week: 2}

	e, err := repo.ApplyIncrement(ctx, sub.ID, key, 30)
	require.NoError(t, err)
	require.NotNil(t, e.PlanPercentage)
	assert.InDelta(t, 0, *e.PlanPercentage, 1e-9, "created entries get a zero plan")
	assert.InDelta(t, 30, e.Actual(), 1e-9)

	e, err = repo.ApplyIncrement(ctx, sub.ID, key, 45)
	require.NoError(t, err)
	assert.InDelta(t, 75, e.Actual(), 1e-9)

	e, err = repo.ApplyIncrement(ctx, sub.ID, key, 40)
	require.NoError(t, err)
	assert.InDelta(t, 100, e.Actual(), 1e-9, "actual is capped")
}

func TestScheduleRepo_ApplyIncrement_KeepsPlan(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, sub := seedSubActivity(t, db)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	_, err := repo.UpsertCell(ctx, &domain.ScheduleEntry{
		WorkItemID: sub.ID, Year: 2025, Month: 6, Week: 1, PlanPercentage: domain.Float64Ptr(8),
	})
	require.NoError(t, err)

	e, err := repo.ApplyIncrement(ctx, sub.ID, domain.ScheduleKey{Year: 2025, Month: 6, Week: 1}, 5)
	require.NoError(t, err)
	assert.InDelta(t, 8, e.Plan(), 1e-9)
	assert.InDelta(t, 5, e.Actual(), 1e-9, "a NULL actual counts as zero")
}

func TestScheduleRepo_ApplyIncrement_ConcurrentReportsAreNotLost(t *testing.T) {
	db := testutil.NewFileTestDB(t)
	_, sub := seedSubActivity(t, db)
	repo := NewSQLiteScheduleRepo(db)
	key := domain.ScheduleKey{Year: 2025, Month: 6, Week: 3}

	const workers = 15
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ApplyIncrement(context.Background(), sub.ID, key, 5); err != nil {
				t.Errorf("apply increment: %v", err)
			}
		}()
	}
	wg.Wait()

	e, err := repo.GetByKey(context.Background(), sub.ID, key)
	require.NoError(t, err)
	assert.InDelta(t, 75, e.Actual(), 1e-9, "every increment must land exactly once")

	entries, err := repo.ListByWorkItem(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "concurrent creates collapse onto one row")
}

func TestScheduleRepo_ListByProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj, sub := seedSubActivity(t, db)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()

	for _, e := range []*domain.ScheduleEntry{
		testutil.NewTestEntry(sub.ID, 2025, 7, 1, 3, 0),
		testutil.NewTestEntry(sub.ID, 2025, 5, 2, 1, 1),
		testutil.NewTestEntry(sub.ID, 2025, 5, 1, 2, 2),
	} {
		_, err := repo.UpsertCell(ctx, e)
		require.NoError(t, err)
	}

	other, otherSub := seedSubActivity(t, db)
	_, err := repo.UpsertCell(ctx, testutil.NewTestEntry(otherSub.ID, 2025, 5, 1, 9, 9))
	require.NoError(t, err)
	require.NotEqual(t, proj.ID, other.ID)

	entries, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.ScheduleKey{Year: 2025, Month: 5, Week: 1}, entries[0].Key())
	assert.Equal(t, domain.ScheduleKey{Year: 2025, Month: 7, Week: 1}, entries[2].Key())
}

func TestScheduleRepo_GetByKeyAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, sub := seedSubActivity(t, db)
	repo := NewSQLiteScheduleRepo(db)
	ctx := context.Background()
	key := domain.ScheduleKey{Year: 2025, Month: 6, Week: 1}

	_, err := repo.GetByKey(ctx, sub.ID, key)
	assert.ErrorIs(t, err, ErrNotFound)

	e, err := repo.UpsertCell(ctx, testutil.NewTestEntry(sub.ID, 2025, 6, 1, 1, 1))
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, e.ID))

	_, err = repo.GetByKey(ctx, sub.ID, key)
	assert.ErrorIs(t, err, ErrNotFound)
}
