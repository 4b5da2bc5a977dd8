package progress

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractCalendar(t *testing.T) calendar.Calendar {
	t.Helper()
	cal, ok := calendar.Partition(
		time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC),
	)
	require.True(t, ok)
	return cal
}

func report(sub string, date time.Time, inc float64) domain.DailyProgressReport {
	return domain.DailyProgressReport{SubActivityID: sub, Date: date, ProgressIncrement: inc}
}

func TestApplyDailyProgress_CreatesEntry(t *testing.T) {
	cal := contractCalendar(t)

	inst, err := ApplyDailyProgress(report("sub-a", time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), 30), nil, cal)
	require.NoError(t, err)

	assert.True(t, inst.Create)
	assert.Equal(t, "sub-a", inst.SubActivityID)
	assert.Equal(t, domain.ScheduleKey{Year: 2025, Month: 5, Week: 2}, inst.Key(), "31 May lies in the straddling May week")
	require.NotNil(t, inst.PlanPercentage)
	assert.InDelta(t, 0, *inst.PlanPercentage, 1e-9)
	assert.InDelta(t, 30, inst.ActualPercentage, 1e-9)
	assert.InDelta(t, 30, inst.Increment, 1e-9)
}

func TestApplyDailyProgress_UpdatesExistingAndCaps(t *testing.T) {
	cal := contractCalendar(t)
	existing := &domain.ScheduleEntry{
		WorkItemID: "sub-a", Year: 2025, Month: 6, Week: 1,
		PlanPercentage: domain.Float64Ptr(20), ActualPercentage: domain.Float64Ptr(80),
	}

	inst, err := ApplyDailyProgress(report("sub-a", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), 30), existing, cal)
	require.NoError(t, err)

	assert.False(t, inst.Create)
	assert.Nil(t, inst.PlanPercentage, "updates leave the plan alone")
	assert.InDelta(t, MaxPercentage, inst.ActualPercentage, 1e-9)
	assert.InDelta(t, 80, *existing.ActualPercentage, 1e-9, "existing entry is not mutated")

	e := inst.Entry(existing)
	assert.InDelta(t, 20, e.Plan(), 1e-9)
	assert.InDelta(t, 100, e.Actual(), 1e-9)
}

func TestApplyDailyProgress_NegativeIncrementPassesThrough(t *testing.T) {
	cal := contractCalendar(t)
	existing := &domain.ScheduleEntry{WorkItemID: "sub-a", Year: 2025, Month: 6, Week: 1, ActualPercentage: domain.Float64Ptr(50)}

	inst, err := ApplyDailyProgress(report("sub-a", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), -10), existing, cal)
	require.NoError(t, err)
	assert.InDelta(t, 40, inst.ActualPercentage, 1e-9)
}

func TestApplyDailyProgress_Rejects(t *testing.T) {
	cal := contractCalendar(t)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		report   domain.DailyProgressReport
		existing *domain.ScheduleEntry
		kind     ValidationKind
	}{
		{"missing sub-activity", report("", date, 5), nil, KindMissingSubActivity},
		{"missing date", report("sub-a", time.Time{}, 5), nil, KindInvalidDate},
		{"entry of another item", report("sub-a", date, 5),
			&domain.ScheduleEntry{WorkItemID: "sub-b", Year: 2025, Month: 6, Week: 1}, KindEntryKeyMismatch},
		{"entry of another week", report("sub-a", date, 5),
			&domain.ScheduleEntry{WorkItemID: "sub-a", Year: 2025, Month: 6, Week: 2}, KindEntryKeyMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyDailyProgress(tt.report, tt.existing, cal)
			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, ve.Kind)
		})
	}
}

func TestApplyDailyProgress_RejectsDatesOutsideContract(t *testing.T) {
	cal := contractCalendar(t)

	for _, date := range []time.Time{
		time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC),
	} {
		_, err := ApplyDailyProgress(report("sub-a", date, 5), nil, cal)
		ve, ok := AsValidationError(err)
		require.True(t, ok, "%s should be rejected", date.Format(time.DateOnly))
		assert.Equal(t, KindInvalidDate, ve.Kind)
		assert.Contains(t, ve.Message, "2025-05-22 to 2025-09-19")
	}
}

func TestApplyDailyProgress_ContractEdgesAreInside(t *testing.T) {
	cal := contractCalendar(t)

	first, err := ApplyDailyProgress(report("sub-a", time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC), 1), nil, cal)
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleKey{Year: 2025, Month: 5, Week: 1}, first.Key())

	last, err := ApplyDailyProgress(report("sub-a", time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC), 1), nil, cal)
	require.NoError(t, err)
	assert.Equal(t, cal.Weeks()[len(cal.Weeks())-1].Key(), last.Key())
}

func TestApplyDailyProgress_FallbackCalendarUsesNaturalWeeks(t *testing.T) {
	inst, err := ApplyDailyProgress(report("sub-a", time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC), 5), nil, calendar.DefaultSkeleton(2025))
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleKey{Year: 2026, Month: 1, Week: 1}, inst.Key())
}

// TestApplyDailyProgress_Invariants_AdditiveMerge property-tests that two
// increments on an absent entry land on min(i1+i2, 100) whichever order
// they are applied in.
func TestApplyDailyProgress_Invariants_AdditiveMerge(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	cal := contractCalendar(t)
	weeks := cal.Weeks()

	for trial := 0; trial < 300; trial++ {
		w := weeks[rng.Intn(len(weeks))]
		date := w.Start.AddDate(0, 0, rng.Intn(w.Days()))
		i1 := float64(rng.Intn(80))
		i2 := float64(rng.Intn(80))
		want := math.Min(i1+i2, 100)

		// Sequential: apply r1, persist, then apply r2 on the stored entry.
		first, err := ApplyDailyProgress(report("sub-a", date, i1), nil, cal)
		require.NoError(t, err)
		stored := first.Entry(nil)
		second, err := ApplyDailyProgress(report("sub-a", date, i2), &stored, cal)
		require.NoError(t, err)
		assert.InDelta(t, want, second.ActualPercentage, 1e-9, "trial %d sequential", trial)

		// Reverse order gives the same value.
		first, err = ApplyDailyProgress(report("sub-a", date, i2), nil, cal)
		require.NoError(t, err)
		stored = first.Entry(nil)
		second, err = ApplyDailyProgress(report("sub-a", date, i1), &stored, cal)
		require.NoError(t, err)
		assert.InDelta(t, want, second.ActualPercentage, 1e-9, "trial %d reversed", trial)

		// Merging two instructions computed against the same absent entry.
		a, err := ApplyDailyProgress(report("sub-a", date, i1), nil, cal)
		require.NoError(t, err)
		b, err := ApplyDailyProgress(report("sub-a", date, i2), nil, cal)
		require.NoError(t, err)
		ab, err := MergeInstructions(a, b)
		require.NoError(t, err)
		ba, err := MergeInstructions(b, a)
		require.NoError(t, err)
		assert.InDelta(t, want, ab.ActualPercentage, 1e-9, "trial %d merge", trial)
		assert.InDelta(t, ab.ActualPercentage, ba.ActualPercentage, 1e-9, "trial %d merge order", trial)
		assert.InDelta(t, i1+i2, ab.Increment, 1e-9)
		assert.True(t, ab.Create)
	}
}

func TestMergeInstructions_RejectsDifferentSlots(t *testing.T) {
	a := UpsertInstruction{SubActivityID: "sub-a", Year: 2025, Month: 6, Week: 1}
	b := UpsertInstruction{SubActivityID: "sub-a", Year: 2025, Month: 6, Week: 2}

	_, err := MergeInstructions(a, b)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, KindEntryKeyMismatch, ve.Kind)
}
