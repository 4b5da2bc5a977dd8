package progress

import (
	"math"
	"time"

	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/domain"
)

// MaxPercentage caps the actual percentage of a single schedule entry.
const MaxPercentage = domain.MaxPercentage

// UpsertInstruction tells storage how to create or update the entry a daily
// report lands in. ActualPercentage is the capped value computed against the
// entry as read; Increment is the raw amount storage adds atomically.
type UpsertInstruction struct {
	SubActivityID    string
	Year             int
	Month            int
	Week             int
	Create           bool
	PlanPercentage   *float64
	ActualPercentage float64
	Increment        float64
}

// Key returns the slot the instruction targets.
func (u UpsertInstruction) Key() domain.ScheduleKey {
	return domain.ScheduleKey{Year: u.Year, Month: u.Month, Week: u.Week}
}

// Entry returns the schedule entry that results from applying u to existing.
func (u UpsertInstruction) Entry(existing *domain.ScheduleEntry) domain.ScheduleEntry {
	var out domain.ScheduleEntry
	if existing != nil {
		out = *existing
	} else {
		out = domain.ScheduleEntry{
			WorkItemID:     u.SubActivityID,
			Year:           u.Year,
			Month:          u.Month,
			Week:           u.Week,
			PlanPercentage: u.PlanPercentage,
		}
	}
	out.ActualPercentage = domain.Float64Ptr(u.ActualPercentage)
	return out
}

// ApplyDailyProgress resolves the week that owns report.Date within cal and
// adds the increment to the existing entry's actual percentage, capped at
// MaxPercentage. A nil existing entry yields a create instruction with a
// zero plan. Negative increments pass through unchanged.
func ApplyDailyProgress(report domain.DailyProgressReport, existing *domain.ScheduleEntry, cal calendar.Calendar) (UpsertInstruction, error) {
	if report.SubActivityID == "" {
		return UpsertInstruction{}, invalid(KindMissingSubActivity, "sub_activity_id", "report has no sub-activity")
	}
	if report.Date.IsZero() {
		return UpsertInstruction{}, invalid(KindInvalidDate, "date", "report has no date")
	}

	key, ok := calendar.Resolve(cal, report.Date)
	if !ok {
		return UpsertInstruction{}, invalid(KindInvalidDate, "date", "%s is outside the contract period %s to %s",
			report.Date.Format(time.DateOnly), cal.Start.Format(time.DateOnly), cal.End.Format(time.DateOnly))
	}
	if existing != nil {
		if existing.WorkItemID != "" && existing.WorkItemID != report.SubActivityID {
			return UpsertInstruction{}, invalid(KindEntryKeyMismatch, "sub_activity_id",
				"entry belongs to %s, report targets %s", existing.WorkItemID, report.SubActivityID)
		}
		if existing.Key() != key {
			return UpsertInstruction{}, invalid(KindEntryKeyMismatch, "date",
				"entry is keyed %s, report date resolves to %s", existing.Key(), key)
		}
	}

	prior := 0.0
	if existing != nil {
		prior = existing.Actual()
	}

	inst := UpsertInstruction{
		SubActivityID:    report.SubActivityID,
		Year:             key.Year,
		Month:            key.Month,
		Week:             key.Week,
		Create:           existing == nil,
		ActualPercentage: capped(prior + report.ProgressIncrement),
		Increment:        report.ProgressIncrement,
	}
	if inst.Create {
		inst.PlanPercentage = domain.Float64Ptr(0)
	}
	return inst, nil
}

// MergeInstructions layers b's increment on top of a's result. Both must
// target the same sub-activity and slot. For non-negative increments the
// result does not depend on argument order.
func MergeInstructions(a, b UpsertInstruction) (UpsertInstruction, error) {
	if a.SubActivityID != b.SubActivityID || a.Key() != b.Key() {
		return UpsertInstruction{}, invalid(KindEntryKeyMismatch, "",
			"cannot merge %s@%s with %s@%s", a.SubActivityID, a.Key(), b.SubActivityID, b.Key())
	}
	merged := a
	merged.Create = a.Create || b.Create
	if merged.PlanPercentage == nil {
		merged.PlanPercentage = b.PlanPercentage
	}
	merged.Increment = a.Increment + b.Increment
	merged.ActualPercentage = capped(a.ActualPercentage + b.Increment)
	return merged, nil
}

func capped(v float64) float64 {
	return math.Min(v, MaxPercentage)
}
