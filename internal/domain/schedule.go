package domain

import (
	"fmt"
	"time"
)

// MaxWeekIndex bounds the per-month week number. A month holds at most five
// Thursdays, so no owned week can be numbered higher.
const MaxWeekIndex = 5

// MaxPercentage caps the actual percentage a single entry can accumulate.
const MaxPercentage = 100.0

// ScheduleKey identifies a schedule slot by calendar year, month (1-12) and
// week within month (1-5).
type ScheduleKey struct {
	Year  int
	Month int
	Week  int
}

// Less orders keys chronologically.
func (k ScheduleKey) Less(o ScheduleKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Month != o.Month {
		return k.Month < o.Month
	}
	return k.Week < o.Week
}

func (k ScheduleKey) String() string {
	return fmt.Sprintf("%04d-%02d/W%d", k.Year, k.Month, k.Week)
}

// ScheduleEntry holds the planned and actual completion percentages of one
// work item for one week. Nil percentages count as zero.
type ScheduleEntry struct {
	ID               string
	WorkItemID       string
	Year             int
	Month            int
	Week             int
	PlanPercentage   *float64
	ActualPercentage *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Key returns the slot this entry occupies.
func (e ScheduleEntry) Key() ScheduleKey {
	return ScheduleKey{Year: e.Year, Month: e.Month, Week: e.Week}
}

// Plan returns the planned percentage, treating nil as zero.
func (e ScheduleEntry) Plan() float64 {
	return Float64FromPtrWithDefault(0, e.PlanPercentage)
}

// Actual returns the actual percentage, treating nil as zero.
func (e ScheduleEntry) Actual() float64 {
	return Float64FromPtrWithDefault(0, e.ActualPercentage)
}
