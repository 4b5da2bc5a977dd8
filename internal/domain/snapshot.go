package domain

import "time"

// CumulativeSnapshot is a cached point of a project's cumulative series.
// Snapshots are refreshed from schedule entries and never read back as
// input to a computation.
type CumulativeSnapshot struct {
	ProjectID           string
	Year                int
	Month               int
	Week                int
	Label               string
	WeeklyPlan          float64
	WeeklyActual        float64
	CumulativePlan      float64
	CumulativeActual    float64
	CumulativeDeviation float64
	ComputedAt          time.Time
}

// Key returns the slot the snapshot describes.
func (s CumulativeSnapshot) Key() ScheduleKey {
	return ScheduleKey{Year: s.Year, Month: s.Month, Week: s.Week}
}
