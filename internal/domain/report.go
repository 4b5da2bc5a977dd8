package domain

import "time"

// DailyProgressReport is one field report for a sub-activity on a calendar
// date. Its increment is merged additively into the owning week's actual
// percentage.
type DailyProgressReport struct {
	ID                string
	SubActivityID     string
	Date              time.Time
	ProgressIncrement float64
	Note              string
	ReportedBy        string
	CreatedAt         time.Time

	// Week is the owning week Date resolved to when the report was recorded.
	Week ScheduleKey
}
