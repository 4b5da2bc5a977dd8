package app

import (
	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
)

// SeriesRequest selects a project's cumulative series. Year zero means the
// whole contract period.
type SeriesRequest struct {
	ProjectID string
	Year      int
}

type SeriesResponse struct {
	Project  *domain.Project
	Year     int
	Calendar calendar.Calendar
	// Buckets are the weeks the series was computed over.
	Buckets []calendar.WeekBucket
	Points  []progress.CumulativeResult
	Items   []*domain.WorkItem
}

// SetCellRequest is an explicit edit of one schedule cell. Nil percentages
// are left as stored.
type SetCellRequest struct {
	WorkItemID string
	Year       int
	Month      int
	Week       int
	Plan       *float64
	Actual     *float64
}
