package app

import (
	"time"

	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
)

type StatusRequest struct {
	Now             *time.Time
	ProjectScope    []string
	IncludeArchived bool
}

type ProjectStatusView struct {
	ProjectID   string
	ShortID     string
	ProjectName string
	Status      domain.ProjectStatus
	Progress    progress.Status
	// Fallback is set when the contract dates were unusable and the default
	// skeleton calendar was used.
	Fallback   bool
	LastReport *time.Time
}

type StatusSummary struct {
	GeneratedAt    time.Time
	CountsTotal    int
	CountsAhead    int
	CountsOnTrack  int
	CountsBehind   int
	CountsCritical int
}

type StatusResponse struct {
	Summary  StatusSummary
	Projects []ProjectStatusView
	Warnings []string
}

// SnapshotDrift is one week where the cached series disagrees with a fresh
// computation.
type SnapshotDrift struct {
	Key    domain.ScheduleKey
	Cached *domain.CumulativeSnapshot
	Fresh  *progress.CumulativeResult
}

type VerifyResult struct {
	ProjectID string
	Weeks     int
	Drift     []SnapshotDrift
}
