package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

// WithContract sets the raw contract dates exactly as a user would type them.
func WithContract(start, end string) ProjectOption {
	return func(p *domain.Project) {
		p.ContractStart = start
		p.ContractEnd = end
	}
}

func WithProjectYear(year int) ProjectOption {
	return func(p *domain.Project) {
		p.Year = year
	}
}

func WithLocation(location string) ProjectOption {
	return func(p *domain.Project) {
		p.Location = location
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

// NewTestProject returns an active project on the 2025-05-22..2025-09-19
// contract unless options say otherwise.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:            uuid.New().String(),
		ShortID:       defaultShortID(name),
		Name:          name,
		Location:      "Test district",
		Contractor:    "Test contractor",
		ContractStart: "22/05/2025",
		ContractEnd:   "19/09/2025",
		Year:          2025,
		Status:        domain.ProjectActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WorkItem options
type WorkItemOption func(*domain.WorkItem)

func WithWeight(w float64) WorkItemOption {
	return func(item *domain.WorkItem) {
		item.Weight = w
	}
}

func WithOrderIndex(i int) WorkItemOption {
	return func(item *domain.WorkItem) {
		item.OrderIndex = i
	}
}

func NewTestActivity(projectID, name string, opts ...WorkItemOption) *domain.WorkItem {
	return newTestWorkItem(projectID, nil, name, domain.KindActivity, opts)
}

func NewTestSubActivity(projectID, parentID, name string, opts ...WorkItemOption) *domain.WorkItem {
	return newTestWorkItem(projectID, &parentID, name, domain.KindSubActivity, opts)
}

func newTestWorkItem(projectID string, parentID *string, name string, kind domain.WorkItemKind, opts []WorkItemOption) *domain.WorkItem {
	now := time.Now().UTC().Truncate(time.Second)
	w := &domain.WorkItem{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		ParentID:  parentID,
		Name:      name,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewTestEntry returns a schedule entry for workItemID at (year, month, week).
func NewTestEntry(workItemID string, year, month, week int, plan, actual float64) *domain.ScheduleEntry {
	return &domain.ScheduleEntry{
		WorkItemID:       workItemID,
		Year:             year,
		Month:            month,
		Week:             week,
		PlanPercentage:   domain.Float64Ptr(plan),
		ActualPercentage: domain.Float64Ptr(actual),
	}
}

// Report options
type ReportOption func(*domain.DailyProgressReport)

func WithNote(note string) ReportOption {
	return func(r *domain.DailyProgressReport) {
		r.Note = note
	}
}

func WithReporter(name string) ReportOption {
	return func(r *domain.DailyProgressReport) {
		r.ReportedBy = name
	}
}

func NewTestReport(subActivityID string, date time.Time, increment float64, opts ...ReportOption) *domain.DailyProgressReport {
	r := &domain.DailyProgressReport{
		ID:                uuid.New().String(),
		SubActivityID:     subActivityID,
		Date:              date,
		ProgressIncrement: increment,
		CreatedAt:         time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Date returns midnight UTC of the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
