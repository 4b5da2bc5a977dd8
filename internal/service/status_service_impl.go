package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/samber/lo"
)

type statusService struct {
	projects   repository.ProjectRepo
	workItems  repository.WorkItemRepo
	schedules  repository.ScheduleRepo
	reports    repository.DailyReportRepo
	thresholds progress.Thresholds
}

func NewStatusService(
	projects repository.ProjectRepo,
	workItems repository.WorkItemRepo,
	schedules repository.ScheduleRepo,
	reports repository.DailyReportRepo,
	thresholds progress.Thresholds,
) StatusService {
	return &statusService{
		projects:   projects,
		workItems:  workItems,
		schedules:  schedules,
		reports:    reports,
		thresholds: thresholds,
	}
}

func (s *statusService) GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusResponse, error) {
	now := time.Now().UTC()
	if req.Now != nil {
		now = *req.Now
	}

	projects, err := s.projects.List(ctx, req.IncludeArchived)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	projects = filterProjectsByScope(projects, req.ProjectScope)

	views, warnings, err := s.buildProjectViews(ctx, projects, now)
	if err != nil {
		return nil, err
	}

	sortStatusViews(views)

	return &app.StatusResponse{
		Summary:  buildStatusSummary(views, now),
		Projects: views,
		Warnings: warnings,
	}, nil
}

func (s *statusService) buildProjectViews(ctx context.Context, projects []*domain.Project, now time.Time) ([]app.ProjectStatusView, []string, error) {
	var views []app.ProjectStatusView
	var warnings []string
	for _, p := range projects {
		roots, err := loadTree(ctx, s.workItems, s.schedules, p.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("project %s: %w", p.DisplayID(), err)
		}
		cal := projectCalendar(p, now)
		series, err := progress.ComputeCumulativeSeries(roots, cal.Weeks(), referenceYear(p, now))
		if err != nil {
			return nil, nil, fmt.Errorf("project %s: computing series: %w", p.DisplayID(), err)
		}
		if cal.Fallback {
			warnings = append(warnings, fmt.Sprintf("%s: contract dates unusable, showing the default calendar", p.DisplayID()))
		}

		view := app.ProjectStatusView{
			ProjectID:   p.ID,
			ShortID:     p.ShortID,
			ProjectName: p.Name,
			Status:      p.Status,
			Progress:    progress.ComputeStatus(series, cal.AsOf(now), s.thresholds),
			Fallback:    cal.Fallback,
		}

		latest, err := s.reports.ListByProject(ctx, p.ID, 1)
		if err != nil {
			return nil, nil, fmt.Errorf("project %s: loading reports: %w", p.DisplayID(), err)
		}
		if len(latest) > 0 {
			created := latest[0].CreatedAt
			view.LastReport = &created
		}
		views = append(views, view)
	}
	return views, warnings, nil
}

// filterProjectsByScope returns only projects whose ID or short ID is in
// scope. If scope is empty, all projects are returned unchanged.
func filterProjectsByScope(projects []*domain.Project, scope []string) []*domain.Project {
	if len(scope) == 0 {
		return projects
	}
	return lo.Filter(projects, func(p *domain.Project, _ int) bool {
		return lo.Contains(scope, p.ID) || lo.Contains(scope, p.ShortID)
	})
}

var levelPriority = map[domain.ProgressLevel]int{
	domain.LevelCritical:   0,
	domain.LevelBehind:     1,
	domain.LevelOnSchedule: 2,
	domain.LevelAhead:      3,
}

// sortStatusViews orders worst first: by level, then by deviation, then by
// short ID.
func sortStatusViews(views []app.ProjectStatusView) {
	sort.SliceStable(views, func(i, j int) bool {
		pi, pj := levelPriority[views[i].Progress.Level], levelPriority[views[j].Progress.Level]
		if pi != pj {
			return pi < pj
		}
		if views[i].Progress.Deviation != views[j].Progress.Deviation {
			return views[i].Progress.Deviation > views[j].Progress.Deviation
		}
		return views[i].ShortID < views[j].ShortID
	})
}

func buildStatusSummary(views []app.ProjectStatusView, now time.Time) app.StatusSummary {
	counts := lo.CountValuesBy(views, func(v app.ProjectStatusView) domain.ProgressLevel {
		return v.Progress.Level
	})
	return app.StatusSummary{
		GeneratedAt:    now,
		CountsTotal:    len(views),
		CountsAhead:    counts[domain.LevelAhead],
		CountsOnTrack:  counts[domain.LevelOnSchedule],
		CountsBehind:   counts[domain.LevelBehind],
		CountsCritical: counts[domain.LevelCritical],
	}
}
