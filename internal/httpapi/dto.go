package httpapi

import (
	"time"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
	"github.com/samber/lo"
)

const dateLayout = "2006-01-02"

type projectJSON struct {
	ID            string `json:"id"`
	ShortID       string `json:"shortId"`
	Name          string `json:"name"`
	Location      string `json:"location"`
	Contractor    string `json:"contractor"`
	ContractStart string `json:"contractStart"`
	ContractEnd   string `json:"contractEnd"`
	Year          int    `json:"year"`
	Status        string `json:"status"`
}

func toProjectJSON(p *domain.Project) projectJSON {
	return projectJSON{
		ID:            p.ID,
		ShortID:       p.ShortID,
		Name:          p.Name,
		Location:      p.Location,
		Contractor:    p.Contractor,
		ContractStart: p.ContractStart,
		ContractEnd:   p.ContractEnd,
		Year:          p.Year,
		Status:        string(p.Status),
	}
}

type weekJSON struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Week  int    `json:"week"`
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

type monthJSON struct {
	Year  int        `json:"year"`
	Month int        `json:"month"`
	Label string     `json:"label"`
	Weeks []weekJSON `json:"weeks"`
}

type calendarJSON struct {
	Start    string      `json:"start"`
	End      string      `json:"end"`
	Fallback bool        `json:"fallback"`
	Months   []monthJSON `json:"months"`
}

func toCalendarJSON(cal calendar.Calendar) calendarJSON {
	return calendarJSON{
		Start:    cal.Start.Format(dateLayout),
		End:      cal.End.Format(dateLayout),
		Fallback: cal.Fallback,
		Months: lo.Map(cal.Months, func(m calendar.MonthBucket, _ int) monthJSON {
			return monthJSON{
				Year:  m.Year,
				Month: int(m.Month),
				Label: m.Label(),
				Weeks: lo.Map(m.Weeks, func(w calendar.WeekBucket, _ int) weekJSON {
					return weekJSON{
						Year: w.Year, Month: w.Month, Week: w.Week,
						Start: w.Start.Format(dateLayout), End: w.End.Format(dateLayout),
						Label: w.Label(),
					}
				}),
			}
		}),
	}
}

type seriesPointJSON struct {
	Year                int     `json:"year"`
	Month               int     `json:"month"`
	Week                int     `json:"week"`
	Label               string  `json:"label"`
	WeeklyPlan          float64 `json:"weeklyPlan"`
	WeeklyActual        float64 `json:"weeklyActual"`
	CumulativePlan      float64 `json:"cumulativePlan"`
	CumulativeActual    float64 `json:"cumulativeActual"`
	CumulativeDeviation float64 `json:"cumulativeDeviation"`
}

func toSeriesJSON(points []progress.CumulativeResult) []seriesPointJSON {
	out := lo.Map(points, func(r progress.CumulativeResult, _ int) seriesPointJSON {
		return seriesPointJSON{
			Year: r.Year, Month: r.Month, Week: r.Week, Label: r.Label,
			WeeklyPlan: r.WeeklyPlan, WeeklyActual: r.WeeklyActual,
			CumulativePlan: r.CumulativePlan, CumulativeActual: r.CumulativeActual,
			CumulativeDeviation: r.CumulativeDeviation,
		}
	})
	if out == nil {
		out = []seriesPointJSON{}
	}
	return out
}

type itemJSON struct {
	ID           string  `json:"id"`
	ParentID     *string `json:"parentId"`
	Name         string  `json:"name"`
	Kind         string  `json:"kind"`
	Depth        int     `json:"depth"`
	Weight       float64 `json:"weight"`
	Planned      float64 `json:"planned"`
	Actual       float64 `json:"actual"`
	Deviation    float64 `json:"deviation"`
	Completion   float64 `json:"completion"`
	Contribution float64 `json:"contribution"`
}

func toItemsJSON(roots []*domain.WorkItem) []itemJSON {
	out := lo.Map(progress.ItemProgress(roots), func(s progress.ItemSummary, _ int) itemJSON {
		return itemJSON{
			ID: s.ID, ParentID: s.ParentID, Name: s.Name, Kind: string(s.Kind), Depth: s.Depth,
			Weight: s.Weight, Planned: s.Planned, Actual: s.Actual, Deviation: s.Deviation,
			Completion: s.Completion, Contribution: s.Contribution,
		}
	})
	if out == nil {
		out = []itemJSON{}
	}
	return out
}

type statusJSON struct {
	ProjectID        string     `json:"projectId"`
	ShortID          string     `json:"shortId"`
	Name             string     `json:"name"`
	AsOf             weekKey    `json:"asOf"`
	Label            string     `json:"label"`
	Started          bool       `json:"started"`
	CumulativePlan   float64    `json:"cumulativePlan"`
	CumulativeActual float64    `json:"cumulativeActual"`
	Deviation        float64    `json:"deviation"`
	FinalPlan        float64    `json:"finalPlan"`
	Level            string     `json:"level"`
	Fallback         bool       `json:"fallback"`
	LastReport       *time.Time `json:"lastReport,omitempty"`
}

type weekKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Week  int `json:"week"`
}

func toWeekKey(k domain.ScheduleKey) weekKey {
	return weekKey{Year: k.Year, Month: k.Month, Week: k.Week}
}

func toStatusJSON(v app.ProjectStatusView) statusJSON {
	return statusJSON{
		ProjectID:        v.ProjectID,
		ShortID:          v.ShortID,
		Name:             v.ProjectName,
		AsOf:             toWeekKey(v.Progress.AsOf),
		Label:            v.Progress.Label,
		Started:          v.Progress.Started,
		CumulativePlan:   v.Progress.CumulativePlan,
		CumulativeActual: v.Progress.CumulativeActual,
		Deviation:        v.Progress.Deviation,
		FinalPlan:        v.Progress.FinalPlan,
		Level:            string(v.Progress.Level),
		Fallback:         v.Fallback,
		LastReport:       v.LastReport,
	}
}

type entryJSON struct {
	ID               string   `json:"id"`
	WorkItemID       string   `json:"workItemId"`
	Year             int      `json:"year"`
	Month            int      `json:"month"`
	Week             int      `json:"week"`
	PlanPercentage   *float64 `json:"planPercentage"`
	ActualPercentage *float64 `json:"actualPercentage"`
}

func toEntryJSON(e *domain.ScheduleEntry) entryJSON {
	return entryJSON{
		ID: e.ID, WorkItemID: e.WorkItemID, Year: e.Year, Month: e.Month, Week: e.Week,
		PlanPercentage: e.PlanPercentage, ActualPercentage: e.ActualPercentage,
	}
}

type instructionJSON struct {
	SubActivityID    string   `json:"subActivityId"`
	Year             int      `json:"year"`
	Month            int      `json:"month"`
	Week             int      `json:"week"`
	Create           bool     `json:"create"`
	PlanPercentage   *float64 `json:"planPercentage"`
	ActualPercentage float64  `json:"actualPercentage"`
	Increment        float64  `json:"increment"`
}

func toInstructionJSON(u progress.UpsertInstruction) instructionJSON {
	return instructionJSON{
		SubActivityID: u.SubActivityID, Year: u.Year, Month: u.Month, Week: u.Week,
		Create: u.Create, PlanPercentage: u.PlanPercentage,
		ActualPercentage: u.ActualPercentage, Increment: u.Increment,
	}
}

type reportResponseJSON struct {
	ReportID    string            `json:"reportId"`
	Instruction instructionJSON   `json:"instruction"`
	Entry       entryJSON         `json:"entry"`
	Series      []seriesPointJSON `json:"series"`
}

// Request payloads.

type reportPayload struct {
	SubActivityID     string  `json:"subActivityId" validate:"required"`
	Date              string  `json:"date" validate:"required,datetime=2006-01-02"`
	ProgressIncrement float64 `json:"progressIncrement" validate:"gte=0,lte=100"`
	Note              string  `json:"note" validate:"lte=500"`
	ReportedBy        string  `json:"reportedBy" validate:"lte=120"`
}

type cellPayload struct {
	WorkItemID string   `json:"workItemId" validate:"required"`
	Year       int      `json:"year" validate:"omitempty,gte=1900,lte=2200"`
	Month      int      `json:"month" validate:"required,gte=1,lte=12"`
	Week       int      `json:"week" validate:"required,gte=1,lte=5"`
	Plan       *float64 `json:"plan" validate:"omitempty,gte=0,lte=100"`
	Actual     *float64 `json:"actual" validate:"omitempty,gte=0,lte=100"`
}
