package progress

import "github.com/alexanderramin/irrigo/internal/domain"

// Thresholds are the deviation limits, in percentage points of plan over
// actual, above which a project is behind or critical.
type Thresholds struct {
	Behind   float64
	Critical float64
}

// DefaultThresholds returns the 5 / 15 point limits.
func DefaultThresholds() Thresholds {
	return Thresholds{Behind: 5, Critical: 15}
}

// Status is the cumulative position of a project at one week.
type Status struct {
	AsOf             domain.ScheduleKey
	Label            string
	CumulativePlan   float64
	CumulativeActual float64
	Deviation        float64
	Level            domain.ProgressLevel
	// FinalPlan is the cumulative plan at the last week of the series.
	FinalPlan float64
	// Started is false when asOf precedes every week of the series.
	Started bool
}

// ComputeStatus reads the series at the last week not after asOf.
func ComputeStatus(series []CumulativeResult, asOf domain.ScheduleKey, th Thresholds) Status {
	st := Status{AsOf: asOf, Level: domain.LevelOnSchedule}
	for _, r := range series {
		if asOf.Less(r.Key()) {
			break
		}
		st.AsOf = r.Key()
		st.Label = r.Label
		st.CumulativePlan = r.CumulativePlan
		st.CumulativeActual = r.CumulativeActual
		st.Deviation = r.CumulativeDeviation
		st.Started = true
	}
	if n := len(series); n > 0 {
		st.FinalPlan = series[n-1].CumulativePlan
	}
	st.Level = ClassifyDeviation(st.Deviation, th)
	return st
}

// ClassifyDeviation maps plan minus actual to a progress level.
func ClassifyDeviation(deviation float64, th Thresholds) domain.ProgressLevel {
	switch {
	case deviation < 0:
		return domain.LevelAhead
	case deviation <= th.Behind:
		return domain.LevelOnSchedule
	case deviation <= th.Critical:
		return domain.LevelBehind
	default:
		return domain.LevelCritical
	}
}
