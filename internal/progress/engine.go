// Package progress turns weekly schedule entries into cumulative plan and
// actual curves and merges daily field reports into weekly entries.
//
// Every function here is pure: inputs are never mutated and repeated calls
// with the same arguments return the same result.
package progress

import (
	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/domain"
)

// CumulativeResult is one point of the cumulative S-curve.
type CumulativeResult struct {
	Year                int
	Month               int
	Week                int
	Label               string
	WeeklyPlan          float64
	WeeklyActual        float64
	CumulativePlan      float64
	CumulativeActual    float64
	CumulativeDeviation float64
}

// Key returns the schedule slot the point was computed for.
func (r CumulativeResult) Key() domain.ScheduleKey {
	return domain.ScheduleKey{Year: r.Year, Month: r.Month, Week: r.Week}
}

// WeeklyTotal is the sum of every entry scheduled in one bucket.
type WeeklyTotal struct {
	Key    domain.ScheduleKey
	Label  string
	Plan   float64
	Actual float64
}

// WeeklyTotals sums plan and actual percentages of all entries in the
// hierarchy, at any depth, per bucket. Buckets with Year 0 take year. Output
// order and length follow buckets exactly.
func WeeklyTotals(items []*domain.WorkItem, buckets []calendar.WeekBucket, year int) ([]WeeklyTotal, error) {
	sums, err := sumEntries(items, year)
	if err != nil {
		return nil, err
	}

	totals := make([]WeeklyTotal, 0, len(buckets))
	for i, b := range buckets {
		if b.Year == 0 {
			b.Year = year
		}
		if err := validateKey(b.Key(), "buckets", i); err != nil {
			return nil, err
		}
		s := sums[b.Key()]
		totals = append(totals, WeeklyTotal{Key: b.Key(), Label: b.Label(), Plan: s.plan, Actual: s.actual})
	}
	return totals, nil
}

// ComputeCumulativeSeries walks buckets chronologically and emits one result
// per bucket with running plan and actual totals. Weeks without entries
// carry the previous cumulative values forward.
func ComputeCumulativeSeries(items []*domain.WorkItem, buckets []calendar.WeekBucket, year int) ([]CumulativeResult, error) {
	totals, err := WeeklyTotals(items, buckets, year)
	if err != nil {
		return nil, err
	}

	results := make([]CumulativeResult, 0, len(totals))
	var cumPlan, cumActual float64
	for _, t := range totals {
		cumPlan += t.Plan
		cumActual += t.Actual
		results = append(results, CumulativeResult{
			Year:                t.Key.Year,
			Month:               t.Key.Month,
			Week:                t.Key.Week,
			Label:               t.Label,
			WeeklyPlan:          t.Plan,
			WeeklyActual:        t.Actual,
			CumulativePlan:      cumPlan,
			CumulativeActual:    cumActual,
			CumulativeDeviation: cumPlan - cumActual,
		})
	}
	return results, nil
}

type weekSum struct {
	plan   float64
	actual float64
}

func sumEntries(items []*domain.WorkItem, year int) (map[domain.ScheduleKey]weekSum, error) {
	sums := make(map[domain.ScheduleKey]weekSum)
	var walkErr error
	for _, root := range items {
		if root == nil {
			continue
		}
		root.Walk(func(item *domain.WorkItem) {
			if walkErr != nil {
				return
			}
			for i, e := range item.Schedules {
				key := e.Key()
				if key.Year == 0 {
					key.Year = year
				}
				if err := validateKey(key, "schedules["+item.ID+"]", i); err != nil {
					walkErr = err
					return
				}
				s := sums[key]
				s.plan += e.Plan()
				s.actual += e.Actual()
				sums[key] = s
			}
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}
	return sums, nil
}

func validateKey(key domain.ScheduleKey, field string, idx int) error {
	if key.Month < 1 || key.Month > 12 {
		return invalid(KindInvalidMonth, field, "index %d: month %d outside 1..12", idx, key.Month)
	}
	if key.Week < 1 || key.Week > domain.MaxWeekIndex {
		return invalid(KindInvalidWeekIndex, field, "index %d: week %d outside 1..%d", idx, key.Week, domain.MaxWeekIndex)
	}
	return nil
}
