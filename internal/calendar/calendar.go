// Package calendar partitions contract periods into month-owned weeks.
//
// Weeks start on Monday and belong to the month that contains their
// Thursday, so a week straddling two months is counted exactly once. Week
// numbers restart at 1 in every month; storage keys rely on the
// (year, month, week) triple, never on a running week-of-year counter.
package calendar

import (
	"fmt"
	"time"

	"github.com/alexanderramin/irrigo/internal/domain"
)

// WeekBucket is one owned week with its inclusive, already clipped day range.
type WeekBucket struct {
	Year  int
	Month int
	Week  int
	Start time.Time
	End   time.Time
}

// Key returns the storage key of the bucket.
func (b WeekBucket) Key() domain.ScheduleKey {
	return domain.ScheduleKey{Year: b.Year, Month: b.Month, Week: b.Week}
}

// Contains reports whether date falls inside the bucket's day range.
func (b WeekBucket) Contains(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(b.Start) && !d.After(b.End)
}

// Days returns the number of days covered by the bucket.
func (b WeekBucket) Days() int {
	return int(b.End.Sub(b.Start).Hours()/24) + 1
}

// Label renders the day range, e.g. "22-25 May" or "26 May - 1 Jun".
func (b WeekBucket) Label() string {
	switch {
	case b.Start.Equal(b.End):
		return fmt.Sprintf("%d %s", b.Start.Day(), b.Start.Format("Jan"))
	case b.Start.Month() == b.End.Month():
		return fmt.Sprintf("%d-%d %s", b.Start.Day(), b.End.Day(), b.End.Format("Jan"))
	default:
		return fmt.Sprintf("%d %s - %d %s", b.Start.Day(), b.Start.Format("Jan"), b.End.Day(), b.End.Format("Jan"))
	}
}

// MonthBucket groups the weeks owned by one calendar month.
type MonthBucket struct {
	Year  int
	Month time.Month
	Weeks []WeekBucket
}

// Label renders the month as "May 2025".
func (m MonthBucket) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String()[:3], m.Year)
}

// Calendar is the ordered month/week structure of a contract period.
// Fallback is set when the calendar is the placeholder skeleton rather than a
// real contract.
type Calendar struct {
	Months   []MonthBucket
	Start    time.Time
	End      time.Time
	Fallback bool
}

// Weeks returns every week bucket in chronological order.
func (c Calendar) Weeks() []WeekBucket {
	var weeks []WeekBucket
	for _, m := range c.Months {
		weeks = append(weeks, m.Weeks...)
	}
	return weeks
}

// WeeksInYear returns the week buckets owned by months of the given year.
func (c Calendar) WeeksInYear(year int) []WeekBucket {
	var weeks []WeekBucket
	for _, m := range c.Months {
		if m.Year == year {
			weeks = append(weeks, m.Weeks...)
		}
	}
	return weeks
}

// Years returns the distinct years covered by the calendar, ascending.
func (c Calendar) Years() []int {
	var years []int
	for _, m := range c.Months {
		if len(years) == 0 || years[len(years)-1] != m.Year {
			years = append(years, m.Year)
		}
	}
	return years
}

// Locate returns the key of the bucket containing date.
func (c Calendar) Locate(date time.Time) (domain.ScheduleKey, bool) {
	for _, m := range c.Months {
		for _, w := range m.Weeks {
			if w.Contains(date) {
				return w.Key(), true
			}
		}
	}
	return domain.ScheduleKey{}, false
}

// Partition splits [start, end] into Monday-start weeks grouped by the month
// owning each week's Thursday. The first and last weeks are clipped to the
// contract dates. It returns false when start is not before end.
func Partition(start, end time.Time) (Calendar, bool) {
	start, end = dateOnly(start), dateOnly(end)
	if !start.Before(end) {
		return Calendar{}, false
	}

	cal := Calendar{Start: start, End: end}
	for monday := mondayOf(start); !monday.After(end); monday = monday.AddDate(0, 0, 7) {
		thursday := monday.AddDate(0, 0, 3)
		sunday := monday.AddDate(0, 0, 6)

		n := len(cal.Months)
		if n == 0 || cal.Months[n-1].Year != thursday.Year() || cal.Months[n-1].Month != thursday.Month() {
			cal.Months = append(cal.Months, MonthBucket{Year: thursday.Year(), Month: thursday.Month()})
			n++
		}
		month := &cal.Months[n-1]
		month.Weeks = append(month.Weeks, WeekBucket{
			Year:  thursday.Year(),
			Month: int(thursday.Month()),
			Week:  len(month.Weeks) + 1,
			Start: maxDate(monday, start),
			End:   minDate(sunday, end),
		})
	}
	return cal, true
}

// FromContract parses the raw contract dates and partitions them. Unparseable
// dates or an inverted range yield the default skeleton for fallbackYear.
func FromContract(startRaw, endRaw string, fallbackYear int) Calendar {
	start, okStart := ParseContractDate(startRaw)
	end, okEnd := ParseContractDate(endRaw)
	if okStart && okEnd {
		if cal, ok := Partition(start, end); ok {
			return cal
		}
	}
	return DefaultSkeleton(fallbackYear)
}

// MonthWeeks returns the natural, unclipped weeks owned by one month.
func MonthWeeks(year int, month time.Month) []WeekBucket {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var weeks []WeekBucket
	for monday := mondayOf(first); !monday.After(last); monday = monday.AddDate(0, 0, 7) {
		thursday := monday.AddDate(0, 0, 3)
		if thursday.Year() != year || thursday.Month() != month {
			continue
		}
		weeks = append(weeks, WeekBucket{
			Year:  year,
			Month: int(month),
			Week:  len(weeks) + 1,
			Start: monday,
			End:   monday.AddDate(0, 0, 6),
		})
	}
	return weeks
}

// ForYear builds the calendar of a whole target year from natural month
// weeks. The first and last weeks may spill into the neighbouring years.
func ForYear(year int) Calendar {
	cal := Calendar{}
	for m := time.January; m <= time.December; m++ {
		cal.Months = append(cal.Months, MonthBucket{Year: year, Month: m, Weeks: MonthWeeks(year, m)})
	}
	weeks := cal.Weeks()
	cal.Start = weeks[0].Start
	cal.End = weeks[len(weeks)-1].End
	return cal
}

// DefaultSkeleton is the placeholder used when no usable contract dates
// exist: January to March of year, four fixed weeks per month.
func DefaultSkeleton(year int) Calendar {
	cal := Calendar{Fallback: true}
	for m := time.January; m <= time.March; m++ {
		first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		month := MonthBucket{Year: year, Month: m}
		for i, startDay := range []int{1, 8, 15, 22} {
			end := first.AddDate(0, 0, startDay+5)
			if i == 3 {
				end = last
			}
			month.Weeks = append(month.Weeks, WeekBucket{
				Year:  year,
				Month: int(m),
				Week:  i + 1,
				Start: first.AddDate(0, 0, startDay-1),
				End:   end,
			})
		}
		cal.Months = append(cal.Months, month)
	}
	cal.Start = cal.Months[0].Weeks[0].Start
	cal.End = cal.Months[2].Weeks[3].End
	return cal
}

// Resolve returns the owning week of a report date. A contract calendar owns
// only the days between its start and end, so ok is false outside them. The
// fallback skeleton owns January to March of its year; other dates take the
// natural week numbering of the month owning them.
func Resolve(cal Calendar, date time.Time) (key domain.ScheduleKey, ok bool) {
	if key, ok := cal.Locate(date); ok {
		return key, true
	}
	if !cal.Fallback {
		return domain.ScheduleKey{}, false
	}
	d := dateOnly(date)
	thursday := mondayOf(d).AddDate(0, 0, 3)
	for _, w := range MonthWeeks(thursday.Year(), thursday.Month()) {
		if w.Contains(d) {
			return w.Key(), true
		}
	}
	// unreachable: every date lies in the week whose Thursday owns it
	return domain.ScheduleKey{Year: thursday.Year(), Month: int(thursday.Month()), Week: 1}, true
}

// AsOf returns the key of the week current on date: the bucket holding it,
// the last bucket once the calendar has ended, or the zero key, which sorts
// before every bucket, when the calendar has not started yet.
func (c Calendar) AsOf(date time.Time) domain.ScheduleKey {
	if key, ok := c.Locate(date); ok {
		return key
	}
	weeks := c.Weeks()
	if len(weeks) == 0 || dateOnly(date).Before(weeks[0].Start) {
		return domain.ScheduleKey{}
	}
	return weeks[len(weeks)-1].Key()
}

// YearOfMonth returns the year in which the calendar holds month. A contract
// running December to March holds January in its second year.
func (c Calendar) YearOfMonth(month int) (int, bool) {
	for _, m := range c.Months {
		if int(m.Month) == month {
			return m.Year, true
		}
	}
	return 0, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return dateOnly(t).AddDate(0, 0, -offset)
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
