package calendar

import "time"

// ReferenceYear is the year undated values of a project belong to: the
// explicit project year, else the year the contract starts in, else the
// year of now.
func ReferenceYear(projectYear int, contractStart string, now time.Time) int {
	if projectYear > 0 {
		return projectYear
	}
	if start, ok := ParseContractDate(contractStart); ok {
		return start.Year()
	}
	return now.Year()
}

// CellYear picks the year of a schedule cell given without one. A real
// contract calendar decides by the month; fallback is used otherwise.
func CellYear(cal Calendar, month, fallback int) int {
	if !cal.Fallback {
		if year, ok := cal.YearOfMonth(month); ok {
			return year
		}
	}
	return fallback
}
