package calendar

import (
	"strings"
	"time"
)

// contractLayouts are tried in order: dd/MM/yyyy, dd-MM-yyyy, yyyy-MM-dd,
// MM/dd/yyyy. Single-digit days and months are accepted.
var contractLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2006-1-2",
	"1/2/2006",
}

// ParseContractDate reads a free-text contract date. A failed parse is a
// normal outcome reported through ok, never an error.
func ParseContractDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// ISO timestamps ("2025-05-22T00:00:00Z") carry the date in front.
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10]
	}
	for _, layout := range contractLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	return time.Time{}, false
}

// ParseReportDate parses the ISO-8601 calendar date carried by daily reports.
func ParseReportDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}
