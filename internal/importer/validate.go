package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	if len(schema.Activities) == 0 {
		errs = append(errs, fmt.Errorf("at least one activity is required"))
	}

	yearOf := cellYears(&schema.Project, time.Now().UTC())
	refs := make(map[string]bool)
	for i, a := range schema.Activities {
		prefix := fmt.Sprintf("activities[%d]", i)
		errs = append(errs, validateRef(prefix, a.Ref, refs)...)
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		errs = append(errs, validateWeight(prefix, a.Weight)...)

		for j, sa := range a.SubActivities {
			subPrefix := fmt.Sprintf("%s.sub_activities[%d]", prefix, j)
			errs = append(errs, validateRef(subPrefix, sa.Ref, refs)...)
			if sa.Name == "" {
				errs = append(errs, fmt.Errorf("%s.name is required", subPrefix))
			}
			errs = append(errs, validateWeight(subPrefix, sa.Weight)...)
			errs = append(errs, validateSchedule(subPrefix, sa.Schedule, yearOf)...)
		}
	}

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	} else {
		candidate := domain.Project{ShortID: strings.ToUpper(p.ShortID)}
		if err := candidate.ValidateShortID(); err != nil {
			errs = append(errs, fmt.Errorf("project.short_id: %w", err))
		}
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.Year < 0 {
		errs = append(errs, fmt.Errorf("project.year must not be negative"))
	}

	// Unusable contract dates are legal and select the default skeleton, but
	// a year is then needed to place it.
	_, okStart := calendar.ParseContractDate(p.ContractStart)
	_, okEnd := calendar.ParseContractDate(p.ContractEnd)
	if (!okStart || !okEnd) && p.Year == 0 {
		errs = append(errs, fmt.Errorf("project.year is required when contract dates are missing or unreadable"))
	}

	return errs
}

func validateRef(prefix, ref string, seen map[string]bool) []error {
	if ref == "" {
		return []error{fmt.Errorf("%s.ref is required", prefix)}
	}
	if seen[ref] {
		return []error{fmt.Errorf("%s.ref: duplicate ref %q", prefix, ref)}
	}
	seen[ref] = true
	return nil
}

func validateWeight(prefix string, w *float64) []error {
	if w != nil && (*w < 0 || *w > domain.MaxPercentage) {
		return []error{fmt.Errorf("%s.weight %.2f must be between 0 and 100", prefix, *w)}
	}
	return nil
}

func validateSchedule(prefix string, cells []ScheduleImport, yearOf func(ScheduleImport) int) []error {
	var errs []error
	seen := make(map[domain.ScheduleKey]bool)
	for i, c := range cells {
		cellPrefix := fmt.Sprintf("%s.schedule[%d]", prefix, i)
		if c.Month < 1 || c.Month > 12 {
			errs = append(errs, fmt.Errorf("%s.month %d must be between 1 and 12", cellPrefix, c.Month))
		}
		if c.Week < 1 || c.Week > domain.MaxWeekIndex {
			errs = append(errs, fmt.Errorf("%s.week %d must be between 1 and %d", cellPrefix, c.Week, domain.MaxWeekIndex))
		}
		for _, v := range []struct {
			name string
			val  *float64
		}{{"plan", c.Plan}, {"actual", c.Actual}} {
			if v.val != nil && (*v.val < 0 || *v.val > domain.MaxPercentage) {
				errs = append(errs, fmt.Errorf("%s.%s %.2f must be between 0 and 100", cellPrefix, v.name, *v.val))
			}
		}
		key := domain.ScheduleKey{Year: yearOf(c), Month: c.Month, Week: c.Week}
		if seen[key] {
			errs = append(errs, fmt.Errorf("%s: duplicate cell %s", cellPrefix, key))
		}
		seen[key] = true
	}
	return errs
}
