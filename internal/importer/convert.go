package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/google/uuid"
)

// GeneratedProject is the domain form of an import file, ready to persist.
// Items are ordered parents first.
type GeneratedProject struct {
	Project *domain.Project
	Items   []*domain.WorkItem
	Entries []domain.ScheduleEntry
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) *GeneratedProject {
	now := time.Now().UTC()

	project := &domain.Project{
		ID:            uuid.New().String(),
		ShortID:       strings.ToUpper(schema.Project.ShortID),
		Name:          schema.Project.Name,
		Location:      schema.Project.Location,
		Contractor:    schema.Project.Contractor,
		ContractStart: strings.TrimSpace(schema.Project.ContractStart),
		ContractEnd:   strings.TrimSpace(schema.Project.ContractEnd),
		Year:          calendar.ReferenceYear(schema.Project.Year, schema.Project.ContractStart, now),
		Status:        domain.ProjectActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	yearOf := cellYears(&schema.Project, now)
	gen := &GeneratedProject{Project: project}
	for _, a := range schema.Activities {
		activity := &domain.WorkItem{
			ID:         uuid.New().String(),
			ProjectID:  project.ID,
			Name:       a.Name,
			Kind:       domain.KindActivity,
			OrderIndex: a.Order,
			Weight:     domain.Float64FromPtrWithDefault(0, a.Weight),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		gen.Items = append(gen.Items, activity)

		for _, sa := range a.SubActivities {
			parentID := activity.ID
			sub := &domain.WorkItem{
				ID:         uuid.New().String(),
				ProjectID:  project.ID,
				ParentID:   &parentID,
				Name:       sa.Name,
				Kind:       domain.KindSubActivity,
				OrderIndex: sa.Order,
				Weight:     domain.Float64FromPtrWithDefault(0, sa.Weight),
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			gen.Items = append(gen.Items, sub)

			for _, c := range sa.Schedule {
				gen.Entries = append(gen.Entries, domain.ScheduleEntry{
					ID:               uuid.New().String(),
					WorkItemID:       sub.ID,
					Year:             yearOf(c),
					Month:            c.Month,
					Week:             c.Week,
					PlanPercentage:   c.Plan,
					ActualPercentage: c.Actual,
					CreatedAt:        now,
					UpdatedAt:        now,
				})
			}
		}
	}
	return gen
}

// cellYears places cells by their own year, else by the year in which the
// contract holds their month, else by the project's reference year.
func cellYears(p *ProjectImport, now time.Time) func(c ScheduleImport) int {
	ref := calendar.ReferenceYear(p.Year, p.ContractStart, now)
	cal := calendar.FromContract(p.ContractStart, p.ContractEnd, ref)
	return func(c ScheduleImport) int {
		if c.Year != 0 {
			return c.Year
		}
		return calendar.CellYear(cal, c.Month, ref)
	}
}
