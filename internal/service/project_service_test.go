package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create_ValidShortID(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(r.projects)

	proj := &domain.Project{
		Name:          "Left bank canal",
		ShortID:       "irg01",
		ContractStart: "22/05/2025",
		ContractEnd:   "19/09/2025",
	}
	require.NoError(t, svc.Create(ctx, proj))
	assert.NotEmpty(t, proj.ID, "UUID should be generated")
	assert.Equal(t, "IRG01", proj.ShortID)
	assert.Equal(t, domain.ProjectActive, proj.Status, "status should default to active")
	assert.Equal(t, 2025, proj.Year, "year defaults to the contract start year")

	fetched, err := svc.Resolve(ctx, "IRG01")
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
	assert.Equal(t, "22/05/2025", fetched.ContractStart)

	fetched, err = svc.Resolve(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Left bank canal", fetched.Name)
}

func TestProjectService_Create_YearWithoutContract(t *testing.T) {
	r := setupRepos(t)
	svc := NewProjectService(r.projects)

	proj := &domain.Project{Name: "Pilot weir", ShortID: "WEIR01", ContractStart: "soon"}
	require.NoError(t, svc.Create(context.Background(), proj))
	assert.Equal(t, time.Now().UTC().Year(), proj.Year, "unreadable dates fall back to the current year")
}

func TestProjectService_Create_InvalidInput(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(r.projects)

	tests := []struct {
		name    string
		project domain.Project
	}{
		{"empty short id", domain.Project{Name: "Weir"}},
		{"no digits", domain.Project{Name: "Weir", ShortID: "WEIR"}},
		{"special chars", domain.Project{Name: "Weir", ShortID: "WE!01"}},
		{"no name", domain.Project{ShortID: "WEI01"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.project
			err := svc.Create(ctx, &p)
			re, ok := app.AsRequestError(err)
			require.True(t, ok, "expected a request error, got %v", err)
			assert.Equal(t, app.ErrInvalidInput, re.Code)
		})
	}
}

func TestProjectService_Delete_RequiresArchive(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(r.projects)
	seeded := seedCanal(t, r)

	err := svc.Delete(ctx, seeded.project.ID, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archived before deletion")

	require.NoError(t, svc.Archive(ctx, seeded.project.ID))
	require.NoError(t, svc.Delete(ctx, seeded.project.ID, false))

	_, err = svc.GetByID(ctx, seeded.project.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	items, err := r.workItems.ListByProject(ctx, seeded.project.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "work items cascade with the project")
}

func TestProjectService_Delete_Force(t *testing.T) {
	r := setupRepos(t)
	svc := NewProjectService(r.projects)
	seeded := seedCanal(t, r)

	require.NoError(t, svc.Delete(context.Background(), seeded.project.ID, true))
}

func TestProjectService_Calendar(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(r.projects)

	seeded := seedCanal(t, r)
	cal, err := svc.Calendar(ctx, seeded.project.ID)
	require.NoError(t, err)
	assert.False(t, cal.Fallback)
	require.Len(t, cal.Months, 5)
	assert.Len(t, cal.Weeks(), 18)

	broken := &domain.Project{Name: "Drain", ShortID: "DRN01", ContractStart: "soon", Year: 2024}
	require.NoError(t, svc.Create(ctx, broken))
	cal, err = svc.Calendar(ctx, broken.ID)
	require.NoError(t, err)
	assert.True(t, cal.Fallback)
	assert.Equal(t, 2024, cal.Start.Year())
	assert.Len(t, cal.Weeks(), 12)
}
