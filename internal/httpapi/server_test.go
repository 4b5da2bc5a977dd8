package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/alexanderramin/irrigo/internal/service"
	"github.com/alexanderramin/irrigo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixture struct {
	srv        *Server
	project    *domain.Project
	excavation *domain.WorkItem
	lining     *domain.WorkItem
}

func setupServer(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	projects := repository.NewSQLiteProjectRepo(database)
	workItems := repository.NewSQLiteWorkItemRepo(database)
	schedules := repository.NewSQLiteScheduleRepo(database)
	reports := repository.NewSQLiteDailyReportRepo(database)

	p := testutil.NewTestProject("Canal", testutil.WithShortID("CNL01"))
	require.NoError(t, projects.Create(ctx, p))
	act := testutil.NewTestActivity(p.ID, "Earthworks", testutil.WithWeight(100))
	require.NoError(t, workItems.Create(ctx, act))
	exc := testutil.NewTestSubActivity(p.ID, act.ID, "Excavation", testutil.WithWeight(60), testutil.WithOrderIndex(1))
	require.NoError(t, workItems.Create(ctx, exc))
	lin := testutil.NewTestSubActivity(p.ID, act.ID, "Lining", testutil.WithWeight(40), testutil.WithOrderIndex(2))
	require.NoError(t, workItems.Create(ctx, lin))

	srv := New(Services{
		Projects:  service.NewProjectService(projects),
		WorkItems: service.NewWorkItemService(workItems, schedules, projects),
		Schedule:  service.NewScheduleService(projects, workItems, schedules, uow),
		Progress:  service.NewProgressService(reports, uow),
		Status:    service.NewStatusService(projects, workItems, schedules, reports, progress.DefaultThresholds()),
	}, nil)
	return fixture{srv: srv, project: p, excavation: exc, lining: lin}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestListProjects(t *testing.T) {
	f := setupServer(t)

	rec := do(t, f.srv, http.MethodGet, "/api/projects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]projectJSON](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "CNL01", got[0].ShortID)
	assert.Equal(t, "22/05/2025", got[0].ContractStart)
}

func TestGetProject_ByShortIDAndMissing(t *testing.T) {
	f := setupServer(t)

	rec := do(t, f.srv, http.MethodGet, "/api/projects/cnl01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, f.project.ID, decode[projectJSON](t, rec).ID)

	rec = do(t, f.srv, http.MethodGet, "/api/projects/NOPE99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode[errorBody](t, rec).Error.Code)
}

func TestGetCalendar(t *testing.T) {
	f := setupServer(t)

	rec := do(t, f.srv, http.MethodGet, "/api/projects/CNL01/calendar", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cal := decode[calendarJSON](t, rec)
	assert.Equal(t, "2025-05-22", cal.Start)
	assert.False(t, cal.Fallback)
	require.Len(t, cal.Months, 5)
	assert.Equal(t, "2025-05-25", cal.Months[0].Weeks[0].End)
}

func TestSetCellThenSeries(t *testing.T) {
	f := setupServer(t)

	body := `{"workItemId":"` + f.excavation.ID + `","year":2025,"month":6,"week":1,"plan":50}`
	rec := do(t, f.srv, http.MethodPut, "/api/schedule", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entry := decode[entryJSON](t, rec)
	require.NotNil(t, entry.PlanPercentage)
	assert.Equal(t, 50.0, *entry.PlanPercentage)

	rec = do(t, f.srv, http.MethodGet, "/api/projects/CNL01/series", "")
	require.Equal(t, http.StatusOK, rec.Code)
	points := decode[[]seriesPointJSON](t, rec)
	require.Len(t, points, 18)
	// June week 1 is the third contract week.
	assert.Equal(t, 6, points[2].Month)
	assert.Equal(t, 1, points[2].Week)
	assert.InDelta(t, 50.0, points[2].WeeklyPlan, 1e-9)
	assert.InDelta(t, 50.0, points[17].CumulativePlan, 1e-9)
}

func TestSetCell_InvalidWeek(t *testing.T) {
	f := setupServer(t)

	body := `{"workItemId":"` + f.excavation.ID + `","month":6,"week":6,"plan":10}`
	rec := do(t, f.srv, http.MethodPut, "/api/schedule", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode[errorBody](t, rec)
	assert.Equal(t, "INVALID_WEEK_INDEX", got.Error.Code)
	assert.Contains(t, got.Error.Message, "week")
}

func TestSetCell_MalformedBody(t *testing.T) {
	f := setupServer(t)

	rec := do(t, f.srv, http.MethodPut, "/api/schedule", `{"workItemId":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decode[errorBody](t, rec).Error.Code)
}

func TestSubmitReport(t *testing.T) {
	f := setupServer(t)

	body := `{"subActivityId":"` + f.lining.ID + `","date":"2025-06-03","progressIncrement":12.5,"note":"east bank"}`
	rec := do(t, f.srv, http.MethodPost, "/api/reports", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode[reportResponseJSON](t, rec)
	assert.NotEmpty(t, got.ReportID)
	assert.True(t, got.Instruction.Create)
	assert.Equal(t, 6, got.Instruction.Month)
	assert.Equal(t, 1, got.Instruction.Week)
	require.NotNil(t, got.Entry.ActualPercentage)
	assert.Equal(t, 12.5, *got.Entry.ActualPercentage)
	require.Len(t, got.Series, 18)
	assert.InDelta(t, 12.5, got.Series[17].CumulativeActual, 1e-9)
}

func TestSubmitReport_Validation(t *testing.T) {
	f := setupServer(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing sub-activity", `{"date":"2025-06-03","progressIncrement":1}`, "MISSING_SUB_ACTIVITY"},
		{"bad date", `{"subActivityId":"` + f.lining.ID + `","date":"03/06/2025","progressIncrement":1}`, "INVALID_DATE"},
		{"increment over 100", `{"subActivityId":"` + f.lining.ID + `","date":"2025-06-03","progressIncrement":101}`, "INVALID_INPUT"},
		{"activity not sub-activity", `{"subActivityId":"` + *f.excavation.ParentID + `","date":"2025-06-03","progressIncrement":1}`, "NOT_SUB_ACTIVITY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, f.srv, http.MethodPost, "/api/reports", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[errorBody](t, rec).Error.Code)
		})
	}
}

func TestGetStatusAndItems(t *testing.T) {
	f := setupServer(t)

	rec := do(t, f.srv, http.MethodGet, "/api/projects/CNL01/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[statusJSON](t, rec)
	assert.Equal(t, "CNL01", st.ShortID)

	rec = do(t, f.srv, http.MethodGet, "/api/projects/CNL01/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]itemJSON](t, rec)
	require.Len(t, items, 3)
	assert.Equal(t, "Earthworks", items[0].Name)
	assert.Equal(t, 1, items[1].Depth)
}

func TestGetSeries_InvalidYear(t *testing.T) {
	f := setupServer(t)

	rec := do(t, f.srv, http.MethodGet, "/api/projects/CNL01/series?year=abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decode[errorBody](t, rec).Error.Code)
}

func TestExportWorkbook(t *testing.T) {
	f := setupServer(t)

	rec := do(t, f.srv, http.MethodGet, "/api/projects/CNL01/export.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "CNL01.xlsx")

	wb, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer wb.Close()
	assert.Contains(t, wb.GetSheetList(), "Cumulative")
}

type failingProjects struct {
	service.ProjectService
}

func (failingProjects) List(context.Context, bool) ([]*domain.Project, error) {
	return nil, errors.New("disk I/O error at /var/lib/irrigo.db")
}

func TestInternalErrorsAreHidden(t *testing.T) {
	srv := New(Services{Projects: failingProjects{}}, nil)

	rec := do(t, srv, http.MethodGet, "/api/projects", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decode[errorBody](t, rec)
	assert.Equal(t, "INTERNAL", got.Error.Code)
	assert.NotContains(t, rec.Body.String(), "/var/lib")
}

func TestUnknownRoute(t *testing.T) {
	f := setupServer(t)

	rec := do(t, f.srv, http.MethodGet, "/api/nothing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode[errorBody](t, rec).Error.Code)
}
