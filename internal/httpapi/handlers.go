package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/export"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

func (s *Server) listProjects(c echo.Context) error {
	includeArchived, _ := strconv.ParseBool(c.QueryParam("archived"))
	projects, err := s.svc.Projects.List(c.Request().Context(), includeArchived)
	if err != nil {
		return err
	}
	out := lo.Map(projects, func(p *domain.Project, _ int) projectJSON { return toProjectJSON(p) })
	if out == nil {
		out = []projectJSON{}
	}
	return c.JSON(http.StatusOK, out)
}

// project resolves the :id path parameter, which may be a UUID or a short ID.
func (s *Server) project(c echo.Context) (*domain.Project, error) {
	return s.svc.Projects.Resolve(c.Request().Context(), c.Param("id"))
}

func (s *Server) getProject(c echo.Context) error {
	p, err := s.project(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectJSON(p))
}

func (s *Server) getCalendar(c echo.Context) error {
	p, err := s.project(c)
	if err != nil {
		return err
	}
	cal, err := s.svc.Projects.Calendar(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCalendarJSON(cal))
}

func (s *Server) listItems(c echo.Context) error {
	p, err := s.project(c)
	if err != nil {
		return err
	}
	roots, err := s.svc.WorkItems.Tree(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemsJSON(roots))
}

func yearParam(c echo.Context) (int, error) {
	raw := c.QueryParam("year")
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 2200 {
		return 0, app.NewRequestError(app.ErrInvalidInput, fmt.Sprintf("year %q is not a valid year", raw))
	}
	return year, nil
}

func (s *Server) series(c echo.Context) (*app.SeriesResponse, error) {
	year, err := yearParam(c)
	if err != nil {
		return nil, err
	}
	return s.svc.Schedule.Series(c.Request().Context(), app.SeriesRequest{ProjectID: c.Param("id"), Year: year})
}

func (s *Server) getSeries(c echo.Context) error {
	resp, err := s.series(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSeriesJSON(resp.Points))
}

func (s *Server) getStatus(c echo.Context) error {
	p, err := s.project(c)
	if err != nil {
		return err
	}
	resp, err := s.svc.Status.GetStatus(c.Request().Context(), app.StatusRequest{
		ProjectScope:    []string{p.ID},
		IncludeArchived: true,
	})
	if err != nil {
		return err
	}
	if len(resp.Projects) == 0 {
		return fmt.Errorf("status for project %s: %w", p.DisplayID(), repository.ErrNotFound)
	}
	return c.JSON(http.StatusOK, toStatusJSON(resp.Projects[0]))
}

func (s *Server) exportWorkbook(c echo.Context) error {
	resp, err := s.series(c)
	if err != nil {
		return err
	}
	// render fully before writing so a failure can still become a 500
	var buf bytes.Buffer
	if err := export.Write(&buf, resp); err != nil {
		return err
	}
	name := resp.Project.DisplayID() + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}

func (s *Server) setCell(c echo.Context) error {
	var req cellPayload
	if err := c.Bind(&req); err != nil {
		return app.NewRequestError(app.ErrInvalidInput, "malformed JSON body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	entry, err := s.svc.Schedule.SetCell(c.Request().Context(), app.SetCellRequest{
		WorkItemID: req.WorkItemID,
		Year:       req.Year,
		Month:      req.Month,
		Week:       req.Week,
		Plan:       req.Plan,
		Actual:     req.Actual,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryJSON(entry))
}

func (s *Server) submitReport(c echo.Context) error {
	var req reportPayload
	if err := c.Bind(&req); err != nil {
		return app.NewRequestError(app.ErrInvalidInput, "malformed JSON body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	resp, err := s.svc.Progress.SubmitDailyReport(c.Request().Context(), app.SubmitReportRequest{
		SubActivityID:     req.SubActivityID,
		Date:              req.Date,
		ProgressIncrement: req.ProgressIncrement,
		Note:              req.Note,
		ReportedBy:        req.ReportedBy,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reportResponseJSON{
		ReportID:    resp.Report.ID,
		Instruction: toInstructionJSON(resp.Instruction),
		Entry:       toEntryJSON(resp.Entry),
		Series:      toSeriesJSON(resp.Series),
	})
}
