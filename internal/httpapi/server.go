// Package httpapi exposes projects, schedules and cumulative series over a
// JSON REST API for the dashboard.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/irrigo/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Services are the use cases the API serves.
type Services struct {
	Projects  service.ProjectService
	WorkItems service.WorkItemService
	Schedule  service.ScheduleService
	Progress  service.ProgressService
	Status    service.StatusService
}

// Server serves the JSON API over echo.
type Server struct {
	echo   *echo.Echo
	svc    Services
	logger *slog.Logger
}

// New builds a Server with routes, validation and error mapping registered.
// A nil logger falls back to slog.Default.
func New(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	s := &Server{echo: e, svc: svc, logger: logger}
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error.Error())
			}
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			s.logger.Log(c.Request().Context(), level, "http_request", attrs...)
			return nil
		},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.echo.Group("/api")
	api.GET("/projects", s.listProjects)
	api.GET("/projects/:id", s.getProject)
	api.GET("/projects/:id/calendar", s.getCalendar)
	api.GET("/projects/:id/items", s.listItems)
	api.GET("/projects/:id/series", s.getSeries)
	api.GET("/projects/:id/status", s.getStatus)
	api.GET("/projects/:id/export.xlsx", s.exportWorkbook)
	api.PUT("/schedule", s.setCell)
	api.POST("/reports", s.submitReport)
}

// ServeHTTP makes the server usable with httptest and any http.Server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
