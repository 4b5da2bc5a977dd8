package httpapi

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleError maps service errors to responses: request errors are 400,
// missing records 404, key conflicts 409. Anything else is logged and hidden
// behind a generic 500.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := s.classify(err, c)
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.logger.Error("writing error response", "error", err)
	}
}

func (s *Server) classify(err error, c echo.Context) (int, errorBody) {
	if re, ok := app.AsRequestError(err); ok {
		return http.StatusBadRequest, errorBody{errorDetail{Code: string(re.Code), Message: re.Message}}
	}
	if errors.Is(err, repository.ErrNotFound) {
		return http.StatusNotFound, errorBody{errorDetail{Code: "NOT_FOUND", Message: err.Error()}}
	}
	if errors.Is(err, repository.ErrConflict) {
		return http.StatusConflict, errorBody{errorDetail{Code: "CONFLICT", Message: err.Error()}}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		code := "INVALID_INPUT"
		if he.Code == http.StatusNotFound {
			code = "NOT_FOUND"
		}
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		return he.Code, errorBody{errorDetail{Code: code, Message: msg}}
	}

	s.logger.ErrorContext(c.Request().Context(), "request failed",
		"method", c.Request().Method, "path", c.Path(), "error", err)
	return http.StatusInternalServerError, errorBody{errorDetail{Code: "INTERNAL", Message: "failed to process request"}}
}
