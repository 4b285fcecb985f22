package http

import (
	"errors"
	"net/http"

	"bagpub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps the errs taxonomy onto HTTP status codes. Anything unclassified is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		return c.JSON(code, Error{Code: code, Message: "Internal server error"})
	}
	return c.JSON(code, Error{Code: code, Message: err.Error()})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
