package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/catalog_api/internal/middleware/auth"
	"github.com/Skotchmaster/catalog_api/internal/service"
	"github.com/Skotchmaster/catalog_api/internal/transport"
	"github.com/Skotchmaster/catalog_api/internal/util"
)

// fail logs err under op and converts it into the matching HTTP error.
func fail(l *slog.Logger, op string, err error) error {
	var (
		code   int
		reason string
	)
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		code, reason = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		code, reason = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		code, reason = http.StatusUnauthorized, service.ErrInvalidCredentials.Error()
	case errors.Is(err, service.ErrForbidden):
		code, reason = http.StatusForbidden, err.Error()
	default:
		l.Error(op+"_failed", "status", http.StatusInternalServerError, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Warn(op+"_failed", "status", code, "reason", reason, "error", err)
	return echo.NewHTTPError(code, reason)
}

// bind decodes the body into req and runs its validate tags.
func bind(c echo.Context, l *slog.Logger, op string, req any) error {
	if err := c.Bind(req); err != nil {
		l.Warn(op+"_failed", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := transport.Validate(req); errs != nil {
		l.Warn(op+"_failed", "status", http.StatusBadRequest, "reason", "validation failed", "error", errs)
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"message": "validation failed",
			"errors":  errs,
		})
	}
	return nil
}

func pathID(c echo.Context, l *slog.Logger, op string) (uint, error) {
	id, err := util.ParseID(c.Param("id"))
	if err != nil || id == 0 {
		l.Warn(op+"_failed", "status", http.StatusBadRequest, "reason", "id is not a positive integer", "error", err)
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}
	return id, nil
}

func callerFrom(c echo.Context) service.Caller {
	id, role, _ := authmw.UserFrom(c)
	return service.Caller{ID: id, Role: role}
}
