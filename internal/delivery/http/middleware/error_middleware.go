package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"taskapp/config"
	deliverycontext "taskapp/internal/delivery/context"
	"taskapp/internal/delivery/http/response"
	domainerrors "taskapp/internal/domain/errors"
	"taskapp/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger, cfg *config.Config) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
		debug:  cfg != nil && cfg.Env.Debug,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Try to parse as AppError
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			m.log(c).Error("Request failed", slog.String("code", appErr.ErrorCode()), slog.String("error", err.Error()))
		}
		m.write(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), m.details(appErr))

		return
	}

	// Check if it's Echo's HTTPError (routing, body limit, recover)
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := fmt.Sprint(httpErr.Message)
		m.write(c, httpErr.Code, "HTTP_ERROR", message, message)

		return
	}

	// Default to internal error, log error and return generic error
	m.log(c).Error("Unhandled error",
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	details := ""
	if m.debug {
		details = err.Error()
	}
	m.write(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", details)
}

// details hides driver-level information of server-side failures outside debug mode.
func (m *ErrorMiddleware) details(appErr domainerrors.AppError) string {
	if appErr.HTTPCode() >= http.StatusInternalServerError && !m.debug {
		return ""
	}

	return appErr.Details()
}

func (m *ErrorMiddleware) write(c echo.Context, status int, code, message, details string) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = response.Error(c, status, code, message, details)
	}
	if err != nil {
		m.log(c).Error("Failed to write error response", slog.String("error", err.Error()))
	}
}

func (m *ErrorMiddleware) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
}
