package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskapp/config"
	domainerrors "taskapp/internal/domain/errors"
	"taskapp/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func serveError(t *testing.T, handlerErr error, debug bool, method string) (*httptest.ResponseRecorder, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cfg := &config.Config{}
	cfg.Env.Debug = debug

	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(logger, cfg).HandleHTTPError
	e.Add(method, "/fail", func(c echo.Context) error {
		return handlerErr
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, "/fail", nil))

	return rec, &buf
}

func TestErrorMiddleware_AppError(t *testing.T) {
	rec, logs := serveError(t, domainerrors.ErrTaskNotFound, false, http.MethodGet)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, http.StatusNotFound, body.Code)
	assert.Equal(t, "Task not found", body.Message)
	assert.Equal(t, "TASK_NOT_FOUND", body.Error.Code)
	assert.Empty(t, logs.String(), "client errors are not logged")
}

func TestErrorMiddleware_WrappedAppError(t *testing.T) {
	err := errors.Wrap(domainerrors.ErrUserAlreadyExists.WithDetails("users_email_key"), "insert user")
	rec, _ := serveError(t, err, false, http.MethodPost)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "USER_ALREADY_EXISTS", body.Error.Code)
	assert.Equal(t, "Email already in use", body.Message)
	assert.Equal(t, "users_email_key", body.Error.Details)
}

func TestErrorMiddleware_ServerErrorDetails(t *testing.T) {
	dbErr := domainerrors.NewDatabaseExecuteError(errors.New("connection reset"), "select tasks")

	t.Run("hidden outside debug", func(t *testing.T) {
		rec, logs := serveError(t, dbErr, false, http.MethodGet)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.Equal(t, "DATABASE_EXECUTE_FAILED", body.Error.Code)
		assert.Empty(t, body.Error.Details)
		assert.Contains(t, logs.String(), "connection reset")
	})

	t.Run("shown in debug", func(t *testing.T) {
		rec, _ := serveError(t, dbErr, true, http.MethodGet)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, "select tasks", body.Error.Details)
	})
}

func TestErrorMiddleware_EchoHTTPError(t *testing.T) {
	rec, _ := serveError(t, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"), false, http.MethodPost)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "HTTP_ERROR", body.Error.Code)
	assert.Equal(t, "Request Entity Too Large", body.Message)
}

func TestErrorMiddleware_UnknownError(t *testing.T) {
	t.Run("generic message", func(t *testing.T) {
		rec, logs := serveError(t, errors.New("nil pointer somewhere"), false, http.MethodGet)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.Equal(t, "Internal server error", body.Message)
		assert.Empty(t, body.Error.Details)
		assert.Contains(t, logs.String(), "Unhandled error")
	})

	t.Run("details in debug", func(t *testing.T) {
		rec, _ := serveError(t, errors.New("nil pointer somewhere"), true, http.MethodGet)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, "nil pointer somewhere", body.Error.Details)
	})
}

func TestErrorMiddleware_HeadRequestHasNoBody(t *testing.T) {
	rec, _ := serveError(t, domainerrors.ErrTaskNotFound, false, http.MethodHead)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestErrorMiddleware_UnmatchedRoute(t *testing.T) {
	logger := newDiscardLogger()
	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(logger, &config.Config{}).HandleHTTPError

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "HTTP_ERROR", body.Error.Code)
	assert.Equal(t, "Not Found", body.Message)
}
