package handler

import (
	"net/http"
	"testing"

	"taskapp/internal/domain/entity"
	domainerrors "taskapp/internal/domain/errors"
	mockUsecase "taskapp/internal/mocks/usecase"
	"taskapp/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const ownerID int64 = 7

func newTaskEcho(t *testing.T) (*echo.Echo, *mockUsecase.MockTaskUsecase) {
	t.Helper()

	uc := mockUsecase.NewMockTaskUsecase(t)
	h := NewTaskHandler(uc)

	e := newTestEcho()
	g := e.Group("/api/tasks", asUser(ownerID))
	g.GET("", h.ListTasks)
	g.POST("", h.CreateTask)
	g.GET("/:id", h.GetTask)
	g.PUT("/:id", h.UpdateTask)
	g.DELETE("/:id", h.DeleteTask)

	return e, uc
}

func TestTaskHandler_ListTasks(t *testing.T) {
	e, uc := newTaskEcho(t)

	uc.EXPECT().ListTasks(mock.Anything, ownerID).Return([]*entity.Task{
		{ID: 2, Title: "newer", UserID: ownerID, CreatedAt: createdAt, UpdatedAt: createdAt},
		{ID: 1, Title: "older", Description: strPtr("d"), UserID: ownerID, CreatedAt: createdAt, UpdatedAt: createdAt},
	}, nil)

	rec := do(e, http.MethodGet, "/api/tasks", "")

	require.Equal(t, http.StatusOK, rec.Code)
	tasks := decode(t, rec)["tasks"].([]any)
	require.Len(t, tasks, 2)

	first := tasks[0].(map[string]any)
	assert.EqualValues(t, 2, first["id"])
	assert.Equal(t, "newer", first["title"])
	assert.Nil(t, first["description"])
	assert.Equal(t, false, first["completed"])
	assert.EqualValues(t, ownerID, first["user_id"])
	assert.Contains(t, first, "image_type")
	assert.Contains(t, first, "updated_at")

	second := tasks[1].(map[string]any)
	assert.Equal(t, "d", second["description"])
}

func TestTaskHandler_ListTasksEmpty(t *testing.T) {
	e, uc := newTaskEcho(t)

	uc.EXPECT().ListTasks(mock.Anything, ownerID).Return([]*entity.Task{}, nil)

	rec := do(e, http.MethodGet, "/api/tasks", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tasks":[]}`, rec.Body.String())
}

func TestTaskHandler_CreateTask(t *testing.T) {
	e, uc := newTaskEcho(t)

	uc.EXPECT().
		CreateTask(mock.Anything, ownerID, &usecase.CreateTaskInput{Title: "Buy milk", Description: strPtr("2 liters")}).
		Return(&entity.Task{ID: 10, Title: "Buy milk", Description: strPtr("2 liters"), UserID: ownerID}, nil)

	rec := do(e, http.MethodPost, "/api/tasks", `{"title":"Buy milk","description":"2 liters"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	task := decode(t, rec)["task"].(map[string]any)
	assert.EqualValues(t, 10, task["id"])
	assert.Equal(t, "Buy milk", task["title"])
	assert.Equal(t, "2 liters", task["description"])
}

func TestTaskHandler_CreateTaskTitleRequired(t *testing.T) {
	e, uc := newTaskEcho(t)

	uc.EXPECT().CreateTask(mock.Anything, ownerID, mock.Anything).Return(nil, domainerrors.ErrTaskTitleRequired)

	rec := do(e, http.MethodPost, "/api/tasks", `{"description":"no title"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TASK_TITLE_REQUIRED", errorCode(t, rec))
	assert.Equal(t, "Title is required", decode(t, rec)["message"])
}

func TestTaskHandler_CreateTaskImageTypeTooLong(t *testing.T) {
	e, _ := newTaskEcho(t)

	rec := do(e, http.MethodPost, "/api/tasks", `{"title":"x","image_type":"image/this-is-far-too-long"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, rec))
}

func TestTaskHandler_GetTask(t *testing.T) {
	e, uc := newTaskEcho(t)

	uc.EXPECT().GetTask(mock.Anything, ownerID, int64(3)).
		Return(&entity.Task{ID: 3, Title: "mine", UserID: ownerID}, nil)

	rec := do(e, http.MethodGet, "/api/tasks/3", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mine", decode(t, rec)["task"].(map[string]any)["title"])
}

func TestTaskHandler_GetTaskNotFound(t *testing.T) {
	e, uc := newTaskEcho(t)

	uc.EXPECT().GetTask(mock.Anything, ownerID, int64(99)).Return(nil, domainerrors.ErrTaskNotFound)

	rec := do(e, http.MethodGet, "/api/tasks/99", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TASK_NOT_FOUND", errorCode(t, rec))
}

func TestTaskHandler_InvalidID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-1", "1.5", "99999999999999999999"} {
		t.Run(id, func(t *testing.T) {
			// The usecase is never called for an id that cannot exist.
			e, _ := newTaskEcho(t)

			for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
				body := ""
				if method == http.MethodPut {
					body = `{"completed":true}`
				}
				rec := do(e, method, "/api/tasks/"+id, body)

				assert.Equal(t, http.StatusNotFound, rec.Code, method)
				assert.Equal(t, "TASK_NOT_FOUND", errorCode(t, rec), method)
			}
		})
	}
}

func TestTaskHandler_UpdateTask(t *testing.T) {
	e, uc := newTaskEcho(t)

	uc.EXPECT().
		UpdateTask(mock.Anything, ownerID, int64(4), entity.TaskUpdate{Completed: boolPtr(true)}).
		Return(&entity.Task{ID: 4, Title: "kept", Completed: true, UserID: ownerID}, nil)

	rec := do(e, http.MethodPut, "/api/tasks/4", `{"completed":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	task := decode(t, rec)["task"].(map[string]any)
	assert.Equal(t, "kept", task["title"])
	assert.Equal(t, true, task["completed"])
}

func TestTaskHandler_UpdateTaskNullMeansUnchanged(t *testing.T) {
	e, uc := newTaskEcho(t)

	uc.EXPECT().
		UpdateTask(mock.Anything, ownerID, int64(4), entity.TaskUpdate{Title: strPtr("renamed")}).
		Return(&entity.Task{ID: 4, Title: "renamed", UserID: ownerID}, nil)

	rec := do(e, http.MethodPut, "/api/tasks/4", `{"title":"renamed","description":null}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskHandler_UpdateTaskNotFound(t *testing.T) {
	e, uc := newTaskEcho(t)

	uc.EXPECT().UpdateTask(mock.Anything, ownerID, int64(4), mock.Anything).Return(nil, domainerrors.ErrTaskNotFound)

	rec := do(e, http.MethodPut, "/api/tasks/4", `{"title":"x"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TASK_NOT_FOUND", errorCode(t, rec))
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	e, uc := newTaskEcho(t)

	uc.EXPECT().DeleteTask(mock.Anything, ownerID, int64(5)).Return(nil)

	rec := do(e, http.MethodDelete, "/api/tasks/5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Task deleted"}`, rec.Body.String())
}

func TestTaskHandler_DeleteTaskNotFound(t *testing.T) {
	e, uc := newTaskEcho(t)

	uc.EXPECT().DeleteTask(mock.Anything, ownerID, int64(5)).Return(domainerrors.ErrTaskNotFound)

	rec := do(e, http.MethodDelete, "/api/tasks/5", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TASK_NOT_FOUND", errorCode(t, rec))
}
