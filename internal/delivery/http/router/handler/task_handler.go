package handler

import (
	"net/http"
	"strconv"
	"time"

	deliverycontext "taskapp/internal/delivery/context"
	"taskapp/internal/delivery/http/response"
	"taskapp/internal/domain/entity"
	domainerrors "taskapp/internal/domain/errors"
	"taskapp/internal/errors"
	"taskapp/internal/usecase"

	"github.com/labstack/echo/v4"
)

const taskDeletedMessage = "Task deleted"

type createTaskRequest struct {
	Title       string  `json:"title" validate:"max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Drawing     *string `json:"drawing"`
	ImageType   *string `json:"image_type" validate:"omitempty,max=20"`
}

// updateTaskRequest treats absent and null fields alike: the column is left unchanged.
type updateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	Image       *string `json:"image"`
	Drawing     *string `json:"drawing"`
	ImageType   *string `json:"image_type" validate:"omitempty,max=20"`
}

type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      int64     `json:"user_id"`
	Image       *string   `json:"image"`
	Drawing     *string   `json:"drawing"`
	ImageType   *string   `json:"image_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type taskEnvelope struct {
	Task *taskResponse `json:"task"`
}

type taskListEnvelope struct {
	Tasks []*taskResponse `json:"tasks"`
}

// TaskHandler serves the task endpoints. Every handler runs behind the auth gate and
// acts only on the caller's own tasks.
type TaskHandler struct {
	uc usecase.TaskUsecase
}

// NewTaskHandler is the constructor for TaskHandler, injected by Fx.
func NewTaskHandler(uc usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

// ListTasks returns the caller's tasks, newest first.
func (h *TaskHandler) ListTasks(c echo.Context) error {
	identity, ok := deliverycontext.IdentityFrom(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	tasks, err := h.uc.ListTasks(c.Request().Context(), identity.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]*taskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task))
	}

	return c.JSON(http.StatusOK, taskListEnvelope{Tasks: out})
}

// GetTask returns a single task of the caller.
func (h *TaskHandler) GetTask(c echo.Context) error {
	identity, ok := deliverycontext.IdentityFrom(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		return err
	}

	task, err := h.uc.GetTask(c.Request().Context(), identity.UserID, taskID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, taskEnvelope{Task: toTaskResponse(task)})
}

// CreateTask creates a task owned by the caller.
func (h *TaskHandler) CreateTask(c echo.Context) error {
	identity, ok := deliverycontext.IdentityFrom(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.uc.CreateTask(c.Request().Context(), identity.UserID, &usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Drawing:     req.Drawing,
		ImageType:   req.ImageType,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, taskEnvelope{Task: toTaskResponse(task)})
}

// UpdateTask applies a partial update to one of the caller's tasks.
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	identity, ok := deliverycontext.IdentityFrom(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.uc.UpdateTask(c.Request().Context(), identity.UserID, taskID, entity.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Image:       req.Image,
		Drawing:     req.Drawing,
		ImageType:   req.ImageType,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, taskEnvelope{Task: toTaskResponse(task)})
}

// DeleteTask removes one of the caller's tasks.
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	identity, ok := deliverycontext.IdentityFrom(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteTask(c.Request().Context(), identity.UserID, taskID); err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, response.Message{Message: taskDeletedMessage})
}

// parseTaskID reads the :id path parameter. An id that is not a positive integer
// cannot name any task, so it is reported as not found.
func parseTaskID(c echo.Context) (int64, error) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || taskID <= 0 {
		return 0, domainerrors.ErrTaskNotFound
	}

	return taskID, nil
}

func toTaskResponse(task *entity.Task) *taskResponse {
	if task == nil {
		return nil
	}

	return &taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		UserID:      task.UserID,
		Image:       task.Image,
		Drawing:     task.Drawing,
		ImageType:   task.ImageType,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
