package usecase

import (
	"context"

	"taskapp/internal/domain/entity"
)

// CreateTaskInput defines the data accepted when creating a task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Image       *string
	Drawing     *string
	ImageType   *string
}

// TaskUsecase defines task operations. Every call is scoped to the authenticated
// user; tasks of other users behave as if they did not exist.
type TaskUsecase interface {
	ListTasks(ctx context.Context, userID int64) ([]*entity.Task, error)
	GetTask(ctx context.Context, userID, taskID int64) (*entity.Task, error)
	CreateTask(ctx context.Context, userID int64, input *CreateTaskInput) (*entity.Task, error)
	UpdateTask(ctx context.Context, userID, taskID int64, update entity.TaskUpdate) (*entity.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int64) error
}
