package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "taskapp/internal/delivery/context"
	"taskapp/internal/domain/entity"
	domainerrors "taskapp/internal/domain/errors"
	"taskapp/internal/domain/repository"
	"taskapp/internal/errors"
	"taskapp/internal/usecase"

	"go.uber.org/fx"
)

// taskService implements the TaskUsecase interface.
type taskService struct {
	taskRepo repository.TaskRepository
	logger   *slog.Logger
}

// TaskServiceParams holds dependencies for TaskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TaskRepo repository.TaskRepository
	Logger   *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		taskRepo: params.TaskRepo,
		logger:   params.Logger,
	}
}

func (srv *taskService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *taskService) ListTasks(ctx context.Context, userID int64) ([]*entity.Task, error) {
	tasks, err := srv.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}

	return tasks, nil
}

func (srv *taskService) GetTask(ctx context.Context, userID, taskID int64) (*entity.Task, error) {
	task, err := srv.taskRepo.FindByID(ctx, taskID, userID)
	if err != nil {
		return nil, translateTaskError(err, "failed to load task")
	}

	return task, nil
}

func (srv *taskService) CreateTask(ctx context.Context, userID int64, input *usecase.CreateTaskInput) (*entity.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domainerrors.ErrTaskTitleRequired
	}

	task := &entity.Task{
		Title:       input.Title,
		Description: input.Description,
		UserID:      userID,
		Image:       input.Image,
		Drawing:     input.Drawing,
		ImageType:   input.ImageType,
	}
	if err := srv.taskRepo.Create(ctx, task); err != nil {
		return nil, errors.Wrap(err, "failed to create task")
	}
	srv.log(ctx).Debug("Task created", slog.Int64("userID", userID), slog.Int64("taskID", task.ID))

	return task, nil
}

// UpdateTask applies a partial update. Clearing the title is rejected like an empty title on create.
func (srv *taskService) UpdateTask(ctx context.Context, userID, taskID int64, update entity.TaskUpdate) (*entity.Task, error) {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, domainerrors.ErrTaskTitleRequired
	}

	task, err := srv.taskRepo.Update(ctx, taskID, userID, update)
	if err != nil {
		return nil, translateTaskError(err, "failed to update task")
	}
	srv.log(ctx).Debug("Task updated", slog.Int64("userID", userID), slog.Int64("taskID", taskID))

	return task, nil
}

func (srv *taskService) DeleteTask(ctx context.Context, userID, taskID int64) error {
	deleted, err := srv.taskRepo.Delete(ctx, taskID, userID)
	if err != nil {
		return errors.Wrap(err, "failed to delete task")
	}
	if !deleted {
		return domainerrors.ErrTaskNotFound
	}
	srv.log(ctx).Debug("Task deleted", slog.Int64("userID", userID), slog.Int64("taskID", taskID))

	return nil
}

func translateTaskError(err error, message string) error {
	if errors.Is(err, repository.ErrTaskNotFound) {
		return domainerrors.ErrTaskNotFound
	}

	return errors.Wrap(err, message)
}
