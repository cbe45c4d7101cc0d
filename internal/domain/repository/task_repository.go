package repository

import (
	"context"
	"errors"

	"taskapp/internal/domain/entity"
)

// ErrTaskNotFound is returned when no task with the given id exists for the given owner.
// A task owned by someone else is indistinguishable from a missing one.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository persists tasks. Every method that touches existing rows takes the
// owner's user id and filters on it.
type TaskRepository interface {
	// ListByUser returns the user's tasks, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*entity.Task, error)

	// FindByID returns the task only if it belongs to userID.
	FindByID(ctx context.Context, id, userID int64) (*entity.Task, error)

	// Create persists a new task and fills in ID and timestamps.
	Create(ctx context.Context, task *entity.Task) error

	// Update applies the non-nil fields of update and bumps updated_at.
	Update(ctx context.Context, id, userID int64, update entity.TaskUpdate) (*entity.Task, error)

	// Delete removes the task and reports whether a row was deleted.
	Delete(ctx context.Context, id, userID int64) (bool, error)

	// DeleteAll removes every task. Used by the seed command only.
	DeleteAll(ctx context.Context) error
}
