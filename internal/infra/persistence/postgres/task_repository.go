package postgres

import (
	"context"
	"time"

	"taskapp/internal/domain/entity"
	domainerrors "taskapp/internal/domain/errors"
	"taskapp/internal/domain/repository"
	"taskapp/internal/errors"
	"taskapp/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// taskRepository implements the domain.TaskRepository interface using GORM.
// Every statement against existing rows is filtered by owner.
type taskRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTaskRepository is the constructor for taskRepository.
func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepository{db: db, now: time.Now}
}

func (repo *taskRepository) ListByUser(ctx context.Context, userID int64) ([]*entity.Task, error) {
	var taskMs []*model.TaskModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&taskMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}

	tasks := make([]*entity.Task, 0, len(taskMs))
	for _, taskM := range taskMs {
		tasks = append(tasks, toTaskDomain(taskM))
	}

	return tasks, nil
}

func (repo *taskRepository) FindByID(ctx context.Context, id, userID int64) (*entity.Task, error) {
	var taskM model.TaskModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&taskM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}

		return nil, errors.Wrap(err, "failed to find task by id")
	}

	return toTaskDomain(&taskM), nil
}

func (repo *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	taskM := fromTaskDomain(task)

	if err := repo.db.WithContext(ctx).Create(taskM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WithDetails("task owner does not exist")
		}
		if isValueTooLong(err) {
			return domainerrors.ErrValidationFailed.WithDetails("title or image type is too long")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create task")
	}

	task.ID = taskM.ID
	task.CreatedAt = taskM.CreatedAt
	task.UpdatedAt = taskM.UpdatedAt

	return nil
}

// Update writes only the provided columns and returns the row as stored afterwards.
func (repo *taskRepository) Update(ctx context.Context, id, userID int64, update entity.TaskUpdate) (*entity.Task, error) {
	var taskM model.TaskModel
	result := repo.db.WithContext(ctx).
		Model(&taskM).
		Clauses(clause.Returning{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(taskUpdateColumns(update, repo.now()))
	if result.Error != nil {
		if isValueTooLong(result.Error) {
			return nil, domainerrors.ErrValidationFailed.WithDetails("title or image type is too long")
		}

		return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update task")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrTaskNotFound
	}

	return toTaskDomain(&taskM), nil
}

func (repo *taskRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.TaskModel{})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete task")
	}

	return result.RowsAffected > 0, nil
}

func (repo *taskRepository) DeleteAll(ctx context.Context) error {
	err := repo.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.TaskModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete tasks")
	}

	return nil
}

// taskUpdateColumns maps the non-nil fields of an update to column values.
// updated_at is always bumped, even for an otherwise empty update.
func taskUpdateColumns(update entity.TaskUpdate, now time.Time) map[string]any {
	columns := map[string]any{"updated_at": now}

	if update.Title != nil {
		columns["title"] = *update.Title
	}
	if update.Description != nil {
		columns["description"] = *update.Description
	}
	if update.Completed != nil {
		columns["completed"] = *update.Completed
	}
	if update.Image != nil {
		columns["image"] = *update.Image
	}
	if update.Drawing != nil {
		columns["drawing"] = *update.Drawing
	}
	if update.ImageType != nil {
		columns["image_type"] = *update.ImageType
	}

	return columns
}

func toTaskDomain(data *model.TaskModel) *entity.Task {
	if data == nil {
		return nil
	}

	return &entity.Task{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		Completed:   data.Completed,
		UserID:      data.UserID,
		Image:       data.Image,
		Drawing:     data.Drawing,
		ImageType:   data.ImageType,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromTaskDomain(data *entity.Task) *model.TaskModel {
	if data == nil {
		return nil
	}

	return &model.TaskModel{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		Completed:   data.Completed,
		UserID:      data.UserID,
		Image:       data.Image,
		Drawing:     data.Drawing,
		ImageType:   data.ImageType,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
