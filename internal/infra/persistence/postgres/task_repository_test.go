package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskapp/internal/domain/entity"
	domainerrors "taskapp/internal/domain/errors"
	"taskapp/internal/domain/repository"
)

var taskColumns = []string{
	"id", "title", "description", "completed", "user_id",
	"image", "drawing", "image_type", "created_at", "updated_at",
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestTaskRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)
	newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tasks" WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(2, "second", "desc", true, 7, nil, nil, nil, newer, newer).
			AddRow(1, "first", nil, false, 7, "data:image/png;base64,AA==", nil, "png", older, older))

	tasks, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, int64(2), tasks[0].ID)
	assert.Equal(t, "desc", *tasks[0].Description)
	assert.True(t, tasks[0].Completed)
	assert.Nil(t, tasks[1].Description)
	assert.Equal(t, "png", *tasks[1].ImageType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_ListByUser_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tasks" WHERE user_id = $1`)).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	tasks, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestTaskRepository_FindByID_ScopedToOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tasks" WHERE id = $1 AND user_id = $2`)).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	task, err := repo.FindByID(context.Background(), 3, 99)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tasks"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	task := &entity.Task{Title: "Buy milk", UserID: 7}
	require.NoError(t, repo.Create(context.Background(), task))
	assert.Equal(t, int64(11), task.ID)
	assert.False(t, task.CreatedAt.IsZero())
	assert.False(t, task.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Create_TitleTooLong(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tasks"`)).
		WillReturnError(&pgconn.PgError{Code: "22001"})

	err := repo.Create(context.Background(), &entity.Task{Title: "x", UserID: 7})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestTaskRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db).(*taskRepository)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	mock.ExpectQuery(`UPDATE "tasks" SET .* WHERE id = \$\d+ AND user_id = \$\d+ RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(3, "renamed", nil, true, 7, nil, nil, nil, now.Add(-time.Hour), now))

	task, err := repo.Update(context.Background(), 3, 7, entity.TaskUpdate{
		Title:     strPtr("renamed"),
		Completed: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", task.Title)
	assert.True(t, task.Completed)
	assert.Equal(t, now, task.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Update_NotOwned(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`UPDATE "tasks" SET .* RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	task, err := repo.Update(context.Background(), 3, 99, entity.TaskUpdate{Title: strPtr("hijack")})
	assert.Nil(t, task)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestTaskRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tasks" WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tasks" WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskUpdateColumns(t *testing.T) {
	now := time.Now()

	assert.Equal(t, map[string]any{"updated_at": now}, taskUpdateColumns(entity.TaskUpdate{}, now))

	columns := taskUpdateColumns(entity.TaskUpdate{
		Description: strPtr(""),
		Completed:   boolPtr(false),
		ImageType:   strPtr("jpeg"),
	}, now)
	assert.Equal(t, map[string]any{
		"updated_at":  now,
		"description": "",
		"completed":   false,
		"image_type":  "jpeg",
	}, columns)
}

func TestTransactionManager_CommitAndRollback(t *testing.T) {
	db, mock := newMockDB(t)
	tm := NewTransactionManager(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tasks"`)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users"`)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := tm.Execute(context.Background(), func(f repository.RepositoryFactory) error {
		if err := f.TaskRepo().DeleteAll(context.Background()); err != nil {
			return err
		}

		return f.UserRepo().DeleteAll(context.Background())
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = tm.Execute(context.Background(), func(repository.RepositoryFactory) error {
		return domainerrors.ErrTaskTitleRequired
	})
	assert.ErrorIs(t, err, domainerrors.ErrTaskTitleRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollbackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)
	tm := NewTransactionManager(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = tm.Execute(context.Background(), func(repository.RepositoryFactory) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
