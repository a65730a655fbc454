package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdesk/internal/authz"
	"teamdesk/internal/models"
)

func TestApplyPatchCompilesOnlySetFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskRepository(db)

	title := "renamed"
	status := models.StatusDone
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE task SET title = $1, status = $2, update_at = NOW() WHERE task_id = $3`)).
		WithArgs("renamed", status, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.ApplyPatch(context.Background(), 5, models.TaskPatch{
		Title:  &title,
		Status: &status,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPatchSingleField(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskRepository(db)

	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE task SET due_date = $1, update_at = NOW() WHERE task_id = $2`)).
		WithArgs(due, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.ApplyPatch(context.Background(), 9, models.TaskPatch{DueDate: &due})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPatchEmptyWritesNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskRepository(db)

	affected, err := repo.ApplyPatch(context.Background(), 5, models.TaskPatch{})
	require.NoError(t, err)
	assert.Zero(t, affected)
	// No statement reached the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReportsMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM task WHERE task_id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRoleNoMembershipRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT b\.role`).
		WithArgs(int64(5), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"role"}))

	role, err := repo.GetRole(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleNone, role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
