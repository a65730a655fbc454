package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdesk/internal/cascade"
)

func TestTeamCascadeRunsEveryStepInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCascadeRepository(db)

	// One transaction, children before parents, team row last.
	mock.ExpectBegin()
	for _, table := range []string{
		"task_comment", "task_files", "assigned_to", "task",
		"participation", "project", "belong", "team",
	} {
		mock.ExpectExec(`DELETE FROM ` + table).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 3))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.Execute(context.Background(), cascade.PlanTeamDeletion(42)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectCascadeRunsEveryStepInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCascadeRepository(db)

	mock.ExpectBegin()
	for _, table := range []string{
		"task_comment", "task_files", "assigned_to", "task",
		"participation", "project",
	} {
		mock.ExpectExec(`DELETE FROM ` + table).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.Execute(context.Background(), cascade.PlanProjectDeletion(7)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCascadeRollsBackOnStepFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCascadeRepository(db)

	boom := errors.New("deadlock detected")
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM task_comment`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM task_files`).
		WithArgs(int64(42)).
		WillReturnError(boom)
	mock.ExpectRollback()

	err = repo.Execute(context.Background(), cascade.PlanTeamDeletion(42))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
