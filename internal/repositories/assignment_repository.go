package repositories

import (
	"context"
	"database/sql"

	"teamdesk/internal/models"
)

type AssignmentRepository interface {
	Assign(ctx context.Context, userID, taskID int64) error
	Unassign(ctx context.Context, userID, taskID int64) (int64, error)
	Exists(ctx context.Context, userID, taskID int64) (bool, error)
	ListByTask(ctx context.Context, taskID int64) ([]models.Assignee, error)
}

type assignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Assign(ctx context.Context, userID, taskID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assigned_to (user_id, task_id) VALUES ($1,$2)`, userID, taskID)
	return err
}

func (r *assignmentRepository) Unassign(ctx context.Context, userID, taskID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM assigned_to WHERE user_id = $1 AND task_id = $2`, userID, taskID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *assignmentRepository) Exists(ctx context.Context, userID, taskID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM assigned_to WHERE user_id = $1 AND task_id = $2)`,
		userID, taskID,
	).Scan(&exists)
	return exists, err
}

func (r *assignmentRepository) ListByTask(ctx context.Context, taskID int64) ([]models.Assignee, error) {
	const q = `
		SELECT u.user_id, u.first_name, u.last_name
		FROM assigned_to a
		INNER JOIN users u ON a.user_id = u.user_id
		WHERE a.task_id = $1
		ORDER BY u.first_name`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Assignee
	for rows.Next() {
		var a models.Assignee
		if err := rows.Scan(&a.UserID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
