package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"teamdesk/internal/authz"
	"teamdesk/internal/models"
)

// DueTask is one (task, assignee) pair produced by the due-soon sweep.
type DueTask struct {
	TaskID       int64
	Title        string
	ProjectName  string
	UserID       int64
	DueDate      time.Time
	TelegramChat *int64
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.TaskSummary, error)
	ApplyPatch(ctx context.Context, id int64, patch models.TaskPatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)

	// GetRole resolves the caller's role through task -> project -> team.
	GetRole(ctx context.Context, userID, taskID int64) (authz.Role, error)

	SetPayload(ctx context.Context, id int64, data []byte) (int64, error)
	GetPayload(ctx context.Context, id int64) ([]byte, error)

	// ListDueSoonUnnotified returns assignees of unfinished tasks due
	// within the window that have no task_due notification from the last
	// 24 hours.
	ListDueSoonUnnotified(ctx context.Context, window time.Duration) ([]DueTask, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	const q = `
		INSERT INTO task (title, description, project_id, create_by, status, priority, due_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING task_id, create_at, update_at`
	return r.db.QueryRowContext(ctx, q,
		task.Title, task.Description, task.ProjectID, task.CreatedBy,
		task.Status, task.Priority, task.DueDate,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

const taskColumns = `task_id, title, description, project_id, create_by, status, priority, due_date, create_at, update_at`

func scanTask(row *sql.Row) (*models.Task, error) {
	t := &models.Task{}
	var due sql.NullTime
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.CreatedBy,
		&t.Status, &t.Priority, &due, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return t, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM task WHERE task_id = $1`, id))
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID int64) ([]models.TaskSummary, error) {
	const q = `
		SELECT t.task_id, t.title, t.description, t.project_id, t.create_by,
		       t.status, t.priority, t.due_date, t.create_at, t.update_at,
		       COUNT(DISTINCT tc.comment_id) AS comment_count
		FROM task t
		LEFT JOIN task_comment tc ON t.task_id = tc.task_id
		WHERE t.project_id = $1
		GROUP BY t.task_id
		ORDER BY t.due_date ASC NULLS LAST, t.priority DESC`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TaskSummary
	index := map[int64]int{}
	for rows.Next() {
		var s models.TaskSummary
		var due sql.NullTime
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.ProjectID, &s.CreatedBy,
			&s.Status, &s.Priority, &due, &s.CreatedAt, &s.UpdatedAt, &s.CommentCount); err != nil {
			return nil, err
		}
		if due.Valid {
			d := due.Time
			s.DueDate = &d
		}
		s.Assignees = []models.Assignee{}
		index[s.ID] = len(out)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	const qa = `
		SELECT a.task_id, u.user_id, u.first_name, u.last_name
		FROM assigned_to a
		INNER JOIN users u ON a.user_id = u.user_id
		INNER JOIN task t ON a.task_id = t.task_id
		WHERE t.project_id = $1`
	arows, err := r.db.QueryContext(ctx, qa, projectID)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var taskID int64
		var a models.Assignee
		if err := arows.Scan(&taskID, &a.UserID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		if i, ok := index[taskID]; ok {
			out[i].Assignees = append(out[i].Assignees, a)
		}
	}
	return out, arows.Err()
}

// ApplyPatch compiles the non-nil patch fields into one UPDATE. Callers
// check role rules before getting here; an empty patch writes nothing.
func (r *taskRepository) ApplyPatch(ctx context.Context, id int64, patch models.TaskPatch) (int64, error) {
	sets := []string{}
	args := []interface{}{}
	argID := 1

	if patch.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argID))
		args = append(args, *patch.Title)
		argID++
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argID))
		args = append(args, *patch.Description)
		argID++
	}
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argID))
		args = append(args, *patch.Status)
		argID++
	}
	if patch.Priority != nil {
		sets = append(sets, fmt.Sprintf("priority = $%d", argID))
		args = append(args, *patch.Priority)
		argID++
	}
	if patch.DueDate != nil {
		sets = append(sets, fmt.Sprintf("due_date = $%d", argID))
		args = append(args, *patch.DueDate)
		argID++
	}
	if len(sets) == 0 {
		return 0, nil
	}
	sets = append(sets, "update_at = NOW()")

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE task SET %s WHERE task_id = $%d`, strings.Join(sets, ", "), argID)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *taskRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task WHERE task_id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *taskRepository) GetRole(ctx context.Context, userID, taskID int64) (authz.Role, error) {
	const q = `
		SELECT b.role
		FROM task t
		INNER JOIN project p ON t.project_id = p.project_id
		INNER JOIN belong b ON p.team_id = b.team_id
		WHERE t.task_id = $1 AND b.user_id = $2`
	var role string
	err := r.db.QueryRowContext(ctx, q, taskID, userID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return authz.RoleNone, nil
		}
		return authz.RoleNone, err
	}
	return authz.ParseRole(role), nil
}

func (r *taskRepository) SetPayload(ctx context.Context, id int64, data []byte) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE task SET payload = $1, update_at = NOW() WHERE task_id = $2`, data, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *taskRepository) GetPayload(ctx context.Context, id int64) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM task WHERE task_id = $1`, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (r *taskRepository) ListDueSoonUnnotified(ctx context.Context, window time.Duration) ([]DueTask, error) {
	const q = `
		SELECT t.task_id, t.title, p.project_name, a.user_id, t.due_date, u.telegram_chat_id
		FROM task t
		INNER JOIN project p ON t.project_id = p.project_id
		INNER JOIN assigned_to a ON t.task_id = a.task_id
		INNER JOIN users u ON a.user_id = u.user_id
		WHERE t.status != 2
		  AND t.due_date IS NOT NULL
		  AND t.due_date >= NOW()
		  AND t.due_date <= NOW() + $1::interval
		  AND NOT EXISTS (
		    SELECT 1 FROM notification n
		    WHERE n.related_id = t.task_id
		      AND n.type = 'task_due'
		      AND n.user_id = a.user_id
		      AND n.created_at >= NOW() - INTERVAL '24 hours'
		  )`
	rows, err := r.db.QueryContext(ctx, q, fmt.Sprintf("%d hours", int(window.Hours())))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DueTask
	for rows.Next() {
		var d DueTask
		var tgChat sql.NullInt64
		if err := rows.Scan(&d.TaskID, &d.Title, &d.ProjectName, &d.UserID, &d.DueDate, &tgChat); err != nil {
			return nil, err
		}
		if tgChat.Valid {
			n := tgChat.Int64
			d.TelegramChat = &n
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
