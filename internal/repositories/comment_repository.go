package repositories

import (
	"context"
	"database/sql"

	"teamdesk/internal/models"
)

// CommentMeta carries the ownership facts the delete policy needs.
type CommentMeta struct {
	CommentID   int64
	TaskID      int64
	AuthorID    int64
	TaskCreator int64
	TeamID      int64
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByTask(ctx context.Context, taskID int64) ([]models.CommentView, error)
	GetMeta(ctx context.Context, commentID int64) (*CommentMeta, error)
	Delete(ctx context.Context, commentID int64) (int64, error)
	Like(ctx context.Context, commentID int64) (int, error)
}

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	const q = `
		INSERT INTO task_comment (task_id, user_id, comment_text)
		VALUES ($1,$2,$3)
		RETURNING comment_id, likes, created_at`
	return r.db.QueryRowContext(ctx, q, comment.TaskID, comment.UserID, comment.Text).
		Scan(&comment.ID, &comment.Likes, &comment.CreatedAt)
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID int64) ([]models.CommentView, error) {
	const q = `
		SELECT tc.comment_id, tc.task_id, tc.user_id, tc.comment_text, tc.likes, tc.created_at,
		       u.first_name, u.last_name, u.profile_image
		FROM task_comment tc
		INNER JOIN users u ON tc.user_id = u.user_id
		WHERE tc.task_id = $1
		ORDER BY tc.comment_id ASC`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CommentView
	for rows.Next() {
		var v models.CommentView
		var image sql.NullString
		if err := rows.Scan(&v.ID, &v.TaskID, &v.UserID, &v.Text, &v.Likes, &v.CreatedAt,
			&v.FirstName, &v.LastName, &image); err != nil {
			return nil, err
		}
		if image.Valid {
			s := image.String
			v.ProfileImage = &s
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *commentRepository) GetMeta(ctx context.Context, commentID int64) (*CommentMeta, error) {
	const q = `
		SELECT tc.comment_id, tc.task_id, tc.user_id, t.create_by, p.team_id
		FROM task_comment tc
		INNER JOIN task t ON tc.task_id = t.task_id
		INNER JOIN project p ON t.project_id = p.project_id
		WHERE tc.comment_id = $1`
	m := &CommentMeta{}
	err := r.db.QueryRowContext(ctx, q, commentID).
		Scan(&m.CommentID, &m.TaskID, &m.AuthorID, &m.TaskCreator, &m.TeamID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_comment WHERE comment_id = $1`, commentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *commentRepository) Like(ctx context.Context, commentID int64) (int, error) {
	var likes int
	err := r.db.QueryRowContext(ctx,
		`UPDATE task_comment SET likes = likes + 1 WHERE comment_id = $1 RETURNING likes`,
		commentID,
	).Scan(&likes)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, sql.ErrNoRows
		}
		return 0, err
	}
	return likes, nil
}
