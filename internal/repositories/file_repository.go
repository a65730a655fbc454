package repositories

import (
	"context"
	"database/sql"

	"teamdesk/internal/models"
)

// FileMeta carries the ownership facts the delete policy needs.
type FileMeta struct {
	FileID     int64
	TaskID     int64
	UploaderID int64
	TeamID     int64
}

type FileRepository interface {
	Create(ctx context.Context, file *models.TaskFile, content []byte) error
	ListByTask(ctx context.Context, taskID int64) ([]models.TaskFile, error)
	GetMeta(ctx context.Context, fileID int64) (*FileMeta, error)
	GetContent(ctx context.Context, fileID int64) (*models.FileContent, error)
	Delete(ctx context.Context, fileID int64) (int64, error)
}

type fileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *models.TaskFile, content []byte) error {
	const q = `
		INSERT INTO task_files (task_id, user_id, file_name, mime_type, size_bytes, content)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING file_id, created_at`
	return r.db.QueryRowContext(ctx, q,
		file.TaskID, file.UserID, file.Name, file.MimeType, file.SizeBytes, content,
	).Scan(&file.ID, &file.CreatedAt)
}

func (r *fileRepository) ListByTask(ctx context.Context, taskID int64) ([]models.TaskFile, error) {
	const q = `
		SELECT file_id, task_id, user_id, file_name, mime_type, size_bytes, created_at
		FROM task_files
		WHERE task_id = $1
		ORDER BY file_id ASC`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TaskFile
	for rows.Next() {
		var f models.TaskFile
		if err := rows.Scan(&f.ID, &f.TaskID, &f.UserID, &f.Name, &f.MimeType, &f.SizeBytes, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *fileRepository) GetMeta(ctx context.Context, fileID int64) (*FileMeta, error) {
	const q = `
		SELECT f.file_id, f.task_id, f.user_id, p.team_id
		FROM task_files f
		INNER JOIN task t ON f.task_id = t.task_id
		INNER JOIN project p ON t.project_id = p.project_id
		WHERE f.file_id = $1`
	m := &FileMeta{}
	err := r.db.QueryRowContext(ctx, q, fileID).Scan(&m.FileID, &m.TaskID, &m.UploaderID, &m.TeamID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *fileRepository) GetContent(ctx context.Context, fileID int64) (*models.FileContent, error) {
	const q = `SELECT file_name, mime_type, content FROM task_files WHERE file_id = $1`
	c := &models.FileContent{}
	err := r.db.QueryRowContext(ctx, q, fileID).Scan(&c.Name, &c.MimeType, &c.Data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *fileRepository) Delete(ctx context.Context, fileID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_files WHERE file_id = $1`, fileID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
