package repositories

import (
	"context"
	"database/sql"

	"teamdesk/internal/authz"
	"teamdesk/internal/models"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	GetByURL(ctx context.Context, url string) (*models.Project, error)
	ListByTeam(ctx context.Context, teamID int64) ([]models.ProjectSummary, error)
	Update(ctx context.Context, projectID int64, name, description string) (int64, error)

	// GetRole resolves the caller's role through the project's owning team.
	GetRole(ctx context.Context, userID, projectID int64) (authz.Role, error)

	AddParticipant(ctx context.Context, userID, projectID int64) error
	RemoveParticipant(ctx context.Context, userID, projectID int64) (int64, error)
	ListParticipants(ctx context.Context, projectID int64) ([]models.Participant, error)
	IsParticipant(ctx context.Context, userID, projectID int64) (bool, error)
}

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	const q = `
		INSERT INTO project (project_name, description, project_url, team_id, create_by)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING project_id, create_at`
	return r.db.QueryRowContext(ctx, q,
		project.Name, project.Description, project.URL, project.TeamID, project.CreatedBy,
	).Scan(&project.ID, &project.CreatedAt)
}

func scanProject(row *sql.Row) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.URL, &p.TeamID, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

const projectColumns = `project_id, project_name, description, project_url, team_id, create_by, create_at`

func (r *projectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM project WHERE project_id = $1`, id))
}

func (r *projectRepository) GetByURL(ctx context.Context, url string) (*models.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM project WHERE project_url = $1`, url))
}

func (r *projectRepository) ListByTeam(ctx context.Context, teamID int64) ([]models.ProjectSummary, error) {
	const q = `
		SELECT p.project_id, p.project_name, p.description, p.project_url, p.team_id, p.create_by, p.create_at,
		       COUNT(DISTINCT t.task_id) AS task_count,
		       COUNT(DISTINCT CASE WHEN t.status = 2 THEN t.task_id END) AS completed_tasks,
		       u.first_name || ' ' || u.last_name AS creator_name
		FROM project p
		LEFT JOIN task t ON p.project_id = t.project_id
		LEFT JOIN users u ON p.create_by = u.user_id
		WHERE p.team_id = $1
		GROUP BY p.project_id, u.first_name, u.last_name
		ORDER BY p.create_at DESC`
	rows, err := r.db.QueryContext(ctx, q, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ProjectSummary
	for rows.Next() {
		var s models.ProjectSummary
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.URL, &s.TeamID, &s.CreatedBy, &s.CreatedAt,
			&s.TaskCount, &s.CompletedTasks, &s.CreatorName,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, projectID int64, name, description string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE project SET project_name = $1, description = $2 WHERE project_id = $3`,
		name, description, projectID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *projectRepository) GetRole(ctx context.Context, userID, projectID int64) (authz.Role, error) {
	const q = `
		SELECT b.role
		FROM project p
		INNER JOIN belong b ON p.team_id = b.team_id
		WHERE p.project_id = $1 AND b.user_id = $2`
	var role string
	err := r.db.QueryRowContext(ctx, q, projectID, userID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return authz.RoleNone, nil
		}
		return authz.RoleNone, err
	}
	return authz.ParseRole(role), nil
}

func (r *projectRepository) AddParticipant(ctx context.Context, userID, projectID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO participation (user_id, project_id) VALUES ($1,$2)`, userID, projectID)
	return err
}

func (r *projectRepository) RemoveParticipant(ctx context.Context, userID, projectID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM participation WHERE user_id = $1 AND project_id = $2`, userID, projectID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *projectRepository) ListParticipants(ctx context.Context, projectID int64) ([]models.Participant, error) {
	const q = `
		SELECT u.user_id, u.first_name, u.last_name, u.email, u.profile_image
		FROM users u
		INNER JOIN participation pa ON u.user_id = pa.user_id
		WHERE pa.project_id = $1
		ORDER BY u.first_name`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Participant
	for rows.Next() {
		var p models.Participant
		var image sql.NullString
		if err := rows.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Email, &image); err != nil {
			return nil, err
		}
		if image.Valid {
			s := image.String
			p.ProfileImage = &s
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *projectRepository) IsParticipant(ctx context.Context, userID, projectID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM participation WHERE user_id = $1 AND project_id = $2)`,
		userID, projectID,
	).Scan(&exists)
	return exists, err
}
