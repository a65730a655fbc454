package repositories

import (
	"context"
	"database/sql"

	"teamdesk/internal/authz"
	"teamdesk/internal/models"
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	GetByURL(ctx context.Context, url string) (*models.Team, error)
	ExistsByNameAndCreator(ctx context.Context, name string, creatorID int64) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]models.TeamSummary, error)
	UpdateName(ctx context.Context, teamID int64, name string) (int64, error)

	// Membership lookup. GetRole re-queries on every call: roles must
	// never go stale mid-request, and there is no cross-request cache.
	GetRole(ctx context.Context, userID, teamID int64) (authz.Role, error)
	AddMember(ctx context.Context, m models.Membership) error
	RemoveMember(ctx context.Context, userID, teamID int64) (int64, error)
	ChangeRole(ctx context.Context, userID, teamID int64, role string) (int64, error)
	ListMembers(ctx context.Context, teamID int64) ([]models.TeamMember, error)
	GetOwnerContact(ctx context.Context, teamID int64) (*models.OwnerContact, error)
}

type teamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	const q = `
		INSERT INTO team (team_name, team_url, create_by)
		VALUES ($1,$2,$3)
		RETURNING team_id, create_at`
	return r.db.QueryRowContext(ctx, q, team.Name, team.URL, team.CreatedBy).
		Scan(&team.ID, &team.CreatedAt)
}

func scanTeam(row *sql.Row) (*models.Team, error) {
	t := &models.Team{}
	err := row.Scan(&t.ID, &t.Name, &t.URL, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	const q = `SELECT team_id, team_name, team_url, create_by, create_at FROM team WHERE team_id = $1`
	return scanTeam(r.db.QueryRowContext(ctx, q, id))
}

func (r *teamRepository) GetByURL(ctx context.Context, url string) (*models.Team, error) {
	const q = `SELECT team_id, team_name, team_url, create_by, create_at FROM team WHERE team_url = $1`
	return scanTeam(r.db.QueryRowContext(ctx, q, url))
}

func (r *teamRepository) ExistsByNameAndCreator(ctx context.Context, name string, creatorID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM team WHERE team_name = $1 AND create_by = $2)`,
		name, creatorID,
	).Scan(&exists)
	return exists, err
}

func (r *teamRepository) ListForUser(ctx context.Context, userID int64) ([]models.TeamSummary, error) {
	const q = `
		SELECT t.team_id, t.team_name, t.team_url, t.create_by, t.create_at,
		       b.role, COUNT(DISTINCT p.project_id) AS project_count
		FROM team t
		INNER JOIN belong b ON t.team_id = b.team_id
		LEFT JOIN project p ON t.team_id = p.team_id
		WHERE b.user_id = $1
		GROUP BY t.team_id, t.team_name, t.team_url, t.create_by, t.create_at, b.role
		ORDER BY t.create_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TeamSummary
	for rows.Next() {
		var s models.TeamSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &s.CreatedBy, &s.CreatedAt, &s.Role, &s.ProjectCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *teamRepository) UpdateName(ctx context.Context, teamID int64, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE team SET team_name = $1 WHERE team_id = $2`, name, teamID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *teamRepository) GetRole(ctx context.Context, userID, teamID int64) (authz.Role, error) {
	var role string
	err := r.db.QueryRowContext(ctx,
		`SELECT role FROM belong WHERE user_id = $1 AND team_id = $2`, userID, teamID,
	).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return authz.RoleNone, nil
		}
		return authz.RoleNone, err
	}
	return authz.ParseRole(role), nil
}

func (r *teamRepository) AddMember(ctx context.Context, m models.Membership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO belong (user_id, team_id, role) VALUES ($1,$2,$3)`,
		m.UserID, m.TeamID, m.Role)
	return err
}

func (r *teamRepository) RemoveMember(ctx context.Context, userID, teamID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM belong WHERE user_id = $1 AND team_id = $2`, userID, teamID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *teamRepository) ChangeRole(ctx context.Context, userID, teamID int64, role string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE belong SET role = $1 WHERE user_id = $2 AND team_id = $3`, role, userID, teamID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *teamRepository) ListMembers(ctx context.Context, teamID int64) ([]models.TeamMember, error) {
	const q = `
		SELECT u.user_id, u.first_name, u.last_name, u.email, u.profile_image, b.role
		FROM users u
		INNER JOIN belong b ON u.user_id = b.user_id
		WHERE b.team_id = $1
		ORDER BY
		  CASE b.role WHEN 'owner' THEN 1 WHEN 'admin' THEN 2 ELSE 3 END,
		  u.first_name`
	rows, err := r.db.QueryContext(ctx, q, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		var image sql.NullString
		if err := rows.Scan(&m.UserID, &m.FirstName, &m.LastName, &m.Email, &image, &m.Role); err != nil {
			return nil, err
		}
		if image.Valid {
			s := image.String
			m.ProfileImage = &s
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *teamRepository) GetOwnerContact(ctx context.Context, teamID int64) (*models.OwnerContact, error) {
	const q = `
		SELECT u.user_id, u.first_name || ' ' || u.last_name, u.email
		FROM belong b
		INNER JOIN users u ON b.user_id = u.user_id
		WHERE b.team_id = $1 AND b.role = 'owner'
		LIMIT 1`
	c := &models.OwnerContact{}
	err := r.db.QueryRowContext(ctx, q, teamID).Scan(&c.UserID, &c.Name, &c.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}
