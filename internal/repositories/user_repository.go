package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"teamdesk/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, patch models.ProfilePatch) (int64, error)
	SetTelegramChat(ctx context.Context, id int64, chatID int64) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `user_id, first_name, last_name, email, password_hash, profile_image, location, telegram_chat_id, created_at`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (first_name, last_name, email, password_hash, profile_image, location, telegram_chat_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING user_id, created_at`
	return r.db.QueryRowContext(ctx, q,
		user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.ProfileImage, user.Location, user.TelegramChat,
	).Scan(&user.ID, &user.CreatedAt)
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		hash     sql.NullString
		image    sql.NullString
		location sql.NullString
		tgChat   sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &hash, &image, &location, &tgChat, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if hash.Valid {
		s := hash.String
		u.PasswordHash = &s
	}
	if image.Valid {
		s := image.String
		u.ProfileImage = &s
	}
	if location.Valid {
		s := location.String
		u.Location = &s
	}
	if tgChat.Valid {
		n := tgChat.Int64
		u.TelegramChat = &n
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE user_id = $1`, userColumns)
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// UpdateProfile writes only the fields present in the patch.
func (r *userRepository) UpdateProfile(ctx context.Context, id int64, patch models.ProfilePatch) (int64, error) {
	sets := []string{}
	args := []interface{}{}
	argID := 1

	if patch.FirstName != nil {
		sets = append(sets, fmt.Sprintf("first_name = $%d", argID))
		args = append(args, *patch.FirstName)
		argID++
	}
	if patch.LastName != nil {
		sets = append(sets, fmt.Sprintf("last_name = $%d", argID))
		args = append(args, *patch.LastName)
		argID++
	}
	if patch.ProfileImage != nil {
		sets = append(sets, fmt.Sprintf("profile_image = $%d", argID))
		args = append(args, *patch.ProfileImage)
		argID++
	}
	if patch.Location != nil {
		sets = append(sets, fmt.Sprintf("location = $%d", argID))
		args = append(args, *patch.Location)
		argID++
	}
	if len(sets) == 0 {
		return 0, nil
	}

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE users SET %s WHERE user_id = $%d`, strings.Join(sets, ", "), argID)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *userRepository) SetTelegramChat(ctx context.Context, id int64, chatID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET telegram_chat_id = $1 WHERE user_id = $2`, chatID, id)
	return err
}
