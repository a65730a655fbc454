package repositories

import (
	"context"
	"database/sql"

	"teamdesk/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID int64) (int64, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	const q = `
		INSERT INTO notification (user_id, type, title, message, related_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING notification_id, is_read, created_at`
	return r.db.QueryRowContext(ctx, q, n.UserID, n.Type, n.Title, n.Message, n.RelatedID).
		Scan(&n.ID, &n.IsRead, &n.CreatedAt)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]models.Notification, error) {
	q := `
		SELECT notification_id, user_id, type, title, message, related_id, is_read, created_at
		FROM notification
		WHERE user_id = $1`
	if unreadOnly {
		q += ` AND is_read = FALSE`
	}
	q += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var related sql.NullInt64
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &related, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		if related.Valid {
			v := related.Int64
			n.RelatedID = &v
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead is scoped by user id so callers can only touch their own rows.
func (r *notificationRepository) MarkRead(ctx context.Context, notificationID, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notification SET is_read = TRUE WHERE notification_id = $1 AND user_id = $2`,
		notificationID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notification SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
