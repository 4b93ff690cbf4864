package repository

import (
	"context"
	"errors"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, recipient_id, type, message, request_id, session_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, n.ID, n.RecipientID, n.Type, n.Message, n.RequestID, n.SessionID, n.Read, n.CreatedAt)
	return err
}

// GetByID returns (nil, nil) when the notification does not exist.
func (r *NotificationRepository) GetByID(ctx context.Context, notificationID string) (*model.Notification, error) {
	var n model.Notification
	err := r.pool.QueryRow(ctx, `
		SELECT id, recipient_id, type, message, request_id, session_id, read, created_at
		FROM notifications WHERE id = $1
	`, notificationID).Scan(&n.ID, &n.RecipientID, &n.Type, &n.Message,
		&n.RequestID, &n.SessionID, &n.Read, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListUnread returns the recipient's unread notifications, newest first.
func (r *NotificationRepository) ListUnread(ctx context.Context, recipientID string) ([]*model.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, recipient_id, type, message, request_id, session_id, read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND read = FALSE
		ORDER BY created_at DESC
	`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Message,
			&n.RequestID, &n.SessionID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}

// MarkRead is idempotent; marking an already-read notification is a no-op
// at the row level.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1
	`, notificationID)
	return err
}
