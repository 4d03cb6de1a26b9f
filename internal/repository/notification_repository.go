package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/property-rental/internal/model"
)

// NotificationRepo stores per-user messages produced by the reservation
// event consumer and by direct API writes.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

const notificationCols = `id, sender_id, receiver_id, message, is_read, created_at`

func scanNotification(row interface{ Scan(...interface{}) error }, n *model.Notification) error {
	return row.Scan(&n.ID, &n.SenderID, &n.ReceiverID, &n.Message, &n.IsRead, &n.CreatedAt)
}

// Create inserts an unread notification and populates the generated id
// and timestamp on n.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (sender_id, receiver_id, message) VALUES (?, ?, ?)`,
		n.SenderID, n.ReceiverID, n.Message)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return scanNotification(r.db.QueryRowContext(ctx,
		`SELECT `+notificationCols+` FROM notifications WHERE id = ?`, n.ID), n)
}

// ListUnreadByReceiver returns a user's unread notifications, newest first.
func (r *NotificationRepo) ListUnreadByReceiver(ctx context.Context, receiverID uint64) ([]model.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+notificationCols+` FROM notifications WHERE receiver_id = ? AND is_read = FALSE ORDER BY created_at DESC, id DESC`,
		receiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := scanNotification(rows, &n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flips a notification to read on behalf of receiverID.  Returns
// ErrNotificationNotFound when the id is absent and ErrForbidden when the
// notification belongs to somebody else.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, receiverID uint64) error {
	var owner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT receiver_id FROM notifications WHERE id = ?`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return err
	}
	if owner != receiverID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = ?`, id)
	return err
}
