package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/staffboard/internal/domain/notification"
	"github.com/rpggio/staffboard/internal/repository"
)

// NotificationRepository stores notifications in their own table and
// supports every direct mutation.
type NotificationRepository struct {
	db *DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateNotification inserts a new notification
func (r *NotificationRepository) CreateNotification(ctx context.Context, n *notification.Notification) error {
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, type, message, read, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, string(n.Type), n.Message, n.Read, createdAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: duplicate notification id %s", repository.ErrInvalidInput, n.ID)
		}
		return fmt.Errorf("failed to create notification: %w", err)
	}

	n.CreatedAt = createdAt.UTC()
	return nil
}

// GetNotifications returns all notifications of a user, newest first
func (r *NotificationRepository) GetNotifications(ctx context.Context, userID string) ([]notification.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, message, read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer rows.Close()

	var list []notification.Notification
	for rows.Next() {
		var n notification.Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Type = notification.Type(typ)
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return list, nil
}

// MarkNotificationAsRead sets read on one notification
func (r *NotificationRepository) MarkNotificationAsRead(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return expectAffected(result, id)
}

// DeleteNotification deletes one notification
func (r *NotificationRepository) DeleteNotification(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return expectAffected(result, id)
}

// ClearNotificationsForUser deletes every notification of a user
func (r *NotificationRepository) ClearNotificationsForUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}

// DeleteReadBefore deletes read notifications created before cutoff
func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE read = 1 AND created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete read notifications: %w", err)
	}
	return result.RowsAffected()
}

type rowsResult interface {
	RowsAffected() (int64, error)
}

func expectAffected(result rowsResult, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("notification %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
