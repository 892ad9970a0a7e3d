package notification

import (
	"context"
	"time"
)

// Store is the minimum a notification backend must provide.
type Store interface {
	GetNotifications(ctx context.Context, userID string) ([]Notification, error)
	// MarkNotificationAsRead returns repository.ErrNotFound for unknown IDs.
	MarkNotificationAsRead(ctx context.Context, id string) error
}

// Deleter removes a single notification directly.
type Deleter interface {
	DeleteNotification(ctx context.Context, id string) error
}

// UserClearer removes every notification of one user directly.
type UserClearer interface {
	ClearNotificationsForUser(ctx context.Context, userID string) error
}

// Creator persists a new notification directly.
type Creator interface {
	CreateNotification(ctx context.Context, n *Notification) error
}

// Pruner removes read notifications created before cutoff.
type Pruner interface {
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CollectionStore reads and writes the whole notification collection, all
// users included. It backs the fallback paths of stores without direct
// mutations.
type CollectionStore interface {
	LoadCollection(ctx context.Context) ([]Notification, error)
	SaveCollection(ctx context.Context, all []Notification) error
}
