package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/staffboard/internal/domain/notification"
	"github.com/rpggio/staffboard/internal/repository"
)

// NotificationsKey is the key holding the whole notification collection.
const NotificationsKey = "notifications"

// NotificationCollection keeps every user's notifications as one JSON
// document in the key-value store. It offers no direct delete or clear, so
// services fall back to rewriting the collection.
//
// Every write is a read-modify-write of the whole document. Callers serialize
// writers; notification.Service does so for its fallback paths and for
// MarkNotificationAsRead.
type NotificationCollection struct {
	kv  *KVStore
	key string
}

// NewNotificationCollection creates a collection under NotificationsKey.
func NewNotificationCollection(kv *KVStore) *NotificationCollection {
	return &NotificationCollection{kv: kv, key: NotificationsKey}
}

// LoadCollection returns every stored notification.
func (c *NotificationCollection) LoadCollection(ctx context.Context) ([]notification.Notification, error) {
	raw, ok, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []notification.Notification{}, nil
	}
	var all []notification.Notification
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	return all, nil
}

// SaveCollection replaces the stored collection.
func (c *NotificationCollection) SaveCollection(ctx context.Context, all []notification.Notification) error {
	if all == nil {
		all = []notification.Notification{}
	}
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	return c.kv.Put(ctx, c.key, string(data))
}

// GetNotifications returns the notifications of one user.
func (c *NotificationCollection) GetNotifications(ctx context.Context, userID string) ([]notification.Notification, error) {
	all, err := c.LoadCollection(ctx)
	if err != nil {
		return nil, err
	}
	var list []notification.Notification
	for _, n := range all {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	return list, nil
}

// MarkNotificationAsRead flags one notification as read.
func (c *NotificationCollection) MarkNotificationAsRead(ctx context.Context, id string) error {
	all, err := c.LoadCollection(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == id {
			if all[i].Read {
				return nil
			}
			all[i].Read = true
			return c.SaveCollection(ctx, all)
		}
	}
	return fmt.Errorf("notification %s: %w", id, repository.ErrNotFound)
}
