package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Result is the refreshed notification list returned after a mutation.
// WriteErr is set when the mutation did not take effect; the list then shows
// the state the store still holds.
type Result struct {
	Notifications []Notification
	WriteErr      error
	Failed        []string
}

// CreateRequest describes a new notification.
type CreateRequest struct {
	UserID  string
	Type    Type
	Message string
}

// Service adapts a notification store for the notification center.
//
// Direct store capabilities are chosen once, at construction. When a direct
// delete or clear is missing, the service falls back to rewriting the whole
// collection. While a collection is configured every write goes through one
// mutex, so the store's own mark-as-read cannot interleave with a rewrite.
// Writers in other processes sharing the collection are not guarded.
type Service struct {
	store      Store
	deleter    Deleter
	clearer    UserClearer
	creator    Creator
	pruner     Pruner
	collection CollectionStore
	logger     *slog.Logger
	now        func() time.Time

	mu sync.Mutex
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCollection sets the collection used by fallback paths when it is a
// different object than the store.
func WithCollection(collection CollectionStore) Option {
	return func(s *Service) { s.collection = collection }
}

// NewService creates a notification service. The optional Deleter,
// UserClearer, Creator, Pruner and CollectionStore capabilities are taken
// from store when it implements them.
func NewService(store Store, logger *slog.Logger, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrMissingCapability)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Service{store: store, logger: logger, now: time.Now}
	if d, ok := store.(Deleter); ok {
		s.deleter = d
	}
	if c, ok := store.(UserClearer); ok {
		s.clearer = c
	}
	if c, ok := store.(Creator); ok {
		s.creator = c
	}
	if p, ok := store.(Pruner); ok {
		s.pruner = p
	}
	if c, ok := store.(CollectionStore); ok {
		s.collection = c
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.deleter == nil && s.collection == nil {
		return nil, fmt.Errorf("%w: delete needs a direct delete or a collection", ErrMissingCapability)
	}
	if s.clearer == nil && s.collection == nil {
		return nil, fmt.Errorf("%w: clear needs a direct clear or a collection", ErrMissingCapability)
	}
	return s, nil
}

// LoadForUser returns the user's notifications, newest first. The store is
// read on every call.
func (s *Service) LoadForUser(ctx context.Context, userID string) ([]Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	list, err := s.store.GetNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading notifications: %w", err)
	}
	list = slices.Clone(list)
	if list == nil {
		list = []Notification{}
	}
	SortNewestFirst(list)
	return list, nil
}

// MarkAsRead flags one of the user's notifications as read, then reloads.
func (s *Service) MarkAsRead(ctx context.Context, userID, id string) (*Result, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}

	writeErr := s.ensureOwned(ctx, userID, id)
	if writeErr == nil {
		writeErr = s.markRead(ctx, id)
	}
	if writeErr != nil {
		s.logger.Warn("failed to mark notification as read", "user_id", userID, "id", id, "error", writeErr)
		return s.reload(ctx, userID, writeErr, []string{id})
	}
	return s.reload(ctx, userID, nil, nil)
}

// MarkAllAsRead flags every unread notification of the user individually.
// A failing item does not stop the others.
func (s *Service) MarkAllAsRead(ctx context.Context, userID string) (*Result, error) {
	current, err := s.LoadForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var errs error
	var failed []string
	for _, n := range current {
		if n.Read {
			continue
		}
		if err := s.markRead(ctx, n.ID); err != nil {
			s.logger.Warn("failed to mark notification as read", "user_id", userID, "id", n.ID, "error", err)
			failed = append(failed, n.ID)
			errs = multierr.Append(errs, fmt.Errorf("marking %s: %w", n.ID, err))
		}
	}

	return s.reload(ctx, userID, errs, failed)
}

// DeleteOne removes one of the user's notifications, then reloads.
func (s *Service) DeleteOne(ctx context.Context, userID, id string) (*Result, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}

	writeErr := s.ensureOwned(ctx, userID, id)
	if writeErr == nil {
		if s.deleter != nil {
			writeErr = s.deleter.DeleteNotification(ctx, id)
		} else {
			writeErr = s.rewriteCollection(ctx, func(n Notification) bool { return n.ID != id })
		}
	}
	if writeErr != nil {
		s.logger.Warn("failed to delete notification", "user_id", userID, "id", id, "error", writeErr)
		return s.reload(ctx, userID, writeErr, []string{id})
	}
	return s.reload(ctx, userID, nil, nil)
}

// ClearAllForUser removes every notification of the user and nobody else's.
func (s *Service) ClearAllForUser(ctx context.Context, userID string) (*Result, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}

	var writeErr error
	if s.clearer != nil {
		writeErr = s.clearer.ClearNotificationsForUser(ctx, userID)
	} else {
		writeErr = s.rewriteCollection(ctx, func(n Notification) bool { return n.UserID != userID })
	}
	if writeErr != nil {
		s.logger.Warn("failed to clear notifications", "user_id", userID, "error", writeErr)
	}
	return s.reload(ctx, userID, writeErr, nil)
}

// Create stores a new unread notification.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Notification, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Message) == "" {
		return nil, ErrInvalidInput
	}
	if req.Type == "" {
		req.Type = TypeInfo
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, req.Type)
	}

	n := &Notification{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Type:      req.Type,
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: s.now(),
	}

	switch {
	case s.creator != nil:
		if err := s.creator.CreateNotification(ctx, n); err != nil {
			return nil, fmt.Errorf("creating notification: %w", err)
		}
	case s.collection != nil:
		s.mu.Lock()
		defer s.mu.Unlock()
		all, err := s.collection.LoadCollection(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading collection: %w", err)
		}
		if err := s.collection.SaveCollection(ctx, append(all, *n)); err != nil {
			return nil, fmt.Errorf("saving collection: %w", err)
		}
	default:
		return nil, ErrUnsupported
	}

	s.logger.Info("notification created", "user_id", n.UserID, "id", n.ID, "type", n.Type)
	return n, nil
}

// PruneRead deletes read notifications older than olderThan and returns how
// many were removed.
func (s *Service) PruneRead(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)

	if s.pruner != nil {
		removed, err := s.pruner.DeleteReadBefore(ctx, cutoff)
		if err != nil {
			return 0, fmt.Errorf("pruning notifications: %w", err)
		}
		return removed, nil
	}
	if s.collection == nil {
		return 0, ErrUnsupported
	}

	var removed int64
	err := s.rewriteCollection(ctx, func(n Notification) bool {
		if n.Read && n.CreatedAt.Before(cutoff) {
			removed++
			return false
		}
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("pruning notifications: %w", err)
	}
	return removed, nil
}

// rewriteCollection keeps the notifications of the entire collection that
// match keep and writes the remainder back.
func (s *Service) rewriteCollection(ctx context.Context, keep func(Notification) bool) error {
	if s.collection == nil {
		return ErrMissingCapability
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.collection.LoadCollection(ctx)
	if err != nil {
		return fmt.Errorf("loading collection: %w", err)
	}
	remaining := make([]Notification, 0, len(all))
	for _, n := range all {
		if keep(n) {
			remaining = append(remaining, n)
		}
	}
	if len(remaining) == len(all) {
		return nil
	}
	if err := s.collection.SaveCollection(ctx, remaining); err != nil {
		return fmt.Errorf("saving collection: %w", err)
	}
	return nil
}

// markRead writes the read flag. With a collection configured the store's
// write may itself rewrite the collection, so it shares the rewrite lock.
func (s *Service) markRead(ctx context.Context, id string) error {
	if s.collection != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return s.store.MarkNotificationAsRead(ctx, id)
}

func (s *Service) ensureOwned(ctx context.Context, userID, id string) error {
	list, err := s.store.GetNotifications(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading notifications: %w", err)
	}
	for _, n := range list {
		if n.ID == id {
			return nil
		}
	}
	return ErrNotFound
}

func (s *Service) reload(ctx context.Context, userID string, writeErr error, failed []string) (*Result, error) {
	list, err := s.LoadForUser(ctx, userID)
	if err != nil {
		if writeErr != nil {
			return nil, errors.Join(err, writeErr)
		}
		return nil, err
	}
	return &Result{Notifications: list, WriteErr: writeErr, Failed: failed}, nil
}
