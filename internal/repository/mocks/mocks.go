package mocks

import (
	"context"
	"time"

	"github.com/rpggio/staffboard/internal/domain/notification"
	"github.com/rpggio/staffboard/internal/domain/timeline"
	"github.com/stretchr/testify/mock"
)

// TimelineRepository is a mock for timeline.Repository.
type TimelineRepository struct {
	mock.Mock
}

func (m *TimelineRepository) GetEmployeeActivity(ctx context.Context, employeeID, date string) ([]timeline.HourActivity, error) {
	args := m.Called(ctx, employeeID, date)
	if list, ok := args.Get(0).([]timeline.HourActivity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimelineRepository) AppendActivity(ctx context.Context, employeeID, date string, hour int, entry string, at time.Time) (*timeline.HourActivity, error) {
	args := m.Called(ctx, employeeID, date, hour, entry, at)
	if rec, ok := args.Get(0).(*timeline.HourActivity); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

// LockChecker is a mock for timeline.LockChecker.
type LockChecker struct {
	mock.Mock
}

func (m *LockChecker) IsHourLocked(ctx context.Context, hour int, date string) (bool, error) {
	args := m.Called(ctx, hour, date)
	return args.Bool(0), args.Error(1)
}

// NotificationStore is a mock for notification.Store with no optional capabilities.
type NotificationStore struct {
	mock.Mock
}

func (m *NotificationStore) GetNotifications(ctx context.Context, userID string) ([]notification.Notification, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]notification.Notification); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NotificationStore) MarkNotificationAsRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// FullNotificationStore adds the direct mutation capabilities.
type FullNotificationStore struct {
	NotificationStore
}

func (m *FullNotificationStore) DeleteNotification(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *FullNotificationStore) ClearNotificationsForUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *FullNotificationStore) CreateNotification(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *FullNotificationStore) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// CollectionNotificationStore adds raw collection access only.
type CollectionNotificationStore struct {
	NotificationStore
}

func (m *CollectionNotificationStore) LoadCollection(ctx context.Context) ([]notification.Notification, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]notification.Notification); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CollectionNotificationStore) SaveCollection(ctx context.Context, all []notification.Notification) error {
	args := m.Called(ctx, all)
	return args.Error(0)
}
