package timeline

import (
	"context"
	"time"
)

// Repository provides persistence for hour activity records.
type Repository interface {
	// GetEmployeeActivity returns the stored records of a day; zero to 24 items.
	GetEmployeeActivity(ctx context.Context, employeeID, date string) ([]HourActivity, error)
	AppendActivity(ctx context.Context, employeeID, date string, hour int, entry string, at time.Time) (*HourActivity, error)
}

// LockChecker decides whether an hour of a day is closed for edits.
type LockChecker interface {
	IsHourLocked(ctx context.Context, hour int, date string) (bool, error)
}
