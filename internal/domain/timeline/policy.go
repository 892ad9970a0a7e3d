package timeline

import (
	"context"
	"time"
)

// CutoffPolicy locks an hour once it has ended plus a grace period.
type CutoffPolicy struct {
	Now      func() time.Time
	Location *time.Location
	Grace    time.Duration
}

// NewCutoffPolicy creates a policy on the wall clock.
func NewCutoffPolicy(loc *time.Location, grace time.Duration) CutoffPolicy {
	return CutoffPolicy{Now: time.Now, Location: loc, Grace: grace}
}

// IsHourLocked implements LockChecker.
func (p CutoffPolicy) IsHourLocked(_ context.Context, hour int, date string) (bool, error) {
	if hour < 0 || hour >= HoursPerDay {
		return false, ErrInvalidHour
	}
	day, err := ParseDate(date, p.Location)
	if err != nil {
		return false, err
	}

	// time.Date normalizes hour 24 to the next midnight and keeps DST days correct.
	cutoff := time.Date(day.Year(), day.Month(), day.Day(), hour+1, 0, 0, 0, day.Location()).Add(p.Grace)
	return !p.now().Before(cutoff), nil
}

func (p CutoffPolicy) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
