package timeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// HoursPerDay is the number of slots in a materialized timeline.
	HoursPerDay = 24
	// DateLayout is the calendar date format used for timeline days.
	DateLayout = "2006-01-02"
	// PlaceholderPrefix prefixes the ID of synthesized hour records.
	PlaceholderPrefix = "temp_"
)

// HourActivity is the activity logged by one employee during one hour of a day.
type HourActivity struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Hour       int       `json:"hour"`
	Activities []string  `json:"activities"`
	IsLocked   bool      `json:"is_locked"`
	Timestamp  time.Time `json:"timestamp"`
}

// PlaceholderID returns the deterministic ID of a synthesized hour record.
func PlaceholderID(hour int) string {
	return PlaceholderPrefix + strconv.Itoa(hour)
}

// IsPlaceholder reports whether the record was synthesized rather than loaded.
func (h HourActivity) IsPlaceholder() bool {
	return strings.HasPrefix(h.ID, PlaceholderPrefix)
}

// Label renders the hour range, e.g. "09:00 - 10:00".
func (h HourActivity) Label() string {
	return fmt.Sprintf("%02d:00 - %02d:00", h.Hour, (h.Hour+1)%HoursPerDay)
}

// Classification is the display state of an hour slot.
type Classification string

const (
	ClassLogged      Classification = "logged"
	ClassEmptyLocked Classification = "empty-locked"
	ClassEmptyOpen   Classification = "empty-open"
)

// Classify derives the display state of an hour. Logged hours may still be
// locked; the lock is then shown as a secondary badge.
func Classify(h HourActivity) Classification {
	switch {
	case len(h.Activities) > 0:
		return ClassLogged
	case h.IsLocked:
		return ClassEmptyLocked
	default:
		return ClassEmptyOpen
	}
}

// Summary counts the hours of a timeline. Locked overlaps both other groups.
type Summary struct {
	WithActivities int `json:"with_activities"`
	Empty          int `json:"empty"`
	Locked         int `json:"locked"`
	Total          int `json:"total"`
}

// Summarize reduces a materialized timeline to its counts.
func Summarize(records []HourActivity) Summary {
	summary := Summary{Total: HoursPerDay}
	for _, rec := range records {
		if len(rec.Activities) > 0 {
			summary.WithActivities++
		} else {
			summary.Empty++
		}
		if rec.IsLocked {
			summary.Locked++
		}
	}
	return summary
}

// ParseDate parses a YYYY-MM-DD day as midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return day, nil
}

// Today returns the calendar day of now in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format(DateLayout)
}
