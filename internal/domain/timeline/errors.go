package timeline

import "errors"

var (
	// ErrInvalidInput indicates a missing employee or activity text.
	ErrInvalidInput = errors.New("invalid timeline input")
	// ErrInvalidDate indicates a date not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidHour indicates an hour outside 0..23.
	ErrInvalidHour = errors.New("hour must be between 0 and 23")
	// ErrHourLocked indicates the hour is closed for edits.
	ErrHourLocked = errors.New("hour is locked")
)
