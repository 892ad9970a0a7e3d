package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Service materializes daily activity timelines.
type Service struct {
	repo     Repository
	locks    LockChecker
	logger   *slog.Logger
	now      func() time.Time
	location *time.Location
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the location that defines "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

// NewService creates a new timeline service.
func NewService(repo Repository, locks LockChecker, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		repo:     repo,
		locks:    locks,
		logger:   logger,
		now:      time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildDailyTimeline returns exactly one record per hour of the day, in hour
// order. Stored records are returned verbatim; missing hours are filled with
// placeholders. An empty date means today. Nothing is written.
func (s *Service) BuildDailyTimeline(ctx context.Context, employeeID, date string) ([]HourActivity, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, ErrInvalidInput
	}
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.GetEmployeeActivity(ctx, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("loading activity: %w", err)
	}

	byHour := make(map[int]HourActivity, len(stored))
	for _, rec := range stored {
		if rec.EmployeeID != employeeID || rec.Date != date {
			s.logger.Warn("ignoring activity record for another employee or day",
				"id", rec.ID, "employee_id", rec.EmployeeID, "date", rec.Date)
			continue
		}
		if rec.Hour < 0 || rec.Hour >= HoursPerDay {
			s.logger.Warn("ignoring activity record with invalid hour", "id", rec.ID, "hour", rec.Hour)
			continue
		}
		if _, dup := byHour[rec.Hour]; dup {
			s.logger.Warn("ignoring duplicate activity record", "id", rec.ID, "hour", rec.Hour)
			continue
		}
		byHour[rec.Hour] = rec
	}

	now := s.now()
	timeline := make([]HourActivity, 0, HoursPerDay)
	for hour := 0; hour < HoursPerDay; hour++ {
		if rec, ok := byHour[hour]; ok {
			timeline = append(timeline, rec)
			continue
		}
		locked, err := s.locks.IsHourLocked(ctx, hour, date)
		if err != nil {
			return nil, fmt.Errorf("checking lock for hour %d: %w", hour, err)
		}
		timeline = append(timeline, HourActivity{
			ID:         PlaceholderID(hour),
			EmployeeID: employeeID,
			Date:       date,
			Hour:       hour,
			Activities: []string{},
			IsLocked:   locked,
			Timestamp:  now,
		})
	}

	return timeline, nil
}

// LogActivity appends an entry to an open hour of the day.
func (s *Service) LogActivity(ctx context.Context, employeeID, date string, hour int, text string) (*HourActivity, error) {
	text = strings.TrimSpace(text)
	if strings.TrimSpace(employeeID) == "" || text == "" {
		return nil, ErrInvalidInput
	}
	if hour < 0 || hour >= HoursPerDay {
		return nil, ErrInvalidHour
	}
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	locked, err := s.locks.IsHourLocked(ctx, hour, date)
	if err != nil {
		return nil, fmt.Errorf("checking lock: %w", err)
	}
	if locked {
		return nil, ErrHourLocked
	}

	rec, err := s.repo.AppendActivity(ctx, employeeID, date, hour, text, s.now())
	if err != nil {
		return nil, fmt.Errorf("appending activity: %w", err)
	}

	s.logger.Info("activity logged", "employee_id", employeeID, "date", date, "hour", hour)
	return rec, nil
}

// Today returns the current day in the service location.
func (s *Service) Today() string {
	return Today(s.now(), s.location)
}

func (s *Service) resolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.Today(), nil
	}
	if _, err := ParseDate(date, s.location); err != nil {
		return "", err
	}
	return date, nil
}
