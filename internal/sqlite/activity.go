package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/staffboard/internal/domain/timeline"
)

// ActivityRepository implements timeline.Repository for SQLite. The lock
// flag of loaded records is derived from locks at read time.
type ActivityRepository struct {
	db    *DB
	locks timeline.LockChecker
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB, locks timeline.LockChecker) *ActivityRepository {
	return &ActivityRepository{db: db, locks: locks}
}

// GetEmployeeActivity returns the stored hour records of one day, by hour.
func (r *ActivityRepository) GetEmployeeActivity(ctx context.Context, employeeID, date string) ([]timeline.HourActivity, error) {
	query := `
		SELECT id, employee_id, date, hour, activities, updated_at
		FROM hour_activity
		WHERE employee_id = ? AND date = ?
		ORDER BY hour
	`

	rows, err := r.db.QueryContext(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var records []timeline.HourActivity
	for rows.Next() {
		rec, err := scanHourActivity(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	for i := range records {
		locked, err := r.isLocked(ctx, records[i].Hour, date)
		if err != nil {
			return nil, err
		}
		records[i].IsLocked = locked
	}

	return records, nil
}

// AppendActivity adds an entry to an hour record, creating the record if
// needed. The append is a single upsert so concurrent writers to the same
// hour never lose entries.
func (r *ActivityRepository) AppendActivity(ctx context.Context, employeeID, date string, hour int, entry string, at time.Time) (*timeline.HourActivity, error) {
	query := `
		INSERT INTO hour_activity (id, employee_id, date, hour, activities, updated_at)
		VALUES (?1, ?2, ?3, ?4, json_array(?5), ?6)
		ON CONFLICT (employee_id, date, hour) DO UPDATE SET
			activities = json_insert(activities, '$[#]', ?5),
			updated_at = ?6
		RETURNING id, activities
	`

	var id, raw string
	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), employeeID, date, hour, entry, at.UTC(),
	).Scan(&id, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to append activity: %w", err)
	}

	activities, err := decodeActivities(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode activities for %s: %w", id, err)
	}

	locked, err := r.isLocked(ctx, hour, date)
	if err != nil {
		return nil, err
	}

	return &timeline.HourActivity{
		ID:         id,
		EmployeeID: employeeID,
		Date:       date,
		Hour:       hour,
		Activities: activities,
		IsLocked:   locked,
		Timestamp:  at.UTC(),
	}, nil
}

func (r *ActivityRepository) isLocked(ctx context.Context, hour int, date string) (bool, error) {
	if r.locks == nil {
		return false, nil
	}
	locked, err := r.locks.IsHourLocked(ctx, hour, date)
	if err != nil {
		return false, fmt.Errorf("failed to check lock: %w", err)
	}
	return locked, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHourActivity(row rowScanner) (timeline.HourActivity, error) {
	var rec timeline.HourActivity
	var raw string
	if err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.Hour, &raw, &rec.Timestamp); err != nil {
		return rec, fmt.Errorf("failed to scan activity: %w", err)
	}
	activities, err := decodeActivities(raw)
	if err != nil {
		return rec, fmt.Errorf("failed to decode activities for %s: %w", rec.ID, err)
	}
	rec.Activities = activities
	return rec, nil
}

// decodeActivities parses the JSON array stored in the activities column.
func decodeActivities(raw string) ([]string, error) {
	activities := []string{}
	if raw == "" {
		return activities, nil
	}
	if err := json.Unmarshal([]byte(raw), &activities); err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []string{}
	}
	return activities, nil
}
