package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/staffboard/internal/domain/timeline"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type lockBefore int

func (l lockBefore) IsHourLocked(_ context.Context, hour int, _ string) (bool, error) {
	return hour < int(l), nil
}

func TestActivityRepository_AppendAndGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db, lockBefore(10))
	at := time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC)

	first, err := repo.AppendActivity(ctx, "emp1", "2026-03-10", 9, "standup", at)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.Equal(t, []string{"standup"}, first.Activities)
	require.True(t, first.IsLocked)

	second, err := repo.AppendActivity(ctx, "emp1", "2026-03-10", 9, "code review", at.Add(10*time.Minute))
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, []string{"standup", "code review"}, second.Activities)

	_, err = repo.AppendActivity(ctx, "emp1", "2026-03-10", 14, "deploy", at.Add(5*time.Hour))
	require.NoError(t, err)

	records, err := repo.GetEmployeeActivity(ctx, "emp1", "2026-03-10")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 9, records[0].Hour)
	require.Equal(t, []string{"standup", "code review"}, records[0].Activities)
	require.True(t, records[0].IsLocked)
	require.True(t, records[0].Timestamp.Equal(at.Add(10*time.Minute)))
	require.Equal(t, 14, records[1].Hour)
	require.False(t, records[1].IsLocked)
}

func TestActivityRepository_IsolatesEmployeesAndDays(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db, nil)
	at := time.Now()

	_, err := repo.AppendActivity(ctx, "emp1", "2026-03-10", 8, "a", at)
	require.NoError(t, err)
	_, err = repo.AppendActivity(ctx, "emp2", "2026-03-10", 8, "b", at)
	require.NoError(t, err)
	_, err = repo.AppendActivity(ctx, "emp1", "2026-03-11", 8, "c", at)
	require.NoError(t, err)

	records, err := repo.GetEmployeeActivity(ctx, "emp1", "2026-03-10")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, []string{"a"}, records[0].Activities)

	records, err = repo.GetEmployeeActivity(ctx, "emp3", "2026-03-10")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestActivityRepository_FeedsTimeline(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 5, 0, 0, time.UTC)
	policy := timeline.CutoffPolicy{Now: func() time.Time { return now }, Location: time.UTC}
	repo := NewActivityRepository(db, policy)

	_, err := repo.AppendActivity(ctx, "emp1", "2026-03-10", 5, "standup", now)
	require.NoError(t, err)

	svc := timeline.NewService(repo, policy, nil,
		timeline.WithClock(func() time.Time { return now }),
		timeline.WithLocation(time.UTC),
	)
	hours, err := svc.BuildDailyTimeline(ctx, "emp1", "")
	require.NoError(t, err)
	require.Len(t, hours, timeline.HoursPerDay)
	require.Equal(t, []string{"standup"}, hours[5].Activities)
	require.False(t, hours[5].IsPlaceholder())
	require.Equal(t, timeline.ClassEmptyLocked, timeline.Classify(hours[11]))
	require.Equal(t, timeline.ClassEmptyOpen, timeline.Classify(hours[12]))

	summary := timeline.Summarize(hours)
	require.Equal(t, 1, summary.WithActivities)
	require.Equal(t, 23, summary.Empty)
	require.Equal(t, 12, summary.Locked)
}

func TestActivityRepository_ConcurrentAppendOnFileDB(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "staffboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	ctx := context.Background()
	repo := NewActivityRepository(db, nil)
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	const writers = 8
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < writers; i++ {
		entry := fmt.Sprintf("entry-%d", i)
		g.Go(func() error {
			_, err := repo.AppendActivity(gctx, "emp1", "2026-03-10", 9, entry, at)
			return err
		})
	}
	require.NoError(t, g.Wait())

	records, err := repo.GetEmployeeActivity(ctx, "emp1", "2026-03-10")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].Activities, writers)
}
