package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
)

type prunerStub struct {
	calls     atomic.Int32
	olderThan time.Duration
	err       error
}

func (p *prunerStub) PruneRead(_ context.Context, olderThan time.Duration) (int64, error) {
	p.calls.Add(1)
	p.olderThan = olderThan
	return 2, p.err
}

func TestScheduler_RunOnce(t *testing.T) {
	pruner := &prunerStub{}
	s := New(pruner, 48*time.Hour, nil)

	require.NoError(t, s.RunOnce(context.Background()))
	require.Equal(t, int32(1), pruner.calls.Load())
	require.Equal(t, 48*time.Hour, pruner.olderThan)

	pruner.err = errors.New("locked")
	require.Error(t, s.RunOnce(context.Background()))
}

func TestScheduler_Disabled(t *testing.T) {
	pruner := &prunerStub{}
	s := New(pruner, 0, nil)

	require.NoError(t, s.Start())
	require.NoError(t, s.RunOnce(context.Background()))
	require.Zero(t, pruner.calls.Load())
	<-s.Stop().Done()
}

func TestScheduler_StartRunsJob(t *testing.T) {
	pruner := &prunerStub{}
	s := New(pruner, time.Hour, nil,
		WithCron(cron.New(cron.WithSeconds(), cron.WithLogger(cron.DiscardLogger))),
		WithPruneSchedule("* * * * * *"),
	)

	require.NoError(t, s.Start())
	require.Eventually(t, func() bool { return pruner.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	<-s.Stop().Done()
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := New(&prunerStub{}, time.Hour, nil, WithPruneSchedule("not a schedule"))
	require.Error(t, s.Start())
}
