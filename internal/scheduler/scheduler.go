package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultPruneSpec = "@daily"

// NotificationPruner removes read notifications older than a retention window.
type NotificationPruner interface {
	PruneRead(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Scheduler runs background maintenance jobs.
type Scheduler struct {
	pruner    NotificationPruner
	retention time.Duration
	spec      string
	cron      *cron.Cron
	logger    *slog.Logger
}

// Option customizes the Scheduler.
type Option func(*Scheduler)

// WithCron injects a preconfigured cron instance.
func WithCron(c *cron.Cron) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithPruneSchedule overrides the cron specification of the prune job.
func WithPruneSchedule(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.spec = spec
		}
	}
}

// New creates a scheduler. A nil pruner or a non-positive retention disables
// the prune job.
func New(pruner NotificationPruner, retention time.Duration, logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Scheduler{
		pruner:    pruner,
		retention: retention,
		spec:      defaultPruneSpec,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cron == nil {
		s.cron = cron.New(cron.WithLogger(cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))
	}
	return s
}

func (s *Scheduler) enabled() bool {
	return s.pruner != nil && s.retention > 0
}

// Start registers jobs and launches the cron scheduler.
func (s *Scheduler) Start() error {
	if !s.enabled() {
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.logger.Warn("notification prune failed", "error", err)
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "prune_schedule", s.spec, "retention", s.retention)
	return nil
}

// Stop halts the scheduler; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce executes the prune job immediately.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if !s.enabled() {
		return nil
	}
	removed, err := s.pruner.PruneRead(ctx, s.retention)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Info("pruned read notifications", "removed", removed, "retention", s.retention)
	}
	return nil
}
