package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the reconciler on a six-field cron schedule in UTC.
type Scheduler struct {
	cron       *cron.Cron
	reconciler *Reconciler
	logger     *slog.Logger
	timeout    time.Duration
}

func NewScheduler(reconciler *Reconciler, schedule string, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{
		cron:       c,
		reconciler: reconciler,
		logger:     logger,
		timeout:    5 * time.Minute,
	}

	if _, err := c.AddFunc(schedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}

	return s, nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.reconciler.Run(ctx); err != nil {
		s.logger.Error("scheduled reconciliation failed", "error", err)
	}
}

func (s *Scheduler) Start() {
	s.logger.Info("starting reconcile scheduler")
	s.cron.Start()
}

// Stop waits for a running reconciliation to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("stopping reconcile scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next reports when the reconciler runs next; zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
