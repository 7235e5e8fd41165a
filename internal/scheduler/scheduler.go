package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/novaninjas/jobsync/internal/aggregate"
)

// CycleRunner runs one aggregation cycle. Satisfied by aggregate.Aggregator.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*aggregate.CycleStats, error)
}

// Scheduler owns the daemon loop: one immediate aggregation cycle, then one
// per interval until the context is cancelled.
type Scheduler struct {
	runner   CycleRunner
	interval time.Duration
	logger   *slog.Logger
}

// New creates a scheduler that runs cycles at the given interval.
func New(runner CycleRunner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the sync loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful
// shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runCycle(ctx)
		}
	}
}

// runCycle runs one cycle; a failed cycle is logged and the loop keeps going.
func (s *Scheduler) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.runner.RunCycle(ctx); err != nil {
		s.logger.Error("aggregation cycle failed", "error", err)
	}
}
