package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSpec runs the sweep nightly at 03:00 (seconds field first).
const DefaultSpec = "0 0 3 * * *"

// Sweeper removes milestone budgets whose milestone no longer exists.
type Sweeper interface {
	PruneOrphanedBudgets(ctx context.Context) (int, error)
}

type Scheduler struct {
	sweeper Sweeper
	spec    string
	timeout time.Duration
	log     *zap.Logger
	c       *cron.Cron
}

func NewScheduler(sweeper Sweeper, spec string, log *zap.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		sweeper: sweeper,
		spec:    spec,
		timeout: 10 * time.Minute,
		log:     log,
		c:       cron.New(cron.WithSeconds()),
	}
}

// Start initializes cron tasks
func (s *Scheduler) Start() error {
	if _, err := s.c.AddFunc(s.spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("schedule orphan sweep %q: %w", s.spec, err)
	}

	s.log.Info("cron scheduler started", zap.String("orphan_sweep", s.spec))
	s.c.Start()
	return nil
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("cron scheduler stop timed out")
	}
}

// RunOnce performs a single sweep and reports how many budgets it removed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	s.log.Info("orphan sweep started")
	removed, err := s.sweeper.PruneOrphanedBudgets(ctx)
	if err != nil {
		s.log.Error("orphan sweep finished with errors", zap.Int("removed", removed), zap.Error(err))
		return removed
	}
	s.log.Info("orphan sweep completed",
		zap.Int("removed", removed),
		zap.Duration("took", time.Since(start)),
	)
	return removed
}
