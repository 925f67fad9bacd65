package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/readiness"
)

// PruneOrphanedBudgets removes milestone budgets whose milestone no longer
// exists in any project. It keeps going past per-project failures and returns
// the number of budgets removed together with the first error seen.
func (s *ProjectService) PruneOrphanedBudgets(ctx context.Context) (int, error) {
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	var (
		total    int
		firstErr error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := s.PruneProjectOrphans(ctx, id)
		if err != nil {
			s.logger(ctx).Error("orphan sweep failed", zap.String("project_id", id), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		total += n
	}
	return total, firstErr
}

// PruneProjectOrphans removes orphaned milestone budgets from one project.
func (s *ProjectService) PruneProjectOrphans(ctx context.Context, projectID string) (int, error) {
	var removed int
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		orphans := readiness.OrphanedMilestoneBudgets(p)
		removed = len(orphans)
		if removed == 0 {
			return errNothingToWrite
		}

		drop := make(map[string]struct{}, removed)
		for _, id := range orphans {
			drop[id] = struct{}{}
		}
		kept := p.MilestoneBudgets[:0]
		for _, b := range p.MilestoneBudgets {
			if _, ok := drop[b.ID]; !ok {
				kept = append(kept, b)
			}
		}
		p.MilestoneBudgets = kept
		return nil
	})
	if errors.Is(err, errNothingToWrite) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	metrics.OrphanBudgetsRemoved.Add(float64(removed))
	s.logger(ctx).Info("orphaned milestone budgets removed",
		zap.String("project_id", projectID),
		zap.Int("count", removed),
	)
	return removed, nil
}
