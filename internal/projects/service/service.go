package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/logger"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/costing"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/events"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/readiness"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/repository"
)

// Options configures a ProjectService. Zero values pick sensible defaults.
type Options struct {
	CostPeriodDays int
	Publisher      events.Publisher
	Logger         *zap.Logger
	Clock          func() time.Time
}

// ProjectService implements the funding workflow on top of a document store.
// Every mutation goes through Store.Mutate, so validation happens against the
// latest persisted state and failed validations never write.
type ProjectService struct {
	store repository.Store
	calc  costing.Calculator
	eval  *readiness.Evaluator
	pub   events.Publisher
	log   *zap.Logger
	now   func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(store repository.Store, opts Options) *ProjectService {
	s := &ProjectService{
		store: store,
		calc:  costing.NewCalculator(opts.CostPeriodDays),
		eval:  readiness.NewEvaluator(),
		pub:   opts.Publisher,
		log:   opts.Logger,
		now:   opts.Clock,
	}
	if s.pub == nil {
		s.pub = events.Nop{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// Calculator exposes the configured cost calculator.
func (s *ProjectService) Calculator() costing.Calculator { return s.calc }

func (s *ProjectService) logger(ctx context.Context) *zap.Logger {
	return logger.WithRequestID(ctx, s.log)
}

// publish never fails the calling operation; delivery problems are logged.
func (s *ProjectService) publish(ctx context.Context, typ, projectID string, actor domain.Actor, data map[string]interface{}) {
	e := events.Event{
		Type:       typ,
		ProjectID:  projectID,
		ActorID:    actor.ID,
		Data:       data,
		OccurredAt: s.now(),
	}
	if err := s.pub.Publish(ctx, e); err != nil {
		s.logger(ctx).Error("failed to publish event",
			zap.String("event", typ),
			zap.String("project_id", projectID),
			zap.Error(err),
		)
	}
}

func (s *ProjectService) timestamp() *time.Time {
	t := s.now()
	return &t
}

// requireOwner allows the project owner and platform governors.
func requireOwner(p *domain.Project, actor domain.Actor) error {
	if actor.IsGovernor || (actor.ID != "" && actor.ID == p.OwnerID) {
		return nil
	}
	return domain.ErrForbidden
}

func requireGovernor(actor domain.Actor) error {
	if !actor.IsGovernor {
		return domain.ErrForbidden
	}
	return nil
}

// recomputeCost refreshes the cached project cost after resource changes.
func (s *ProjectService) recomputeCost(p *domain.Project) error {
	total, err := s.calc.TotalProjectCost(p)
	if err != nil {
		return err
	}
	p.Cost = total
	return nil
}
