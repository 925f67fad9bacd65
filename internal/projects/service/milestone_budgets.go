package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/costing"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

// BudgetLine is a milestone budget with its share of the project cost.
type BudgetLine struct {
	domain.MilestoneBudget
	PercentOfTotal float64 `json:"percentOfTotal"`
}

// LedgerSummary lists every milestone budget with aggregate totals.
// ExceedsProjectCost is informational; budgets may sum past the project cost.
type LedgerSummary struct {
	Budgets              []BudgetLine `json:"budgets"`
	TotalMilestoneBudget float64      `json:"totalMilestoneBudget"`
	TotalProjectCost     float64      `json:"totalProjectCost"`
	ExceedsProjectCost   bool         `json:"exceedsProjectCost"`
}

// AddMilestoneBudget budgets an existing, not yet budgeted milestone. New budgets start Planned.
func (s *ProjectService) AddMilestoneBudget(ctx context.Context, actor domain.Actor, projectID string, in domain.MilestoneBudgetInput) (*domain.MilestoneBudget, error) {
	if strings.TrimSpace(in.MilestoneID) == "" {
		return nil, domain.Invalid("milestoneId", "required")
	}
	if in.Budget < 0 {
		return nil, domain.Invalid("budget", "must not be negative")
	}

	var added domain.MilestoneBudget
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		m, ok := findMilestone(p, in.MilestoneID)
		if !ok {
			return domain.NotFound("milestone", in.MilestoneID)
		}
		if _, ok := findBudgetForMilestone(p, in.MilestoneID); ok {
			return domain.InvalidKind(domain.ErrDuplicateMilestoneBudget, "milestoneId",
				"milestone "+in.MilestoneID+" already has a budget")
		}

		added = domain.MilestoneBudget{
			ID:            domain.NewID("mb"),
			MilestoneID:   m.ID,
			MilestoneName: strings.TrimSpace(in.MilestoneName),
			DueDate:       in.DueDate.UTC(),
			Budget:        in.Budget,
			Status:        domain.MilestonePlanned,
		}
		if added.MilestoneName == "" {
			added.MilestoneName = m.Name
		}
		if in.DueDate.IsZero() {
			added.DueDate = m.Date
		}
		p.MilestoneBudgets = append(p.MilestoneBudgets, added)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MilestoneBudgetChanges.WithLabelValues("added").Inc()
	s.logger(ctx).Info("milestone budget added",
		zap.String("project_id", projectID),
		zap.String("milestone_id", added.MilestoneID),
		zap.Float64("budget", added.Budget),
	)
	return &added, nil
}

// UpdateMilestoneBudget edits a budget located by its own id. Without an
// explicit status the budget returns to Planned.
func (s *ProjectService) UpdateMilestoneBudget(ctx context.Context, actor domain.Actor, projectID string, in domain.MilestoneBudgetUpdate) (*domain.MilestoneBudget, error) {
	if in.Budget != nil && *in.Budget < 0 {
		return nil, domain.Invalid("budget", "must not be negative")
	}
	if in.Status != nil && !domain.IsValidMilestoneStatus(*in.Status) {
		return nil, domain.Invalid("status", "must be one of Planned, In-progress, Completed")
	}
	if in.MilestoneName != nil && strings.TrimSpace(*in.MilestoneName) == "" {
		return nil, domain.Invalid("milestoneName", "must not be empty")
	}

	var updated domain.MilestoneBudget
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		idx := -1
		for i := range p.MilestoneBudgets {
			if p.MilestoneBudgets[i].ID == in.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.NotFound("milestone budget", in.ID)
		}

		b := p.MilestoneBudgets[idx]
		if in.MilestoneName != nil {
			b.MilestoneName = strings.TrimSpace(*in.MilestoneName)
		}
		if in.DueDate != nil {
			b.DueDate = in.DueDate.UTC()
		}
		if in.Budget != nil {
			b.Budget = *in.Budget
		}
		b.Status = domain.MilestonePlanned
		if in.Status != nil {
			b.Status = *in.Status
		}
		p.MilestoneBudgets[idx] = b
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MilestoneBudgetChanges.WithLabelValues("updated").Inc()
	s.logger(ctx).Info("milestone budget updated",
		zap.String("project_id", projectID),
		zap.String("budget_id", updated.ID),
		zap.String("status", string(updated.Status)),
		zap.Float64("budget", updated.Budget),
	)
	return &updated, nil
}

// DeleteMilestoneBudget removes a budget by id.
func (s *ProjectService) DeleteMilestoneBudget(ctx context.Context, actor domain.Actor, projectID, budgetID string) error {
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		kept := p.MilestoneBudgets[:0]
		found := false
		for _, b := range p.MilestoneBudgets {
			if b.ID == budgetID {
				found = true
				continue
			}
			kept = append(kept, b)
		}
		if !found {
			return domain.NotFound("milestone budget", budgetID)
		}
		p.MilestoneBudgets = kept
		return nil
	})
	if err != nil {
		return err
	}

	metrics.MilestoneBudgetChanges.WithLabelValues("deleted").Inc()
	s.logger(ctx).Info("milestone budget deleted",
		zap.String("project_id", projectID),
		zap.String("budget_id", budgetID),
	)
	return nil
}

// ListMilestoneBudgets returns the ledger with percentages against the freshly computed project cost.
func (s *ProjectService) ListMilestoneBudgets(ctx context.Context, projectID string) (*LedgerSummary, error) {
	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	total, err := s.calc.TotalProjectCost(p)
	if err != nil {
		return nil, err
	}
	return Ledger(p, total), nil
}

// Ledger builds a LedgerSummary for p against totalProjectCost.
func Ledger(p *domain.Project, totalProjectCost float64) *LedgerSummary {
	sum := &LedgerSummary{
		Budgets:          make([]BudgetLine, 0, len(p.MilestoneBudgets)),
		TotalProjectCost: totalProjectCost,
	}
	budgeted := decimal.Zero
	for _, b := range p.MilestoneBudgets {
		sum.Budgets = append(sum.Budgets, BudgetLine{
			MilestoneBudget: b,
			PercentOfTotal:  costing.PercentOfTotal(b.Budget, totalProjectCost),
		})
		budgeted = budgeted.Add(domain.Cents(b.Budget))
	}
	sum.TotalMilestoneBudget = domain.Amount(budgeted)
	sum.ExceedsProjectCost = budgeted.GreaterThan(domain.Cents(totalProjectCost))
	return sum
}

func findMilestone(p *domain.Project, id string) (domain.ProjectMilestone, bool) {
	for _, m := range p.Milestones {
		if m.ID == id {
			return m, true
		}
	}
	return domain.ProjectMilestone{}, false
}

func findBudgetForMilestone(p *domain.Project, milestoneID string) (domain.MilestoneBudget, bool) {
	for _, b := range p.MilestoneBudgets {
		if b.MilestoneID == milestoneID {
			return b, true
		}
	}
	return domain.MilestoneBudget{}, false
}
