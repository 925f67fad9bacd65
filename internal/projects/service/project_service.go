package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/costing"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/readiness"
)

// Create creates a new project owned by the given user
func (s *ProjectService) Create(ctx context.Context, in domain.CreateProjectInput) (*domain.Project, error) {
	if strings.TrimSpace(in.OwnerID) == "" {
		return nil, domain.Invalid("ownerId", "required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("name", "required")
	}

	p := &domain.Project{
		OwnerID:   in.OwnerID,
		OwnerName: strings.TrimSpace(in.OwnerName),
		Name:      strings.TrimSpace(in.Name),
		Scope:     strings.TrimSpace(in.Scope),
		Category:  strings.TrimSpace(in.Category),
		Location:  strings.TrimSpace(in.Location),
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger(ctx).Info("project created", zap.String("project_id", p.ID), zap.String("owner_id", p.OwnerID))
	return p, nil
}

// Get returns a project by id
func (s *ProjectService) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.store.Get(ctx, projectID)
}

// List returns all projects for an owner
func (s *ProjectService) List(ctx context.Context, ownerID string) ([]domain.Project, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// Update applies the plain-data fields of in. Collections given replace the stored ones whole.
func (s *ProjectService) Update(ctx context.Context, actor domain.Actor, projectID string, in domain.UpdateProjectInput) (*domain.Project, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("name", "must not be empty")
	}
	if in.Tasks != nil {
		if err := validateTasks(*in.Tasks); err != nil {
			return nil, err
		}
	}
	if in.Documents != nil {
		for _, d := range *in.Documents {
			if d.Type != domain.DocumentBusiness && d.Type != domain.DocumentTax && d.Type != domain.DocumentOther {
				return nil, domain.Invalid("documents.type", "unknown document type "+string(d.Type))
			}
		}
	}

	return s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Scope != nil {
			p.Scope = strings.TrimSpace(*in.Scope)
		}
		if in.Category != nil {
			p.Category = strings.TrimSpace(*in.Category)
		}
		if in.Location != nil {
			p.Location = strings.TrimSpace(*in.Location)
		}
		if in.Activities != nil {
			p.Activities = withIDs(*in.Activities, "act", func(a *domain.Activity) *string { return &a.ID })
		}
		if in.Tasks != nil {
			p.Tasks = withIDs(*in.Tasks, "task", func(t *domain.Task) *string { return &t.ID })
		}
		if in.Deliverables != nil {
			p.Deliverables = withIDs(*in.Deliverables, "del", func(d *domain.Deliverable) *string { return &d.ID })
		}
		if in.DecisionGates != nil {
			p.DecisionGates = withIDs(*in.DecisionGates, "dg", func(d *domain.DecisionGate) *string { return &d.ID })
		}
		if in.Risks != nil {
			p.Risks = withIDs(*in.Risks, "risk", func(r *domain.Risk) *string { return &r.ID })
		}
		if in.Documents != nil {
			p.Documents = withIDs(*in.Documents, "doc", func(d *domain.ProjectDocument) *string { return &d.ID })
		}
		if in.CommunicationPlan != nil {
			cp := *in.CommunicationPlan
			p.CommunicationPlan = &cp
		}
		if in.SocialMediaAccounts != nil {
			p.SocialMediaAccounts = withIDs(*in.SocialMediaAccounts, "sm", func(a *domain.SocialMediaAccount) *string { return &a.ID })
		}
		if in.CommunicationMediums != nil {
			p.CommunicationMediums = withIDs(*in.CommunicationMediums, "cm", func(m *domain.CommunicationMedium) *string { return &m.ID })
		}
		return nil
	})
}

// RecordDonation adds a completed donation to the project's gross total.
func (s *ProjectService) RecordDonation(ctx context.Context, projectID string, amount float64) (*domain.Project, error) {
	if amount <= 0 {
		return nil, domain.Invalid("amount", "must be greater than zero")
	}
	p, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		p.Donations += amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger(ctx).Info("donation recorded",
		zap.String("project_id", projectID),
		zap.Float64("amount", amount),
		zap.Float64("donations", p.Donations),
	)
	return p, nil
}

// CostBreakdown recomputes the project cost from its resources without writing.
func (s *ProjectService) CostBreakdown(ctx context.Context, projectID string) (*costing.Breakdown, error) {
	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	b, err := s.calc.Breakdown(p)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Readiness evaluates both checklists against the current project state.
func (s *ProjectService) Readiness(ctx context.Context, projectID string) (*readiness.Report, error) {
	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	r := s.eval.Evaluate(p)
	metrics.RecordReadiness("announcement", r.CanAnnounce)
	metrics.RecordReadiness("execution", r.Execution.CanExecute)
	return &r, nil
}

// FundingSummary splits gross donations into committed and available amounts.
type FundingSummary struct {
	ProjectID            string  `json:"projectId"`
	Cost                 float64 `json:"cost"`
	GrossDonations       float64 `json:"grossDonations"`
	Committed            float64 `json:"committed"`
	Available            float64 `json:"available"`
	ApprovedReleases     float64 `json:"approvedReleases"`
	PendingReleases      float64 `json:"pendingReleases"`
	TotalMilestoneBudget float64 `json:"totalMilestoneBudget"`
}

// Funding reports the project's money position. Donations are never decremented;
// committed is the sum of scheduled transfers.
func (s *ProjectService) Funding(ctx context.Context, projectID string) (*FundingSummary, error) {
	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	committed, approved, pending, budgeted := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, t := range p.ScheduledTransfers {
		committed = committed.Add(domain.Cents(t.Amount))
	}
	for _, r := range p.FundReleaseRequests {
		switch r.Status {
		case domain.ReleaseApproved:
			approved = approved.Add(domain.Cents(r.Amount))
		case domain.ReleasePending:
			pending = pending.Add(domain.Cents(r.Amount))
		}
	}
	for _, b := range p.MilestoneBudgets {
		budgeted = budgeted.Add(domain.Cents(b.Budget))
	}

	return &FundingSummary{
		ProjectID:            p.ID,
		Cost:                 p.Cost,
		GrossDonations:       p.Donations,
		Committed:            domain.Amount(committed),
		Available:            domain.Amount(domain.Cents(p.Donations).Sub(committed)),
		ApprovedReleases:     domain.Amount(approved),
		PendingReleases:      domain.Amount(pending),
		TotalMilestoneBudget: domain.Amount(budgeted),
	}, nil
}

func validateTasks(tasks []domain.Task) error {
	for _, t := range tasks {
		if strings.TrimSpace(t.Name) == "" {
			return domain.Invalid("tasks.name", "required")
		}
		for _, r := range t.AssignedResources {
			if r.TotalCost < 0 {
				return domain.Invalid("tasks.assignedResources.totalCost", "must not be negative")
			}
		}
	}
	return nil
}

// withIDs copies items and fills in missing ids.
func withIDs[T any](items []T, prefix string, id func(*T) *string) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		if ref := id(&out[i]); strings.TrimSpace(*ref) == "" {
			*ref = domain.NewID(prefix)
		}
	}
	return out
}
