package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

// AddHumanResource appends a staffing line item and refreshes the project cost.
func (s *ProjectService) AddHumanResource(ctx context.Context, actor domain.Actor, projectID string, in domain.HumanResourceInput) (*domain.HumanResource, error) {
	hr := domain.HumanResource{
		Role:       strings.TrimSpace(in.Role),
		CostPerDay: in.CostPerDay,
		Quantity:   in.Quantity,
	}
	if err := validateHumanResource(hr); err != nil {
		return nil, err
	}

	var added domain.HumanResource
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		added = hr
		added.ID = domain.NewID("hr")
		p.HumanResources = append(p.HumanResources, added)
		return s.recomputeCost(p)
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// UpdateHumanResource edits a staffing line item in place.
func (s *ProjectService) UpdateHumanResource(ctx context.Context, actor domain.Actor, projectID, resourceID string, in domain.HumanResourceUpdate) (*domain.HumanResource, error) {
	var updated domain.HumanResource
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		idx := -1
		for i := range p.HumanResources {
			if p.HumanResources[i].ID == resourceID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.NotFound("human resource", resourceID)
		}

		hr := p.HumanResources[idx]
		if in.Role != nil {
			hr.Role = strings.TrimSpace(*in.Role)
		}
		if in.CostPerDay != nil {
			hr.CostPerDay = *in.CostPerDay
		}
		if in.Quantity != nil {
			hr.Quantity = *in.Quantity
		}
		if err := validateHumanResource(hr); err != nil {
			return err
		}
		p.HumanResources[idx] = hr
		updated = hr
		return s.recomputeCost(p)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteHumanResource removes a staffing line item.
func (s *ProjectService) DeleteHumanResource(ctx context.Context, actor domain.Actor, projectID, resourceID string) error {
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		kept := p.HumanResources[:0]
		found := false
		for _, hr := range p.HumanResources {
			if hr.ID == resourceID {
				found = true
				continue
			}
			kept = append(kept, hr)
		}
		if !found {
			return domain.NotFound("human resource", resourceID)
		}
		p.HumanResources = kept
		return s.recomputeCost(p)
	})
	return err
}

// AddMaterialResource appends an equipment or supply line item and refreshes the project cost.
func (s *ProjectService) AddMaterialResource(ctx context.Context, actor domain.Actor, projectID string, in domain.MaterialResourceInput) (*domain.MaterialResource, error) {
	mr := domain.MaterialResource{
		Name:               strings.TrimSpace(in.Name),
		CostType:           in.CostType,
		CostAmount:         in.CostAmount,
		AmortizationPeriod: in.AmortizationPeriod,
	}
	if err := s.validateMaterialResource(mr); err != nil {
		return nil, err
	}

	var added domain.MaterialResource
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		added = mr
		added.ID = domain.NewID("mr")
		p.MaterialResources = append(p.MaterialResources, added)
		return s.recomputeCost(p)
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// UpdateMaterialResource edits a material line item in place.
func (s *ProjectService) UpdateMaterialResource(ctx context.Context, actor domain.Actor, projectID, resourceID string, in domain.MaterialResourceUpdate) (*domain.MaterialResource, error) {
	var updated domain.MaterialResource
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		idx := -1
		for i := range p.MaterialResources {
			if p.MaterialResources[i].ID == resourceID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.NotFound("material resource", resourceID)
		}

		mr := p.MaterialResources[idx]
		if in.Name != nil {
			mr.Name = strings.TrimSpace(*in.Name)
		}
		if in.CostType != nil {
			mr.CostType = *in.CostType
		}
		if in.CostAmount != nil {
			mr.CostAmount = *in.CostAmount
		}
		if in.AmortizationPeriod != nil {
			mr.AmortizationPeriod = *in.AmortizationPeriod
		}
		if err := s.validateMaterialResource(mr); err != nil {
			return err
		}
		p.MaterialResources[idx] = mr
		updated = mr
		return s.recomputeCost(p)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMaterialResource removes a material line item.
func (s *ProjectService) DeleteMaterialResource(ctx context.Context, actor domain.Actor, projectID, resourceID string) error {
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		kept := p.MaterialResources[:0]
		found := false
		for _, mr := range p.MaterialResources {
			if mr.ID == resourceID {
				found = true
				continue
			}
			kept = append(kept, mr)
		}
		if !found {
			return domain.NotFound("material resource", resourceID)
		}
		p.MaterialResources = kept
		return s.recomputeCost(p)
	})
	return err
}

// AddMilestone appends a dated milestone.
func (s *ProjectService) AddMilestone(ctx context.Context, actor domain.Actor, projectID string, in domain.MilestoneInput) (*domain.ProjectMilestone, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "required")
	}
	if in.Date.IsZero() {
		return nil, domain.Invalid("date", "required")
	}

	var added domain.ProjectMilestone
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		added = domain.ProjectMilestone{ID: domain.NewID("ms"), Name: name, Date: in.Date.UTC()}
		p.Milestones = append(p.Milestones, added)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// DeleteMilestone removes a milestone together with its milestone budget.
// Fund release requests and transfers for the milestone are kept as history.
func (s *ProjectService) DeleteMilestone(ctx context.Context, actor domain.Actor, projectID, milestoneID string) error {
	var removedBudgets int
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		kept := p.Milestones[:0]
		found := false
		for _, m := range p.Milestones {
			if m.ID == milestoneID {
				found = true
				continue
			}
			kept = append(kept, m)
		}
		if !found {
			return domain.NotFound("milestone", milestoneID)
		}
		p.Milestones = kept

		removedBudgets = 0
		budgets := p.MilestoneBudgets[:0]
		for _, b := range p.MilestoneBudgets {
			if b.MilestoneID == milestoneID {
				removedBudgets++
				continue
			}
			budgets = append(budgets, b)
		}
		p.MilestoneBudgets = budgets
		return nil
	})
	if err != nil {
		return err
	}

	s.logger(ctx).Info("milestone deleted",
		zap.String("project_id", projectID),
		zap.String("milestone_id", milestoneID),
		zap.Int("budgets_removed", removedBudgets),
	)
	return nil
}

// AddFundAccount registers a recipient account. New accounts start Pending.
func (s *ProjectService) AddFundAccount(ctx context.Context, actor domain.Actor, projectID string, in domain.FundAccountInput) (*domain.FundAccount, error) {
	fa := domain.FundAccount{
		AccountName:   strings.TrimSpace(in.AccountName),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		BankName:      strings.TrimSpace(in.BankName),
		Status:        domain.AccountPending,
	}
	if fa.AccountName == "" {
		return nil, domain.Invalid("accountName", "required")
	}
	if fa.AccountNumber == "" {
		return nil, domain.Invalid("accountNumber", "required")
	}

	var added domain.FundAccount
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		added = fa
		added.ID = domain.NewID("fa")
		p.FundAccounts = append(p.FundAccounts, added)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// SetFundAccountStatus is a governor decision on a recipient account.
func (s *ProjectService) SetFundAccountStatus(ctx context.Context, actor domain.Actor, projectID, accountID string, status domain.AccountStatus) (*domain.FundAccount, error) {
	if err := requireGovernor(actor); err != nil {
		return nil, err
	}
	if !domain.IsValidAccountStatus(status) {
		return nil, domain.Invalid("status", "must be one of Pending, Approved, Rejected")
	}

	var updated domain.FundAccount
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		for i := range p.FundAccounts {
			if p.FundAccounts[i].ID == accountID {
				p.FundAccounts[i].Status = status
				updated = p.FundAccounts[i]
				return nil
			}
		}
		return domain.NotFound("fund account", accountID)
	})
	if err != nil {
		return nil, err
	}

	s.logger(ctx).Info("fund account status changed",
		zap.String("project_id", projectID),
		zap.String("account_id", accountID),
		zap.String("status", string(status)),
		zap.String("actor_id", actor.ID),
	)
	return &updated, nil
}

func validateHumanResource(hr domain.HumanResource) error {
	if hr.Role == "" {
		return domain.Invalid("role", "required")
	}
	if hr.CostPerDay < 0 {
		return domain.Invalid("costPerDay", "must not be negative")
	}
	if hr.Quantity < 1 {
		return domain.Invalid("quantity", "must be at least 1")
	}
	return nil
}

func (s *ProjectService) validateMaterialResource(mr domain.MaterialResource) error {
	if mr.Name == "" {
		return domain.Invalid("name", "required")
	}
	if mr.CostAmount < 0 {
		return domain.Invalid("costAmount", "must not be negative")
	}
	if !domain.IsValidCostType(mr.CostType) {
		return domain.Invalid("costType", "must be one-time or recurring")
	}
	_, err := s.calc.MaterialResourceCost(mr)
	return err
}
