package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/events"
)

// SubmitFundReleaseRequest creates a Pending request against a budgeted milestone.
// Uniqueness of active requests per milestone is checked inside the store transaction.
func (s *ProjectService) SubmitFundReleaseRequest(ctx context.Context, actor domain.Actor, projectID string, in domain.FundReleaseInput) (*domain.FundReleaseRequest, error) {
	if strings.TrimSpace(in.MilestoneID) == "" {
		return nil, domain.Invalid("milestoneId", "required")
	}
	if in.Amount <= 0 {
		return nil, domain.Invalid("amount", "must be greater than zero")
	}

	var req domain.FundReleaseRequest
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		if _, ok := findMilestone(p, in.MilestoneID); !ok {
			return domain.NotFound("milestone", in.MilestoneID)
		}
		budget, ok := findBudgetForMilestone(p, in.MilestoneID)
		if !ok {
			return domain.Invalid("milestoneId", "milestone has no budget")
		}
		if domain.Cents(in.Amount).GreaterThan(domain.Cents(budget.Budget)) {
			return domain.Invalid("amount", fmt.Sprintf("%.2f exceeds the milestone budget of %.2f", in.Amount, budget.Budget))
		}

		for _, r := range p.FundReleaseRequests {
			if r.MilestoneID == in.MilestoneID && r.Active() {
				return domain.InvalidKind(domain.ErrActiveFundReleaseExists, "milestoneId",
					fmt.Sprintf("request %s is already %s", r.ID, r.Status))
			}
		}
		if err := checkReleasable(p, in.Amount); err != nil {
			return err
		}

		req = domain.FundReleaseRequest{
			ID:              domain.NewID("frr"),
			ProjectID:       p.ID,
			MilestoneID:     in.MilestoneID,
			Amount:          in.Amount,
			Description:     strings.TrimSpace(in.Description),
			Status:          domain.ReleasePending,
			RequestedBy:     actor.ID,
			RequestedByName: actor.DisplayName,
			RequestDate:     s.now(),
		}
		p.FundReleaseRequests = append(p.FundReleaseRequests, req)
		return nil
	})
	if err != nil {
		s.logger(ctx).Warn("fund release request refused",
			zap.String("project_id", projectID),
			zap.String("milestone_id", in.MilestoneID),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.FundReleaseRequests.WithLabelValues(string(domain.ReleasePending)).Inc()
	s.logger(ctx).Info("fund release requested",
		zap.String("project_id", projectID),
		zap.String("request_id", req.ID),
		zap.Float64("amount", req.Amount),
	)
	s.publish(ctx, events.FundReleaseSubmitted, projectID, actor, map[string]interface{}{
		"requestId":   req.ID,
		"milestoneId": req.MilestoneID,
		"amount":      req.Amount,
	})
	return &req, nil
}

// ReviewFundReleaseRequest moves a Pending request to Approved or Rejected.
func (s *ProjectService) ReviewFundReleaseRequest(ctx context.Context, actor domain.Actor, projectID string, in domain.FundReleaseReview) (*domain.FundReleaseRequest, error) {
	if err := requireGovernor(actor); err != nil {
		return nil, err
	}
	var target domain.ReleaseStatus
	switch in.Decision {
	case domain.DecisionApprove:
		target = domain.ReleaseApproved
	case domain.DecisionReject:
		target = domain.ReleaseRejected
	default:
		return nil, domain.Invalid("decision", "must be approve or reject")
	}
	reason := strings.TrimSpace(in.Reason)

	var reviewed domain.FundReleaseRequest
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		idx := -1
		for i := range p.FundReleaseRequests {
			if p.FundReleaseRequests[i].ID == in.RequestID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.NotFound("fund release request", in.RequestID)
		}

		r := p.FundReleaseRequests[idx]
		if r.Status != domain.ReleasePending {
			return &domain.TransitionError{Entity: "fund release request", From: string(r.Status), Action: string(in.Decision)}
		}
		if target == domain.ReleaseRejected && reason == "" {
			return domain.Invalid("reason", "required when rejecting")
		}
		if target == domain.ReleaseApproved {
			if err := checkReleasable(p, r.Amount); err != nil {
				return err
			}
		}

		r.Status = target
		r.ReviewedBy = actor.ID
		r.ReviewedAt = s.timestamp()
		if target == domain.ReleaseRejected {
			r.RejectionReason = reason
		}
		p.FundReleaseRequests[idx] = r
		reviewed = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.FundReleaseRequests.WithLabelValues(string(target)).Inc()
	s.logger(ctx).Info("fund release reviewed",
		zap.String("project_id", projectID),
		zap.String("request_id", reviewed.ID),
		zap.String("status", string(reviewed.Status)),
		zap.String("actor_id", actor.ID),
	)
	typ := events.FundReleaseApproved
	if target == domain.ReleaseRejected {
		typ = events.FundReleaseRejected
	}
	s.publish(ctx, typ, projectID, actor, map[string]interface{}{
		"requestId": reviewed.ID,
		"amount":    reviewed.Amount,
	})
	return &reviewed, nil
}

// releasable is gross donations minus the approved requests that still hold
// funds. An approved request stops holding funds once its milestone is deleted
// without a transfer, since no transfer can be scheduled for it any more.
func releasable(p *domain.Project) decimal.Decimal {
	milestones := make(map[string]struct{}, len(p.Milestones))
	for _, m := range p.Milestones {
		milestones[m.ID] = struct{}{}
	}
	transferred := make(map[string]struct{}, len(p.ScheduledTransfers))
	for _, t := range p.ScheduledTransfers {
		transferred[t.FundReleaseRequestID] = struct{}{}
	}

	available := domain.Cents(p.Donations)
	for _, r := range p.FundReleaseRequests {
		if r.Status != domain.ReleaseApproved {
			continue
		}
		_, live := milestones[r.MilestoneID]
		_, paid := transferred[r.ID]
		if live || paid {
			available = available.Sub(domain.Cents(r.Amount))
		}
	}
	return available
}

func checkReleasable(p *domain.Project, amount float64) error {
	available := releasable(p)
	if domain.Cents(amount).GreaterThan(available) {
		return domain.InvalidKind(domain.ErrInsufficientFunds, "amount",
			fmt.Sprintf("%.2f exceeds the %s of donations not yet released", amount, available.StringFixed(2)))
	}
	return nil
}

// CreateScheduledTransfer snapshots an approved request, its milestone and the
// recipient account into a new transfer.
func (s *ProjectService) CreateScheduledTransfer(ctx context.Context, actor domain.Actor, projectID string, in domain.ScheduledTransferInput) (*domain.ScheduledTransfer, error) {
	if err := requireGovernor(actor); err != nil {
		return nil, err
	}

	var transfer domain.ScheduledTransfer
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		var req *domain.FundReleaseRequest
		for i := range p.FundReleaseRequests {
			if p.FundReleaseRequests[i].ID == in.FundReleaseRequestID {
				req = &p.FundReleaseRequests[i]
				break
			}
		}
		if req == nil {
			return domain.NotFound("fund release request", in.FundReleaseRequestID)
		}
		m, ok := findMilestone(p, req.MilestoneID)
		if !ok {
			return domain.NotFound("milestone", req.MilestoneID)
		}
		var account *domain.FundAccount
		for i := range p.FundAccounts {
			if p.FundAccounts[i].ID == in.RecipientID {
				account = &p.FundAccounts[i]
				break
			}
		}
		if account == nil {
			return domain.NotFound("fund account", in.RecipientID)
		}

		if req.Status != domain.ReleaseApproved {
			return &domain.TransitionError{Entity: "fund release request", From: string(req.Status), Action: "schedule a transfer for"}
		}
		if account.Status != domain.AccountApproved {
			return domain.Invalid("recipientId", fmt.Sprintf("fund account %s is %s, not Approved", account.ID, account.Status))
		}
		for _, t := range p.ScheduledTransfers {
			if t.FundReleaseRequestID == req.ID {
				return domain.InvalidKind(domain.ErrDuplicateTransfer, "fundReleaseRequestId",
					fmt.Sprintf("transfer %s already scheduled", t.ID))
			}
		}

		transfer = domain.ScheduledTransfer{
			ID:                   domain.NewID("st"),
			ProjectID:            p.ID,
			MilestoneID:          m.ID,
			MilestoneName:        m.Name,
			FundReleaseRequestID: req.ID,
			RecipientID:          account.ID,
			AccountName:          account.AccountName,
			AccountNumber:        account.AccountNumber,
			BankName:             account.BankName,
			Amount:               req.Amount,
			Status:               domain.TransferToBeTransferred,
			RequestedBy:          req.RequestedBy,
			RequestedByName:      req.RequestedByName,
			RequestDate:          req.RequestDate,
			ScheduledDate:        in.ScheduledDate,
			Notes:                strings.TrimSpace(in.Notes),
			CreatedAt:            s.now(),
		}
		p.ScheduledTransfers = append(p.ScheduledTransfers, transfer)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ScheduledTransfers.Inc()
	metrics.ScheduledTransferAmount.Add(transfer.Amount)
	s.logger(ctx).Info("transfer scheduled",
		zap.String("project_id", projectID),
		zap.String("transfer_id", transfer.ID),
		zap.String("request_id", transfer.FundReleaseRequestID),
		zap.Float64("amount", transfer.Amount),
	)
	s.publish(ctx, events.TransferScheduled, projectID, actor, map[string]interface{}{
		"transferId":  transfer.ID,
		"requestId":   transfer.FundReleaseRequestID,
		"recipientId": transfer.RecipientID,
		"amount":      transfer.Amount,
	})
	return &transfer, nil
}

// UpdateScheduledTransfer applies a partial update. Snapshot fields are never edited.
func (s *ProjectService) UpdateScheduledTransfer(ctx context.Context, actor domain.Actor, projectID, transferID string, in domain.ScheduledTransferUpdate) (*domain.ScheduledTransfer, error) {
	if err := requireGovernor(actor); err != nil {
		return nil, err
	}
	if in.Status != nil && strings.TrimSpace(string(*in.Status)) == "" {
		return nil, domain.Invalid("status", "must not be empty")
	}

	var updated domain.ScheduledTransfer
	_, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		for i := range p.ScheduledTransfers {
			t := &p.ScheduledTransfers[i]
			if t.ID != transferID {
				continue
			}
			if in.Status != nil {
				t.Status = domain.TransferStatus(strings.TrimSpace(string(*in.Status)))
			}
			if in.ScheduledDate != nil {
				d := in.ScheduledDate.UTC()
				t.ScheduledDate = &d
			}
			if in.Notes != nil {
				t.Notes = strings.TrimSpace(*in.Notes)
			}
			updated = *t
			return nil
		}
		return domain.NotFound("scheduled transfer", transferID)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListFundReleaseRequests returns requests in submission order, optionally filtered by status.
func (s *ProjectService) ListFundReleaseRequests(ctx context.Context, projectID string, status domain.ReleaseStatus) ([]domain.FundReleaseRequest, error) {
	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FundReleaseRequest, 0, len(p.FundReleaseRequests))
	for _, r := range p.FundReleaseRequests {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListScheduledTransfers returns every transfer of the project.
func (s *ProjectService) ListScheduledTransfers(ctx context.Context, projectID string) ([]domain.ScheduledTransfer, error) {
	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.ScheduledTransfers == nil {
		return []domain.ScheduledTransfer{}, nil
	}
	return p.ScheduledTransfers, nil
}
