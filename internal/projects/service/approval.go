package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/events"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/readiness"
)

// ApprovalRequest is the outcome of asking a governor to approve a project.
// An incomplete checklist is reported through Missing rather than as an error.
type ApprovalRequest struct {
	Requested      bool                  `json:"requested"`
	ApprovalStatus domain.ApprovalStatus `json:"approvalStatus"`
	Missing        []readiness.Item      `json:"missing,omitempty"`
	Project        *domain.Project       `json:"project,omitempty"`
}

// RequestApproval moves a fully prepared, never announced project to pending.
func (s *ProjectService) RequestApproval(ctx context.Context, actor domain.Actor, projectID string) (*ApprovalRequest, error) {
	var (
		res     ApprovalRequest
		current domain.Project
	)
	p, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		res = ApprovalRequest{}
		current = *p
		return s.requestApproval(p, &res)
	})
	if errors.Is(err, errReadinessNotMet) {
		s.logger(ctx).Warn("approval request incomplete",
			zap.String("project_id", projectID),
			zap.Int("missing", len(res.Missing)),
		)
		res.Project = &current
		res.ApprovalStatus = current.ApprovalStatus
		return &res, nil
	}
	if err != nil {
		return nil, err
	}

	res.Project = p
	res.ApprovalStatus = p.ApprovalStatus
	metrics.ApprovalTransitions.WithLabelValues(string(domain.ApprovalPending)).Inc()
	s.logger(ctx).Info("approval requested", zap.String("project_id", p.ID), zap.String("actor_id", actor.ID))
	s.publish(ctx, events.ApprovalRequested, p.ID, actor, nil)
	return &res, nil
}

// errReadinessNotMet aborts a mutation whose checklist is incomplete so nothing is written.
var errReadinessNotMet = errors.New("readiness not met")

// requestApproval applies the pending transition to p. A checklist miss fills
// res.Missing and returns errReadinessNotMet.
func (s *ProjectService) requestApproval(p *domain.Project, res *ApprovalRequest) error {
	switch {
	case p.ApprovalStatus == domain.ApprovalPending:
		return &domain.TransitionError{Entity: "project", From: string(p.ApprovalStatus), Action: "request approval for"}
	case p.PreviouslyApproved():
		return &domain.TransitionError{Entity: "project", From: string(p.ApprovalStatus), Action: "request approval for"}
	case p.AnnouncedAt != nil:
		return &domain.TransitionError{Entity: "project", From: "announced", Action: "request approval for"}
	}

	checklist := s.eval.Announcement(p)
	if !checklist.Complete() {
		res.Missing = checklist.Missing()
		return errReadinessNotMet
	}

	p.ApprovalStatus = domain.ApprovalPending
	p.RejectionReason = ""
	p.ApprovalRequestedAt = s.timestamp()
	res.Requested = true
	return nil
}

// Approve is a governor decision on a pending project. The owner's pending
// announcement takes effect immediately when the checklist is still complete;
// otherwise the project is approved but stays hidden until the owner fixes the
// missing items and announces it again.
func (s *ProjectService) Approve(ctx context.Context, actor domain.Actor, projectID string) (*domain.Project, error) {
	if err := requireGovernor(actor); err != nil {
		return nil, err
	}

	var missing []readiness.Item
	p, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if p.ApprovalStatus != domain.ApprovalPending {
			return &domain.TransitionError{Entity: "project", From: string(p.ApprovalStatus), Action: "approve"}
		}
		now := s.timestamp()
		p.ApprovalStatus = domain.ApprovalApproved
		p.RejectionReason = ""
		p.ReviewedBy = actor.ID
		if p.ApprovedAt == nil {
			p.ApprovedAt = now
		}

		missing = nil
		if checklist := s.eval.Announcement(p); !checklist.Complete() {
			missing = checklist.Missing()
			p.IsAnnouncedToDonors = false
			return nil
		}
		p.IsAnnouncedToDonors = true
		if p.AnnouncedAt == nil {
			p.AnnouncedAt = now
		}
		return nil
	})
	if err != nil {
		s.logger(ctx).Warn("approve rejected", zap.String("project_id", projectID), zap.Error(err))
		return nil, err
	}

	metrics.ApprovalTransitions.WithLabelValues(string(domain.ApprovalApproved)).Inc()
	s.logger(ctx).Info("project approved",
		zap.String("project_id", p.ID),
		zap.String("actor_id", actor.ID),
		zap.Bool("announced", p.IsAnnouncedToDonors),
		zap.Int("missing", len(missing)),
	)
	s.publish(ctx, events.ProjectApproved, p.ID, actor, nil)
	if p.IsAnnouncedToDonors {
		s.publish(ctx, events.ProjectAnnounced, p.ID, actor, nil)
	}
	return p, nil
}

// Reject is a governor decision on a pending project and requires a reason.
func (s *ProjectService) Reject(ctx context.Context, actor domain.Actor, projectID, reason string) (*domain.Project, error) {
	if err := requireGovernor(actor); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)

	p, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if p.ApprovalStatus != domain.ApprovalPending {
			return &domain.TransitionError{Entity: "project", From: string(p.ApprovalStatus), Action: "reject"}
		}
		if reason == "" {
			return domain.Invalid("reason", "required when rejecting")
		}
		p.ApprovalStatus = domain.ApprovalRejected
		p.RejectionReason = reason
		p.ReviewedBy = actor.ID
		return nil
	})
	if err != nil {
		s.logger(ctx).Warn("reject rejected", zap.String("project_id", projectID), zap.Error(err))
		return nil, err
	}

	metrics.ApprovalTransitions.WithLabelValues(string(domain.ApprovalRejected)).Inc()
	s.logger(ctx).Info("project rejected", zap.String("project_id", p.ID), zap.String("actor_id", actor.ID))
	s.publish(ctx, events.ProjectRejected, p.ID, actor, map[string]interface{}{"reason": reason})
	return p, nil
}
