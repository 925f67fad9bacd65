package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/events"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/readiness"
)

// Outcome describes what a status write did to one flag.
type Outcome string

const (
	OutcomeUnchanged         Outcome = "unchanged"
	OutcomeAnnounced         Outcome = "announced"
	OutcomeApprovalRequested Outcome = "approval_requested"
	OutcomeAwaitingApproval  Outcome = "awaiting_approval"
	OutcomeHidden            Outcome = "hidden"
	OutcomeExecutionStarted  Outcome = "execution_started"
	OutcomeExecutionStopped  Outcome = "execution_stopped"
	OutcomeReadinessNotMet   Outcome = "readiness_not_met"
)

// StatusResult reports each flag's outcome. Unmet readiness is described here,
// not returned as an error.
type StatusResult struct {
	Announcement       Outcome                       `json:"announcement"`
	Execution          Outcome                       `json:"execution"`
	Missing            []readiness.Item              `json:"missing,omitempty"`
	ExecutionReadiness *readiness.ExecutionReadiness `json:"executionReadiness,omitempty"`
	Project            *domain.Project               `json:"project"`
}

var errNothingToWrite = errors.New("nothing to write")

// UpdateStatusFlags applies the desired announcement and execution flags.
// Each change is gated on its own checklist; whatever passes is written together.
func (s *ProjectService) UpdateStatusFlags(ctx context.Context, actor domain.Actor, projectID string, flags domain.StatusFlags) (*StatusResult, error) {
	var (
		res     StatusResult
		current domain.Project
	)
	p, err := s.store.Mutate(ctx, projectID, func(p *domain.Project) error {
		if err := requireOwner(p, actor); err != nil {
			return err
		}
		res = StatusResult{Announcement: OutcomeUnchanged, Execution: OutcomeUnchanged}
		changed := false

		if flags.IsAnnouncedToDonors != p.IsAnnouncedToDonors {
			outcome, wrote, err := s.toggleAnnouncement(p, flags.IsAnnouncedToDonors, &res)
			if err != nil {
				return err
			}
			res.Announcement = outcome
			changed = changed || wrote
		}

		if flags.IsInExecution != p.IsInExecution {
			if flags.IsInExecution {
				exec := s.eval.Execution(p)
				if exec.CanExecute {
					p.IsInExecution = true
					res.Execution = OutcomeExecutionStarted
					changed = true
				} else {
					res.Execution = OutcomeReadinessNotMet
					res.ExecutionReadiness = &exec
				}
			} else {
				p.IsInExecution = false
				res.Execution = OutcomeExecutionStopped
				changed = true
			}
		}

		current = *p
		if !changed {
			return errNothingToWrite
		}
		return nil
	})
	if errors.Is(err, errNothingToWrite) {
		p, err = &current, nil
	}
	if err != nil {
		return nil, err
	}
	res.Project = p

	s.recordToggle(ctx, "announcement", res.Announcement, p, actor)
	s.recordToggle(ctx, "execution", res.Execution, p, actor)
	return &res, nil
}

// toggleAnnouncement reports the outcome and whether p was modified.
func (s *ProjectService) toggleAnnouncement(p *domain.Project, on bool, res *StatusResult) (Outcome, bool, error) {
	if !on {
		p.IsAnnouncedToDonors = false
		return OutcomeHidden, true, nil
	}

	if !p.PreviouslyApproved() {
		if p.ApprovalStatus == domain.ApprovalPending {
			return OutcomeAwaitingApproval, false, nil
		}
		req := ApprovalRequest{}
		err := s.requestApproval(p, &req)
		if errors.Is(err, errReadinessNotMet) {
			res.Missing = req.Missing
			return OutcomeReadinessNotMet, false, nil
		}
		if err != nil {
			return "", false, err
		}
		return OutcomeApprovalRequested, true, nil
	}

	checklist := s.eval.Announcement(p)
	if !checklist.Complete() {
		res.Missing = checklist.Missing()
		return OutcomeReadinessNotMet, false, nil
	}
	p.IsAnnouncedToDonors = true
	p.ApprovalStatus = domain.ApprovalApproved
	if p.AnnouncedAt == nil {
		p.AnnouncedAt = s.timestamp()
	}
	return OutcomeAnnounced, true, nil
}

func (s *ProjectService) recordToggle(ctx context.Context, flag string, outcome Outcome, p *domain.Project, actor domain.Actor) {
	if outcome == OutcomeUnchanged {
		return
	}
	metrics.StatusToggles.WithLabelValues(flag, string(outcome)).Inc()

	log := s.logger(ctx).With(
		zap.String("project_id", p.ID),
		zap.String("flag", flag),
		zap.String("outcome", string(outcome)),
	)
	switch outcome {
	case OutcomeReadinessNotMet, OutcomeAwaitingApproval:
		log.Warn("status change not applied")
	default:
		log.Info("status changed")
	}

	switch outcome {
	case OutcomeAnnounced:
		s.publish(ctx, events.ProjectAnnounced, p.ID, actor, nil)
	case OutcomeApprovalRequested:
		metrics.ApprovalTransitions.WithLabelValues(string(domain.ApprovalPending)).Inc()
		s.publish(ctx, events.ApprovalRequested, p.ID, actor, nil)
	case OutcomeHidden:
		s.publish(ctx, events.ProjectHidden, p.ID, actor, nil)
	case OutcomeExecutionStarted:
		s.publish(ctx, events.ExecutionStarted, p.ID, actor, nil)
	case OutcomeExecutionStopped:
		s.publish(ctx, events.ExecutionStopped, p.ID, actor, nil)
	}
}
