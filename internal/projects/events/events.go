// Package events publishes project workflow notifications to other services.
package events

import (
	"context"
	"time"
)

// Event types emitted by the workflow.
const (
	ApprovalRequested    = "project.approval_requested"
	ProjectApproved      = "project.approved"
	ProjectRejected      = "project.rejected"
	ProjectAnnounced     = "project.announced"
	ProjectHidden        = "project.hidden"
	ExecutionStarted     = "project.execution_started"
	ExecutionStopped     = "project.execution_stopped"
	FundReleaseSubmitted = "fund_release.submitted"
	FundReleaseApproved  = "fund_release.approved"
	FundReleaseRejected  = "fund_release.rejected"
	TransferScheduled    = "transfer.scheduled"
)

// Event is the JSON envelope sent on every backend.
type Event struct {
	Type       string                 `json:"type"`
	ProjectID  string                 `json:"project_id"`
	ActorID    string                 `json:"actor_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
