package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApprovalTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_approval_transitions_total",
			Help: "Project approval state transitions",
		},
		[]string{"to"}, // pending, approved, rejected
	)

	StatusToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_status_toggles_total",
			Help: "Announcement and execution toggle attempts by outcome",
		},
		[]string{"flag", "outcome"},
	)

	FundReleaseRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fund_release_requests_total",
			Help: "Fund release requests by resulting status",
		},
		[]string{"status"},
	)

	MilestoneBudgetChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milestone_budget_changes_total",
			Help: "Milestone budget ledger changes",
		},
		[]string{"action"}, // added, updated, deleted
	)

	ScheduledTransfers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduled_transfers_total",
			Help: "Scheduled transfers created",
		},
	)

	ScheduledTransferAmount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduled_transfer_amount_total",
			Help: "Sum of scheduled transfer amounts",
		},
	)

	ReadinessEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_readiness_evaluations_total",
			Help: "Readiness evaluations by checklist and result",
		},
		[]string{"checklist", "result"},
	)

	OrphanBudgetsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orphan_milestone_budgets_removed_total",
			Help: "Milestone budgets removed because their milestone no longer exists",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

func RecordHTTPRequestDuration(method, path, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

func RecordReadiness(checklist string, ok bool) {
	result := "not_met"
	if ok {
		result = "met"
	}
	ReadinessEvaluations.WithLabelValues(checklist, result).Inc()
}
