package domain

import "time"

// Actor identifies the user performing an operation.
type Actor struct {
	ID          string
	DisplayName string
	IsGovernor  bool
}

// CreateProjectInput carries the fields accepted when a project is first created.
type CreateProjectInput struct {
	OwnerID   string
	OwnerName string
	Name      string
	Scope     string
	Category  string
	Location  string
}

// UpdateProjectInput enumerates every plain field an owner may change.
// Nil fields are left untouched; non-nil slices replace the whole collection.
type UpdateProjectInput struct {
	Name     *string
	Scope    *string
	Category *string
	Location *string

	Activities           *[]Activity
	Tasks                *[]Task
	Deliverables         *[]Deliverable
	DecisionGates        *[]DecisionGate
	Risks                *[]Risk
	Documents            *[]ProjectDocument
	CommunicationPlan    *CommunicationPlan
	SocialMediaAccounts  *[]SocialMediaAccount
	CommunicationMediums *[]CommunicationMedium
}

type HumanResourceInput struct {
	Role       string
	CostPerDay float64
	Quantity   int
}

type HumanResourceUpdate struct {
	Role       *string
	CostPerDay *float64
	Quantity   *int
}

type MaterialResourceInput struct {
	Name               string
	CostType           CostType
	CostAmount         float64
	AmortizationPeriod int
}

type MaterialResourceUpdate struct {
	Name               *string
	CostType           *CostType
	CostAmount         *float64
	AmortizationPeriod *int
}

type MilestoneInput struct {
	Name string
	Date time.Time
}

type FundAccountInput struct {
	AccountName   string
	AccountNumber string
	BankName      string
}

// MilestoneBudgetInput creates a budget for an unbudgeted milestone.
// MilestoneName and DueDate default to the milestone's own values when empty.
type MilestoneBudgetInput struct {
	MilestoneID   string
	MilestoneName string
	DueDate       time.Time
	Budget        float64
}

// MilestoneBudgetUpdate edits a budget by its id. A nil Status resets the
// budget to Planned, matching the standard edit form.
type MilestoneBudgetUpdate struct {
	ID            string
	MilestoneName *string
	DueDate       *time.Time
	Budget        *float64
	Status        *MilestoneStatus
}

type FundReleaseInput struct {
	MilestoneID string
	Amount      float64
	Description string
}

type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

type FundReleaseReview struct {
	RequestID string
	Decision  ReviewDecision
	Reason    string
}

type ScheduledTransferInput struct {
	FundReleaseRequestID string
	RecipientID          string
	ScheduledDate        *time.Time
	Notes                string
}

// ScheduledTransferUpdate is a partial update; Status values beyond the initial
// state are managed by the payments team and are not validated here.
type ScheduledTransferUpdate struct {
	Status        *TransferStatus
	ScheduledDate *time.Time
	Notes         *string
}

// StatusFlags is the combined announcement/execution write. Callers always send both.
type StatusFlags struct {
	IsAnnouncedToDonors bool
	IsInExecution       bool
}
