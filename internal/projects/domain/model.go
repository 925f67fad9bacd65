package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is the aggregate root for a donor-funded project.
// Child collections are owned exclusively by the project and are persisted with it.
type Project struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	OwnerName string `json:"ownerName,omitempty"`
	Name      string `json:"name"`
	Scope     string `json:"scope"`
	Category  string `json:"category"`
	Location  string `json:"location"`

	Cost      float64 `json:"cost"`
	Donations float64 `json:"donations"`

	ApprovalStatus      ApprovalStatus `json:"approvalStatus,omitempty"`
	RejectionReason     string         `json:"rejectionReason,omitempty"`
	ApprovalRequestedAt *time.Time     `json:"approvalRequestedAt,omitempty"`
	ApprovedAt          *time.Time     `json:"approvedAt,omitempty"`
	ReviewedBy          string         `json:"reviewedBy,omitempty"`

	IsAnnouncedToDonors bool       `json:"isAnnouncedToDonors"`
	AnnouncedAt         *time.Time `json:"announcedAt,omitempty"`
	IsInExecution       bool       `json:"isInExecution"`

	HumanResources       []HumanResource       `json:"humanResources"`
	MaterialResources    []MaterialResource    `json:"materialResources"`
	Activities           []Activity            `json:"activities"`
	Tasks                []Task                `json:"tasks"`
	Deliverables         []Deliverable         `json:"deliverables"`
	Milestones           []ProjectMilestone    `json:"milestones"`
	DecisionGates        []DecisionGate        `json:"decisionGates"`
	Risks                []Risk                `json:"risks"`
	FundAccounts         []FundAccount         `json:"fundAccounts"`
	MilestoneBudgets     []MilestoneBudget     `json:"milestoneBudgets"`
	FundReleaseRequests  []FundReleaseRequest  `json:"fundReleaseRequests"`
	ScheduledTransfers   []ScheduledTransfer   `json:"scheduledTransfers"`
	Documents            []ProjectDocument     `json:"documents"`
	CommunicationPlan    *CommunicationPlan    `json:"communicationPlan,omitempty"`
	SocialMediaAccounts  []SocialMediaAccount  `json:"socialMediaAccounts"`
	CommunicationMediums []CommunicationMedium `json:"communicationMediums"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PreviouslyApproved reports whether a governor has approved the project at least once.
func (p *Project) PreviouslyApproved() bool {
	return p.ApprovedAt != nil || p.ApprovalStatus == ApprovalApproved
}

// HumanResource is a staffing line item priced per day.
type HumanResource struct {
	ID         string  `json:"id"`
	Role       string  `json:"role"`
	CostPerDay float64 `json:"costPerDay"`
	Quantity   int     `json:"quantity"`
}

// MaterialResource is an equipment or supply line item.
type MaterialResource struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	CostType           CostType `json:"costType"`
	CostAmount         float64  `json:"costAmount"`
	AmortizationPeriod int      `json:"amortizationPeriod,omitempty"` // days, recurring only
}

type Activity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TaskResource links a task to a resource line item and its allocated cost.
type TaskResource struct {
	ResourceID   string       `json:"resourceId"`
	ResourceType ResourceType `json:"resourceType"`
	TotalCost    float64      `json:"totalCost"`
}

type Task struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	StartDate         time.Time      `json:"startDate"`
	EndDate           *time.Time     `json:"endDate,omitempty"`
	AssignedResources []TaskResource `json:"assignedResources"`
}

// AssignedCost is the sum of the task's assigned resource costs.
func (t Task) AssignedCost() float64 {
	total := decimal.Zero
	for _, r := range t.AssignedResources {
		total = total.Add(Cents(r.TotalCost))
	}
	return Amount(total)
}

type Deliverable struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProjectMilestone is a dated checkpoint. Budget and PercentOfTotal are legacy
// fields superseded by MilestoneBudget records.
type ProjectMilestone struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Date           time.Time `json:"date"`
	Budget         float64   `json:"budget,omitempty"`
	PercentOfTotal float64   `json:"percentOfTotal,omitempty"`
}

type DecisionGate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Risk struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Impact      string `json:"impact,omitempty"`
}

// FundAccount is a bank-account-like record used as a transfer recipient.
type FundAccount struct {
	ID            string        `json:"id"`
	AccountName   string        `json:"accountName"`
	AccountNumber string        `json:"accountNumber"`
	BankName      string        `json:"bankName"`
	Status        AccountStatus `json:"status"`
}

// MilestoneBudget assigns an amount to a single milestone.
type MilestoneBudget struct {
	ID            string          `json:"id"`
	MilestoneID   string          `json:"milestoneId"`
	MilestoneName string          `json:"milestoneName"`
	DueDate       time.Time       `json:"dueDate"`
	Budget        float64         `json:"budget"`
	Status        MilestoneStatus `json:"status"`
}

type FundReleaseRequest struct {
	ID              string        `json:"id"`
	ProjectID       string        `json:"projectId"`
	MilestoneID     string        `json:"milestoneId"`
	Amount          float64       `json:"amount"`
	Description     string        `json:"description"`
	Status          ReleaseStatus `json:"status"`
	RequestedBy     string        `json:"requestedBy"`
	RequestedByName string        `json:"requestedByName"`
	RequestDate     time.Time     `json:"requestDate"`
	ReviewedBy      string        `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewedAt,omitempty"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
}

// Active reports whether the request still blocks new requests for its milestone.
func (r FundReleaseRequest) Active() bool {
	return r.Status == ReleasePending || r.Status == ReleaseApproved
}

// ScheduledTransfer is a denormalized snapshot taken when an approved request is scheduled.
// Later edits to the request, milestone or account never change it.
type ScheduledTransfer struct {
	ID                   string         `json:"id"`
	ProjectID            string         `json:"projectId"`
	MilestoneID          string         `json:"milestoneId"`
	MilestoneName        string         `json:"milestoneName"`
	FundReleaseRequestID string         `json:"fundReleaseRequestId"`
	RecipientID          string         `json:"recipientId"`
	AccountName          string         `json:"accountName"`
	AccountNumber        string         `json:"accountNumber"`
	BankName             string         `json:"bankName"`
	Amount               float64        `json:"amount"`
	Status               TransferStatus `json:"status"`
	RequestedBy          string         `json:"requestedBy"`
	RequestedByName      string         `json:"requestedByName"`
	RequestDate          time.Time      `json:"requestDate"`
	ScheduledDate        *time.Time     `json:"scheduledDate,omitempty"`
	Notes                string         `json:"notes,omitempty"`
	CreatedAt            time.Time      `json:"createdAt"`
}

type ProjectDocument struct {
	ID   string       `json:"id"`
	Type DocumentType `json:"type"`
	Name string       `json:"name"`
	URL  string       `json:"url"`
}

type CommunicationPlan struct {
	Stakeholders     string `json:"stakeholders"`
	Objectives       string `json:"objectives"`
	KeyMessages      string `json:"keyMessages"`
	Frequency        string `json:"frequency"`
	ResponsibleParty string `json:"responsibleParty"`
}

type SocialMediaAccount struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
}

type CommunicationMedium struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
