package http

import (
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/service"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
	log *zap.Logger
}

func New(svc *service.ProjectService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

type createReq struct {
	Name     string `json:"name"`
	Scope    string `json:"scope"`
	Category string `json:"category"`
	Location string `json:"location"`
}

type updateReq struct {
	Name     *string `json:"name,omitempty"`
	Scope    *string `json:"scope,omitempty"`
	Category *string `json:"category,omitempty"`
	Location *string `json:"location,omitempty"`

	Activities           *[]domain.Activity            `json:"activities,omitempty"`
	Tasks                *[]domain.Task                `json:"tasks,omitempty"`
	Deliverables         *[]domain.Deliverable         `json:"deliverables,omitempty"`
	DecisionGates        *[]domain.DecisionGate        `json:"decisionGates,omitempty"`
	Risks                *[]domain.Risk                `json:"risks,omitempty"`
	Documents            *[]domain.ProjectDocument     `json:"documents,omitempty"`
	CommunicationPlan    *domain.CommunicationPlan     `json:"communicationPlan,omitempty"`
	SocialMediaAccounts  *[]domain.SocialMediaAccount  `json:"socialMediaAccounts,omitempty"`
	CommunicationMediums *[]domain.CommunicationMedium `json:"communicationMediums,omitempty"`
}

func (r updateReq) input() domain.UpdateProjectInput {
	return domain.UpdateProjectInput{
		Name:                 r.Name,
		Scope:                r.Scope,
		Category:             r.Category,
		Location:             r.Location,
		Activities:           r.Activities,
		Tasks:                r.Tasks,
		Deliverables:         r.Deliverables,
		DecisionGates:        r.DecisionGates,
		Risks:                r.Risks,
		Documents:            r.Documents,
		CommunicationPlan:    r.CommunicationPlan,
		SocialMediaAccounts:  r.SocialMediaAccounts,
		CommunicationMediums: r.CommunicationMediums,
	}
}

type donationReq struct {
	Amount float64 `json:"amount"`
}

type humanResourceReq struct {
	Role       *string  `json:"role,omitempty"`
	CostPerDay *float64 `json:"costPerDay,omitempty"`
	Quantity   *int     `json:"quantity,omitempty"`
}

type materialResourceReq struct {
	Name               *string          `json:"name,omitempty"`
	CostType           *domain.CostType `json:"costType,omitempty"`
	CostAmount         *float64         `json:"costAmount,omitempty"`
	AmortizationPeriod *int             `json:"amortizationPeriod,omitempty"`
}

type milestoneReq struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

type fundAccountReq struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
}

type accountStatusReq struct {
	Status domain.AccountStatus `json:"status"`
}

type rejectReq struct {
	Reason string `json:"reason"`
}

type statusReq struct {
	IsAnnouncedToDonors *bool `json:"isAnnouncedToDonors"`
	IsInExecution       *bool `json:"isInExecution"`
}

type milestoneBudgetReq struct {
	MilestoneID   string    `json:"milestoneId"`
	MilestoneName string    `json:"milestoneName"`
	DueDate       time.Time `json:"dueDate"`
	Budget        float64   `json:"budget"`
}

type milestoneBudgetUpdateReq struct {
	MilestoneName *string                 `json:"milestoneName,omitempty"`
	DueDate       *time.Time              `json:"dueDate,omitempty"`
	Budget        *float64                `json:"budget,omitempty"`
	Status        *domain.MilestoneStatus `json:"status,omitempty"`
}

type fundReleaseReq struct {
	MilestoneID string  `json:"milestoneId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type reviewReq struct {
	Decision domain.ReviewDecision `json:"decision"`
	Reason   string                `json:"reason"`
}

type transferReq struct {
	FundReleaseRequestID string     `json:"fundReleaseRequestId"`
	RecipientID          string     `json:"recipientId"`
	ScheduledDate        *time.Time `json:"scheduledDate,omitempty"`
	Notes                string     `json:"notes"`
}

type transferUpdateReq struct {
	Status        *domain.TransferStatus `json:"status,omitempty"`
	ScheduledDate *time.Time             `json:"scheduledDate,omitempty"`
	Notes         *string                `json:"notes,omitempty"`
}
