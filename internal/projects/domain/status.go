package domain

type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = ""
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type CostType string

const (
	CostOneTime   CostType = "one-time"
	CostRecurring CostType = "recurring"
)

type ResourceType string

const (
	ResourceHuman    ResourceType = "human"
	ResourceMaterial ResourceType = "material"
)

type DocumentType string

const (
	DocumentBusiness DocumentType = "business"
	DocumentTax      DocumentType = "tax"
	DocumentOther    DocumentType = "other"
)

type AccountStatus string

const (
	AccountPending  AccountStatus = "Pending"
	AccountApproved AccountStatus = "Approved"
	AccountRejected AccountStatus = "Rejected"
)

type MilestoneStatus string

const (
	MilestonePlanned    MilestoneStatus = "Planned"
	MilestoneInProgress MilestoneStatus = "In-progress"
	MilestoneCompleted  MilestoneStatus = "Completed"
)

type ReleaseStatus string

const (
	ReleasePending  ReleaseStatus = "Pending"
	ReleaseApproved ReleaseStatus = "Approved"
	ReleaseRejected ReleaseStatus = "Rejected"
)

type TransferStatus string

// TransferToBeTransferred is the initial transfer state; later states are managed externally.
const TransferToBeTransferred TransferStatus = "To be Transferred"

func IsValidMilestoneStatus(s MilestoneStatus) bool {
	return s == MilestonePlanned || s == MilestoneInProgress || s == MilestoneCompleted
}

func IsValidAccountStatus(s AccountStatus) bool {
	return s == AccountPending || s == AccountApproved || s == AccountRejected
}

func IsValidCostType(t CostType) bool {
	return t == CostOneTime || t == CostRecurring
}
