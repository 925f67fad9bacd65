// Package projecttest builds project graphs for tests.
package projecttest

import (
	"time"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

var Start = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// CompleteProject returns a project that satisfies every announcement item.
// It has never been through approval.
func CompleteProject() *domain.Project {
	return &domain.Project{
		ID:       "proj-10000-1000",
		OwnerID:  "owner-1",
		Name:     "Clean Water Wells",
		Scope:    "Drill two wells in the northern district",
		Category: "water",
		Location: "Kandy",
		Documents: []domain.ProjectDocument{
			{ID: "doc_b", Type: domain.DocumentBusiness, Name: "registration.pdf", URL: "https://files.example.org/registration.pdf"},
			{ID: "doc_t", Type: domain.DocumentTax, Name: "tax.pdf", URL: "https://files.example.org/tax.pdf"},
		},
		HumanResources: []domain.HumanResource{
			{ID: "hr_1", Role: "Engineer", CostPerDay: 100, Quantity: 2},
		},
		MaterialResources: []domain.MaterialResource{
			{ID: "mr_1", Name: "Drill rig", CostType: domain.CostOneTime, CostAmount: 500},
		},
		FundAccounts: []domain.FundAccount{
			{ID: "fa_1", AccountName: "Ops Account", AccountNumber: "001-22-333", BankName: "Commercial Bank", Status: domain.AccountApproved},
		},
		Activities:    []domain.Activity{{ID: "act_1", Name: "Survey"}},
		Deliverables:  []domain.Deliverable{{ID: "del_1", Name: "Well #1"}},
		DecisionGates: []domain.DecisionGate{{ID: "dg_1", Name: "Site approval"}},
		Milestones: []domain.ProjectMilestone{
			{ID: "ms_1", Name: "Survey complete", Date: Start.AddDate(0, 1, 0)},
			{ID: "ms_2", Name: "Well #1 drilled", Date: Start.AddDate(0, 3, 0)},
		},
		Tasks: []domain.Task{
			{
				ID:        "task_2",
				Name:      "Drilling",
				StartDate: Start.AddDate(0, 1, 0),
				AssignedResources: []domain.TaskResource{
					{ResourceID: "mr_1", ResourceType: domain.ResourceMaterial, TotalCost: 5000},
				},
			},
			{
				ID:        "task_1",
				Name:      "Site survey",
				StartDate: Start,
				AssignedResources: []domain.TaskResource{
					{ResourceID: "hr_1", ResourceType: domain.ResourceHuman, TotalCost: 600},
					{ResourceID: "mr_1", ResourceType: domain.ResourceMaterial, TotalCost: 400},
				},
			},
		},
		Risks: []domain.Risk{{ID: "risk_1", Description: "Monsoon delays"}},
		CommunicationPlan: &domain.CommunicationPlan{
			Stakeholders:     "Villagers, district council",
			Objectives:       "Keep donors informed",
			KeyMessages:      "Progress and spending",
			Frequency:        "Monthly",
			ResponsibleParty: "Project owner",
		},
		SocialMediaAccounts:  []domain.SocialMediaAccount{{ID: "sm_1", Platform: "facebook", Handle: "cleanwater"}},
		CommunicationMediums: []domain.CommunicationMedium{{ID: "cm_1", Name: "Newsletter"}},
	}
}
