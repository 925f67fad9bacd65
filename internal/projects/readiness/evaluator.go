package readiness

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

// Item is one named predicate of the announcement checklist.
type Item struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Met   bool   `json:"met"`
}

// Section groups related items and reports their own progress.
type Section struct {
	Key      string  `json:"key"`
	Items    []Item  `json:"items"`
	Met      int     `json:"met"`
	Total    int     `json:"total"`
	Progress float64 `json:"progress"`
}

// Checklist is the announcement requirement set evaluated over a project graph.
type Checklist struct {
	Sections []Section `json:"sections"`
	Met      int       `json:"met"`
	Total    int       `json:"total"`
	Progress float64   `json:"progress"`
}

// Complete reports whether every item is met.
func (c Checklist) Complete() bool {
	return c.Total > 0 && c.Met == c.Total
}

// Missing lists the items that are not met, in checklist order.
func (c Checklist) Missing() []Item {
	var out []Item
	for _, s := range c.Sections {
		for _, it := range s.Items {
			if !it.Met {
				out = append(out, it)
			}
		}
	}
	return out
}

// Execution failure codes.
const (
	CodeNotAnnounced          = "not_announced"
	CodeNoTasks               = "no_tasks"
	CodeNoBudgetAssigned      = "no_budget_assigned"
	CodeInsufficientDonations = "insufficient_donations"
)

// ExecutionReadiness is the result of the execution checklist.
type ExecutionReadiness struct {
	CanExecute    bool    `json:"canExecute"`
	Announced     bool    `json:"announced"`
	EarliestTask  string  `json:"earliestTask,omitempty"`
	RequiredFunds float64 `json:"requiredFunds"`
	Donations     float64 `json:"donations"`
	Shortfall     float64 `json:"shortfall"`
	Code          string  `json:"code,omitempty"`
	Reason        string  `json:"reason,omitempty"`
}

// Report combines both checklists for a single read.
type Report struct {
	Announcement             Checklist          `json:"announcement"`
	CanAnnounce              bool               `json:"canAnnounce"`
	PreviouslyApproved       bool               `json:"previouslyApproved"`
	Execution                ExecutionReadiness `json:"execution"`
	OrphanedMilestoneBudgets []string           `json:"orphanedMilestoneBudgets,omitempty"`
}

// Evaluator computes readiness on every call; nothing is cached or persisted.
type Evaluator struct{}

func NewEvaluator() *Evaluator { return &Evaluator{} }

// Announcement evaluates the nine announcement requirements.
func (e *Evaluator) Announcement(p *domain.Project) Checklist {
	sections := []Section{
		section("basics",
			Item{Key: "basic_info", Label: "name, scope and location", Met: notBlank(p.Name) && notBlank(p.Scope) && notBlank(p.Location)},
		),
		section("documents",
			Item{Key: "business_document", Label: "business registration document", Met: hasDocument(p.Documents, domain.DocumentBusiness)},
			Item{Key: "tax_document", Label: "tax document", Met: hasDocument(p.Documents, domain.DocumentTax)},
		),
		section("resources",
			Item{Key: "human_resources", Label: "at least one human resource", Met: len(p.HumanResources) > 0},
			Item{Key: "material_resources", Label: "at least one material resource", Met: len(p.MaterialResources) > 0},
		),
		section("funding",
			Item{Key: "fund_accounts", Label: "at least one fund account", Met: len(p.FundAccounts) > 0},
		),
		section("planning",
			Item{Key: "work_plan", Label: "activities, tasks, deliverables, milestones and decision gates", Met: len(p.Activities) > 0 &&
				len(p.Tasks) > 0 &&
				len(p.Deliverables) > 0 &&
				len(p.Milestones) > 0 &&
				len(p.DecisionGates) > 0},
		),
		section("risks",
			Item{Key: "risks", Label: "at least one risk", Met: len(p.Risks) > 0},
		),
		section("communication",
			Item{Key: "communication", Label: "communication plan, social media account and other medium", Met: planComplete(p.CommunicationPlan) &&
				len(p.SocialMediaAccounts) > 0 &&
				len(p.CommunicationMediums) > 0},
		),
	}

	c := Checklist{Sections: sections}
	for _, s := range sections {
		c.Met += s.Met
		c.Total += s.Total
	}
	c.Progress = progress(c.Met, c.Total)
	return c
}

// CanAnnounce requires a complete checklist and a project that has been approved at least once.
func (e *Evaluator) CanAnnounce(p *domain.Project) bool {
	return e.Announcement(p).Complete() && p.PreviouslyApproved()
}

// Execution evaluates whether the project may enter execution.
// Funding is checked against gross donations and the earliest-starting task's assigned cost.
func (e *Evaluator) Execution(p *domain.Project) ExecutionReadiness {
	r := ExecutionReadiness{
		Announced: p.IsAnnouncedToDonors,
		Donations: p.Donations,
	}

	task, ok := earliestTask(p.Tasks)
	if ok {
		r.EarliestTask = task.Name
		r.RequiredFunds = task.AssignedCost()
	}
	required := domain.Cents(r.RequiredFunds)
	donations := domain.Cents(p.Donations)

	switch {
	case !p.IsAnnouncedToDonors:
		r.Code = CodeNotAnnounced
		r.Reason = "project must be announced to donors before execution"
	case !ok:
		r.Code = CodeNoTasks
		r.Reason = "project has no tasks to fund"
	case !required.IsPositive():
		r.Code = CodeNoBudgetAssigned
		r.Reason = fmt.Sprintf("earliest task %q has no assigned resource cost", task.Name)
	case donations.LessThan(required):
		r.Code = CodeInsufficientDonations
		r.Shortfall = domain.Amount(required.Sub(donations))
		r.Reason = fmt.Sprintf("donations %s are below the %s required for task %q (short by %s)",
			donations.StringFixed(2), required.StringFixed(2), task.Name, required.Sub(donations).StringFixed(2))
	default:
		r.CanExecute = true
	}

	if !ok || r.RequiredFunds <= 0 {
		r.Shortfall = 0
	}
	return r
}

// Evaluate runs both checklists and the orphaned milestone budget pass.
func (e *Evaluator) Evaluate(p *domain.Project) Report {
	ann := e.Announcement(p)
	return Report{
		Announcement:             ann,
		CanAnnounce:              ann.Complete() && p.PreviouslyApproved(),
		PreviouslyApproved:       p.PreviouslyApproved(),
		Execution:                e.Execution(p),
		OrphanedMilestoneBudgets: OrphanedMilestoneBudgets(p),
	}
}

// OrphanedMilestoneBudgets returns ids of budgets whose milestone no longer exists.
func OrphanedMilestoneBudgets(p *domain.Project) []string {
	known := make(map[string]struct{}, len(p.Milestones))
	for _, m := range p.Milestones {
		known[m.ID] = struct{}{}
	}
	var out []string
	for _, b := range p.MilestoneBudgets {
		if _, ok := known[b.MilestoneID]; !ok {
			out = append(out, b.ID)
		}
	}
	return out
}

func section(key string, items ...Item) Section {
	s := Section{Key: key, Items: items, Total: len(items)}
	for _, it := range items {
		if it.Met {
			s.Met++
		}
	}
	s.Progress = progress(s.Met, s.Total)
	return s
}

func progress(met, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(met) / float64(total) * 100
}

// earliestTask orders by start date; tasks without a start date sort last.
func earliestTask(tasks []domain.Task) (domain.Task, bool) {
	if len(tasks) == 0 {
		return domain.Task{}, false
	}
	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].StartDate, sorted[j].StartDate
		if a.IsZero() != b.IsZero() {
			return !a.IsZero()
		}
		return a.Before(b)
	})
	return sorted[0], true
}

func hasDocument(docs []domain.ProjectDocument, t domain.DocumentType) bool {
	for _, d := range docs {
		if d.Type == t && resolvableURL(d.URL) {
			return true
		}
	}
	return false
}

func resolvableURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "gs") && u.Host != ""
}

func planComplete(cp *domain.CommunicationPlan) bool {
	if cp == nil {
		return false
	}
	return notBlank(cp.Stakeholders) &&
		notBlank(cp.Objectives) &&
		notBlank(cp.KeyMessages) &&
		notBlank(cp.Frequency) &&
		notBlank(cp.ResponsibleParty)
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
