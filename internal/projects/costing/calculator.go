package costing

import (
	"github.com/shopspring/decimal"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

// DefaultPeriodDays is the projection window used when none is configured.
const DefaultPeriodDays = 30

// Calculator derives monetary totals from resource line items over a fixed
// projection period. It is pure and safe for concurrent use.
type Calculator struct {
	PeriodDays int
}

// NewCalculator returns a calculator for the given period, falling back to
// DefaultPeriodDays for non-positive values.
func NewCalculator(periodDays int) Calculator {
	if periodDays < 1 {
		periodDays = DefaultPeriodDays
	}
	return Calculator{PeriodDays: periodDays}
}

// Breakdown splits a project's cost by resource kind.
type Breakdown struct {
	PeriodDays    int     `json:"periodDays"`
	HumanTotal    float64 `json:"humanTotal"`
	MaterialTotal float64 `json:"materialTotal"`
	Total         float64 `json:"total"`
}

func (c Calculator) period() int64 {
	if c.PeriodDays < 1 {
		return DefaultPeriodDays
	}
	return int64(c.PeriodDays)
}

// HumanResourceCost = costPerDay × quantity × period.
func (c Calculator) HumanResourceCost(r domain.HumanResource) float64 {
	return money(c.humanCost(r))
}

func (c Calculator) humanCost(r domain.HumanResource) decimal.Decimal {
	return decimal.NewFromFloat(r.CostPerDay).
		Mul(decimal.NewFromInt(int64(r.Quantity))).
		Mul(decimal.NewFromInt(c.period())).
		Round(2)
}

// MaterialResourceCost returns costAmount for one-time items and
// costAmount × period / amortizationPeriod for recurring ones.
func (c Calculator) MaterialResourceCost(r domain.MaterialResource) (float64, error) {
	d, err := c.materialCost(r)
	if err != nil {
		return 0, err
	}
	return money(d), nil
}

func (c Calculator) materialCost(r domain.MaterialResource) (decimal.Decimal, error) {
	amount := decimal.NewFromFloat(r.CostAmount)
	switch r.CostType {
	case domain.CostOneTime:
		return amount.Round(2), nil
	case domain.CostRecurring:
		if r.AmortizationPeriod < 1 {
			return decimal.Zero, &domain.InvalidResourceError{ResourceID: r.ID, Reason: "amortization period must be at least 1 day"}
		}
		return amount.Mul(decimal.NewFromInt(c.period())).
			Div(decimal.NewFromInt(int64(r.AmortizationPeriod))).
			Round(2), nil
	default:
		return decimal.Zero, &domain.InvalidResourceError{ResourceID: r.ID, Reason: "unknown cost type " + string(r.CostType)}
	}
}

// Breakdown computes per-kind subtotals for the project.
func (c Calculator) Breakdown(p *domain.Project) (Breakdown, error) {
	human, material := decimal.Zero, decimal.Zero
	for _, hr := range p.HumanResources {
		human = human.Add(c.humanCost(hr))
	}
	for _, mr := range p.MaterialResources {
		cost, err := c.materialCost(mr)
		if err != nil {
			return Breakdown{}, err
		}
		material = material.Add(cost)
	}
	return Breakdown{
		PeriodDays:    int(c.period()),
		HumanTotal:    money(human),
		MaterialTotal: money(material),
		Total:         money(human.Add(material)),
	}, nil
}

// TotalProjectCost sums every human and material resource contribution.
func (c Calculator) TotalProjectCost(p *domain.Project) (float64, error) {
	b, err := c.Breakdown(p)
	if err != nil {
		return 0, err
	}
	return b.Total, nil
}

// PercentOfTotal returns budget as a percentage of total, or 0 when total is not positive.
func PercentOfTotal(budget, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return money(decimal.NewFromFloat(budget).
		Div(decimal.NewFromFloat(total)).
		Mul(decimal.NewFromInt(100)).
		Round(2))
}

func money(d decimal.Decimal) float64 {
	return domain.Amount(d)
}
