package domain

import "github.com/shopspring/decimal"

// Cents converts a wire amount to a decimal rounded to cents. Money is summed
// and compared in this form so float noise never decides a gate.
func Cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Amount converts a decimal back to the float64 used on the wire.
func Amount(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// SumCents adds amounts after rounding each to cents.
func SumCents(values ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(Cents(v))
	}
	return total
}
