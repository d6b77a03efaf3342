// Package finance holds the budget and event formulas.
//
// Every aggregate sums the monetary fields first and derives ratios from the sums,
// so a collection is never summarised by averaging per line percentages.
package finance

import (
	"github.com/shopspring/decimal"
)

// Status is the three way consumption classification of a budget line.
type Status string

// Consumption statuses.
const (
	StatusOverrun       Status = "Dépassement"
	StatusInProgress    Status = "En cours"
	StatusUnderConsumed Status = "Sous-consommé"
)

var (
	hundred   = decimal.NewFromInt(100)
	threshold = decimal.NewFromFloat(0.8)
)

// Variance is realized minus planned, unrounded.
func Variance(planned, realized decimal.Decimal) decimal.Decimal {
	return realized.Sub(planned)
}

// PercentRealized is realized/planned*100 rounded to two decimals, or zero when planned <= 0.
func PercentRealized(planned, realized decimal.Decimal) decimal.Decimal {
	if !planned.IsPositive() {
		return decimal.Zero
	}

	return realized.Div(planned).Mul(hundred).Round(2)
}

// Classify returns the status of realized against planned.
func Classify(planned, realized decimal.Decimal) Status {
	switch {
	case realized.GreaterThan(planned):
		return StatusOverrun
	case realized.GreaterThanOrEqual(planned.Mul(threshold)):
		return StatusInProgress
	default:
		return StatusUnderConsumed
	}
}

// PlannedAmount is unit price times quantity.
func PlannedAmount(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Line is one planned/realized pair.
type Line struct {
	Planned  decimal.Decimal
	Realized decimal.Decimal
}

// Figures are the derived values of a single line or of a summed collection.
type Figures struct {
	Planned         decimal.Decimal `json:"planned"`
	Realized        decimal.Decimal `json:"realized"`
	Variance        decimal.Decimal `json:"variance"`
	PercentRealized decimal.Decimal `json:"percentRealized"`
	Status          Status          `json:"status"`
}

// Evaluate derives the figures of one line.
func Evaluate(l Line) Figures {
	return Figures{
		Planned:         l.Planned,
		Realized:        l.Realized,
		Variance:        Variance(l.Planned, l.Realized),
		PercentRealized: PercentRealized(l.Planned, l.Realized),
		Status:          Classify(l.Planned, l.Realized),
	}
}

// Total sums the lines and evaluates the sums.
func Total(lines []Line) Figures {
	var sum Line

	for _, l := range lines {
		sum.Planned = sum.Planned.Add(l.Planned)
		sum.Realized = sum.Realized.Add(l.Realized)
	}

	return Evaluate(sum)
}

// Bilan is the financial result of an event.
type Bilan struct {
	TotalRevenue  decimal.Decimal `json:"totalRecettes"`
	TotalPlanned  decimal.Decimal `json:"totalPrevu"`
	TotalRealized decimal.Decimal `json:"totalRealise"`
	NetResult     decimal.Decimal `json:"resultatNet"`
	Margin        decimal.Decimal `json:"marge"`
	IsProfitable  bool            `json:"estBeneficiaire"`
}

// EventBilan computes the result of an event from its expense lines and revenue amounts.
// Margin is zero without revenue.
func EventBilan(expenses []Line, revenues []decimal.Decimal) Bilan {
	totals := Total(expenses)
	revenue := decimal.Sum(decimal.Zero, revenues...)
	net := revenue.Sub(totals.Realized)

	b := Bilan{
		TotalRevenue:  revenue,
		TotalPlanned:  totals.Planned,
		TotalRealized: totals.Realized,
		NetResult:     net,
		Margin:        decimal.Zero,
		IsProfitable:  revenue.GreaterThanOrEqual(totals.Realized),
	}

	if revenue.IsPositive() {
		b.Margin = net.Div(revenue).Mul(hundred).Round(2)
	}

	return b
}
