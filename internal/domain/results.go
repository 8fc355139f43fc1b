package domain

import "github.com/rpgo/powerlaw-drawdown/pkg/dateutil"

// MonthlyRecord is one row of simulation output
type MonthlyRecord struct {
	Date                dateutil.CalendarDate `json:"date"`
	Price               float64               `json:"price"`
	UnitsSold           float64               `json:"units_sold"`
	Balance             float64               `json:"balance"` // floored at zero
	DollarValue         float64               `json:"dollar_value"`
	CumulativeWithdrawn float64               `json:"cumulative_withdrawn"`
}

// SimulationSummary condenses a simulation into its headline numbers
type SimulationSummary struct {
	EndingBalance       float64 `json:"ending_balance"`
	EndingDollarValue   float64 `json:"ending_dollar_value"`
	BalanceAtRetirement float64 `json:"balance_at_retirement"`
	PriceAtRetirement   float64 `json:"price_at_retirement"`
	TotalWithdrawn      float64 `json:"total_withdrawn"`
}

// SimulationResult holds the full monthly trajectory, month 0 through the horizon inclusive.
type SimulationResult struct {
	Records     []MonthlyRecord        `json:"records"`
	ExhaustedAt *dateutil.CalendarDate `json:"exhausted_at"`
	Summary     SimulationSummary      `json:"summary"`
}

// Exhausted reports whether the balance ran out within the horizon.
func (r *SimulationResult) Exhausted() bool {
	return r.ExhaustedAt != nil
}

// MonthsSustained counts the months of withdrawals covered before exhaustion
// (the full horizon when the balance never runs out).
func (r *SimulationResult) MonthsSustained() int {
	if len(r.Records) == 0 {
		return 0
	}
	if r.ExhaustedAt == nil {
		return len(r.Records) - 1
	}
	return dateutil.MonthsBetween(r.Records[0].Date, *r.ExhaustedAt) - 1
}

// ExhaustionLabel renders the exhaustion month, or a marker when the horizon was survived.
func (r *SimulationResult) ExhaustionLabel() string {
	if r.ExhaustedAt == nil {
		return "No (within horizon)"
	}
	return r.ExhaustedAt.String()
}

// RequiredBalanceResult is the closed-form balance needed to fund a withdrawal indefinitely.
// Degenerate is set when exponent <= 1: the underlying integral diverges and
// RequiredBalance is only an epsilon-floored number, not a meaningful answer.
type RequiredBalanceResult struct {
	RequiredBalance   float64 `json:"required_balance"`
	PriceAtRetirement float64 `json:"price_at_retirement"`
	ElapsedYears      float64 `json:"elapsed_years"`
	Degenerate        bool    `json:"degenerate"`
}
