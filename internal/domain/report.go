package domain

import (
	"time"

	"github.com/rpgo/powerlaw-drawdown/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// ScenarioReport provides a summary of key metrics for a retirement scenario
type ScenarioReport struct {
	Name              string                `json:"name"`
	RetirementDate    dateutil.CalendarDate `json:"retirement_date"`
	HorizonYears      int                   `json:"horizon_years"`
	InitialBalance    decimal.Decimal       `json:"initial_balance"`
	MonthlyWithdrawal decimal.Decimal       `json:"monthly_withdrawal"`
	PriceAtRetirement decimal.Decimal       `json:"price_at_retirement"`
	EndingBalance     decimal.Decimal       `json:"ending_balance"`
	EndingValue       decimal.Decimal       `json:"ending_value"`
	TotalWithdrawn    decimal.Decimal       `json:"total_withdrawn"`

	ExhaustedAt     *dateutil.CalendarDate `json:"exhausted_at"`
	MonthsSustained int                    `json:"months_sustained"`

	// Closed-form perpetual requirement and the gap (have − need)
	RequiredBalance    decimal.Decimal `json:"required_balance"`
	RequiredDegenerate bool            `json:"required_degenerate"`
	BalanceGap         decimal.Decimal `json:"balance_gap"`

	// Bisection result over the scenario horizon
	MaxSustainableWithdrawal decimal.Decimal `json:"max_sustainable_withdrawal"`
	WithdrawalHeadroom       decimal.Decimal `json:"withdrawal_headroom"`

	Records []MonthlyRecord `json:"records"`
}

// IsExhausted returns true if the balance ran out within the horizon
func (sr *ScenarioReport) IsExhausted() bool {
	return sr.ExhaustedAt != nil
}

// ExhaustionLabel renders the exhaustion month, or a marker when the horizon was survived.
func (sr *ScenarioReport) ExhaustionLabel() string {
	if sr.ExhaustedAt == nil {
		return "No (within horizon)"
	}
	return sr.ExhaustedAt.String()
}

// ScenarioComparison provides a comparison of all scenarios
type ScenarioComparison struct {
	GeneratedAt    time.Time        `json:"generated_at"`
	PriceModel     PriceModel       `json:"price_model"`
	Solver         SolverConfig     `json:"solver"`
	Scenarios      []ScenarioReport `json:"scenarios"`
	Recommendation Recommendation   `json:"recommendation"`
	Assumptions    []string         `json:"assumptions"`
}

// Recommendation names the scenarios that fare best under the model
type Recommendation struct {
	MostHeadroom     string          `json:"most_headroom"`
	Headroom         decimal.Decimal `json:"headroom"`
	LongestSustained string          `json:"longest_sustained"`
	MonthsSustained  int             `json:"months_sustained"`
}
