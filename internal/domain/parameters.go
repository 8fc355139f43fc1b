package domain

import (
	"fmt"

	"github.com/rpgo/powerlaw-drawdown/pkg/dateutil"
)

// PriceModel holds the calibration of the power-law price curve
type PriceModel struct {
	LowerCoefficient       float64 `yaml:"lower_coefficient" json:"lower_coefficient" validate:"gt=0"`
	AverageCoefficient     float64 `yaml:"average_coefficient" json:"average_coefficient" validate:"gt=0"`
	Exponent               float64 `yaml:"exponent" json:"exponent"`
	UseLowerPostRetirement bool    `yaml:"use_lower_post_retirement" json:"use_lower_post_retirement"`
}

// Coefficient returns the coefficient that drives post-retirement prices.
func (pm PriceModel) Coefficient() float64 {
	if pm.UseLowerPostRetirement {
		return pm.LowerCoefficient
	}
	return pm.AverageCoefficient
}

// CoefficientLabel names the active coefficient for reports.
func (pm PriceModel) CoefficientLabel() string {
	if pm.UseLowerPostRetirement {
		return "lower bound"
	}
	return "average"
}

// GenerateAssumptions lists the model assumptions rendered in detailed outputs
func (pm PriceModel) GenerateAssumptions() []string {
	return []string{
		fmt.Sprintf("Price = c × (years since 2009)^%.2f, priced mid-month", pm.Exponent),
		fmt.Sprintf("Post-retirement coefficient: %s (c = %g)", pm.CoefficientLabel(), pm.Coefficient()),
		fmt.Sprintf("Calibration: lower bound c = %g, average c = %g", pm.LowerCoefficient, pm.AverageCoefficient),
		"Withdrawals are a fixed dollar amount each month, starting one month after retirement",
		"No taxes, fees, inflation adjustment or price volatility are modelled",
	}
}

// SimulationParameters configures exactly one simulation or solver invocation.
// The solvers that search for or derive a withdrawal ignore MonthlyWithdrawal.
type SimulationParameters struct {
	Model             PriceModel            `json:"model"`
	RetirementDate    dateutil.CalendarDate `json:"retirement_date"`
	InitialBalance    float64               `json:"initial_balance"`
	MonthlyWithdrawal float64               `json:"monthly_withdrawal"`
	HorizonYears      int                   `json:"horizon_years"`
}

// WithWithdrawal returns a copy of p using the given monthly withdrawal.
func (p SimulationParameters) WithWithdrawal(monthly float64) SimulationParameters {
	p.MonthlyWithdrawal = monthly
	return p
}

// WithInitialBalance returns a copy of p using the given starting balance.
func (p SimulationParameters) WithInitialBalance(balance float64) SimulationParameters {
	p.InitialBalance = balance
	return p
}

// Months is the number of simulated months after retirement.
func (p SimulationParameters) Months() int {
	return p.HorizonYears * 12
}
