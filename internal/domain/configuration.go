package domain

import "github.com/rpgo/powerlaw-drawdown/pkg/dateutil"

// SolverConfig holds the policy constants of the max-withdrawal bisection
type SolverConfig struct {
	UpperBound    float64 `yaml:"upper_bound" json:"upper_bound" validate:"gte=0"`
	Precision     float64 `yaml:"precision" json:"precision" validate:"gte=0"`
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations" validate:"gte=0"`
}

// Scenario is one retirement plan evaluated against the shared price model
type Scenario struct {
	Name              string                `yaml:"name" json:"name" validate:"required"`
	RetirementDate    dateutil.CalendarDate `yaml:"retirement_date" json:"retirement_date"`
	InitialBalance    float64               `yaml:"initial_balance" json:"initial_balance" validate:"gte=0"`
	MonthlyWithdrawal float64               `yaml:"monthly_withdrawal" json:"monthly_withdrawal" validate:"gte=0"`
	HorizonYears      int                   `yaml:"horizon_years" json:"horizon_years" validate:"gte=1,lte=120"`
}

// Configuration represents the complete input configuration
type Configuration struct {
	PriceModel PriceModel   `yaml:"price_model" json:"price_model"`
	Solver     SolverConfig `yaml:"solver" json:"solver"`
	Scenarios  []Scenario   `yaml:"scenarios" json:"scenarios" validate:"required,min=1,dive"`
}

// Parameters binds a scenario to the configured price model.
func (c *Configuration) Parameters(s Scenario) SimulationParameters {
	return SimulationParameters{
		Model:             c.PriceModel,
		RetirementDate:    s.RetirementDate,
		InitialBalance:    s.InitialBalance,
		MonthlyWithdrawal: s.MonthlyWithdrawal,
		HorizonYears:      s.HorizonYears,
	}
}

// FindScenario looks a scenario up by name.
func (c *Configuration) FindScenario(name string) (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}
