package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rpgo/powerlaw-drawdown/internal/calculation"
	"github.com/rpgo/powerlaw-drawdown/internal/domain"
	"github.com/rpgo/powerlaw-drawdown/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// ErrDegenerateExponent is returned for price models whose exponent is at or below 1,
// where the perpetual required balance has no finite value.
var ErrDegenerateExponent = errors.New("price model exponent must be greater than 1")

// ErrPriceOverflow is returned when a scenario drives the price or the required
// balance outside the float64 range.
var ErrPriceOverflow = errors.New("price model overflows float64 range")

const (
	// MaxHorizonYears bounds the simulation horizon accepted from input.
	MaxHorizonYears = 120
	minHorizonYears = 1
)

var validate = validator.New()

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	if err := validate.Struct(config); err != nil {
		return describeValidationError(err)
	}

	if err := ip.validatePriceModel(&config.PriceModel); err != nil {
		return fmt.Errorf("price model validation failed: %w", err)
	}

	if err := ip.validateSolver(&config.Solver); err != nil {
		return fmt.Errorf("solver validation failed: %w", err)
	}

	seen := make(map[string]int, len(config.Scenarios))
	for i, scenario := range config.Scenarios {
		if prev, dup := seen[scenario.Name]; dup {
			return fmt.Errorf("scenario %d: name %q already used by scenario %d", i, scenario.Name, prev)
		}
		seen[scenario.Name] = i

		if err := ip.validateScenario(&scenario); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		if err := checkOverflow(config.Parameters(scenario)); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
	}

	return nil
}

// describeValidationError reports the first failing struct tag in a readable form.
func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Errorf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("%s failed %s", fe.Namespace(), fe.Tag())
}

func (ip *InputParser) validatePriceModel(model *domain.PriceModel) error {
	if !isFinite(model.LowerCoefficient) || !isFinite(model.AverageCoefficient) {
		return fmt.Errorf("coefficients must be finite")
	}
	if !isFinite(model.Exponent) {
		return fmt.Errorf("exponent must be finite")
	}
	if model.Exponent <= 1 {
		return fmt.Errorf("%w (got %g)", ErrDegenerateExponent, model.Exponent)
	}
	return nil
}

// validateSolver accepts zero fields, which select the engine defaults.
func (ip *InputParser) validateSolver(solver *domain.SolverConfig) error {
	if !isFinite(solver.UpperBound) || !isFinite(solver.Precision) {
		return fmt.Errorf("solver bounds must be finite")
	}
	if solver.UpperBound > 0 && solver.Precision > solver.UpperBound {
		return fmt.Errorf("precision %g cannot exceed upper bound %g", solver.Precision, solver.UpperBound)
	}
	return nil
}

func (ip *InputParser) validateScenario(scenario *domain.Scenario) error {
	if scenario.RetirementDate.IsZero() {
		return fmt.Errorf("retirement date is required")
	}
	if scenario.RetirementDate.Month < 1 || scenario.RetirementDate.Month > 12 {
		return fmt.Errorf("retirement month must be between 1 and 12")
	}
	if !isFinite(scenario.InitialBalance) {
		return fmt.Errorf("initial balance must be finite")
	}
	if !isFinite(scenario.MonthlyWithdrawal) {
		return fmt.Errorf("monthly withdrawal must be finite")
	}
	return nil
}

// checkOverflow rejects parameters whose price at either end of the horizon, or
// whose perpetual requirement, is not a finite number. The price curve is
// monotone so the endpoints bound every month in between.
func checkOverflow(params domain.SimulationParameters) error {
	coefficient := params.Model.Coefficient()
	last := dateutil.Advance(params.RetirementDate, params.Months())
	if p := calculation.PowerLawPrice(coefficient, params.Model.Exponent, last); !isFinite(p) {
		return fmt.Errorf("%w: price at %s is %g", ErrPriceOverflow, last, p)
	}
	if req := calculation.RequiredBalance(params); !isFinite(req.RequiredBalance) {
		return fmt.Errorf("%w: required balance at %s is %g", ErrPriceOverflow, params.RetirementDate, req.RequiredBalance)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Clamp forces ad-hoc input into the accepted ranges: month into [1,12], horizon
// into [1,120] and amounts to non-negative values.
func Clamp(s domain.Scenario) domain.Scenario {
	s.RetirementDate.Month = clampInt(s.RetirementDate.Month, 1, 12)
	s.HorizonYears = clampInt(s.HorizonYears, minHorizonYears, MaxHorizonYears)
	s.InitialBalance = clampAmount(s.InitialBalance)
	s.MonthlyWithdrawal = clampAmount(s.MonthlyWithdrawal)
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampAmount(v float64) float64 {
	if !(v > 0) || math.IsInf(v, 1) {
		return 0
	}
	return v
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	return &domain.Configuration{
		PriceModel: domain.PriceModel{
			LowerCoefficient:       0.00441,
			AverageCoefficient:     0.0096,
			Exponent:               5.7,
			UseLowerPostRetirement: true,
		},
		Solver: domain.SolverConfig{
			UpperBound:    1_000_000,
			Precision:     1,
			MaxIterations: 50,
		},
		Scenarios: []domain.Scenario{
			{
				Name:              "Retire 2025",
				RetirementDate:    dateutil.CalendarDate{Year: 2025, Month: 1},
				InitialBalance:    7.62,
				MonthlyWithdrawal: 6000,
				HorizonYears:      80,
			},
			{
				Name:              "Retire 2030",
				RetirementDate:    dateutil.CalendarDate{Year: 2030, Month: 1},
				InitialBalance:    7.62,
				MonthlyWithdrawal: 10000,
				HorizonYears:      60,
			},
		},
	}
}
