package calculation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rpgo/powerlaw-drawdown/internal/domain"
	"github.com/rpgo/powerlaw-drawdown/pkg/money"
)

// ErrScenarioNotFound is returned when a named scenario is absent from the configuration.
var ErrScenarioNotFound = errors.New("scenario not found")

const (
	defaultCacheSize     = 256
	maxConcurrentRunners = 8
)

type searchKey struct {
	params domain.SimulationParameters
	solver domain.SolverConfig
}

// CalculationEngine orchestrates the drawdown calculations. Every calculation is
// pure, so results are memoized on the full parameter tuple. Cached results are
// shared between callers and must be treated as read-only.
type CalculationEngine struct {
	Solver domain.SolverConfig
	Logger Logger

	simulations *lru.Cache[domain.SimulationParameters, *domain.SimulationResult]
	searches    *lru.Cache[searchKey, WithdrawalSearch]
}

// NewCalculationEngine creates an engine with the default solver policy
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithConfig(DefaultSolverConfig())
}

// NewCalculationEngineWithConfig creates an engine with a custom solver policy
func NewCalculationEngineWithConfig(solver domain.SolverConfig) *CalculationEngine {
	simulations, _ := lru.New[domain.SimulationParameters, *domain.SimulationResult](defaultCacheSize)
	searches, _ := lru.New[searchKey, WithdrawalSearch](defaultCacheSize)
	return &CalculationEngine{
		Solver:      NormalizeSolverConfig(solver),
		Logger:      NopLogger{},
		simulations: simulations,
		searches:    searches,
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Simulate returns the (possibly cached) monthly trajectory for params.
func (ce *CalculationEngine) Simulate(params domain.SimulationParameters) *domain.SimulationResult {
	if res, ok := ce.simulations.Get(params); ok {
		return res
	}
	res := Simulate(params)
	ce.simulations.Add(params, res)
	if res.Exhausted() {
		ce.Logger.Debugf("simulation withdrawing %.2f/mo exhausted at %s", params.MonthlyWithdrawal, res.ExhaustedAt)
	}
	return res
}

// RequiredBalance computes the closed-form perpetual requirement and warns on a degenerate exponent.
func (ce *CalculationEngine) RequiredBalance(params domain.SimulationParameters) domain.RequiredBalanceResult {
	res := RequiredBalance(params)
	if res.Degenerate {
		ce.Logger.Warnf("exponent %.4f <= 1: required balance diverges, reported value %.6g is not meaningful",
			params.Model.Exponent, res.RequiredBalance)
	}
	return res
}

// SearchMaxWithdrawal runs (or recalls) the bisection for params under the engine's solver policy.
func (ce *CalculationEngine) SearchMaxWithdrawal(params domain.SimulationParameters) WithdrawalSearch {
	return ce.searchWith(params, ce.Solver)
}

// MaxSustainableWithdrawal returns the largest sustainable monthly withdrawal for params.
func (ce *CalculationEngine) MaxSustainableWithdrawal(params domain.SimulationParameters) float64 {
	return ce.SearchMaxWithdrawal(params).Rate
}

func (ce *CalculationEngine) searchWith(params domain.SimulationParameters, solver domain.SolverConfig) WithdrawalSearch {
	key := searchKey{params: params.WithWithdrawal(0), solver: solver}
	if res, ok := ce.searches.Get(key); ok {
		return res
	}
	res := SearchMaxWithdrawal(key.params, solver)
	ce.searches.Add(key, res)
	ce.Logger.Debugf("max withdrawal search: rate=%.2f ceiling=%.2f iterations=%d", res.Rate, res.Ceiling, res.Iterations)
	if !res.Bracketed {
		ce.Logger.Warnf("no withdrawal up to %.0f/mo exhausts the balance; raise the solver upper bound", solver.UpperBound)
	}
	return res
}

// solverFor merges the configuration's solver settings over the engine's.
func (ce *CalculationEngine) solverFor(config *domain.Configuration) domain.SolverConfig {
	solver := ce.Solver
	if config.Solver.UpperBound > 0 {
		solver.UpperBound = config.Solver.UpperBound
	}
	if config.Solver.Precision > 0 {
		solver.Precision = config.Solver.Precision
	}
	if config.Solver.MaxIterations > 0 {
		solver.MaxIterations = config.Solver.MaxIterations
	}
	return solver
}

// RunScenario calculates a complete drawdown scenario
func (ce *CalculationEngine) RunScenario(ctx context.Context, config *domain.Configuration, scenario *domain.Scenario) (*domain.ScenarioReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scenario.HorizonYears < 1 {
		return nil, fmt.Errorf("scenario %q: horizon must be at least 1 year, got %d", scenario.Name, scenario.HorizonYears)
	}
	if scenario.RetirementDate.Month < 1 || scenario.RetirementDate.Month > 12 {
		return nil, fmt.Errorf("scenario %q: retirement month must be between 1 and 12, got %d", scenario.Name, scenario.RetirementDate.Month)
	}

	params := config.Parameters(*scenario)
	sim := ce.Simulate(params)
	req := ce.RequiredBalance(params)
	search := ce.searchWith(params, ce.solverFor(config))

	ce.Logger.Infof("scenario %q: exhausted=%s max=%.2f/mo required=%.6f",
		scenario.Name, sim.ExhaustionLabel(), search.Rate, req.RequiredBalance)

	if !finiteResult(sim, req, search) {
		ce.Logger.Warnf("scenario %q: price model overflows float64 range, non-finite values reported as zero", scenario.Name)
	}

	balance := money.NewUnits(params.InitialBalance)
	required := money.NewUnits(req.RequiredBalance)
	maxRate := money.NewMoney(search.Rate)
	withdrawal := money.NewMoney(params.MonthlyWithdrawal)

	return &domain.ScenarioReport{
		Name:                     scenario.Name,
		RetirementDate:           scenario.RetirementDate,
		HorizonYears:             scenario.HorizonYears,
		InitialBalance:           balance.Decimal,
		MonthlyWithdrawal:        withdrawal.Decimal,
		PriceAtRetirement:        money.NewMoney(sim.Summary.PriceAtRetirement).Decimal,
		EndingBalance:            money.NewUnits(sim.Summary.EndingBalance).Decimal,
		EndingValue:              money.NewMoney(sim.Summary.EndingDollarValue).Decimal,
		TotalWithdrawn:           money.NewMoney(sim.Summary.TotalWithdrawn).Decimal,
		ExhaustedAt:              sim.ExhaustedAt,
		MonthsSustained:          sim.MonthsSustained(),
		RequiredBalance:          required.Decimal,
		RequiredDegenerate:       req.Degenerate,
		BalanceGap:               balance.Sub(required).Decimal,
		MaxSustainableWithdrawal: maxRate.Decimal,
		WithdrawalHeadroom:       maxRate.Sub(withdrawal).Decimal,
		Records:                  sim.Records,
	}, nil
}

// finiteResult reports whether every summary figure fits in a float64.
func finiteResult(sim *domain.SimulationResult, req domain.RequiredBalanceResult, search WithdrawalSearch) bool {
	for _, v := range []float64{
		sim.Summary.PriceAtRetirement,
		sim.Summary.EndingBalance,
		sim.Summary.EndingDollarValue,
		sim.Summary.TotalWithdrawn,
		req.RequiredBalance,
		search.Rate,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// RunNamedScenario runs the scenario called name.
func (ce *CalculationEngine) RunNamedScenario(ctx context.Context, config *domain.Configuration, name string) (*domain.ScenarioReport, error) {
	scenario, ok := config.FindScenario(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrScenarioNotFound, name)
	}
	return ce.RunScenario(ctx, config, &scenario)
}

// RunScenarios runs all scenarios concurrently and returns a comparison
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.ScenarioComparison, error) {
	reports := make([]domain.ScenarioReport, len(config.Scenarios))
	errs := make([]error, len(config.Scenarios))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrentRunners)

	for i := range config.Scenarios {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			}
			defer func() { <-semaphore }()

			report, err := ce.RunScenario(ctx, config, &config.Scenarios[idx])
			if err != nil {
				errs[idx] = err
				return
			}
			reports[idx] = *report
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("RunScenario failed: %w", err)
		}
	}

	return &domain.ScenarioComparison{
		GeneratedAt:    nowFunc(),
		PriceModel:     config.PriceModel,
		Solver:         ce.solverFor(config),
		Scenarios:      reports,
		Recommendation: generateRecommendation(reports),
		Assumptions:    config.PriceModel.GenerateAssumptions(),
	}, nil
}
