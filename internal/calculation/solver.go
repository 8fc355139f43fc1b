package calculation

import "github.com/rpgo/powerlaw-drawdown/internal/domain"

const (
	// DefaultUpperBound is the highest monthly withdrawal the bisection probes.
	DefaultUpperBound = 1_000_000.0

	// DefaultPrecision stops the bisection once the bracket is narrower than this many dollars.
	DefaultPrecision = 1.0

	// DefaultMaxIterations caps the number of simulations one search may run.
	DefaultMaxIterations = 50
)

// DefaultSolverConfig returns the stock bisection policy: [0, 1,000,000] dollars
// per month, stop once the bracket is narrower than one dollar or after 50 probes.
func DefaultSolverConfig() domain.SolverConfig {
	return domain.SolverConfig{
		UpperBound:    DefaultUpperBound,
		Precision:     DefaultPrecision,
		MaxIterations: DefaultMaxIterations,
	}
}

// NormalizeSolverConfig replaces non-positive fields with the defaults.
func NormalizeSolverConfig(cfg domain.SolverConfig) domain.SolverConfig {
	def := DefaultSolverConfig()
	if !(cfg.UpperBound > 0) {
		cfg.UpperBound = def.UpperBound
	}
	if !(cfg.Precision > 0) {
		cfg.Precision = def.Precision
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	return cfg
}

// WithdrawalSearch describes the outcome of a max-withdrawal bisection
type WithdrawalSearch struct {
	Rate       float64 `json:"rate"`
	Ceiling    float64 `json:"ceiling"`
	Iterations int     `json:"iterations"`
	// Bracketed is false when no probed rate exhausted the balance, in which
	// case Rate is capped by the upper bound rather than by the balance.
	Bracketed bool `json:"bracketed"`
}

// SearchMaxWithdrawal bisects over the monthly withdrawal using Simulate as the
// oracle. low always holds a rate that survives the horizon; high is either the
// ceiling or a rate that exhausts the balance. The returned rate is low.
func SearchMaxWithdrawal(params domain.SimulationParameters, cfg domain.SolverConfig) WithdrawalSearch {
	cfg = NormalizeSolverConfig(cfg)

	low, high := 0.0, cfg.UpperBound
	bracketed := false
	iterations := 0
	for i := 0; i < cfg.MaxIterations; i++ {
		iterations++
		mid := (low + high) / 2
		if Simulate(params.WithWithdrawal(mid)).Exhausted() {
			high = mid
			bracketed = true
		} else {
			low = mid
		}
		if high-low < cfg.Precision {
			break
		}
	}

	return WithdrawalSearch{
		Rate:       low,
		Ceiling:    high,
		Iterations: iterations,
		Bracketed:  bracketed,
	}
}

// MaxSustainableWithdrawal returns the largest monthly withdrawal found that
// does not exhaust the balance within the horizon.
func MaxSustainableWithdrawal(params domain.SimulationParameters, cfg domain.SolverConfig) float64 {
	return SearchMaxWithdrawal(params, cfg).Rate
}
