package calculation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/rpgo/powerlaw-drawdown/internal/domain"
	"github.com/rpgo/powerlaw-drawdown/pkg/dateutil"
)

// MonotonicityViolation records a pair of withdrawal rates where the higher rate
// fared better than the lower one, which would invalidate the bisection oracle.
type MonotonicityViolation struct {
	Params     domain.SimulationParameters
	LowerRate  float64
	HigherRate float64
	Reason     string
}

func (v MonotonicityViolation) String() string {
	return fmt.Sprintf("rates %.4f < %.4f: %s (retire %s, balance %.6f, exponent %.3f, horizon %dy)",
		v.LowerRate, v.HigherRate, v.Reason, v.Params.RetirementDate, v.Params.InitialBalance,
		v.Params.Model.Exponent, v.Params.HorizonYears)
}

// RandomParameters draws a plausible parameter set for property sweeps.
func RandomParameters(rng *rand.Rand) domain.SimulationParameters {
	lower := 0.001 + rng.Float64()*0.01
	return domain.SimulationParameters{
		Model: domain.PriceModel{
			LowerCoefficient:       lower,
			AverageCoefficient:     lower * (1 + rng.Float64()*2),
			Exponent:               1.05 + rng.Float64()*6.95,
			UseLowerPostRetirement: rng.Intn(2) == 0,
		},
		RetirementDate: dateutil.CalendarDate{Year: 2009 + rng.Intn(40), Month: 1 + rng.Intn(12)},
		InitialBalance: rng.Float64() * 20,
		HorizonYears:   1 + rng.Intn(80),
	}
}

// CheckWithdrawalMonotonicity simulates params at each rate (sorted ascending) and
// reports the first pair where a higher rate ends with more balance or exhausts later.
func CheckWithdrawalMonotonicity(params domain.SimulationParameters, rates []float64) *MonotonicityViolation {
	sorted := append([]float64(nil), rates...)
	sort.Float64s(sorted)

	var prev *domain.SimulationResult
	prevRate := 0.0
	for _, rate := range sorted {
		res := Simulate(params.WithWithdrawal(rate))
		if prev != nil {
			switch {
			case res.Summary.EndingBalance > prev.Summary.EndingBalance:
				return &MonotonicityViolation{params, prevRate, rate, "higher rate ended with a larger balance"}
			case prev.Exhausted() && !res.Exhausted():
				return &MonotonicityViolation{params, prevRate, rate, "higher rate avoided exhaustion"}
			case prev.Exhausted() && dateutil.MonthsBetween(*prev.ExhaustedAt, *res.ExhaustedAt) > 0:
				return &MonotonicityViolation{params, prevRate, rate, "higher rate exhausted later"}
			}
		}
		prev, prevRate = res, rate
	}
	return nil
}

// SweepWithdrawalMonotonicity checks n random parameter sets. Each set is probed at
// rates bracketing its own maximum sustainable withdrawal, where flooring and
// rounding effects would show first.
func SweepWithdrawalMonotonicity(ctx context.Context, seed int64, n int, solver domain.SolverConfig) ([]MonotonicityViolation, error) {
	rng := rand.New(rand.NewSource(seed))
	var violations []MonotonicityViolation
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return violations, err
		}
		params := RandomParameters(rng)
		maxRate := MaxSustainableWithdrawal(params, solver)
		rates := []float64{0, maxRate / 2, maxRate, maxRate + 0.5, maxRate + 1, maxRate + 2, maxRate * 2, maxRate*10 + 1}
		if v := CheckWithdrawalMonotonicity(params, rates); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations, nil
}
