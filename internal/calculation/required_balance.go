package calculation

import (
	"math"

	"github.com/rpgo/powerlaw-drawdown/internal/domain"
)

// RequiredBalance returns the balance needed at retirement to fund
// params.MonthlyWithdrawal forever, from the continuous approximation
//
//	B = 12·r·t_r / (P(t_r)·(α − 1))
//
// where t_r is years since the epoch at the retirement month and α the exponent.
// The integral behind it only converges for α > 1. For α <= 1 the result is
// marked Degenerate and the number is an artefact of the epsilon floor.
func RequiredBalance(params domain.SimulationParameters) domain.RequiredBalanceResult {
	exponent := params.Model.Exponent
	elapsed := math.Max(Epsilon, params.RetirementDate.FractionalYear()-EpochYear)
	price := PriceAtElapsed(params.Model.Coefficient(), exponent, elapsed)

	required := (params.MonthlyWithdrawal * 12 * elapsed) / (price * math.Max(Epsilon, exponent-1))

	return domain.RequiredBalanceResult{
		RequiredBalance:   required,
		PriceAtRetirement: price,
		ElapsedYears:      elapsed,
		Degenerate:        exponent <= 1,
	}
}
