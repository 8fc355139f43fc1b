package calculation

import (
	"math"

	"github.com/rpgo/powerlaw-drawdown/pkg/dateutil"
)

const (
	// EpochYear anchors elapsed time for the power-law curve.
	EpochYear = 2009

	// Epsilon floors elapsed years and (exponent - 1) so the formulas never
	// divide by zero or raise a non-positive base to a real power.
	Epsilon = 1e-9
)

// ElapsedYears returns the mid-month time offset from the epoch, floored at Epsilon.
func ElapsedYears(date dateutil.CalendarDate) float64 {
	return math.Max(Epsilon, date.MidMonthYear()-EpochYear)
}

// PriceAtElapsed evaluates coefficient * x^exponent with x floored at Epsilon.
func PriceAtElapsed(coefficient, exponent, x float64) float64 {
	price := coefficient * math.Pow(math.Max(Epsilon, x), exponent)
	if price <= 0 && coefficient > 0 {
		// x^exponent underflowed; keep the price strictly positive
		return math.SmallestNonzeroFloat64
	}
	return price
}

// PowerLawPrice computes the asset price for the middle of the given month.
func PowerLawPrice(coefficient, exponent float64, date dateutil.CalendarDate) float64 {
	return PriceAtElapsed(coefficient, exponent, ElapsedYears(date))
}
