package output

import (
	"github.com/rpgo/powerlaw-drawdown/internal/domain"
)

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs
// when a comparison carries none of its own.
var DefaultAssumptions = []string{
	"Price follows a deterministic power law in years since 2009, priced mid-month",
	"Withdrawals are a fixed dollar amount each month, starting one month after retirement",
	"Units are sold at the model price with no fees, slippage or taxes",
	"No inflation adjustment is applied to withdrawals",
}

// GenerateAssumptions creates the assumptions list for a comparison, preferring the
// ones recorded on it, then the ones implied by its price model.
func GenerateAssumptions(results *domain.ScenarioComparison) []string {
	if len(results.Assumptions) > 0 {
		return results.Assumptions
	}
	if results.PriceModel.Coefficient() > 0 {
		return results.PriceModel.GenerateAssumptions()
	}
	return DefaultAssumptions
}
