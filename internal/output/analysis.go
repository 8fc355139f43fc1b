package output

import (
	"sort"

	"github.com/rpgo/powerlaw-drawdown/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName    string
	MaxWithdrawal   decimal.Decimal
	Headroom        decimal.Decimal
	HeadroomPercent decimal.Decimal
	MonthsSustained int
	SurvivesHorizon bool
}

var decimalHundred = decimal.NewFromInt(100)

// AnalyzeScenarios ranks scenarios by sustainable-withdrawal headroom, preferring
// scenarios that survive their horizon and breaking ties by name.
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	if results == nil || len(results.Scenarios) == 0 {
		return Recommendation{}
	}
	ranks := sortedScenarios(results)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].IsExhausted() != ranks[j].IsExhausted() {
			return !ranks[i].IsExhausted()
		}
		return ranks[i].WithdrawalHeadroom.GreaterThan(ranks[j].WithdrawalHeadroom)
	})
	best := ranks[0]
	pct := decimal.Zero
	if !best.MonthlyWithdrawal.IsZero() {
		pct = best.WithdrawalHeadroom.Div(best.MonthlyWithdrawal).Mul(decimalHundred)
	}
	return Recommendation{
		ScenarioName:    best.Name,
		MaxWithdrawal:   best.MaxSustainableWithdrawal,
		Headroom:        best.WithdrawalHeadroom,
		HeadroomPercent: pct,
		MonthsSustained: best.MonthsSustained,
		SurvivesHorizon: !best.IsExhausted(),
	}
}
