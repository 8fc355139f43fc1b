package calculation

import (
	"github.com/rpgo/powerlaw-drawdown/internal/domain"
)

// generateRecommendation picks the scenario with the most withdrawal headroom
// and the one whose balance lasts longest.
func generateRecommendation(reports []domain.ScenarioReport) domain.Recommendation {
	var rec domain.Recommendation
	for i, r := range reports {
		if i == 0 || r.WithdrawalHeadroom.GreaterThan(rec.Headroom) {
			rec.MostHeadroom = r.Name
			rec.Headroom = r.WithdrawalHeadroom
		}
		if i == 0 || r.MonthsSustained > rec.MonthsSustained {
			rec.LongestSustained = r.Name
			rec.MonthsSustained = r.MonthsSustained
		}
	}
	return rec
}
