package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/rpgo/powerlaw-drawdown/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "RetirementDate", "HorizonYears", "InitialBalance", "MonthlyWithdrawal", "PriceAtRetirement", "EndingBalance", "EndingValue", "TotalWithdrawn", "ExhaustedAt", "MonthsSustained", "RequiredBalance", "RequiredDegenerate", "BalanceGap", "MaxSustainableWithdrawal", "WithdrawalHeadroom"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	scenarios := sortedScenarios(results)
	for _, sc := range scenarios {
		exhausted := ""
		if sc.ExhaustedAt != nil {
			exhausted = sc.ExhaustedAt.String()
		}
		row := []string{
			sc.Name,
			sc.RetirementDate.String(),
			intToString(sc.HorizonYears),
			sc.InitialBalance.StringFixed(6),
			sc.MonthlyWithdrawal.StringFixed(2),
			sc.PriceAtRetirement.StringFixed(2),
			sc.EndingBalance.StringFixed(6),
			sc.EndingValue.StringFixed(2),
			sc.TotalWithdrawn.StringFixed(2),
			exhausted,
			intToString(sc.MonthsSustained),
			sc.RequiredBalance.StringFixed(6),
			boolToString(sc.RequiredDegenerate),
			sc.BalanceGap.StringFixed(6),
			sc.MaxSustainableWithdrawal.StringFixed(2),
			sc.WithdrawalHeadroom.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// sortedScenarios returns a name-ordered copy so tabular outputs are deterministic.
func sortedScenarios(results *domain.ScenarioComparison) []domain.ScenarioReport {
	scenarios := append([]domain.ScenarioReport(nil), results.Scenarios...)
	sort.SliceStable(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	return scenarios
}
