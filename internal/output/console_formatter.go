package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/powerlaw-drawdown/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "POWER-LAW DRAWDOWN SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Price model: c=%g (%s), exponent=%.2f\n",
		results.PriceModel.Coefficient(), results.PriceModel.CoefficientLabel(), results.PriceModel.Exponent)
	fmt.Fprintln(&buf)
	for _, sc := range sortedScenarios(results) {
		fmt.Fprintf(&buf, "%s: Withdrawal=%s/mo Exhausted=%s Ending=%s units (%s)\n",
			sc.Name,
			FormatCurrency(sc.MonthlyWithdrawal),
			sc.ExhaustionLabel(),
			sc.EndingBalance.StringFixed(6),
			FormatCurrency(sc.EndingValue),
		)
		fmt.Fprintf(&buf, "  Required=%s units Gap=%s MaxWithdrawal=%s/mo\n",
			sc.RequiredBalance.StringFixed(6), sc.BalanceGap.StringFixed(6), FormatCurrency(sc.MaxSustainableWithdrawal))
	}
	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (headroom %s / %s)\n", rec.ScenarioName, FormatCurrency(rec.Headroom), FormatPercentage(rec.HeadroomPercent))
	}
	return buf.Bytes(), nil
}
