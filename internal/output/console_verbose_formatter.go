package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/powerlaw-drawdown/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxTableRows caps the monthly table printed per scenario; the full trajectory
// is available through the detailed CSV export.
const MaxTableRows = 240

// ConsoleVerboseFormatter renders the detailed console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "POWER-LAW DRAWDOWN ANALYSIS")
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(results) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, scenario := range results.Scenarios {
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, scenario.Name)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		fmt.Fprintln(&buf, "INPUTS:")
		fmt.Fprintf(&buf, "  Retirement:              %s\n", scenario.RetirementDate)
		fmt.Fprintf(&buf, "  Horizon:                 %d years\n", scenario.HorizonYears)
		fmt.Fprintf(&buf, "  Balance at Retirement:   %s units\n", scenario.InitialBalance.StringFixed(6))
		fmt.Fprintf(&buf, "  Monthly Withdrawal:      %s\n", FormatCurrency(scenario.MonthlyWithdrawal))
		fmt.Fprintf(&buf, "  Price at Retirement:     %s\n", FormatCurrency(scenario.PriceAtRetirement))
		fmt.Fprintln(&buf)

		fmt.Fprintln(&buf, "DEPLETION:")
		fmt.Fprintf(&buf, "  Exhausted:               %s\n", scenario.ExhaustionLabel())
		fmt.Fprintf(&buf, "  Months Sustained:        %d\n", scenario.MonthsSustained)
		fmt.Fprintf(&buf, "  Ending Balance:          %s units\n", scenario.EndingBalance.StringFixed(6))
		fmt.Fprintf(&buf, "  Ending Value:            %s\n", FormatCurrency(scenario.EndingValue))
		fmt.Fprintf(&buf, "  Total Withdrawn:         %s\n", FormatCurrency(scenario.TotalWithdrawn))
		fmt.Fprintln(&buf)

		fmt.Fprintln(&buf, "REQUIRED BALANCE (perpetual):")
		fmt.Fprintf(&buf, "  Required:                %s units\n", scenario.RequiredBalance.StringFixed(6))
		fmt.Fprintf(&buf, "  Gap (have - need):       %s units\n", signed(scenario.BalanceGap, 6))
		if scenario.RequiredDegenerate {
			fmt.Fprintln(&buf, "  WARNING: exponent <= 1, the required balance is not meaningful")
		}
		fmt.Fprintln(&buf)

		fmt.Fprintln(&buf, "MAX SUSTAINABLE WITHDRAWAL:")
		fmt.Fprintf(&buf, "  Max Withdrawal:          %s/mo\n", FormatCurrency(scenario.MaxSustainableWithdrawal))
		fmt.Fprintf(&buf, "  Headroom:                %s/mo\n", FormatCurrency(scenario.WithdrawalHeadroom))
		fmt.Fprintln(&buf)

		writeMonthlyTable(&buf, scenario.Records)
		fmt.Fprintln(&buf)
	}

	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf, "SUMMARY & RECOMMENDATIONS")
		fmt.Fprintln(&buf, "=========================")
		fmt.Fprintf(&buf, "Best scenario: %s\n", rec.ScenarioName)
		fmt.Fprintf(&buf, "Max Withdrawal: %s/mo (headroom %s, %s)\n", FormatCurrency(rec.MaxWithdrawal), FormatCurrency(rec.Headroom), FormatPercentage(rec.HeadroomPercent))
		if rec.SurvivesHorizon {
			fmt.Fprintf(&buf, "Balance survives the full horizon (%d months)\n", rec.MonthsSustained)
		} else {
			fmt.Fprintf(&buf, "Balance lasts %d months\n", rec.MonthsSustained)
		}
	}

	return buf.Bytes(), nil
}

func writeMonthlyTable(buf *bytes.Buffer, records []domain.MonthlyRecord) {
	fmt.Fprintf(buf, "%5s  %-7s  %14s  %12s  %12s  %14s  %14s\n", "MONTH", "DATE", "PRICE", "SOLD", "BALANCE", "VALUE", "WITHDRAWN")
	fmt.Fprintln(buf, strings.Repeat("-", 87))
	shown := records
	if len(shown) > MaxTableRows {
		shown = shown[:MaxTableRows]
	}
	for k, rec := range shown {
		fmt.Fprintf(buf, "%5d  %-7s  %14s  %12s  %12s  %14s  %14s\n",
			k,
			rec.Date,
			FormatDollars(rec.Price),
			FormatUnits(rec.UnitsSold),
			FormatUnits(rec.Balance),
			FormatDollars(rec.DollarValue),
			FormatDollars(rec.CumulativeWithdrawn),
		)
	}
	if len(records) > len(shown) {
		fmt.Fprintf(buf, "... %d more months omitted (use detailed-csv for the full trajectory)\n", len(records)-len(shown))
	}
}

func signed(d decimal.Decimal, places int32) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(places)
	}
	return d.StringFixed(places)
}
