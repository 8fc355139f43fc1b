package output

import (
	"strconv"

	"github.com/rpgo/powerlaw-drawdown/pkg/money"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as whole US dollars with thousands separators.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string { return money.NewMoneyFromDecimal(amount).Format() }

// FormatCents formats a decimal as US dollars and cents with thousands separators.
func FormatCents(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).FormatCents()
}

// FormatDollars formats a float dollar amount in whole dollars.
func FormatDollars(amount float64) string { return money.NewMoney(amount).Format() }

// FormatUnits formats an asset quantity with six decimals.
func FormatUnits(units float64) string { return money.NewUnits(units).String() }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

func floatToString(f float64, prec int) string { return strconv.FormatFloat(f, 'f', prec, 64) }
