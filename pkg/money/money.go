package money

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.English)
	twelve  = decimal.NewFromInt(12)
)

// Money is a dollar amount carried with decimal precision at the reporting boundary
type Money struct {
	decimal.Decimal
}

// NewMoney creates a Money from a float64. Non-finite input maps to zero.
func NewMoney(value float64) Money {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Zero()
	}
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal wraps an existing decimal.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Round rounds to cents.
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Annual converts a monthly amount to annual
func (m Money) Annual() Money {
	return Money{m.Decimal.Mul(twelve)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// Zero returns a zero Money amount
func Zero() Money {
	return Money{decimal.Zero}
}

// String returns the amount with two decimals and no grouping.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders whole dollars with thousands separators, e.g. "$1,234,568".
func (m Money) Format() string {
	return printer.Sprintf("$%d", m.Decimal.Round(0).IntPart())
}

// FormatCents renders dollars and cents with thousands separators, e.g. "$1,234.57".
func (m Money) FormatCents() string {
	return printer.Sprintf("$%.2f", m.Round().InexactFloat64())
}

// Units is a quantity of the held asset (fractional units).
type Units struct {
	decimal.Decimal
}

// NewUnits creates Units from a float64. Non-finite input maps to zero.
func NewUnits(value float64) Units {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Units{decimal.Zero}
	}
	return Units{decimal.NewFromFloat(value)}
}

// Sub returns u - other.
func (u Units) Sub(other Units) Units {
	return Units{u.Decimal.Sub(other.Decimal)}
}

// String renders units with six decimals.
func (u Units) String() string {
	return u.Decimal.StringFixed(6)
}
