package dateutil

import (
	"fmt"
	"strconv"
	"strings"
)

// CalendarDate is a (year, month) pair with Month always in [1,12].
type CalendarDate struct {
	Year  int
	Month int
}

// NewCalendarDate builds a normalized date; out-of-range months carry into the year.
func NewCalendarDate(year, month int) CalendarDate {
	return Advance(CalendarDate{Year: year, Month: 1}, month-1)
}

// Advance moves anchor by offsetMonths (negative offsets step backwards).
func Advance(anchor CalendarDate, offsetMonths int) CalendarDate {
	total := anchor.absoluteMonth() + offsetMonths
	year := floorDiv(total, 12)
	return CalendarDate{Year: year, Month: total - year*12 + 1}
}

// MonthsBetween returns the signed number of months from a to b.
func MonthsBetween(a, b CalendarDate) int {
	return b.absoluteMonth() - a.absoluteMonth()
}

func (d CalendarDate) absoluteMonth() int {
	return d.Year*12 + d.Month - 1
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// MidMonthYear returns the continuous year at the middle of the month.
func (d CalendarDate) MidMonthYear() float64 {
	return float64(d.Year) + (float64(d.Month)-0.5)/12
}

// FractionalYear returns year + month/12.
func (d CalendarDate) FractionalYear() float64 {
	return float64(d.Year) + float64(d.Month)/12
}

// Before reports whether d is strictly earlier than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.absoluteMonth() < other.absoluteMonth()
}

// IsZero reports whether the date was never set.
func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0
}

// String renders the date as YYYY-MM.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
}

// ParseCalendarDate parses a YYYY-MM string.
func ParseCalendarDate(s string) (CalendarDate, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return CalendarDate{}, fmt.Errorf("invalid calendar date %q: expected YYYY-MM", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return CalendarDate{}, fmt.Errorf("invalid month in %q: must be between 1 and 12", s)
	}
	return CalendarDate{Year: year, Month: month}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *CalendarDate) UnmarshalText(text []byte) error {
	parsed, err := ParseCalendarDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
