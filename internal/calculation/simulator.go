package calculation

import (
	"math"

	"github.com/rpgo/powerlaw-drawdown/internal/domain"
	"github.com/rpgo/powerlaw-drawdown/pkg/dateutil"
)

// Simulate runs the monthly depletion of the balance from the retirement month
// through the end of the horizon. Month 0 is the retirement snapshot; withdrawals
// start at month 1. Once the balance would go negative the exhaustion date is
// recorded and the balance is floored at zero for every later month.
func Simulate(params domain.SimulationParameters) *domain.SimulationResult {
	coefficient := params.Model.Coefficient()
	exponent := params.Model.Exponent
	withdrawal := params.MonthlyWithdrawal

	months := params.Months()
	if months < 0 {
		months = 0
	}

	records := make([]domain.MonthlyRecord, 0, months+1)
	balance := params.InitialBalance
	cumulative := 0.0
	var exhaustedAt *dateutil.CalendarDate

	for k := 0; k <= months; k++ {
		date := dateutil.Advance(params.RetirementDate, k)
		price := PowerLawPrice(coefficient, exponent, date)

		sold := 0.0
		if k > 0 && withdrawal > 0 {
			sold = withdrawal / price
			balance -= sold
			cumulative += withdrawal
			if balance < 0 && exhaustedAt == nil {
				at := date
				exhaustedAt = &at
			}
			balance = math.Max(0, balance)
		}

		value := 0.0
		if balance > 0 {
			value = balance * price
		}

		records = append(records, domain.MonthlyRecord{
			Date:                date,
			Price:               price,
			UnitsSold:           sold,
			Balance:             balance,
			DollarValue:         value,
			CumulativeWithdrawn: cumulative,
		})
	}

	last := records[len(records)-1]
	return &domain.SimulationResult{
		Records:     records,
		ExhaustedAt: exhaustedAt,
		Summary: domain.SimulationSummary{
			EndingBalance:       last.Balance,
			EndingDollarValue:   last.DollarValue,
			BalanceAtRetirement: params.InitialBalance,
			PriceAtRetirement:   records[0].Price,
			TotalWithdrawn:      cumulative,
		},
	}
}
