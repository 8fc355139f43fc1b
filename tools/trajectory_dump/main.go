package main

import (
	"context"
	"fmt"
	"os"

	calc "github.com/rpgo/powerlaw-drawdown/internal/calculation"
	"github.com/rpgo/powerlaw-drawdown/internal/config"
)

// trajectory_dump prints every scenario's monthly balance side by side as CSV.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: trajectory_dump <config-file>")
		return
	}
	p := config.NewInputParser()
	cfg, err := p.LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	engine := calc.NewCalculationEngineWithConfig(cfg.Solver)
	res, err := engine.RunScenarios(context.Background(), cfg)
	if err != nil {
		panic(err)
	}
	if len(res.Scenarios) < 1 {
		fmt.Println("no scenarios")
		return
	}

	// Rows run to the longest trajectory; shorter scenarios leave blanks
	maxLen := 0
	for _, s := range res.Scenarios {
		if len(s.Records) > maxLen {
			maxLen = len(s.Records)
		}
	}

	header := "Month"
	for i := range res.Scenarios {
		header += fmt.Sprintf(",S%d_Date,S%d_Price,S%d_Balance,S%d_Value", i+1, i+1, i+1, i+1)
	}
	fmt.Println(header)

	for k := 0; k < maxLen; k++ {
		row := fmt.Sprintf("%d", k)
		for _, s := range res.Scenarios {
			if k >= len(s.Records) {
				row += ",,,,"
				continue
			}
			r := s.Records[k]
			row += fmt.Sprintf(",%s,%.2f,%.8f,%.2f", r.Date, r.Price, r.Balance, r.DollarValue)
		}
		fmt.Println(row)
	}

	for i, s := range res.Scenarios {
		fmt.Fprintf(os.Stderr, "S%d %s: exhausted=%s max=%s/mo\n", i+1, s.Name, s.ExhaustionLabel(), s.MaxSustainableWithdrawal.StringFixed(2))
	}
}
