package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	calc "github.com/rpgo/powerlaw-drawdown/internal/calculation"
)

func main() {
	n := flag.Int("n", 500, "number of random parameter sets")
	seed := flag.Int64("seed", 0, "random seed (0 picks one from the clock)")
	flag.Parse()

	s := *seed
	if s == 0 {
		s = calc.Seed()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	violations, err := calc.SweepWithdrawalMonotonicity(ctx, s, *n, calc.DefaultSolverConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "sweep interrupted: %v\n", err)
	}
	fmt.Printf("seed=%d sets=%d violations=%d\n", s, *n, len(violations))
	for _, v := range violations {
		fmt.Println(v)
	}
	if len(violations) > 0 {
		os.Exit(1)
	}
}
