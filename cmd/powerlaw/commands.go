package main

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/rpgo/powerlaw-drawdown/internal/calculation"
	"github.com/rpgo/powerlaw-drawdown/internal/config"
	"github.com/rpgo/powerlaw-drawdown/internal/domain"
	"github.com/rpgo/powerlaw-drawdown/internal/output"
	"github.com/rpgo/powerlaw-drawdown/pkg/dateutil"
	"github.com/rpgo/powerlaw-drawdown/pkg/money"
)

// scenarioFlags holds the ad-hoc inputs shared by the single-scenario commands.
type scenarioFlags struct {
	configFile   string
	scenarioName string

	retireYear  int
	retireMonth int
	balance     float64
	withdrawal  float64
	horizon     int

	lowerCoefficient   float64
	averageCoefficient float64
	exponent           float64
	useAverage         bool
}

type app struct {
	verbose bool
	flags   scenarioFlags
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "powerlaw",
		Short:         "Power-law drawdown calculator",
		Long:          "Simulate spending down a fixed asset balance when its price follows a power law in time.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.simulateCmd(),
		a.requiredCmd(),
		a.maxWithdrawalCmd(),
		a.compareCmd(),
		exampleCmd(),
	)
	return root
}

func (a *app) addScenarioFlags(cmd *cobra.Command) {
	example := config.NewInputParser().CreateExampleConfiguration()
	preset := example.Scenarios[0]
	f := cmd.Flags()
	f.StringVarP(&a.flags.configFile, "config", "c", "", "YAML configuration file (overrides the parameter flags)")
	f.StringVar(&a.flags.scenarioName, "scenario", "", "scenario name within --config (defaults to the first)")
	f.IntVar(&a.flags.retireYear, "retire-year", preset.RetirementDate.Year, "retirement year")
	f.IntVar(&a.flags.retireMonth, "retire-month", preset.RetirementDate.Month, "retirement month (clamped to 1-12)")
	f.Float64Var(&a.flags.balance, "balance", preset.InitialBalance, "units held at retirement")
	f.Float64Var(&a.flags.withdrawal, "withdrawal", preset.MonthlyWithdrawal, "monthly withdrawal in dollars")
	f.IntVar(&a.flags.horizon, "years", preset.HorizonYears, "simulation horizon in years (clamped to 1-120)")
	f.Float64Var(&a.flags.lowerCoefficient, "lower-coefficient", example.PriceModel.LowerCoefficient, "lower-bound power-law coefficient")
	f.Float64Var(&a.flags.averageCoefficient, "average-coefficient", example.PriceModel.AverageCoefficient, "average power-law coefficient")
	f.Float64Var(&a.flags.exponent, "exponent", example.PriceModel.Exponent, "power-law exponent")
	f.BoolVar(&a.flags.useAverage, "use-average", false, "price withdrawals on the average curve instead of the lower bound")
}

// loadScenario resolves the configuration and the single scenario a command operates on.
func (a *app) loadScenario() (*domain.Configuration, domain.Scenario, error) {
	if a.flags.configFile != "" {
		cfg, err := config.NewInputParser().LoadFromFile(a.flags.configFile)
		if err != nil {
			return nil, domain.Scenario{}, err
		}
		if a.flags.scenarioName == "" {
			return cfg, cfg.Scenarios[0], nil
		}
		sc, ok := cfg.FindScenario(a.flags.scenarioName)
		if !ok {
			return nil, domain.Scenario{}, fmt.Errorf("%w: %q", calculation.ErrScenarioNotFound, a.flags.scenarioName)
		}
		return cfg, sc, nil
	}

	sc := config.Clamp(domain.Scenario{
		Name:              "Ad hoc",
		RetirementDate:    dateutil.CalendarDate{Year: a.flags.retireYear, Month: a.flags.retireMonth},
		InitialBalance:    a.flags.balance,
		MonthlyWithdrawal: a.flags.withdrawal,
		HorizonYears:      a.flags.horizon,
	})
	cfg := &domain.Configuration{
		PriceModel: domain.PriceModel{
			LowerCoefficient:       a.flags.lowerCoefficient,
			AverageCoefficient:     a.flags.averageCoefficient,
			Exponent:               a.flags.exponent,
			UseLowerPostRetirement: !a.flags.useAverage,
		},
		Scenarios: []domain.Scenario{sc},
	}
	if err := config.NewInputParser().ValidateConfiguration(cfg); err != nil {
		return nil, domain.Scenario{}, err
	}
	return cfg, sc, nil
}

func (a *app) engine(solver domain.SolverConfig) *calculation.CalculationEngine {
	ce := calculation.NewCalculationEngineWithConfig(solver)
	ce.SetLogger(calculation.NewZerologLogger(newLogger(a.verbose)))
	return ce
}

// render runs one scenario and prints it through the named formatter.
func (a *app) render(ctx context.Context, w io.Writer, cfg *domain.Configuration, sc domain.Scenario, format string) error {
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
	}
	single := *cfg
	single.Scenarios = []domain.Scenario{sc}
	results, err := a.engine(cfg.Solver).RunScenarios(ctx, &single)
	if err != nil {
		return err
	}
	data, err := f.Format(results)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (a *app) simulateCmd() *cobra.Command {
	var (
		format string
		setMax bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate the month-by-month drawdown of one scenario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, sc, err := a.loadScenario()
			if err != nil {
				return err
			}
			if setMax {
				maxRate := a.engine(cfg.Solver).MaxSustainableWithdrawal(cfg.Parameters(sc))
				sc.MonthlyWithdrawal = math.Round(maxRate)
				fmt.Fprintf(cmd.OutOrStdout(), "Withdrawal set to the maximum sustainable rate: %s/mo\n\n", money.NewMoney(sc.MonthlyWithdrawal).Format())
			}
			return a.render(cmd.Context(), cmd.OutOrStdout(), cfg, sc, format)
		},
	}
	a.addScenarioFlags(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format")
	cmd.Flags().BoolVar(&setMax, "set-max", false, "simulate at the (rounded) maximum sustainable withdrawal")
	return cmd
}

func (a *app) requiredCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "required",
		Short: "Balance needed at retirement to sustain the withdrawal indefinitely",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, sc, err := a.loadScenario()
			if err != nil {
				return err
			}
			params := cfg.Parameters(sc)
			res := a.engine(cfg.Solver).RequiredBalance(params)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Retirement:          %s\n", sc.RetirementDate)
			fmt.Fprintf(w, "Price at retirement: %s\n", money.NewMoney(res.PriceAtRetirement).Format())
			fmt.Fprintf(w, "Monthly withdrawal:  %s\n", money.NewMoney(sc.MonthlyWithdrawal).Format())
			fmt.Fprintf(w, "Annual withdrawal:   %s\n", money.NewMoney(sc.MonthlyWithdrawal).Annual().Format())
			fmt.Fprintf(w, "Required balance:    %s units\n", money.NewUnits(res.RequiredBalance))
			fmt.Fprintf(w, "Gap (have - need):   %s units\n", money.NewUnits(sc.InitialBalance).Sub(money.NewUnits(res.RequiredBalance)))
			if res.Degenerate {
				fmt.Fprintln(w, "WARNING: exponent <= 1, the required balance is not meaningful")
			}
			return nil
		},
	}
	a.addScenarioFlags(cmd)
	return cmd
}

func (a *app) maxWithdrawalCmd() *cobra.Command {
	var solver domain.SolverConfig
	cmd := &cobra.Command{
		Use:   "max-withdrawal",
		Short: "Largest monthly withdrawal that survives the horizon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, sc, err := a.loadScenario()
			if err != nil {
				return err
			}
			policy := cfg.Solver
			if cmd.Flags().Changed("upper-bound") {
				policy.UpperBound = solver.UpperBound
			}
			if cmd.Flags().Changed("precision") {
				policy.Precision = solver.Precision
			}
			if cmd.Flags().Changed("max-iterations") {
				policy.MaxIterations = solver.MaxIterations
			}
			res := a.engine(policy).SearchMaxWithdrawal(cfg.Parameters(sc))

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Max sustainable withdrawal: %s/mo\n", money.NewMoney(res.Rate).FormatCents())
			fmt.Fprintf(w, "First failing rate found:   %s/mo\n", money.NewMoney(res.Ceiling).FormatCents())
			fmt.Fprintf(w, "Iterations:                 %d\n", res.Iterations)
			if !res.Bracketed {
				fmt.Fprintln(w, "NOTE: no probed rate exhausted the balance; the result is capped by the upper bound")
			}
			return nil
		},
	}
	a.addScenarioFlags(cmd)
	def := calculation.DefaultSolverConfig()
	cmd.Flags().Float64Var(&solver.UpperBound, "upper-bound", def.UpperBound, "bisection upper bound in dollars per month")
	cmd.Flags().Float64Var(&solver.Precision, "precision", def.Precision, "stop once the bracket is narrower than this")
	cmd.Flags().IntVar(&solver.MaxIterations, "max-iterations", def.MaxIterations, "maximum bisection probes")
	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	var (
		configFile string
		format     string
		outDir     string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every scenario in a configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(configFile)
			if err != nil {
				return err
			}
			results, err := a.engine(cfg.Solver).RunScenarios(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if outDir != "" {
				files, err := output.GenerateReport(results, format, outDir)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s\n", f)
				}
				return nil
			}
			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
			}
			data, err := f.Format(results)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&format, "format", "f", "console-lite", "output format")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "write a timestamped report file into this directory instead of stdout")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func exampleCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write an example configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.NewInputParser().CreateExampleConfiguration()
			if err := output.SaveConfiguration(cfg, out); err != nil {
				return fmt.Errorf("failed to save example configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "example_config.yaml", "destination file")
	return cmd
}
