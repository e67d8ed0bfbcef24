// Command projection renders basket projections and runs the investment
// calculators from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/basket-service/basket_service/internal/domain/catalog"
	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/internal/domain/services/basket"
	"github.com/basket-service/basket_service/internal/domain/services/orchestrator"
	"github.com/basket-service/basket_service/internal/domain/services/projection"
	"github.com/basket-service/basket_service/internal/infrastructure/config"
	"github.com/basket-service/basket_service/internal/infrastructure/di"
	"github.com/basket-service/basket_service/pkg/logger"
	"github.com/basket-service/basket_service/pkg/version"
)

var service *basket.Service

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "projection",
	Short:         "Basket projections and investment calculators",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("offline", false, "use catalog figures only, skip the remote basket API")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd, listCmd, tableCmd, compareCmd, sipCmd, goalCmd)
}

// loadService builds the basket service, wired to the remote API unless
// --offline is set.
func loadService(cmd *cobra.Command) error {
	offline, _ := cmd.Flags().GetBool("offline")
	level, _ := cmd.Flags().GetString("log-level")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(level, cfg.Environment)

	if offline {
		registry := orchestrator.NewRegistry()
		service = basket.NewService(
			catalog.Default(),
			registry,
			orchestrator.NewSessions(registry, log),
			projection.NewBuilder(projection.Benchmarks{
				Rate3Y:         cfg.Projection.Benchmark3Y,
				Rate5Y:         cfg.Projection.Benchmark5Y,
				Rate10Y:        cfg.Projection.Benchmark10Y,
				TenYearHaircut: cfg.Projection.TenYearHaircut,
			}),
			basket.Config{
				MinComparisonAmount: cfg.Projection.MinComparisonAmount,
				DefaultHorizon:      entities.Horizon(cfg.Projection.DefaultHorizon),
				DefaultAmount:       cfg.Projection.DefaultAmount,
				CompareConcurrency:  cfg.Projection.CompareConcurrency,
			},
			log,
		)
		return nil
	}

	container, err := di.NewContainer(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	service = container.BasketService
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get().String())
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the available baskets",
	PreRunE: func(cmd *cobra.Command, args []string) error { return loadService(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tRISK\t3Y CAGR\t5Y CAGR\tMIN\tLIVE")
		for _, item := range service.List() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\t%.1f%%\t%s\t%t\n",
				item.ID, item.Name, item.RiskLevel, item.CAGR3Y, item.CAGR5Y,
				basket.FormatINR(item.MinInvestment), item.RemoteBacked)
		}
		return w.Flush()
	},
}

var tableCmd = &cobra.Command{
	Use:     "table [basket]",
	Short:   "Print the yearly projection of a basket against the Nifty benchmark",
	Args:    cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error { return loadService(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		years, _ := cmd.Flags().GetInt("years")
		amount, _ := cmd.Flags().GetFloat64("amount")
		asCSV, _ := cmd.Flags().GetBool("csv")

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		view, err := service.Project(ctx, basket.ViewRequest{
			Identity: args[0],
			Horizon:  entities.Horizon(years),
			Amount:   amount,
		})
		if err != nil {
			return err
		}

		if asCSV {
			return basket.ExportCSV(cmd.OutOrStdout(), view.Basket.Name, view.Projection)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s, %s at %.2f%% vs Nifty at %.2f%%\n",
			view.Basket.Name, view.Horizon, view.Rates.Basket, view.Rates.Benchmark)
		if view.Error != "" {
			fmt.Fprintln(out, view.Error)
		}
		if view.BelowMinimum {
			fmt.Fprintf(out, "Amount is below the basket minimum of %s\n", basket.FormatINR(view.MinInvestment))
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "YEAR\tBASKET\tNIFTY\t")
		for _, row := range view.Projection {
			fmt.Fprintf(w, "%d\t%s\t%s\t\n", row.Year,
				basket.FormatINR(row.BasketValue), basket.FormatINR(row.BenchmarkValue))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Outperformance: %s\n", basket.FormatINR(view.Summary.Outperformance))
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:     "compare [basket...]",
	Short:   "Compare final values of several baskets",
	Args:    cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error { return loadService(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		years, _ := cmd.Flags().GetInt("years")
		amount, _ := cmd.Flags().GetFloat64("amount")

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		cmp, err := service.Compare(ctx, args, entities.Horizon(years), amount)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "BASKET\tRATE\tFINAL VALUE\tVS NIFTY")
		for _, v := range cmp.Baskets {
			marker := ""
			if v.Basket.ID == cmp.BestBasketID {
				marker = " *"
			}
			fmt.Fprintf(w, "%s%s\t%.2f%%\t%s\t%s\n", v.Basket.ID, marker, v.Rates.Basket,
				basket.FormatINR(v.Summary.FinalBasketValue), basket.FormatINR(v.Summary.Outperformance))
		}
		return w.Flush()
	},
}

var sipCmd = &cobra.Command{
	Use:   "sip",
	Short: "Run a monthly SIP ledger with an optional yearly step-up",
	RunE: func(cmd *cobra.Command, args []string) error {
		monthly, _ := cmd.Flags().GetFloat64("monthly")
		rate, _ := cmd.Flags().GetFloat64("rate")
		years, _ := cmd.Flags().GetInt("years")
		stepUp, _ := cmd.Flags().GetFloat64("step-up")

		plan := projection.SIPPlan{
			Amount:         monthly,
			PeriodsPerYear: 12,
			AnnualRate:     rate,
			Years:          years,
		}
		if stepUp > 0 {
			plan.StepUp = projection.StepUpPercent
			plan.StepUpPercent = stepUp
		}

		result, err := projection.SIPSchedule(plan)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "YEAR\tINVESTED\tVALUE\tRETURNS\t")
		for _, row := range result.Yearly {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\n", row.Year,
				basket.FormatINR(row.Invested), basket.FormatINR(row.Value), basket.FormatINR(row.Returns))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Corpus: %s (invested %s)\n",
			basket.FormatINR(result.Corpus), basket.FormatINR(result.TotalInvested))
		return nil
	},
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Work out the monthly SIP needed to fund a future goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		var plan projection.GoalPlan
		plan.Name, _ = cmd.Flags().GetString("name")
		plan.CurrentCost, _ = cmd.Flags().GetFloat64("cost")
		plan.Years, _ = cmd.Flags().GetInt("years")
		plan.InflationRate, _ = cmd.Flags().GetFloat64("inflation")
		plan.ExpectedReturn, _ = cmd.Flags().GetFloat64("return")
		plan.SIPGrowthRate, _ = cmd.Flags().GetFloat64("sip-growth")
		plan.LumpsumToday, _ = cmd.Flags().GetFloat64("lumpsum")

		result, err := projection.PlanGoal(plan)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Goal: %s in %d years\n", plan.Name, plan.Years)
		fmt.Fprintf(out, "Future cost:          %s\n", basket.FormatINR(result.FutureCost))
		fmt.Fprintf(out, "Lumpsum grows to:     %s\n", basket.FormatINR(result.LumpsumFutureValue))
		fmt.Fprintf(out, "Shortfall:            %s\n", basket.FormatINR(result.ShortfallFromSIP))
		fmt.Fprintf(out, "Required monthly SIP: %s\n", basket.FormatINR(result.RequiredMonthlySIP))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{tableCmd, compareCmd} {
		c.Flags().Int("years", 5, "horizon in years (3, 5 or 10)")
		c.Flags().Float64("amount", 100000, "lumpsum amount in rupees")
	}
	tableCmd.Flags().Bool("csv", false, "write the table as CSV")

	sipCmd.Flags().Float64("monthly", 10000, "monthly contribution")
	sipCmd.Flags().Float64("rate", 12, "expected annual return in percent")
	sipCmd.Flags().Int("years", 10, "investment period in years")
	sipCmd.Flags().Float64("step-up", 0, "yearly contribution increase in percent")

	goalCmd.Flags().String("name", "Goal", "goal name")
	goalCmd.Flags().Float64("cost", 1000000, "cost of the goal today")
	goalCmd.Flags().Int("years", 10, "years until the goal")
	goalCmd.Flags().Float64("inflation", 6, "annual inflation in percent")
	goalCmd.Flags().Float64("return", 12, "expected annual return in percent")
	goalCmd.Flags().Float64("sip-growth", 0, "yearly SIP increase in percent")
	goalCmd.Flags().Float64("lumpsum", 0, "amount invested today")
}
