package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxbot/broker"
	"github.com/rustyeddy/fxbot/broker/sim"
	"github.com/rustyeddy/fxbot/engine"
	"github.com/rustyeddy/fxbot/journal"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Fast-forward the loop against a scripted price walk",
	Long: `Run a fixed number of ticks against the simulated venue without
sleeping between them, then print the account outcome. Useful for smoke
testing a config before running it.

Example:
  fxbot simulate --steps 1000 --seed 42`,
	RunE: runSimulate,
}

var (
	simConfigPath string
	simSteps      int
	simSeed       int64
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVarP(&simConfigPath, "config", "f", "", "path to YAML config (defaults built in)")
	simulateCmd.Flags().IntVar(&simSteps, "steps", 500, "number of ticks to simulate")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "price walk seed")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := loadConfig(simConfigPath)
	if err != nil {
		return err
	}
	if err := resolveInstruments(cfg); err != nil {
		return err
	}

	limits, _ := cfg.Limits.Limits()
	venue := sim.New(broker.Account{
		ID: "SIM", Currency: "USD", Balance: 100_000, Equity: 100_000,
	}, limits.Leverage)

	start := make(map[string]float64)
	for _, inst := range cfg.Resolved() {
		price, ok := basePrices[inst.Symbol]
		if !ok {
			price = 1.0
		}
		start[inst.Symbol] = price
	}
	feed := sim.NewFeed(venue, simSeed, start)

	eng, err := engine.New(cfg, venue, feed, journal.Nop{}, log)
	if err != nil {
		return exitErr(ExitConfig, "build engine: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < simSteps; i++ {
		feed.Step()
		eng.Tick(ctx)
	}

	acct, _ := venue.GetAccount(ctx)
	open, _ := venue.ListPositions(ctx, "")

	fmt.Printf("Simulated %d ticks over %d instruments\n", simSteps, len(cfg.Resolved()))
	fmt.Printf("  Balance:      $%.2f\n", acct.Balance)
	fmt.Printf("  Equity:       $%.2f\n", acct.Equity)
	fmt.Printf("  Margin used:  $%.2f\n", acct.MarginUsed)
	fmt.Printf("  Open trades:  %d\n", len(open))
	return nil
}
