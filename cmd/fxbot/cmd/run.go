package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxbot/broker"
	"github.com/rustyeddy/fxbot/broker/sim"
	"github.com/rustyeddy/fxbot/config"
	"github.com/rustyeddy/fxbot/engine"
	"github.com/rustyeddy/fxbot/journal"
	"github.com/rustyeddy/fxbot/market"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the trading loop",
	Long: `Run the decision loop until interrupted.

With --paper (the default) orders go to the built-in simulated venue fed by a
seeded random walk. Live venue adapters are wired through their own builds;
running without --paper requires one.

Example:
  fxbot run --config fxbot.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runPaper      bool
	runSeed       int64
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to YAML config (defaults built in)")
	runCmd.Flags().BoolVar(&runPaper, "paper", true, "trade against the simulated venue")
	runCmd.Flags().Int64Var(&runSeed, "seed", time.Now().UnixNano(), "price walk seed for paper trading")
}

// basePrices seed the paper venue's random walk per symbol.
var basePrices = map[string]float64{
	"EURUSD": 1.0850,
	"USDJPY": 151.50,
	"GBPUSD": 1.2650,
	"USDCHF": 0.9050,
	"USDCAD": 1.3600,
	"AUDUSD": 0.6550,
	"NZDUSD": 0.6050,
	"GBPJPY": 191.60,
	"USDINR": 83.40,
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, exitErr(ExitConfig, "load config: %v", err)
	}
	return cfg, nil
}

func resolveInstruments(cfg *config.Config) error {
	for _, inst := range cfg.Resolved() {
		if _, ok := market.Instruments[inst.Symbol]; !ok {
			return exitErr(ExitInstruments, "instrument %s: no venue symbol resolvable", inst.Symbol)
		}
	}
	return nil
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.DecisionsFile, cfg.Journal.OrdersFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return journal.Nop{}, nil
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	log := newLogger()

	cfg, err := loadConfig(runConfigPath)
	if err != nil {
		return err
	}
	if err := resolveInstruments(cfg); err != nil {
		return err
	}

	if !runPaper {
		return exitErr(ExitVenue, "no live venue adapter configured in this build; use --paper")
	}

	limits, _ := cfg.Limits.Limits()
	venue := sim.New(broker.Account{
		ID: "PAPER", Currency: "USD", Balance: 100_000, Equity: 100_000,
	}, limits.Leverage)

	start := make(map[string]float64)
	for _, inst := range cfg.Resolved() {
		price, ok := basePrices[inst.Symbol]
		if !ok {
			price = 1.0
		}
		start[inst.Symbol] = price
	}
	feed := sim.NewFeed(venue, runSeed, start)

	j, err := openJournal(cfg)
	if err != nil {
		return exitErr(ExitConfig, "open journal: %v", err)
	}
	defer j.Close()

	eng, err := engine.New(cfg, venue, feed, j, log)
	if err != nil {
		return exitErr(ExitConfig, "build engine: %v", err)
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		log.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics server listening")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Advance the synthetic market while the engine runs.
	tickInterval, _ := cfg.TickInterval()
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				feed.Step()
			}
		}
	}()

	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
