package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Exit codes for setup-fatal failures. Transient per-tick errors never exit;
// these cover the conditions that abort startup.
const (
	ExitConfig      = 2 // config unreadable or invalid
	ExitVenue       = 3 // venue unreachable or not configured
	ExitInstruments = 4 // a configured instrument cannot be resolved
)

// ExitError carries a distinct process exit code per failure class.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

func exitErr(code int, format string, args ...any) error {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "fxbot",
	Short: "A multi-instrument FX trading decision engine",
	Long: `fxbot runs a per-tick decision loop over a fixed set of FX instruments:
it evaluates each instrument's strategy against a fresh indicator snapshot,
filters every trade intent through a sequential risk pipeline (daily cap,
open-position cap, margin, cooldown, correlation) and manages open positions
with time-based closure and an ATR trailing stop.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (trace|debug|info|warn|error)")
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}
