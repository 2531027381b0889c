package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rustyeddy/fxbot/risk"
	"github.com/rustyeddy/fxbot/strategies"
	"gopkg.in/yaml.v3"
)

// Config is the complete engine configuration. Loaded once at startup,
// immutable afterwards.
type Config struct {
	Instruments map[string]Instrument `yaml:"instruments"`
	Limits      LimitsConfig          `yaml:"limits"`
	Engine      EngineConfig          `yaml:"engine"`
	Correlated  [][]string            `yaml:"correlated,omitempty"`
	Journal     JournalConfig         `yaml:"journal"`
	Metrics     MetricsConfig         `yaml:"metrics"`
}

// Instrument binds one symbol to its timeframe, strategy variant and active
// session hours (UTC hours-of-day).
type Instrument struct {
	Symbol      string `yaml:"-"`
	VenueSymbol string `yaml:"venue_symbol,omitempty"`
	Timeframe   string `yaml:"timeframe"`
	Strategy    string `yaml:"strategy"`
	ActiveHours []int  `yaml:"active_hours"`
}

// ActiveAt reports whether the given UTC hour falls inside the session.
func (i Instrument) ActiveAt(hour int) bool {
	for _, h := range i.ActiveHours {
		if h == hour {
			return true
		}
	}
	return false
}

// LimitsConfig is the YAML shape of the risk limits; durations are strings
// like "5m" or "48h".
type LimitsConfig struct {
	Cooldown          string  `yaml:"cooldown"`
	MaxTradesPerDay   int     `yaml:"max_trades_per_day"`
	MaxOpenPositions  int     `yaml:"max_open_positions"`
	RewardRiskRatio   float64 `yaml:"reward_risk_ratio"`
	Leverage          float64 `yaml:"leverage"`
	MaxDuration       string  `yaml:"max_duration"`
	MaxMarginPerTrade float64 `yaml:"max_margin_per_trade"`
}

// Limits converts to the risk package's type.
func (l LimitsConfig) Limits() (risk.Limits, error) {
	cooldown, err := time.ParseDuration(l.Cooldown)
	if err != nil {
		return risk.Limits{}, fmt.Errorf("limits.cooldown: %w", err)
	}
	maxDur, err := time.ParseDuration(l.MaxDuration)
	if err != nil {
		return risk.Limits{}, fmt.Errorf("limits.max_duration: %w", err)
	}
	out := risk.Limits{
		Cooldown:          cooldown,
		MaxTradesPerDay:   l.MaxTradesPerDay,
		MaxOpenPositions:  l.MaxOpenPositions,
		RewardRiskRatio:   l.RewardRiskRatio,
		Leverage:          l.Leverage,
		MaxDuration:       maxDur,
		MaxMarginPerTrade: l.MaxMarginPerTrade,
	}
	if err := out.Validate(); err != nil {
		return risk.Limits{}, err
	}
	return out, nil
}

type EngineConfig struct {
	TickInterval string  `yaml:"tick_interval"`
	IdleInterval string  `yaml:"idle_interval"`
	ATRFloor     float64 `yaml:"atr_floor"`
}

type JournalConfig struct {
	Type          string `yaml:"type"` // "csv", "sqlite" or "none"
	DecisionsFile string `yaml:"decisions_file,omitempty"`
	OrdersFile    string `yaml:"orders_file,omitempty"`
	DBPath        string `yaml:"db_path,omitempty"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr,omitempty"`
}

// LoadFromFile reads and validates a YAML config.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if len(c.Instruments) == 0 {
		return fmt.Errorf("at least one instrument is required")
	}
	for sym, inst := range c.Instruments {
		if inst.Timeframe == "" {
			return fmt.Errorf("instrument %s: timeframe is required", sym)
		}
		if _, ok := strategies.Get(inst.Strategy); !ok {
			return fmt.Errorf("instrument %s: unknown strategy %q (known: %v)",
				sym, inst.Strategy, strategies.Tags())
		}
		if len(inst.ActiveHours) == 0 {
			return fmt.Errorf("instrument %s: active_hours is required", sym)
		}
		for _, h := range inst.ActiveHours {
			if h < 0 || h > 23 {
				return fmt.Errorf("instrument %s: active hour %d out of range", sym, h)
			}
		}
	}
	if _, err := c.Limits.Limits(); err != nil {
		return err
	}
	for _, pair := range c.Correlated {
		if len(pair) != 2 {
			return fmt.Errorf("correlated entries must name exactly two symbols, got %v", pair)
		}
	}
	if _, err := c.TickInterval(); err != nil {
		return err
	}
	if _, err := c.IdleInterval(); err != nil {
		return err
	}
	if c.Engine.ATRFloor < 0 {
		return fmt.Errorf("engine.atr_floor must not be negative")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.DecisionsFile == "" || c.Journal.OrdersFile == "" {
			return fmt.Errorf("journal decisions_file and orders_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be csv, sqlite or none")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr required when metrics enabled")
	}
	return nil
}

func (c *Config) TickInterval() (time.Duration, error) {
	if c.Engine.TickInterval == "" {
		return time.Second, nil
	}
	d, err := time.ParseDuration(c.Engine.TickInterval)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("engine.tick_interval: invalid duration %q", c.Engine.TickInterval)
	}
	return d, nil
}

func (c *Config) IdleInterval() (time.Duration, error) {
	if c.Engine.IdleInterval == "" {
		return time.Second, nil
	}
	d, err := time.ParseDuration(c.Engine.IdleInterval)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("engine.idle_interval: invalid duration %q", c.Engine.IdleInterval)
	}
	return d, nil
}

// Resolved returns the instruments in a fixed scan order (sorted by symbol),
// with Symbol filled in and VenueSymbol defaulted.
func (c *Config) Resolved() []Instrument {
	out := make([]Instrument, 0, len(c.Instruments))
	for sym, inst := range c.Instruments {
		inst.Symbol = sym
		if inst.VenueSymbol == "" {
			inst.VenueSymbol = sym
		}
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Correlations builds the symmetric pair table, falling back to the default
// pairs when the config names none.
func (c *Config) Correlations() risk.CorrelationTable {
	if len(c.Correlated) == 0 {
		return risk.DefaultCorrelations()
	}
	pairs := make([][2]string, 0, len(c.Correlated))
	for _, p := range c.Correlated {
		pairs = append(pairs, [2]string{p[0], p[1]})
	}
	return risk.NewCorrelationTable(pairs)
}

// SaveToFile writes the config as YAML.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func hours(from, to int) []int {
	var out []int
	for h := from; h < to; h++ {
		out = append(out, h)
	}
	return out
}

// Default returns the nine-pair production configuration.
func Default() *Config {
	return &Config{
		Instruments: map[string]Instrument{
			"EURUSD": {Timeframe: "M5", Strategy: "mean_reversion", ActiveHours: hours(8, 17)},
			"USDJPY": {Timeframe: "M1", Strategy: "scalping", ActiveHours: hours(0, 8)},
			"GBPUSD": {Timeframe: "M15", Strategy: "momentum", ActiveHours: hours(8, 17)},
			"USDCHF": {Timeframe: "M5", Strategy: "breakout", ActiveHours: hours(8, 17)},
			"USDCAD": {Timeframe: "H1", Strategy: "trend_following", ActiveHours: hours(13, 21)},
			"AUDUSD": {Timeframe: "M5", Strategy: "rsi_mean_reversion", ActiveHours: hours(0, 8)},
			"NZDUSD": {Timeframe: "M15", Strategy: "volatility_breakout", ActiveHours: hours(0, 8)},
			"GBPJPY": {Timeframe: "M1", Strategy: "hft_scalping", ActiveHours: hours(8, 17)},
			"USDINR": {Timeframe: "H1", Strategy: "stat_arb", ActiveHours: hours(3, 11)},
		},
		Limits: LimitsConfig{
			Cooldown:          "5m",
			MaxTradesPerDay:   50,
			MaxOpenPositions:  10,
			RewardRiskRatio:   1.5,
			Leverage:          200,
			MaxDuration:       "48h",
			MaxMarginPerTrade: 25000,
		},
		Engine: EngineConfig{
			TickInterval: "1s",
			IdleInterval: "1s",
			ATRFloor:     0.0002,
		},
		Correlated: [][]string{
			{"EURUSD", "USDCHF"},
			{"GBPUSD", "GBPJPY"},
		},
		Journal: JournalConfig{
			Type:          "csv",
			DecisionsFile: "./decisions.csv",
			OrdersFile:    "./orders.csv",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9101",
		},
	}
}
