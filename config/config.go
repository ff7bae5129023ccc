// Package config provides configuration loading and access for the poker
// subsystem.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all poker subsystem configuration parameters.
type Config struct {
	Poker     PokerConfig     `yaml:"poker"`
	Session   SessionConfig   `yaml:"session"`
	Economy   EconomyConfig   `yaml:"economy"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Output    OutputConfig    `yaml:"output"`
}

// PokerConfig holds table rules.
type PokerConfig struct {
	SmallBlind int64 `yaml:"small_blind"`
	BigBlind   int64 `yaml:"big_blind"`
	MinPlayers int   `yaml:"min_players"` // table requires at least this many seats
	MaxPlayers int   `yaml:"max_players"`
}

// SessionConfig holds session manager parameters.
type SessionConfig struct {
	MaxTables         int  `yaml:"max_tables"`
	HumanTimeoutTicks int  `yaml:"human_timeout_ticks"` // ticks before a silent human folds
	AutoContinue      bool `yaml:"auto_continue"`       // start the next hand while players can afford the stake
}

// EconomyConfig holds house cut and stake rules.
type EconomyConfig struct {
	HouseCutRate float64 `yaml:"house_cut_rate"` // fraction of a winner's net winnings
	MinStake     int64   `yaml:"min_stake"`
}

// BenchmarkConfig holds evolution benchmark parameters.
type BenchmarkConfig struct {
	IntervalTicks   int64   `yaml:"interval_ticks"`  // run every N simulation ticks
	SampleSize      int     `yaml:"sample_size"`     // live individuals sampled per run
	HandsPerTier    int     `yaml:"hands_per_tier"`  // synthetic hands vs each baseline tier
	CanBeat         float64 `yaml:"can_beat"`        // confidence threshold for can-beat flags
	MinSnapshots    int     `yaml:"min_snapshots"`   // queries below this return insufficient data
	EloK            float64 `yaml:"elo_k"`           // Elo update factor
	InitialElo      float64 `yaml:"initial_elo"`     // starting rating for population members
	HistoryLimit    int     `yaml:"history_limit"`   // retained snapshots, 0 = unlimited
	BenchSmallBlind int64   `yaml:"bench_small_blind"`
	BenchBigBlind   int64   `yaml:"bench_big_blind"`
	BenchStake      int64   `yaml:"bench_stake"` // per-hand synthetic stack, in energy
}

// OutputConfig holds output destinations.
type OutputConfig struct {
	Dir     string `yaml:"dir"`      // CSV history directory ("" = disabled)
	BenchDB string `yaml:"bench_db"` // sqlite snapshot store path ("" = in-memory)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects configurations the table rules cannot honor.
func (c *Config) validate() error {
	if c.Poker.SmallBlind <= 0 || c.Poker.BigBlind < c.Poker.SmallBlind {
		return fmt.Errorf("config: invalid blinds sb=%d bb=%d", c.Poker.SmallBlind, c.Poker.BigBlind)
	}
	if c.Poker.MinPlayers < 2 || c.Poker.MaxPlayers > 9 || c.Poker.MaxPlayers < c.Poker.MinPlayers {
		return fmt.Errorf("config: invalid player bounds min=%d max=%d", c.Poker.MinPlayers, c.Poker.MaxPlayers)
	}
	if c.Economy.HouseCutRate < 0 || c.Economy.HouseCutRate >= 1 {
		return fmt.Errorf("config: house cut rate %v outside [0,1)", c.Economy.HouseCutRate)
	}
	if c.Benchmark.CanBeat <= 0 || c.Benchmark.CanBeat >= 1 {
		return fmt.Errorf("config: can_beat threshold %v outside (0,1)", c.Benchmark.CanBeat)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
