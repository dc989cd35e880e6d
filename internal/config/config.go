package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/IlikeChooros/statetree/pkg/bench"
	"github.com/IlikeChooros/statetree/pkg/gridwalk"
	"github.com/IlikeChooros/statetree/pkg/mcts"
	"gopkg.in/yaml.v3"
)

// Prefix of the environment variables overriding the file values
const EnvPrefix = "GRIDWALK_"

// Backpropagation strategy names
const (
	BackpropUniform   = "uniform"
	BackpropReference = "reference"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Search        SearchConfig        `yaml:"search"`
	Episodes      EpisodesConfig      `yaml:"episodes"`
	Board         BoardConfig         `yaml:"board"`
	Trials        TrialsConfig        `yaml:"trials"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type SearchConfig struct {
	// Rollouts made before each choice
	Rollouts    int     `yaml:"rollouts"`
	Exploration float64 `yaml:"exploration"`
	Backprop    string  `yaml:"backprop"`
	// Seed of the tree's random source, 0 picks a time based one.
	// Episodes reseed the tree from their seed phrases anyway
	Seed uint64 `yaml:"seed"`
}

type EpisodesConfig struct {
	Count    int `yaml:"count"`
	MaxSteps int `yaml:"max_steps"`
	// Seed phrases, one per episode, reused cyclically
	Seeds []string `yaml:"seeds"`
	// Exploration params, one per episode, reused cyclically
	Explorations []float64 `yaml:"explorations,omitempty"`
}

type BoardConfig struct {
	Rules  gridwalk.Rules `yaml:"rules"`
	Start  gridwalk.Point `yaml:"start"`
	Target gridwalk.Point `yaml:"target"`
}

type TrialsConfig struct {
	Count   int `yaml:"count"`
	Workers int `yaml:"workers"`
}

type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`
}

func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			Rollouts:    500,
			Exploration: mcts.DefaultExplorationParam,
			Backprop:    BackpropUniform,
		},
		Episodes: EpisodesConfig{
			Count:    len(bench.DefaultSeeds),
			MaxSteps: 500,
			Seeds:    append([]string(nil), bench.DefaultSeeds...),
		},
		Board: BoardConfig{
			Rules:  gridwalk.DefaultRules(),
			Start:  gridwalk.Point{X: 10, Y: 10},
			Target: gridwalk.Point{X: 40, Y: 30},
		},
		Trials: TrialsConfig{
			Count:   1,
			Workers: 1,
		},
		Observability: ObservabilityConfig{
			LogLevel: "info",
		},
	}
}

// Load the config: defaults, then the YAML file at 'path' (if it exists),
// then the GRIDWALK_* environment variables. The result is validated
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Same as Load, without validation, for callers that override values
// afterwards and validate the final config themselves
func Read(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults only
		case err != nil:
			return cfg, fmt.Errorf("failed to read the config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse the config file %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	ints := map[string]*int{
		"ROLLOUTS":       &c.Search.Rollouts,
		"EPISODES":       &c.Episodes.Count,
		"MAX_STEPS":      &c.Episodes.MaxSteps,
		"TRIALS":         &c.Trials.Count,
		"WORKERS":        &c.Trials.Workers,
		"BOARD_WIDTH":    &c.Board.Rules.Width,
		"BOARD_HEIGHT":   &c.Board.Rules.Height,
		"BOARD_MAX_HITS": &c.Board.Rules.MaxHits,
		"BOARD_STEP":     &c.Board.Rules.Step,
		"BOARD_BORDER":   &c.Board.Rules.Border,
	}
	for key, dst := range ints {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidConfig, EnvPrefix, key, v, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup(EnvPrefix + "EXPLORATION"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %sEXPLORATION=%q: %v", ErrInvalidConfig, EnvPrefix, v, err)
		}
		c.Search.Exploration = f
	}
	if v, ok := lookup(EnvPrefix + "SEED"); ok {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %sSEED=%q: %v", ErrInvalidConfig, EnvPrefix, v, err)
		}
		c.Search.Seed = seed
	}
	if v, ok := lookup(EnvPrefix + "SEEDS"); ok {
		c.Episodes.Seeds = strings.Fields(strings.ReplaceAll(v, ",", " "))
	}
	if v, ok := lookup(EnvPrefix + "BACKPROP"); ok {
		c.Search.Backprop = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.Observability.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPrefix + "METRICS_ADDR"); ok {
		c.Observability.MetricsAddr = strings.TrimSpace(v)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Search.Rollouts <= 0 {
		errs = append(errs, fmt.Errorf("search.rollouts must be positive, got %d", c.Search.Rollouts))
	}
	if c.Search.Exploration < 0 {
		errs = append(errs, fmt.Errorf("search.exploration must not be negative, got %v", c.Search.Exploration))
	}
	if _, err := c.Strategy(); err != nil {
		errs = append(errs, err)
	}
	if c.Episodes.Count <= 0 {
		errs = append(errs, fmt.Errorf("episodes.count must be positive, got %d", c.Episodes.Count))
	}
	if c.Episodes.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("episodes.max_steps must not be negative, got %d", c.Episodes.MaxSteps))
	}
	for _, e := range c.Episodes.Explorations {
		if e < 0 {
			errs = append(errs, fmt.Errorf("episodes.explorations must not be negative, got %v", e))
			break
		}
	}
	if c.Trials.Count <= 0 || c.Trials.Workers <= 0 {
		errs = append(errs, fmt.Errorf("trials.count and trials.workers must be positive, got %d and %d",
			c.Trials.Count, c.Trials.Workers))
	}
	if err := c.Board.Rules.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Backpropagation strategy selected by search.backprop
func (c Config) Strategy() (mcts.StrategyLike, error) {
	switch c.Search.Backprop {
	case BackpropUniform, "":
		return mcts.UniformBackprop{}, nil
	case BackpropReference:
		return mcts.ReferenceBackprop{}, nil
	}
	return nil, fmt.Errorf("search.backprop must be %q or %q, got %q",
		BackpropUniform, BackpropReference, c.Search.Backprop)
}

// Effective config as YAML
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
