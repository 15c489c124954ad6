package reinforcement

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gridmdp/grid_world"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. GRIDMDP_DEF_DISCOUNTFACTOR=0.9.
const EnvPrefix = "GRIDMDP"

// Config is the outer config shape: a kind selector plus the solver and episode definitions.
type Config struct {
	Kind    string        `mapstructure:"kind" yaml:"kind"`
	Def     SolverConfig  `mapstructure:"def" yaml:"def"`
	Episode EpisodeConfig `mapstructure:"episode" yaml:"episode"`
}

// SolverConfig holds the MDP and iteration parameters for a single solve.
type SolverConfig struct {
	// DirectionSuccessProbability is the chance the intended direction is taken; the
	// remainder is split evenly between the two perpendicular directions.
	DirectionSuccessProbability float64 `mapstructure:"directionSuccessProbability" yaml:"directionSuccessProbability"`
	EmptyReward                 float64 `mapstructure:"emptyReward" yaml:"emptyReward"`
	FoodReward                  float64 `mapstructure:"foodReward" yaml:"foodReward"`
	CapsuleReward               float64 `mapstructure:"capsuleReward" yaml:"capsuleReward"`
	// HazardBaseReward is the reward of a dangerous (unscared) hazard.
	HazardBaseReward float64 `mapstructure:"hazardBaseReward" yaml:"hazardBaseReward"`
	// HazardTimerMax and HazardTimerScale shape the scared hazard reward ramp.
	HazardTimerMax   float64 `mapstructure:"hazardTimerMax" yaml:"hazardTimerMax"`
	HazardTimerScale float64 `mapstructure:"hazardTimerScale" yaml:"hazardTimerScale"`
	DiscountFactor   float64 `mapstructure:"discountFactor" yaml:"discountFactor"`
	// HazardAvoidanceRadius is the Chebyshev radius around a hazard receiving half its reward.
	HazardAvoidanceRadius int `mapstructure:"hazardAvoidanceRadius" yaml:"hazardAvoidanceRadius"`
	// AutoRadius derives the radius from the grid size instead of HazardAvoidanceRadius.
	AutoRadius bool `mapstructure:"autoRadius" yaml:"autoRadius"`
	// ProximityTerminal pins the proximity ring at its reward instead of sweeping it.
	ProximityTerminal bool `mapstructure:"proximityTerminal" yaml:"proximityTerminal"`
	MaxSweeps         int  `mapstructure:"maxSweeps" yaml:"maxSweeps"`
	// Epsilon is the largest per-cell change at which a sweep counts as converged.
	// Zero requires exact equality.
	Epsilon float64 `mapstructure:"epsilon" yaml:"epsilon"`
	// Workers > 1 splits each sweep across goroutines.
	Workers   int  `mapstructure:"workers" yaml:"workers"`
	WarmStart bool `mapstructure:"warmStart" yaml:"warmStart"`
}

// EpisodeConfig bounds the simulated episodes driving the solver.
type EpisodeConfig struct {
	MaxSteps   int    `mapstructure:"maxSteps" yaml:"maxSteps"`
	ScaredTime int    `mapstructure:"scaredTime" yaml:"scaredTime"`
	Duration   string `mapstructure:"duration" yaml:"duration"`
}

// DefaultSolverConfig returns the parameters the pacman agent was tuned with.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		DirectionSuccessProbability: 0.8,
		EmptyReward:                 -0.04,
		FoodReward:                  1,
		CapsuleReward:               1,
		HazardBaseReward:            -8,
		HazardTimerMax:              40,
		HazardTimerScale:            2.5,
		DiscountFactor:              0.5,
		HazardAvoidanceRadius:       1,
		ProximityTerminal:           true,
		MaxSweeps:                   1000,
		Workers:                     1,
	}
}

// DefaultConfig returns a complete config with default solver and episode parameters.
func DefaultConfig() *Config {
	return &Config{
		Kind: "solver",
		Def:  DefaultSolverConfig(),
		Episode: EpisodeConfig{
			MaxSteps:   500,
			ScaredTime: 40,
			Duration:   "30s",
		},
	}
}

// ConfigurationError reports an invalid configuration value. It is returned
// before any solve begins.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks every parameter's range.
func (cfg SolverConfig) Validate() error {
	switch {
	case !(cfg.DirectionSuccessProbability > 0 && cfg.DirectionSuccessProbability <= 1):
		return &ConfigurationError{"directionSuccessProbability", fmt.Sprintf("%v not in (0,1]", cfg.DirectionSuccessProbability)}
	case !(cfg.DiscountFactor >= 0 && cfg.DiscountFactor <= 1):
		return &ConfigurationError{"discountFactor", fmt.Sprintf("%v not in [0,1]", cfg.DiscountFactor)}
	case cfg.HazardAvoidanceRadius < 0:
		return &ConfigurationError{"hazardAvoidanceRadius", "must be non-negative"}
	case cfg.MaxSweeps <= 0:
		return &ConfigurationError{"maxSweeps", "must be positive"}
	case !(cfg.Epsilon >= 0):
		return &ConfigurationError{"epsilon", "must be non-negative"}
	case cfg.Workers < 0:
		return &ConfigurationError{"workers", "must be non-negative"}
	case !(cfg.HazardTimerMax > 0):
		return &ConfigurationError{"hazardTimerMax", "must be positive"}
	case !(cfg.HazardTimerScale > 0):
		return &ConfigurationError{"hazardTimerScale", "must be positive"}
	}
	return nil
}

// Radius returns the proximity radius to use on grid.
func (cfg SolverConfig) Radius(grid *grid_world.Grid) int {
	if !cfg.AutoRadius {
		return cfg.HazardAvoidanceRadius
	}
	return AutoRadius(grid)
}

// AutoRadius scales the proximity radius with the board so small boards are
// not blanketed by a single hazard's ring.
func AutoRadius(grid *grid_world.Grid) int {
	side := grid.MaxX()
	if grid.MaxY() < side {
		side = grid.MaxY()
	}
	if r := (side - 2) / 4; r > 1 {
		return r
	}
	return 1
}

// ToYaml dumps the solver config, as loaded, for inspection.
func (cfg SolverConfig) ToYaml() ([]byte, error) {
	return yaml.Marshal(cfg)
}

// WithEpisodeDeadline returns a context extended by the episode duration, if one is specified.
func (cfg *Config) WithEpisodeDeadline(
	ctx context.Context,
) (context.Context, context.CancelFunc, error) {
	if cfg.Episode.Duration != "" {
		duration, err := time.ParseDuration(cfg.Episode.Duration)
		if err != nil {
			return nil, nil, fmt.Errorf("episode duration: %w", err)
		}
		innerCtx, cancel := context.WithTimeout(ctx, duration)
		return innerCtx, cancel, nil
	}
	defaultCtx, cancel := context.WithCancel(ctx)
	return defaultCtx, cancel, nil
}

// FromYaml reads the config at path over the defaults. A .env file beside it is
// loaded first when present, and GRIDMDP_* environment variables override any key.
func FromYaml(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(filepath.Dir(path), ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	defaults := DefaultConfig()
	seed, err := yaml.Marshal(defaults)
	if err != nil {
		return nil, err
	}

	vp := viper.New()
	vp.SetConfigType("yaml")
	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()
	// Seeding with the defaults registers every key, so env overrides apply
	// even to keys the file omits.
	if err = vp.ReadConfig(bytes.NewReader(seed)); err != nil {
		return nil, err
	}

	if _, err = os.Stat(path); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	vp.SetConfigFile(path)
	if err = vp.MergeInConfig(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err = vp.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
