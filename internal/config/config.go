package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name below.
const EnvPrefix = "NEUROFIT_"

// Config holds the runtime settings read from the environment.
type Config struct {
	DBPath            string        `env:"DB"`
	WorkoutsDir       string        `env:"WORKOUTS_DIR"`
	UserID            string        `env:"USER" envDefault:"local"`
	TickInterval      time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	CaloriesPerMinute float64       `env:"CALORIES_PER_MINUTE" envDefault:"5"`
	PersistTimeout    time.Duration `env:"PERSIST_TIMEOUT" envDefault:"10s"`
	LogCalls          bool          `env:"LOG_CALLS"`
}

// LoadConfig reads NEUROFIT_* variables, applies defaults and resolves paths
// under ~/.neurofit for anything left unset.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.resolvePaths(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the player cannot run with.
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%sTICK_INTERVAL must be positive, got %s", EnvPrefix, c.TickInterval)
	}
	if c.PersistTimeout <= 0 {
		return fmt.Errorf("%sPERSIST_TIMEOUT must be positive, got %s", EnvPrefix, c.PersistTimeout)
	}
	if c.CaloriesPerMinute <= 0 {
		return fmt.Errorf("%sCALORIES_PER_MINUTE must be positive, got %v", EnvPrefix, c.CaloriesPerMinute)
	}
	if c.UserID == "" {
		return fmt.Errorf("%sUSER must not be empty", EnvPrefix)
	}
	return nil
}

func (c *Config) resolvePaths() error {
	if c.DBPath != "" && c.WorkoutsDir != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(home, ".neurofit", "neurofit.db")
	}
	if c.WorkoutsDir == "" {
		// ./workouts wins during development, like a checked-out repo.
		if stat, err := os.Stat("./workouts"); err == nil && stat.IsDir() {
			c.WorkoutsDir = "./workouts"
		} else {
			c.WorkoutsDir = filepath.Join(home, ".neurofit", "workouts")
		}
	}
	return nil
}
