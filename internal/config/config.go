// Package config resolves simulator settings from ROBOSIM_* environment
// variables. Command-line flags override these.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/abhisek/robosim/internal/challenge"
	"github.com/abhisek/robosim/internal/robot"
	"github.com/abhisek/robosim/internal/sim"
)

// EnvPrefix is prepended to every variable Load reads.
const EnvPrefix = "ROBOSIM_"

// Config holds simulator settings.
type Config struct {
	// DB is the SQLite database path. Empty means the XDG default.
	DB string `env:"DB"`

	// Catalog is an optional challenge catalog file replacing the built-in one.
	Catalog string `env:"CATALOG"`

	Robot        string        `env:"ROBOT" envDefault:"mobile"`
	Challenge    string        `env:"CHALLENGE"`
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"16ms"`

	// ScriptTimeout bounds one Lua run from the CLI.
	ScriptTimeout time.Duration `env:"SCRIPT_TIMEOUT" envDefault:"2m"`
}

// Load reads Config from the process environment.
func Load() (Config, error) {
	return parse(nil)
}

func parse(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown robot types and non-positive durations.
func (c Config) Validate() error {
	if _, ok := robot.ParseType(c.Robot); !ok {
		return fmt.Errorf("%sROBOT: unknown robot type %q", EnvPrefix, c.Robot)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%sTICK_INTERVAL must be positive, got %s", EnvPrefix, c.TickInterval)
	}
	if c.ScriptTimeout <= 0 {
		return fmt.Errorf("%sSCRIPT_TIMEOUT must be positive, got %s", EnvPrefix, c.ScriptTimeout)
	}
	return nil
}

// RobotType returns the configured robot, defaulting to the mobile robot.
func (c Config) RobotType() robot.Type {
	if t, ok := robot.ParseType(c.Robot); ok {
		return t
	}
	return robot.TypeMobile
}

// LoadCatalog returns the catalog named by Catalog, or the built-in one.
func (c Config) LoadCatalog() (*challenge.Catalog, error) {
	if c.Catalog == "" {
		return challenge.Default(), nil
	}
	return challenge.LoadFile(c.Catalog)
}

// SimOptions returns simulator options for cat.
func (c Config) SimOptions(cat *challenge.Catalog) sim.Options {
	return sim.Options{
		Catalog:      cat,
		TickInterval: c.TickInterval,
		Robot:        c.RobotType(),
	}
}
