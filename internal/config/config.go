package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/staws/sim/internal/projection"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Projection ProjectionConfig `toml:"projection"`
	Scenario   ScenarioConfig   `toml:"scenario"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Logging    LoggingConfig    `toml:"logging"`
	Report     ReportConfig     `toml:"report"`
}

type SimulationConfig struct {
	TickRate      time.Duration `toml:"tick_rate"`
	TimeScale     float64       `toml:"time_scale"`   // simulated seconds per wall second
	MinDistance   float64       `toml:"min_distance"` // floor on pair separation in the magnitude term
	Workers       int           `toml:"workers"`      // >1 splits the force pass across goroutines
	ClampThrottle bool          `toml:"clamp_throttle"`
	GravConstant  float64       `toml:"gravitational_constant"`
}

type ProjectionConfig struct {
	Enabled    bool    `toml:"enabled"`
	Horizon    float64 `toml:"horizon"`    // seconds
	Resolution int     `toml:"resolution"` // steps per second
}

type ScenarioConfig struct {
	Path string `toml:"path"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"` // root holding core/ and autopilot/, empty disables scripts
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ReportConfig struct {
	Interval int `toml:"interval"` // ticks between state reports, 0 disables
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config { return defaults() }

func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("simulation.tick_rate must be positive, got %s", c.Simulation.TickRate))
	}
	if c.Simulation.TimeScale < 0 {
		errs = append(errs, fmt.Errorf("simulation.time_scale must not be negative, got %v", c.Simulation.TimeScale))
	}
	if c.Simulation.MinDistance < 0 {
		errs = append(errs, fmt.Errorf("simulation.min_distance must not be negative, got %v", c.Simulation.MinDistance))
	}
	if c.Simulation.GravConstant <= 0 {
		errs = append(errs, fmt.Errorf("simulation.gravitational_constant must be positive, got %v", c.Simulation.GravConstant))
	}
	if err := c.ProjectionParams().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("projection: %w", err))
	}
	if c.Report.Interval < 0 {
		errs = append(errs, fmt.Errorf("report.interval must not be negative, got %d", c.Report.Interval))
	}
	return errors.Join(errs...)
}

// ProjectionParams is the look-ahead window from [projection].
func (c *Config) ProjectionParams() projection.Params {
	return projection.Params{Horizon: c.Projection.Horizon, Resolution: c.Projection.Resolution}
}

// Dt is the simulated time covered by one live tick, in seconds.
func (c *Config) Dt() float64 {
	return c.Simulation.TickRate.Seconds() * c.Simulation.TimeScale
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:     16 * time.Millisecond,
			TimeScale:    1.0,
			MinDistance:  1.0,
			Workers:      1,
			GravConstant: 6.67430e-11,
		},
		Projection: ProjectionConfig{
			Enabled:    true,
			Horizon:    1.0,
			Resolution: 5,
		},
		Scenario: ScenarioConfig{
			Path: "data/scenarios/binary.yaml",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Report: ReportConfig{
			Interval: 60,
		},
	}
}
