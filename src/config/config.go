package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"bitlife/src/shape"
	"bitlife/src/universe"
)

//Config holds the run parameters, command line flags override values loaded from file
type Config struct {
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	Interval        time.Duration `yaml:"interval"`
	MaxSteps        int           `yaml:"max_steps"`
	MaxSkippedTicks int           `yaml:"max_skipped_ticks"`
	Seed            int64         `yaml:"seed"`
	Random          bool          `yaml:"random"`
	Interactive     bool          `yaml:"interactive"`
	CSV             string        `yaml:"csv"`
	Shapes          []Placement   `yaml:"shapes"`
}

//Placement puts a catalog shape centered on X, Y
type Placement struct {
	Name      string `yaml:"name"`
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
	Transform string `yaml:"transform"`
}

//DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	o := universe.DefaultOptions
	return &Config{
		Width:           o.Width,
		Height:          o.Height,
		Interval:        o.Interval,
		MaxSteps:        o.MaxSteps,
		MaxSkippedTicks: o.MaxSkippedTicks,
		Shapes: []Placement{
			{Name: "sample", X: 3, Y: 2},
		},
	}
}

//Load reads the YAML file on top of the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

//Save writes the configuration as YAML
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

//Validate checks the dimensions and the shape placements
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", c.MaxSteps)
	}
	if c.MaxSkippedTicks < 0 {
		return fmt.Errorf("max_skipped_ticks must not be negative, got %d", c.MaxSkippedTicks)
	}
	for i, p := range c.Shapes {
		if _, ok := shape.Lookup(p.Name); !ok {
			return fmt.Errorf("shapes[%d]: unknown shape %q", i, p.Name)
		}
		if _, err := shape.ParseTransformation(p.Transform); err != nil {
			return fmt.Errorf("shapes[%d]: %w", i, err)
		}
	}
	return nil
}

//Options converts the configuration into runner options
func (c *Config) Options() *universe.Options {
	return &universe.Options{
		Width:           c.Width,
		Height:          c.Height,
		Interval:        c.Interval,
		MaxSteps:        c.MaxSteps,
		MaxSkippedTicks: c.MaxSkippedTicks,
		Seed:            c.Seed,
	}
}

//Apply settles the configured shapes, or random data when Random is set
func (c *Config) Apply(ctl universe.Controller) {
	if c.Random {
		ctl.SettleWithRandomData()
		return
	}
	for _, p := range c.Shapes {
		t, _ := shape.ParseTransformation(p.Transform)
		ctl.SettleShape(p.Name, p.X, p.Y, t)
	}
}
