// Package config provides configuration loading and access for the flight simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/airship/steering"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure of a loaded configuration.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig  `yaml:"simulation"`
	Steering   steering.Tunables `yaml:"steering"`
	Fleet      []CraftConfig     `yaml:"fleet"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`
	Optimize   OptimizeConfig    `yaml:"optimize"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds tick parameters.
type SimulationConfig struct {
	DT       float64 `yaml:"dt"`        // seconds per tick
	MaxTicks int     `yaml:"max_ticks"` // 0 = unlimited
}

// Vec3 is a position written as a [x, y, z] sequence.
type Vec3 [3]float64

// R3 converts v to a gonum vector.
func (v Vec3) R3() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// CraftConfig describes one craft of the fleet.
type CraftConfig struct {
	Name     string  `yaml:"name"`
	Position Vec3    `yaml:"position"`
	Speed    float64 `yaml:"speed"` // world units per second along velocity

	// Steering overrides the fleet-wide tunables. Absent fields inherit; an explicit 0
	// is kept, so a craft can disable the spool-up limit the fleet enables.
	Steering *TunablesOverride `yaml:"steering,omitempty"`

	Waypoints    []Vec3  `yaml:"waypoints"`
	Loop         bool    `yaml:"loop"`
	ArriveRadius float64 `yaml:"arrive_radius"` // horizontal distance counted as arrival
}

// TunablesOverride is the per-craft subset of steering.Tunables. Nil fields inherit.
type TunablesOverride struct {
	HeadingSteerConstant *float64            `yaml:"heading_steer_constant,omitempty"`
	MaxHeadingSteerSpeed *float64            `yaml:"max_heading_steer_speed,omitempty"`
	HeadingSteerAccel    *float64            `yaml:"heading_steer_accel,omitempty"`
	FacingMode           steering.FacingMode `yaml:"facing_mode,omitempty"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
	SampleEvery int     `yaml:"sample_every"` // ticks between flight.csv rows
}

// OptimizeConfig holds the tuning scenario used by cmd/optimize.
type OptimizeConfig struct {
	Bearings  []float64 `yaml:"bearings"`  // initial target bearings in degrees
	Tolerance float64   `yaml:"tolerance"` // heading error counted as settled (deg)
	MaxTicks  int       `yaml:"max_ticks"` // tick budget per bearing
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CraftTunables  []steering.Tunables // effective tunables per fleet entry
	TicksPerWindow int                 // Telemetry.StatsWindow in ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
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
		if err := Parse(cfg, data); err != nil {
			return nil, err
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse overlays YAML data onto cfg. Only fields present in data are overwritten;
// lists such as the fleet are replaced as a whole.
func Parse(cfg *Config, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// TunablesFor merges a per-craft override onto the fleet-wide tunables.
func TunablesFor(base steering.Tunables, override *TunablesOverride) steering.Tunables {
	if override == nil {
		return base
	}
	t := base
	if override.HeadingSteerConstant != nil {
		t.HeadingSteerConstant = *override.HeadingSteerConstant
	}
	if override.MaxHeadingSteerSpeed != nil {
		t.MaxHeadingSteerSpeed = *override.MaxHeadingSteerSpeed
	}
	if override.HeadingSteerAccel != nil {
		t.HeadingSteerAccel = *override.HeadingSteerAccel
	}
	if override.FacingMode != "" {
		t.FacingMode = override.FacingMode
	}
	return t
}

// computeDerived fills defaults, validates, and calculates derived values.
func (c *Config) computeDerived() error {
	if !(c.Simulation.DT > 0) {
		return fmt.Errorf("%w: simulation.dt must be positive, got %v", ErrInvalid, c.Simulation.DT)
	}
	if err := c.Steering.Validate(); err != nil {
		return fmt.Errorf("%w: steering: %w", ErrInvalid, err)
	}

	c.Derived.CraftTunables = make([]steering.Tunables, len(c.Fleet))
	for i := range c.Fleet {
		craft := &c.Fleet[i]
		if craft.Name == "" {
			craft.Name = fmt.Sprintf("craft-%d", i)
		}
		if craft.ArriveRadius == 0 {
			craft.ArriveRadius = 5
		}
		if craft.Speed < 0 {
			return fmt.Errorf("%w: fleet[%d] %q: speed must be non-negative", ErrInvalid, i, craft.Name)
		}

		t := TunablesFor(c.Steering, craft.Steering)
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: fleet[%d] %q: %w", ErrInvalid, i, craft.Name, err)
		}
		c.Derived.CraftTunables[i] = t
	}

	if c.Telemetry.SampleEvery < 1 {
		c.Telemetry.SampleEvery = 1
	}
	ticks := int(math.Round(c.Telemetry.StatsWindow / c.Simulation.DT))
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerWindow = ticks

	if c.Optimize.Tolerance <= 0 {
		c.Optimize.Tolerance = 0.5
	}
	if c.Optimize.MaxTicks < 1 {
		return fmt.Errorf("%w: optimize.max_ticks must be at least 1, got %d", ErrInvalid, c.Optimize.MaxTicks)
	}
	if len(c.Optimize.Bearings) == 0 {
		return fmt.Errorf("%w: optimize.bearings must not be empty", ErrInvalid)
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
