// Package config loads and composes the hierarchical YAML configuration
// this simulation runs from: per-species population/aero/state-machine
// definitions, world/timing parameters, and the analysis observer chain.
// Grounded on pthm-soup/config/config.go's embedded-defaults-then-overlay
// pattern and the shape of original_source/model/json.hpp's multi-file
// composed JSON.
package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the root of the composed configuration tree.
type Config struct {
	Simulation Simulation `yaml:"simulation"`
	Prey       Species    `yaml:"prey"`
	Predator   Species    `yaml:"predator"`

	Derived DerivedConfig `yaml:"-"`
}

// Simulation holds world/timing/analysis parameters shared by both
// species, matching spec §4.11's top-level simulation block.
type Simulation struct {
	Dt             float64        `yaml:"dt"`
	WH             float64        `yaml:"wh"`
	Tmax           float64        `yaml:"tmax"`
	NumThreads     int            `yaml:"num_threads"`
	Speedup        float64        `yaml:"speedup"`
	Seed           uint64         `yaml:"seed"`
	FlockDetection FlockDetection `yaml:"flock_detection"`
	Terrain        string         `yaml:"terrain"`
	Analysis       Analysis       `yaml:"analysis"`
}

// FlockDetection configures how often the flock tracker reclusters and
// the toroidal distance threshold it clusters on.
type FlockDetection struct {
	Interval  float64 `yaml:"interval"`
	Threshold float64 `yaml:"threshold"`
}

// Analysis configures the output directory and the observer chain.
type Analysis struct {
	DataFolder string          `yaml:"data_folder"`
	Observers  []ObserverEntry `yaml:"observers"`
	Externals  Externals       `yaml:"externals"`
}

// ObserverEntry is one entry of Analysis.Observers, matching spec §6's
// observer spec shape.
type ObserverEntry struct {
	Type       string  `yaml:"type"`
	OutputName string  `yaml:"output_name"`
	SampleFreq float64 `yaml:"sample_freq"`
}

// Externals names the config file the composed-config export marks
// itself with (spec §4.12's exp_files behavior).
type Externals struct {
	ConfigName string `yaml:"config_name"`
}

// Species is one species' full configuration: population size, physical
// scale/shape (viewer-only), aerodynamic envelope, initial condition,
// and state machine.
type Species struct {
	N           int            `yaml:"n"`
	Scale       float64        `yaml:"scale"`
	Shape       string         `yaml:"shape"`
	Aero        Aero           `yaml:"aero"`
	InitCondit  InitCondit     `yaml:"init_condit"`
	States      []StateEntry   `yaml:"states"`
	Transitions *TransitionDef `yaml:"transitions"`
}

// Aero is a species' aerodynamic envelope, fed to flight.AeroConfig.
type Aero struct {
	BodyMass      float64 `yaml:"body_mass"`
	BodyMassSd    float64 `yaml:"body_mass_sd"`
	CruiseSpeed   float64 `yaml:"cruise_speed"`
	CruiseSpeedSd float64 `yaml:"cruise_speed_sd"`
	WingArea      float64 `yaml:"wing_area"`
	MinSpeed      float64 `yaml:"min_speed"`
	MaxSpeed      float64 `yaml:"max_speed"`
}

// InitCondit configures one of the five initial-condition generators
// (SPEC_FULL.md "SUPPLEMENTED FEATURES" §1). Params is the generator-
// specific remainder of the map, decoded by the generator itself.
type InitCondit struct {
	Type   string                 `yaml:"type"`
	Params map[string]interface{} `yaml:",inline"`
}

// StateEntry is one state in a species' state machine.
type StateEntry struct {
	Name      string         `yaml:"name"`
	Tr        float64        `yaml:"tr"`
	Duration  float64        `yaml:"duration"`
	AeroState AeroStateEntry `yaml:"aero_state"`
	Actions   []ActionEntry  `yaml:"actions"`
}

// AeroStateEntry is a state's cruise-speed restoring target.
type AeroStateEntry struct {
	CruiseSpeed float64 `yaml:"cruise_speed"`
	W           float64 `yaml:"w"`
}

// ActionEntry is one action entry within a state's action tuple. Params
// carries every action-specific field, decoded in build.go's dispatch.
type ActionEntry struct {
	Name   string                 `yaml:"name"`
	Params map[string]interface{} `yaml:",inline"`
}

// TransitionDef configures the piecewise-linear transition matrix
// interpolator between a species' persistent states. Edges holds the
// ascending pivot values; Matrices holds one row-major transition matrix
// per edge (Matrices[edge][fromState][toState]). The "single pivot" case
// named in spec §3/§4.2 is a TransitionDef with exactly one edge.
type TransitionDef struct {
	Edges    []float64     `yaml:"edges"`
	Matrices [][][]float64 `yaml:"tm"`
}

// DerivedConfig holds values computed once after loading rather than
// read directly from YAML.
type DerivedConfig struct {
	// OutputDir is the per-run output folder, derived from
	// Analysis.DataFolder plus a timestamp+random suffix, matching
	// unique_output_folder in analysis/analysis.hpp.
	OutputDir string
}

var global *Config

// Init loads the config at path and installs it as the package-global
// singleton Cfg() reads from.
func Init(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	global = c
	return nil
}

// MustInit is Init but panics on error, for driver-startup convenience.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(err)
	}
}

// Cfg returns the global singleton installed by Init/MustInit. It
// panics if neither has been called: fail fast on misuse rather than
// silently running with a zero-value config.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init")
	}
	return global
}

// Load unmarshals the embedded defaults, then unmarshals the user file
// at path over the same struct so only fields actually present in path
// override a default, then computes derived values. An empty path loads
// defaults only.
func Load(path string) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, c); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	c.computeDerived()
	return c, nil
}

func (c *Config) validate() error {
	if len(c.Prey.States) == 0 {
		return fmt.Errorf("config: prey must declare at least one state")
	}
	if len(c.Predator.States) == 0 {
		return fmt.Errorf("config: predator must declare at least one state")
	}
	if c.Prey.Transitions != nil && len(c.Prey.Transitions.Matrices) > 0 {
		if err := checkTransitionShape(*c.Prey.Transitions, len(c.Prey.States)); err != nil {
			return fmt.Errorf("config: prey transitions: %w", err)
		}
	}
	if c.Predator.Transitions != nil && len(c.Predator.Transitions.Matrices) > 0 {
		if err := checkTransitionShape(*c.Predator.Transitions, len(c.Predator.States)); err != nil {
			return fmt.Errorf("config: predator transitions: %w", err)
		}
	}
	if c.Simulation.Dt <= 0 {
		return fmt.Errorf("config: simulation.dt must be nonzero")
	}
	return nil
}

func checkTransitionShape(t TransitionDef, nStates int) error {
	if len(t.Edges) != len(t.Matrices) {
		return fmt.Errorf("edges count %d does not match matrix count %d", len(t.Edges), len(t.Matrices))
	}
	for _, edge := range t.Edges {
		_ = edge
	}
	for _, m := range t.Matrices {
		if len(m) != nStates {
			return fmt.Errorf("matrix has %d rows, want %d (one per state)", len(m), nStates)
		}
		for _, row := range m {
			if len(row) != nStates {
				return fmt.Errorf("matrix row has %d columns, want %d", len(row), nStates)
			}
		}
	}
	return nil
}

func (c *Config) computeDerived() {
	c.Derived.OutputDir = uniqueOutputFolder(c.Simulation.Analysis.DataFolder)
}
