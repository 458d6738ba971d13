// Package mdconfig loads the Environment configuration snapshot (spec §3)
// consumed at startup to build a container, its boundaries, and an
// optional thermostat. It follows the embedded-defaults-plus-override
// pattern of the ecosystem simulator this codebase is descended from:
// embedded YAML defaults are unmarshalled first, then an optional user file
// is unmarshalled over them, so a user file needs only override the fields
// it cares about.
package mdconfig

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// BoundaryKind is one of the five boundary_kind options of spec §3.
type BoundaryKind string

const (
	BoundaryInf      BoundaryKind = "INF"
	BoundaryHard     BoundaryKind = "HARD"
	BoundaryGhost    BoundaryKind = "GHOST"
	BoundaryPeriodic BoundaryKind = "PERIODIC"
	BoundaryOutflow  BoundaryKind = "OUTFLOW"
)

func (k BoundaryKind) valid() bool {
	switch k {
	case BoundaryInf, BoundaryHard, BoundaryGhost, BoundaryPeriodic, BoundaryOutflow:
		return true
	}
	return false
}

// OutputFormat is one of the output_format options of spec §3.
type OutputFormat string

const (
	OutputNone       OutputFormat = "NONE"
	OutputVTK        OutputFormat = "VTK"
	OutputXYZ        OutputFormat = "XYZ"
	OutputCheckpoint OutputFormat = "CHECKPOINT"
)

func (f OutputFormat) valid() bool {
	switch f {
	case OutputNone, OutputVTK, OutputXYZ, OutputCheckpoint:
		return true
	}
	return false
}

// InputFormat is one of the input_format options of spec §3.
type InputFormat string

const (
	InputTXT        InputFormat = "TXT"
	InputXML        InputFormat = "XML"
	InputCheckpoint InputFormat = "CHECKPOINT"
)

func (f InputFormat) valid() bool {
	switch f {
	case InputTXT, InputXML, InputCheckpoint:
		return true
	}
	return false
}

// CalculatorKind is one of the calculator_kind options of spec §3.
type CalculatorKind string

const (
	CalculatorGravity  CalculatorKind = "GRAVITY"
	CalculatorLJ       CalculatorKind = "LJ"
	CalculatorLJSmooth CalculatorKind = "LJ_SMOOTH"
	CalculatorMolecule CalculatorKind = "MOLECULE"
)

func (k CalculatorKind) valid() bool {
	switch k {
	case CalculatorGravity, CalculatorLJ, CalculatorLJSmooth, CalculatorMolecule:
		return true
	}
	return false
}

// Faces holds one BoundaryKind per domain face, in the fixed face order
// spec §4.5 walks them.
type Faces struct {
	XNear BoundaryKind `yaml:"x_near"`
	XFar  BoundaryKind `yaml:"x_far"`
	YNear BoundaryKind `yaml:"y_near"`
	YFar  BoundaryKind `yaml:"y_far"`
	ZNear BoundaryKind `yaml:"z_near"`
	ZFar  BoundaryKind `yaml:"z_far"`
}

func (f Faces) validate() error {
	for name, k := range map[string]BoundaryKind{
		"x_near": f.XNear, "x_far": f.XFar,
		"y_near": f.YNear, "y_far": f.YFar,
		"z_near": f.ZNear, "z_far": f.ZFar,
	} {
		if !k.valid() {
			return fmt.Errorf("boundaries.%s: invalid boundary kind %q", name, k)
		}
	}
	return nil
}

// ThermostatConfig holds the thermostat's tunables; Enabled false means no
// thermostat runs at all.
type ThermostatConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Target    float64 `yaml:"target"`
	HasCap    bool    `yaml:"has_cap"`
	MaxChange float64 `yaml:"max_change"`
	Dim       int     `yaml:"dim"`
}

// TweezersConfig holds an optional external-force injection.
type TweezersConfig struct {
	Enabled bool      `yaml:"enabled"`
	Indices []int     `yaml:"indices"`
	Force   [3]float64 `yaml:"force"`
	EndTime float64   `yaml:"end_time"`
}

// IOConfig names an input or output file's path and format.
type IOConfig struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// Environment is the Environment configuration snapshot of spec §3.
type Environment struct {
	Dt        float64    `yaml:"dt"`
	TEnd      float64    `yaml:"t_end"`
	RCutoff   float64    `yaml:"r_cutoff"`
	Domain    [3]float64 `yaml:"domain"`
	Periodic  [3]bool    `yaml:"periodic"`
	Gravity   [3]float64 `yaml:"gravity"`

	Calculator CalculatorKind `yaml:"calculator"`
	Boundaries Faces          `yaml:"boundaries"`
	Thermostat ThermostatConfig `yaml:"thermostat"`
	Tweezers   TweezersConfig   `yaml:"tweezers"`

	PrintStep     int `yaml:"print_step"`
	TempFrequency int `yaml:"temp_frequency"`

	Input  IOConfig `yaml:"input"`
	Output IOConfig `yaml:"output"`
}

// Load reads configuration starting from the embedded defaults, then
// overlays path's contents if path is non-empty. Fields absent from the
// override file keep their embedded-default value.
func Load(path string) (*Environment, error) {
	env := &Environment{}
	if err := yaml.Unmarshal(defaultsYAML, env); err != nil {
		return nil, fmt.Errorf("mdconfig: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("mdconfig: reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, env); err != nil {
			return nil, fmt.Errorf("mdconfig: parsing config file: %w", err)
		}
	}

	if err := env.validate(); err != nil {
		return nil, err
	}
	return env, nil
}

func (e *Environment) validate() error {
	if err := e.Boundaries.validate(); err != nil {
		return err
	}
	if !e.Calculator.valid() {
		return fmt.Errorf("calculator: invalid calculator kind %q", e.Calculator)
	}
	if e.Input.Format != "" && !InputFormat(e.Input.Format).valid() {
		return fmt.Errorf("input.format: invalid input format %q", e.Input.Format)
	}
	if e.Output.Format != "" && !OutputFormat(e.Output.Format).valid() {
		return fmt.Errorf("output.format: invalid output format %q", e.Output.Format)
	}
	for a, periodic := range e.Periodic {
		if periodic && e.RCutoff > e.Domain[a]/2 {
			return fmt.Errorf("r_cutoff %v exceeds half the periodic domain size on axis %d (%v)", e.RCutoff, a, e.Domain[a])
		}
	}
	return nil
}

// WriteYAML marshals the environment back to path, e.g. to record the
// effective configuration of a run alongside its output.
func (e *Environment) WriteYAML(path string) error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("mdconfig: marshaling environment: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("mdconfig: writing %s: %w", path, err)
	}
	return nil
}
