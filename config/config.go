// Package config loads simulation configuration from YAML files.
//
// Example:
//
//	simulation:
//	  ts: 0.01
//	  start_time: 0
//	  steps: 1000
//	  integrator: rk4
//	model:
//	  kind: integrator_chain
//	  order: 3
//	  stage_gain: 10
//	  input:
//	    kind: sinusoid
//	    amplitude: 1
//	    frequency: 2
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hammal/systems/ode"
	"github.com/hammal/systems/signal"
	"github.com/hammal/systems/simulate"
	"github.com/hammal/systems/ssm"
	"github.com/hammal/systems/vector"
)

var validate = validator.New()

// Config is the top level configuration.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Model      ModelConfig      `yaml:"model"`
}

// SimulationConfig holds the sampling parameters.
type SimulationConfig struct {
	Ts         float64 `yaml:"ts" validate:"gt=0"`
	StartTime  float64 `yaml:"start_time"`
	Steps      int     `yaml:"steps" validate:"gte=0"`
	Integrator string  `yaml:"integrator" validate:"oneof=euler rk4 fehlberg45"`
}

// ModelConfig describes the simulated state space model.
type ModelConfig struct {
	Kind         string      `yaml:"kind" validate:"oneof=integrator_chain"`
	Order        int         `yaml:"order" validate:"gt=0,lte=64"`
	StageGain    float64     `yaml:"stage_gain"`
	InitialState []float64   `yaml:"initial_state"`
	Input        InputConfig `yaml:"input"`
}

// InputConfig describes the scalar input u(t) applied to the first state.
type InputConfig struct {
	Kind      string  `yaml:"kind" validate:"oneof=constant step sinusoid"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency" validate:"gte=0"`
	Phase     float64 `yaml:"phase"`
	Delay     float64 `yaml:"delay" validate:"gte=0"`
}

// Default returns a third order integrator chain driven by a sinusoid.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{Ts: 1e-3, Steps: 1000, Integrator: "rk4"},
		Model: ModelConfig{
			Kind:      "integrator_chain",
			Order:     3,
			StageGain: 1,
			Input:     InputConfig{Kind: "sinusoid", Amplitude: 1, Frequency: 1},
		},
	}
}

// Load reads and validates the configuration file at path. Missing fields
// take their values from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %s failed: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and that the initial state fits the
// model order.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate failed: %w", err)
	}
	if n := len(c.Model.InitialState); n != 0 && n != c.Model.Order {
		return fmt.Errorf("validate failed: initial_state: %w", &vector.DimensionError{Want: c.Model.Order, Got: n})
	}
	return nil
}

// SimulatorConfig returns the sampling parameters for the simulator.
func (c *Config) SimulatorConfig() simulate.Config {
	return simulate.Config{Ts: c.Simulation.Ts, StartTime: c.Simulation.StartTime, Steps: c.Simulation.Steps}
}

// NewIntegrator returns the configured integrator.
func (c *Config) NewIntegrator() ode.Integrator {
	switch c.Simulation.Integrator {
	case "euler":
		return ode.NewEulerMethod()
	case "fehlberg45":
		return ode.NewFehlberg45()
	default:
		return ode.NewRK4()
	}
}

// NewModel builds the configured state space model.
func (c *Config) NewModel() (*ssm.LinearStateSpaceModel, error) {
	b := vector.NewDense(c.Model.Order)
	b.MutableValue().Set(0, 1)
	input := signal.NewInput(c.Model.Input.Func(), b)
	return ssm.NewIntegratorChain(c.Model.Order, c.Model.StageGain, []signal.Source{input})
}

// Func returns the scalar input function.
func (in InputConfig) Func() func(float64) float64 {
	switch in.Kind {
	case "step":
		return signal.Step(in.Delay, in.Amplitude)
	case "sinusoid":
		return signal.Sinusoid(in.Amplitude, in.Frequency, in.Phase)
	default:
		return signal.Constant(in.Amplitude)
	}
}
