package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammal/systems/ode"
	"github.com/hammal/systems/vector"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
simulation:
  ts: 0.5
  steps: 4
  integrator: euler
model:
  order: 2
  stage_gain: 3
  initial_state: [1, 2]
  input:
    kind: step
    amplitude: 2
    delay: 1
`))
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Simulation.Ts)
	assert.Equal(t, 4, cfg.Simulation.Steps)
	assert.Equal(t, "integrator_chain", cfg.Model.Kind)
	assert.Equal(t, []float64{1, 2}, cfg.Model.InitialState)
	assert.IsType(t, &ode.RungeKutta{}, cfg.NewIntegrator())
	assert.Equal(t, 1, cfg.NewIntegrator().(*ode.RungeKutta).Stages())

	sc := cfg.SimulatorConfig()
	assert.Equal(t, 0.5, sc.Ts)
	assert.Equal(t, 4, sc.Steps)

	model, err := cfg.NewModel()
	require.NoError(t, err)
	assert.Equal(t, 2, model.StateSpaceOrder())
	assert.Equal(t, 3.0, model.A.At(1, 0))

	u := cfg.Model.Input.Func()
	assert.Equal(t, 0.0, u(0.5))
	assert.Equal(t, 2.0, u(1.5))
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"zero period", "simulation: {ts: 0}"},
		{"negative steps", "simulation: {steps: -1}"},
		{"unknown integrator", "simulation: {integrator: leapfrog}"},
		{"unknown model", "model: {kind: pendulum}"},
		{"zero order", "model: {order: 0}"},
		{"unknown input", "model: {input: {kind: noise}}"},
		{"malformed", "simulation: ["},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseInitialStateMismatch(t *testing.T) {
	_, err := Parse([]byte("model: {order: 3, initial_state: [1, 2]}"))
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation: {steps: 3}\n"), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Simulation.Steps)
	assert.Equal(t, "rk4", cfg.Simulation.Integrator)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
