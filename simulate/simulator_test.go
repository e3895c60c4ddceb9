package simulate

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammal/systems/ode"
	"github.com/hammal/systems/signal"
	"github.com/hammal/systems/ssm"
	"github.com/hammal/systems/vector"
)

// integratorChain returns x1' = 1, x2' = x1 with y = x1 + x2, so that
// y(t) = t + t^2/2 from a zero state.
func integratorChain(t *testing.T) *ssm.LinearStateSpaceModel {
	t.Helper()
	model, err := ssm.NewIntegratorChain(2, 1, []signal.Source{
		signal.NewInput(signal.Constant(1), vector.DenseFrom(1, 0)),
	})
	require.NoError(t, err)
	return model
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestSimulatorRun(t *testing.T) {
	sim, err := New(integratorChain(t), Config{Ts: 0.1, Steps: 10}, WithLogger(quietLogger()))
	require.NoError(t, err)

	require.NoError(t, sim.Run(context.Background()))
	obs := sim.Observations()
	require.Len(t, obs, 10)
	stamps := sim.TimeStamps()
	require.Len(t, stamps, 10)
	for i, row := range obs {
		tk := stamps[i]
		require.Len(t, row, 1)
		assert.InDelta(t, tk+tk*tk/2, row[0], 1e-12)
	}
	assert.InDelta(t, 1, sim.Time(), 1e-12)
	state := sim.State()
	assert.InDelta(t, 1, state[0], 1e-12)
	assert.InDelta(t, 0.5, state[1], 1e-12)
}

func TestSimulatorPropagatesToSinks(t *testing.T) {
	sim, err := New(integratorChain(t), Config{Ts: 0.5, Steps: 2}, WithLogger(quietLogger()))
	require.NoError(t, err)

	basic := vector.NewBasic[float64](1)
	dense := vector.NewDense(1)
	require.NoError(t, sim.Connect("basic", basic))
	require.NoError(t, sim.Connect("dense", dense))

	require.NoError(t, sim.Step(context.Background()))
	assert.InDelta(t, 0.625, basic.Value().At(0), 1e-12)
	require.NoError(t, sim.Step(context.Background()))
	assert.InDelta(t, 1.5, basic.Value().At(0), 1e-12)
	assert.True(t, vector.Equal(basic.Value(), dense.Value()))

	// Sinks hold values, not handles to the simulator's output.
	basic.MutableValue().Set(0, -1)
	assert.InDelta(t, 1.5, dense.Value().At(0), 1e-12)
}

func TestSimulatorConnectMismatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	sim, err := New(integratorChain(t), Config{Ts: 0.1, Steps: 1}, WithLogger(quietLogger()), WithMetrics(metrics))
	require.NoError(t, err)

	err = sim.Connect("wide", vector.NewBasic[float64](2))
	var wiringErr *WiringError
	require.ErrorAs(t, err, &wiringErr)
	assert.Equal(t, "wide", wiringErr.Sink)
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WiringErrors.WithLabelValues("wide")))
}

// liar reports one size but rejects every value.
type liar struct {
	*vector.Basic[float64]
}

func (liar) SetValue(value []float64) error {
	return &vector.DimensionError{Want: 3, Got: len(value)}
}

func TestSimulatorRuntimeWiringError(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	sim, err := New(integratorChain(t), Config{Ts: 0.1, Steps: 5}, WithLogger(quietLogger()), WithMetrics(metrics))
	require.NoError(t, err)
	before := vector.NewBasic[float64](1)
	after := vector.BasicFrom(-1.0)
	require.NoError(t, sim.Connect("before", before))
	require.NoError(t, sim.Connect("liar", liar{vector.NewBasic[float64](1)}))
	require.NoError(t, sim.Connect("after", after))

	err = sim.Run(context.Background())
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
	var wiringErr *WiringError
	require.ErrorAs(t, err, &wiringErr)
	assert.Equal(t, "liar", wiringErr.Sink)

	// The first step stops the run, it is not retried.
	assert.Len(t, sim.Observations(), 1)
	assert.InDelta(t, 0.1, sim.Time(), 1e-12)
	assert.InDelta(t, sim.Observations()[0][0], before.Value().At(0), 1e-12)
	assert.Equal(t, -1.0, after.Value().At(0))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Steps))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WiringErrors.WithLabelValues("liar")))
}

func TestSimulatorInitialState(t *testing.T) {
	sim, err := New(integratorChain(t), Config{Ts: 1, Steps: 1}, WithInitialState(1, 2), WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, sim.State())

	_, err = New(integratorChain(t), Config{Ts: 1, Steps: 1}, WithInitialState(1, 2, 3))
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestSimulatorConfigValidation(t *testing.T) {
	_, err := New(integratorChain(t), Config{Ts: 0, Steps: 1})
	assert.Error(t, err)
	_, err = New(integratorChain(t), Config{Ts: 1, Steps: -1})
	assert.Error(t, err)
}

func TestSimulatorIntegrators(t *testing.T) {
	tests := []struct {
		name       string
		integrator ode.Integrator
		delta      float64
	}{
		{"euler", ode.NewEulerMethod(), 0.1},
		{"rk4", ode.NewRK4(), 1e-12},
		{"fehlberg45", ode.NewFehlberg45(), 1e-12},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sim, err := New(integratorChain(t), Config{Ts: 0.01, Steps: 100}, WithIntegrator(test.integrator), WithLogger(quietLogger()))
			require.NoError(t, err)
			require.NoError(t, sim.Run(context.Background()))
			obs := sim.Observations()
			assert.InDelta(t, 1.5, obs[len(obs)-1][0], test.delta)
		})
	}
}

func TestSimulatorCancelled(t *testing.T) {
	sim, err := New(integratorChain(t), Config{Ts: 0.1, Steps: 10}, WithLogger(quietLogger()))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sim.Run(ctx), context.Canceled)
	assert.Empty(t, sim.Observations())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	sim, err := New(integratorChain(t), Config{Ts: 0.1, Steps: 7}, WithMetrics(metrics), WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))
	assert.Equal(t, 7.0, testutil.ToFloat64(metrics.Steps))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.StepDuration))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestRunAll(t *testing.T) {
	sims := make([]*Simulator, 4)
	sinks := make([]*vector.Basic[float64], len(sims))
	for i := range sims {
		sim, err := New(integratorChain(t), Config{Ts: 0.1, Steps: 10 * (i + 1)}, WithLogger(quietLogger()))
		require.NoError(t, err)
		sinks[i] = vector.NewBasic[float64](1)
		require.NoError(t, sim.Connect("out", sinks[i]))
		sims[i] = sim
	}
	require.NoError(t, RunAll(context.Background(), sims...))
	for i, s := range sinks {
		tk := float64(i + 1)
		assert.InDelta(t, tk+tk*tk/2, s.Value().At(0), 1e-9)
	}
}
