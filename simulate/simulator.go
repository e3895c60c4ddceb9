// Package simulate steps state space models in fixed periods. The simulator
// is the exclusive owner of the state and observation signal vectors of its
// model and propagates each new observation to the signal vectors of
// connected downstream systems. Two connected systems that disagree on the
// width of a signal are a wiring error, which is reported and never retried.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hammal/systems/ode"
	"github.com/hammal/systems/ssm"
	"github.com/hammal/systems/vector"
)

// Config holds the sampling parameters of a simulation.
type Config struct {
	// Time period
	Ts float64
	// starting time
	StartTime float64
	// Number of samples
	Steps int
}

// WiringError is returned when an observation cannot be propagated to a
// connected signal vector, or an initial state does not fit the model.
type WiringError struct {
	Sink string
	Err  error
}

func (e *WiringError) Error() string {
	return fmt.Sprintf("simulate: wiring %q: %v", e.Sink, e.Err)
}

func (e *WiringError) Unwrap() error { return e.Err }

type sink struct {
	name string
	vec  vector.Interface[float64]
}

// Simulator steps a state space model and records its observations.
// Its methods may be called from several goroutines, they are serialized.
type Simulator struct {
	mu sync.Mutex

	model      ssm.StateSpaceModel
	integrator ode.Integrator
	cfg        Config

	state        *vector.Dense
	output       *vector.Dense
	sinks        []sink
	observations [][]float64
	t            float64

	initialState []float64
	logger       *slog.Logger
	metrics      *Metrics
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger, slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(sim *Simulator) { sim.logger = logger }
}

// WithMetrics records simulation metrics.
func WithMetrics(m *Metrics) Option {
	return func(sim *Simulator) { sim.metrics = m }
}

// WithIntegrator replaces the default fourth order Runge-Kutta integrator.
func WithIntegrator(integrator ode.Integrator) Option {
	return func(sim *Simulator) { sim.integrator = integrator }
}

// WithInitialState sets x(StartTime). The state is zero otherwise.
func WithInitialState(state ...float64) Option {
	return func(sim *Simulator) { sim.initialState = state }
}

// New returns a simulator for model.
func New(model ssm.StateSpaceModel, cfg Config, opts ...Option) (*Simulator, error) {
	if cfg.Ts <= 0 {
		return nil, fmt.Errorf("simulate: non-positive period %v", cfg.Ts)
	}
	if cfg.Steps < 0 {
		return nil, fmt.Errorf("simulate: negative number of steps %d", cfg.Steps)
	}
	sim := &Simulator{
		model:      model,
		integrator: ode.NewRK4(),
		cfg:        cfg,
		state:      vector.NewDense(model.StateSpaceOrder()),
		output:     vector.NewDense(model.ObservationSpaceOrder()),
		t:          cfg.StartTime,
	}
	for _, opt := range opts {
		opt(sim)
	}
	if sim.logger == nil {
		sim.logger = slog.Default()
	}
	if sim.initialState != nil {
		if err := sim.state.SetValue(sim.initialState); err != nil {
			return nil, &WiringError{Sink: "initial state", Err: err}
		}
	}
	return sim, nil
}

// Connect registers a signal vector that receives every new observation.
func (sim *Simulator) Connect(name string, dst vector.Interface[float64]) error {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	if dst.Size() != sim.output.Size() {
		sim.metrics.wiringError(name)
		return &WiringError{Sink: name, Err: &vector.DimensionError{Want: dst.Size(), Got: sim.output.Size()}}
	}
	sim.sinks = append(sim.sinks, sink{name: name, vec: dst})
	return nil
}

// Step advances the simulation one period. Sinks are updated in the order they
// were connected. If one of them rejects the observation, the step is not
// rolled back: the state, time and recorded observation have advanced and the
// sinks before it hold the new value, while the rest keep the old one. The
// step is not counted in the steps metric.
func (sim *Simulator) Step(ctx context.Context) error {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.step(ctx)
}

func (sim *Simulator) step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	t0, t1 := sim.t, sim.t+sim.cfg.Ts
	if _, err := sim.integrator.Step(t0, t1, sim.state, sim.model); err != nil {
		return fmt.Errorf("simulate.Step: integrate failed: %w", err)
	}
	sim.t = t1

	if err := sim.model.Observation(t1, sim.state.Value(), sim.output); err != nil {
		return fmt.Errorf("simulate.Step: observe failed: %w", err)
	}
	sim.observations = append(sim.observations, sim.output.Value().Slice())

	for _, s := range sim.sinks {
		if err := vector.Copy[float64](s.vec, sim.output); err != nil {
			sim.metrics.wiringError(s.name)
			sim.logger.Error("propagate observation", "sink", s.name, "t", t1, "error", err)
			return &WiringError{Sink: s.name, Err: err}
		}
	}
	sim.metrics.observe(time.Since(start))
	if sim.logger.Enabled(ctx, slog.LevelDebug) {
		sim.logger.Debug("step", "t", t1, "observation", sim.output.Value().Slice())
	}
	return nil
}

// Run steps the simulation Steps times.
func (sim *Simulator) Run(ctx context.Context) error {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.logger.Info("simulation started", "t", sim.t, "ts", sim.cfg.Ts, "steps", sim.cfg.Steps, "order", sim.state.Size())
	for i := 0; i < sim.cfg.Steps; i++ {
		if err := sim.step(ctx); err != nil {
			var wiringErr *WiringError
			if !errors.As(err, &wiringErr) {
				sim.logger.Warn("simulation stopped", "t", sim.t, "error", err)
			}
			return err
		}
	}
	sim.logger.Info("simulation finished", "t", sim.t)
	return nil
}

// Observations returns a copy of the observations, one row per step.
func (sim *Simulator) Observations() [][]float64 {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	res := make([][]float64, len(sim.observations))
	for i, row := range sim.observations {
		res[i] = append([]float64(nil), row...)
	}
	return res
}

// TimeStamps returns the time of every recorded observation.
func (sim *Simulator) TimeStamps() []float64 {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	res := make([]float64, len(sim.observations))
	for i := range res {
		res[i] = sim.cfg.StartTime + float64(i+1)*sim.cfg.Ts
	}
	return res
}

// Time returns the current simulation time.
func (sim *Simulator) Time() float64 {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.t
}

// State returns a copy of the current state.
func (sim *Simulator) State() []float64 {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.state.Value().Slice()
}
