// Package ode is a ordinary differential equation library that implements the
// Runge-Kutta methods https://en.wikipedia.org/wiki/Runge–Kutta_methods.
// The state of the integrated system is a signal vector which is advanced in
// place.
package ode

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/hammal/systems/vector"
)

// MaxIterations bounds the number of consecutive rejected trial steps
// AdaptiveStep makes before giving up.
const MaxIterations = 10000

// ErrNoConvergence is returned when AdaptiveStep cannot meet the error
// tolerance within MaxIterations consecutive trial steps.
var ErrNoConvergence = errors.New("ode: maximum number of iterations reached, adaptive Runge-Kutta doesn't converge")

// System is a differentiable system whose state is a signal vector.
type System interface {
	Derivative(t float64, state vector.View[float64], dst vector.Interface[float64]) error
	StateSpaceOrder() int
}

// Integrator advances the state of a system from one time to another.
type Integrator interface {
	Step(from, to float64, state vector.Interface[float64], system System) (float64, error)
}

// RungeKutta holds the butcherTableau which describes the Runge Kutta method.
type RungeKutta struct {
	description butcherTableau
}

// Stages returns the number of derivative evaluations per step.
func (rk RungeKutta) Stages() int { return rk.description.stages }

// Adaptive reports whether the method carries an embedded error estimate.
func (rk RungeKutta) Adaptive() bool { return len(rk.description.weights) == 2 }

// Step computes the update for a Runge-Kutta system based on a current value at t = from,
// a target time t = to, a initial value x(t=from) = state and a system model.
// When the algorithm is finished the result is copied into state, which is left
// untouched on error. The returned value is the L1 norm of the local error
// estimate, zero for methods without an embedded estimate.
func (rk RungeKutta) Step(from, to float64, state vector.Interface[float64], system System) (float64, error) {
	M := state.Size()
	if n := system.StateSpaceOrder(); n != M {
		return 0, fmt.Errorf("ode: state: %w", &vector.DimensionError{Want: n, Got: M})
	}
	x0 := state.Value().Slice()
	// The precomputed derivative points
	K := make([][]float64, rk.description.stages)
	derivative := vector.NewBasic[float64](M)
	intermediate := make([]float64, M)
	// Step length
	h := to - from
	for index := range K {
		// Compute the relevant vector by combining previously computed derivative points
		// according to Butcher Tableau.
		copy(intermediate, x0)
		for index2, a := range rk.description.rungeKuttaMatrix[index] {
			floats.AddScaled(intermediate, h*a, K[index2])
		}
		if err := system.Derivative(from+h*rk.description.nodes[index], vector.NewView(intermediate), derivative); err != nil {
			return 0, err
		}
		K[index] = derivative.Value().Slice()
	}

	next := make([]float64, M)
	copy(next, x0)
	errVector := make([]float64, M)
	// Sum up the different contributions with relevant weights.
	for index, k := range K {
		floats.AddScaled(next, h*rk.description.weights[0][index], k)
		// If the Butcher Tableau allows for adaptive error computation
		if rk.Adaptive() {
			floats.AddScaled(errVector, h*(rk.description.weights[1][index]-rk.description.weights[0][index]), k)
		}
	}
	if err := state.SetValue(next); err != nil {
		return 0, err
	}
	if M == 0 {
		return 0, nil
	}
	return floats.Norm(errVector, 1), nil
}

// AdaptiveStep implements an adaptive version which for a
// given error tolerance tol makes recursive steps such that the local error
// never exceeds the error specification. A rejected step is retried with half
// the step length, an accepted one lets the next step try twice the length.
// state is only written on success.
func (rk RungeKutta) AdaptiveStep(ctx context.Context, from, to, tol float64, state vector.Interface[float64], system System) error {
	var (
		tnow, tnext float64
		// consecutive rejected trials
		count int
	)
	current := vector.BasicFrom(state.Value().Slice()...)
	trial := vector.NewBasic[float64](state.Size())

	// Initialize current time and step length
	tnow = from
	h := to - from

	// Repeat until time to is reached
	for tnow < to {
		if err := ctx.Err(); err != nil {
			return err
		}
		if count >= MaxIterations {
			return ErrNoConvergence
		}
		// Set target time
		tnext = tnow + h
		if tnext > to {
			tnext = to
		}
		// The step length underflowed without meeting the tolerance
		if tnext <= tnow {
			return ErrNoConvergence
		}
		if err := vector.Copy[float64](trial, current); err != nil {
			return err
		}
		currentError, err := rk.Step(tnow, tnext, trial, system)
		if err != nil {
			return err
		}
		// Has the target error been achieved?
		if !(currentError < tol) {
			// Half the integration interval and try again
			h = (tnext - tnow) / 2.
			count++
			continue
		}
		// Save this state and update tnow
		if err := vector.Copy[float64](current, trial); err != nil {
			return err
		}
		h = 2 * (tnext - tnow)
		tnow = tnext
		count = 0
	}
	return vector.Copy[float64](state, current)
}

// NewRK4 function returns a forth order Runge-Kutta object
func NewRK4() *RungeKutta {
	var temp butcherTableau
	temp.stages = 4
	temp.nodes = []float64{0, 1. / 2., 1. / 2., 1}
	temp.weights = [][]float64{{1. / 6., 1. / 3., 1. / 3., 1. / 6.}}
	temp.rungeKuttaMatrix = [][]float64{
		nil,
		{1. / 2.},
		{0, 1. / 2.},
		{0, 0, 1.},
	}
	return &RungeKutta{temp}
}

// NewEulerMethod returns a pointer to a Runge-Kutta that does the Euler method.
func NewEulerMethod() *RungeKutta {
	var temp butcherTableau
	temp.stages = 1
	temp.nodes = []float64{0}
	temp.weights = [][]float64{{1}}
	temp.rungeKuttaMatrix = [][]float64{nil}
	return &RungeKutta{temp}
}

// butcherTableau which describes the approximate solution, see https://en.wikipedia.org/wiki/Runge–Kutta_methods.
type butcherTableau struct {
	stages           int
	weights          [][]float64
	nodes            []float64
	rungeKuttaMatrix [][]float64
}

// NewFehlberg45 implements https://en.wikipedia.org/wiki/Runge%E2%80%93Kutta%E2%80%93Fehlberg_method
func NewFehlberg45() *RungeKutta {
	var temp butcherTableau
	temp.stages = 6
	temp.nodes = []float64{0, 1. / 4., 3. / 8., 12. / 13., 1., 1. / 2.}
	temp.weights = [][]float64{
		{16. / 135., 0, 6656. / 12825., 28561. / 56430., -9. / 50., 2. / 55.},
		{25. / 216., 0, 1408. / 2565., 2197. / 4104., -1. / 5., 0},
	}
	temp.rungeKuttaMatrix = [][]float64{
		nil,
		{1. / 4.},
		{3. / 32., 9. / 32.},
		{1932. / 2197., -7200. / 2197., 7296. / 2197.},
		{439. / 216., -8., 3680. / 513., -845. / 4104.},
		{-8. / 27., 2, -3544. / 2565., 1859. / 4104., -11. / 40.},
	}
	return &RungeKutta{temp}
}
