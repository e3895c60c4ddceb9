package ode

import (
	"context"

	"github.com/hammal/systems/signal"
	"github.com/hammal/systems/vector"
)

// DefaultTolerance is the local error tolerance used by Integrate.
const DefaultTolerance = 1e-9

// NumericalIntegration turns a signal into a system whose derivative is the
// signal itself, so that integrating the system integrates the signal.
type NumericalIntegration struct {
	derivative signal.Signal
	size       int
}

// NewNumericalIntegration returns the integral of a signal of the given size.
func NewNumericalIntegration(s signal.Signal, size int) NumericalIntegration {
	return NumericalIntegration{derivative: s, size: size}
}

// Derivative samples the signal at time t.
func (nI NumericalIntegration) Derivative(t float64, state vector.View[float64], dst vector.Interface[float64]) error {
	return nI.derivative.Sample(t, dst)
}

// StateSpaceOrder returns the size of the signal.
func (nI NumericalIntegration) StateSpaceOrder() int {
	return nI.size
}

// Integrate returns the integral of the signal from from to to, computed with
// the adaptive Fehlberg method.
func (nI NumericalIntegration) Integrate(ctx context.Context, from, to float64) (*vector.Dense, error) {
	res := vector.NewDense(nI.size)
	if err := NewFehlberg45().AdaptiveStep(ctx, from, to, DefaultTolerance, res, nI); err != nil {
		return nil, err
	}
	return res, nil
}
