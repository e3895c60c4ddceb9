// Package ssm holds continuous time state space models whose state,
// derivative and observation are signal vectors owned by the caller.
package ssm

import (
	"errors"

	"github.com/hammal/systems/vector"
)

// ErrNotFinite is returned when a model parameter holds NaN or Inf entries.
var ErrNotFinite = errors.New("ssm: parameter is not finite")

// ErrNotLinear is returned when an impulse response is requested for a model
// driven by an input that is not of the form u(t) B.
var ErrNotLinear = errors.New("ssm: input is not linear")

// StateSpaceModel interface has two parts:
//
// 1) The derivative function which writes the differential state evaluated at
// time t and state(t) into dst.
//
// 2) The observation function which writes y(t) into dst.
//
// Both return vector.ErrDimensionMismatch when the vectors do not match the
// model orders.
type StateSpaceModel interface {
	Derivative(t float64, state vector.View[float64], dst vector.Interface[float64]) error
	Observation(t float64, state vector.View[float64], dst vector.Interface[float64]) error
	// Returns the state space order
	StateSpaceOrder() int
	// Returns the observation space order.
	ObservationSpaceOrder() int
	// Returns the input space Order
	InputSpaceOrder() int
}
