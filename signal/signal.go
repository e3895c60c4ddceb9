package signal

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hammal/systems/vector"
)

// Signal holds the signal interface. A signal writes its value at time t into
// a signal vector owned by the caller.
type Signal interface {
	Sample(t float64, dst vector.Interface[float64]) error
}

// Source is a signal of fixed size that can be summed with other sources into
// the input of a state space model.
type Source interface {
	Signal
	Size() int
	// AddTo adds the value at time t to dst.
	AddTo(t float64, dst *vector.Dense) error
}

// LinearSource is a source of the form u(t) B, which lets linear models
// compute their response to an impulse in u.
type LinearSource interface {
	Source
	InputVector() mat.Vector
}

// Constant returns u(t) = amplitude
func Constant(amplitude float64) func(float64) float64 {
	return func(float64) float64 { return amplitude }
}

// Step returns a unit step of height amplitude switching on at t = t0
func Step(t0, amplitude float64) func(float64) float64 {
	return func(t float64) float64 {
		if t < t0 {
			return 0
		}
		return amplitude
	}
}

// Sinusoid returns u(t) = amplitude sin(2 pi frequency t + phase)
func Sinusoid(amplitude, frequency, phase float64) func(float64) float64 {
	return func(t float64) float64 {
		return amplitude * math.Sin(2*math.Pi*frequency*t+phase)
	}
}

// DiracDelta is a Dirac delta distribution as defined in
// https://en.wikipedia.org/wiki/Dirac_delta_function
func DiracDelta(x float64) float64 {
	// These could all be done offline
	var a = 1e-9
	var a2 = a * a
	var C1 = 1. / (math.Abs(a) * math.Sqrt(math.Pi))
	// Return distribution value at x
	return C1 * math.Exp(-x*x/a2)
}
