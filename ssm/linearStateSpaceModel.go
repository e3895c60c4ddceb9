package ssm

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/hammal/systems/internal/matx"
	"github.com/hammal/systems/signal"
	"github.com/hammal/systems/vector"
)

// LinearStateSpaceModel struct represent the system
//
// x'(t) = A x(t) + B input[0](t) ... + B input[N](t)
//
// y(t) = C x(t)
//
// where N is the number of inputs
type LinearStateSpaceModel struct {
	// State Dynamics
	A mat.Matrix
	// Observation matrix
	C mat.Matrix
	// List of input functions
	Input []signal.Source
}

// NewIntegratorChain returns a linear state space model of an integrator chain
// of size N with input. The single observation is the sum of all states.
func NewIntegratorChain(N int, stageGain float64, input []signal.Source) (*LinearStateSpaceModel, error) {
	if N <= 0 {
		return nil, fmt.Errorf("ssm: integrator chain of order %d", N)
	}
	A := matx.Eye(N, N, -1)
	A.Scale(stageGain, A)
	C := matx.Ones(1, N)
	return NewLinearStateSpaceModel(A, C, input)
}

// NewLinearStateSpaceModel creates a new Linear state space model and checks
// that the system parameters match.
func NewLinearStateSpaceModel(A, C mat.Matrix, input []signal.Source) (*LinearStateSpaceModel, error) {
	m, n := A.Dims()
	if m != n {
		return nil, fmt.Errorf("ssm: A is %dx%d: %w", m, n, &vector.DimensionError{Want: m, Got: n})
	}
	if _, nC := C.Dims(); nC != m {
		return nil, fmt.Errorf("ssm: C columns: %w", &vector.DimensionError{Want: m, Got: nC})
	}
	for i, inp := range input {
		if inp.Size() != m {
			return nil, fmt.Errorf("ssm: input %d: %w", i, &vector.DimensionError{Want: m, Got: inp.Size()})
		}
	}
	if matx.HasNaNOrInf(A) || matx.HasNaNOrInf(C) {
		return nil, ErrNotFinite
	}
	return &LinearStateSpaceModel{A, C, input}, nil
}

func (model *LinearStateSpaceModel) checkState(state vector.View[float64]) error {
	if n := model.StateSpaceOrder(); state.Len() != n {
		return fmt.Errorf("ssm: state: %w", &vector.DimensionError{Want: n, Got: state.Len()})
	}
	return nil
}

// Derivative writes the state derivative
// x'(t) = Ax(t) + Bu(t)
// into dst, where state = x(t) at an arbitrary time t. state and dst may be
// the same vector.
func (model *LinearStateSpaceModel) Derivative(t float64, state vector.View[float64], dst vector.Interface[float64]) error {
	if err := model.checkState(state); err != nil {
		return err
	}
	res := vector.NewDense(model.StateSpaceOrder())
	// A x(t)
	if err := res.MulVec(model.A, vector.Mat(state)); err != nil {
		return err
	}
	// B input[0](t) ... + B input[N](t)
	for _, input := range model.Input {
		if err := input.AddTo(t, res); err != nil {
			return err
		}
	}
	return vector.Copy[float64](dst, res)
}

// Observation writes the observed state
// y(t) = C x(t)
// into dst, where state = x(t) and t is an arbitrary time.
func (model *LinearStateSpaceModel) Observation(t float64, state vector.View[float64], dst vector.Interface[float64]) error {
	if err := model.checkState(state); err != nil {
		return err
	}
	res := vector.NewDense(model.ObservationSpaceOrder())
	if err := res.MulVec(model.C, vector.Mat(state)); err != nil {
		return err
	}
	return vector.Copy[float64](dst, res)
}

// StateSpaceOrder returns the number of states.
func (model *LinearStateSpaceModel) StateSpaceOrder() int {
	m, _ := model.A.Dims()
	return m
}

// ObservationSpaceOrder returns the number of observations.
func (model *LinearStateSpaceModel) ObservationSpaceOrder() int {
	m, _ := model.C.Dims()
	return m
}

// InputSpaceOrder returns the number of inputs.
func (model *LinearStateSpaceModel) InputSpaceOrder() int {
	return len(model.Input)
}

// computeStateTransition computes the e^(At) where A is a square matrix and
// t is a scalar.
func computeStateTransition(t float64, m *mat.Dense) {
	m.Scale(t, m)
	m.Exp(m)
}

// ImpulseResponse computes the impulse response of the system and returns it in
// an array [numberOfObservations][numberOfInputs][tap at time t]float64
func (model *LinearStateSpaceModel) ImpulseResponse(ctx context.Context, t []float64) ([][][]float64, error) {
	numberOfTaps := len(t)
	numberOfObservations := model.ObservationSpaceOrder()
	numberOfInputs := model.InputSpaceOrder()

	// Initialise an 3D array --> (numberOfObservations X numberOfInputs X numberOfTaps)
	res := make([][][]float64, numberOfObservations)
	for obs := range res {
		res[obs] = make([][]float64, numberOfInputs)
		for inp := range res[obs] {
			res[obs][inp] = make([]float64, numberOfTaps)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for index, time := range t {
		// Each tap writes a disjoint column of res
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var tmp, tmp2 mat.Dense
			tmp.CloneFrom(model.A)
			// tmp = e^(A t)
			computeStateTransition(time, &tmp)
			// C e^(A t)
			tmp2.Mul(model.C, &tmp)
			var response mat.VecDense
			for inp, input := range model.Input {
				linear, ok := input.(signal.LinearSource)
				if !ok {
					return fmt.Errorf("input %d: %w", inp, ErrNotLinear)
				}
				response.MulVec(&tmp2, linear.InputVector())
				for obs := range res {
					res[obs][inp][index] = response.AtVec(obs)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ssm.ImpulseResponse: %w", err)
	}
	return res, nil
}
