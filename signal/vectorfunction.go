package signal

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hammal/systems/vector"
)

// VectorFunction is an input abstraction that instead of returning
// a scalar associates each argument with a vector valued output. For instance
// in the state space model:
// X'(t) = AX(t) + BU(t)
// BU(t) is a vectorial function decomposed as a scalar function U(t)-> Reals
// and a vector B \in Reals^N. Where N is the dimension of the state space.
type VectorFunction struct {
	U func(float64) float64
	B *vector.Dense
}

var _ LinearSource = VectorFunction{}

// NewInput returns a new VectorFunction object
// initialised with u(t) and B
func NewInput(u func(float64) float64, B *vector.Dense) VectorFunction {
	return VectorFunction{u, B}
}

// Size returns the length of B
func (vf VectorFunction) Size() int {
	return vf.B.Size()
}

// Sample writes u(t) B into dst
func (vf VectorFunction) Sample(t float64, dst vector.Interface[float64]) error {
	if dst.Size() != vf.B.Size() {
		return &vector.DimensionError{Want: vf.B.Size(), Got: dst.Size()}
	}
	u := vf.U(t)
	b := vf.B.Value()
	out := dst.MutableValue()
	for i := 0; i < b.Len(); i++ {
		out.Set(i, u*b.At(i))
	}
	return nil
}

// AddTo adds u(t) B to dst
func (vf VectorFunction) AddTo(t float64, dst *vector.Dense) error {
	return dst.AddScaledVec(vf.U(t), vf.B.Mat())
}

// InputVector returns B
func (vf VectorFunction) InputVector() mat.Vector {
	return vf.B.Mat()
}

// Bu is an alias in the state space model:
//
// Ax + Bu(t)
// where Bu(t) is a vectorial function. The result is newly allocated.
func (vf VectorFunction) Bu(t float64) mat.Vector {
	var res mat.VecDense
	res.ScaleVec(vf.U(t), vf.B.Mat())
	return &res
}
