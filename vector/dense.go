package vector

import (
	"gonum.org/v1/gonum/mat"
)

// Dense is a float64 signal vector stored in a gonum *mat.VecDense, so that
// state space models can do their linear algebra directly on the storage.
type Dense struct {
	_   noCopy
	vec *mat.VecDense
}

// NewDense returns a zero valued vector of length n. It panics if n is
// negative. A length of zero is allowed.
func NewDense(n int) *Dense {
	if n < 0 {
		panic("vector: negative size")
	}
	if n == 0 {
		return &Dense{vec: &mat.VecDense{}}
	}
	return &Dense{vec: mat.NewVecDense(n, nil)}
}

// DenseFrom returns a vector holding a copy of values.
func DenseFrom(values ...float64) *Dense {
	d := NewDense(len(values))
	copy(d.raw(), values)
	return d
}

// DenseCopyOf returns a vector holding a copy of the gonum vector v.
func DenseCopyOf(v mat.Vector) *Dense {
	d := NewDense(v.Len())
	raw := d.raw()
	for i := range raw {
		raw[i] = v.AtVec(i)
	}
	return d
}

func (d *Dense) raw() []float64 {
	if d.vec.IsEmpty() {
		return nil
	}
	return d.vec.RawVector().Data[:d.vec.Len()]
}

// Size returns the length of the vector.
func (d *Dense) Size() int { return d.vec.Len() }

// SetValue copies value into the vector.
func (d *Dense) SetValue(value []float64) error {
	if len(value) != d.vec.Len() {
		return &DimensionError{Want: d.vec.Len(), Got: len(value)}
	}
	copy(d.raw(), value)
	return nil
}

// Value returns a read-only view of the vector.
func (d *Dense) Value() View[float64] { return NewView(d.raw()) }

// MutableValue returns a writable, fixed-length view of the vector.
func (d *Dense) MutableValue() MutableView[float64] { return NewMutableView(d.raw()) }

// Mat returns a read-only gonum view of the vector.
func (d *Dense) Mat() mat.Vector { return Mat(d.Value()) }

// MulVec sets the vector to a x. x must not share storage with the vector.
func (d *Dense) MulVec(a mat.Matrix, x mat.Vector) error {
	r, c := a.Dims()
	if r != d.vec.Len() {
		return &DimensionError{Want: d.vec.Len(), Got: r}
	}
	if c != x.Len() {
		return &DimensionError{Want: c, Got: x.Len()}
	}
	if r == 0 {
		return nil
	}
	d.vec.MulVec(a, x)
	return nil
}

// AddScaledVec sets the vector to itself plus alpha x.
func (d *Dense) AddScaledVec(alpha float64, x mat.Vector) error {
	if x.Len() != d.vec.Len() {
		return &DimensionError{Want: d.vec.Len(), Got: x.Len()}
	}
	if x.Len() == 0 {
		return nil
	}
	d.vec.AddScaledVec(d.vec, alpha, x)
	return nil
}

// Zero sets every entry to zero.
func (d *Dense) Zero() {
	if !d.vec.IsEmpty() {
		d.vec.Zero()
	}
}

// Mat returns a zero-copy gonum mat.Vector backed by v. The result is only
// valid for as long as v is.
func Mat(v View[float64]) mat.Vector {
	return matView{v}
}

type matView struct {
	v View[float64]
}

func (m matView) Dims() (r, c int) { return m.v.Len(), 1 }

func (m matView) At(i, j int) float64 {
	if j != 0 {
		panic(mat.ErrColAccess)
	}
	return m.v.At(i)
}

func (m matView) T() mat.Matrix { return mat.TransposeVec{Vector: m} }

func (m matView) AtVec(i int) float64 { return m.v.At(i) }

func (m matView) Len() int { return m.v.Len() }
