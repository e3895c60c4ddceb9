// Package vector defines the contract for real-valued signals passed between
// systems of a simulation, for instance the state, input and observation of a
// state space model:
//
//	x'(t) = A x(t) + B u(t)
//	y(t)  = C x(t)
//
// Each of x, u and y is a signal vector. The Interface decouples the shape and
// storage of such a vector from whatever named fields or derived quantities a
// concrete type may add, so generic code can copy and mutate signals without
// knowing their concrete type.
//
// A signal vector is always a column vector of fixed length. The only bulk
// write path is SetValue, which rejects values of the wrong length with
// ErrDimensionMismatch and leaves the vector untouched.
//
// Signal vectors do no locking. Exactly one owner may mutate an instance at a
// time, and views returned by Value must not be held across a mutation.
package vector

// Interface is satisfied by every signal vector. Implementations are handles:
// they have pointer receivers and must not be copied by value, use SetValue to
// copy the contents of one vector into another.
//
// After a.SetValue(b.Value().Slice()), a is element-wise identical to b.
type Interface[T any] interface {
	// Size returns the number of entries. It never changes for a live vector.
	Size() int
	// SetValue replaces the whole value. It returns a *DimensionError
	// matching ErrDimensionMismatch if len(value) != Size(), in which case the
	// vector is left unchanged. The vector does not retain value.
	SetValue(value []T) error
	// Value returns a read-only view of the current value, valid until the
	// next mutation.
	Value() View[T]
	// MutableValue returns a view that allows changing the entries but not
	// the length of the vector.
	MutableValue() MutableView[T]
}

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527 for details.
type noCopy struct{}

// Lock is a no-op used by go vet's copylocks checker.
func (*noCopy) Lock() {}

// Unlock is a no-op used by go vet's copylocks checker.
func (*noCopy) Unlock() {}

// Copy sets dst to the value of src.
func Copy[T any](dst, src Interface[T]) error {
	if dst.Size() != src.Size() {
		return &DimensionError{Want: dst.Size(), Got: src.Size()}
	}
	return dst.SetValue(src.Value().data)
}

// Equal reports whether two views have the same length and entries.
func Equal[T comparable](a, b View[T]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}
