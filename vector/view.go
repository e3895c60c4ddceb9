package vector

// View is a read-only, fixed-length window onto the storage of a signal
// vector. It aliases the storage, so it reflects the value at the time it was
// taken only until the owning vector is mutated.
type View[T any] struct {
	data []T
}

// NewView returns a view of data. The caller gives up the right to mutate
// data while the view is in use.
func NewView[T any](data []T) View[T] {
	return View[T]{data: data[:len(data):len(data)]}
}

// Len returns the number of entries.
func (v View[T]) Len() int { return len(v.data) }

// At returns entry i. It panics if i is out of range.
func (v View[T]) At(i int) T { return v.data[i] }

// CopyTo copies the entries into dst and returns the number copied.
func (v View[T]) CopyTo(dst []T) int { return copy(dst, v.data) }

// Slice returns a copy of the entries.
func (v View[T]) Slice() []T {
	res := make([]T, len(v.data))
	copy(res, v.data)
	return res
}

// MutableView allows changing the entries of a signal vector in place. There
// is no way to change the length through it.
type MutableView[T any] struct {
	data []T
}

// NewMutableView returns a writable view of data.
func NewMutableView[T any](data []T) MutableView[T] {
	return MutableView[T]{data: data[:len(data):len(data)]}
}

// Len returns the number of entries.
func (v MutableView[T]) Len() int { return len(v.data) }

// At returns entry i. It panics if i is out of range.
func (v MutableView[T]) At(i int) T { return v.data[i] }

// Set sets entry i to x. It panics if i is out of range.
func (v MutableView[T]) Set(i int, x T) { v.data[i] = x }

// Fill sets every entry to x.
func (v MutableView[T]) Fill(x T) {
	for i := range v.data {
		v.data[i] = x
	}
}

// View returns a read-only view of the same entries.
func (v MutableView[T]) View() View[T] { return View[T]{data: v.data} }
