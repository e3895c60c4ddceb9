package vector

// Basic is a signal vector that owns a plain slice of scalars. It is the
// simplest implementation of Interface and works for any scalar type.
type Basic[T any] struct {
	_     noCopy
	value []T
}

// NewBasic returns a zero valued vector of length n. It panics if n is
// negative.
func NewBasic[T any](n int) *Basic[T] {
	if n < 0 {
		panic("vector: negative size")
	}
	return &Basic[T]{value: make([]T, n)}
}

// BasicFrom returns a vector holding a copy of values.
func BasicFrom[T any](values ...T) *Basic[T] {
	b := NewBasic[T](len(values))
	copy(b.value, values)
	return b
}

// Size returns the length of the vector.
func (b *Basic[T]) Size() int { return len(b.value) }

// SetValue copies value into the vector.
func (b *Basic[T]) SetValue(value []T) error {
	if len(value) != len(b.value) {
		return &DimensionError{Want: len(b.value), Got: len(value)}
	}
	copy(b.value, value)
	return nil
}

// Value returns a read-only view of the vector.
func (b *Basic[T]) Value() View[T] { return NewView(b.value) }

// MutableValue returns a writable, fixed-length view of the vector.
func (b *Basic[T]) MutableValue() MutableView[T] { return NewMutableView(b.value) }
