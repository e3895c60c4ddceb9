// Package vectortest provides a conformance suite for implementations of
// vector.Interface.
package vectortest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammal/systems/vector"
)

// Factory returns a new vector holding a copy of values.
type Factory func(values []float64) vector.Interface[float64]

// Run checks that the vectors built by newVector satisfy the signal vector
// contract.
func Run(t *testing.T, newVector Factory) {
	t.Helper()

	t.Run("SizeIsStable", func(t *testing.T) {
		for _, n := range []int{0, 1, 3, 17} {
			v := newVector(make([]float64, n))
			require.Equal(t, n, v.Size())
			require.Equal(t, v.Size(), v.Size())
			require.Equal(t, n, v.Value().Len())
			require.Equal(t, n, v.MutableValue().Len())
		}
	})

	t.Run("SetValue", func(t *testing.T) {
		v := newVector([]float64{1, 2, 3})
		require.NoError(t, v.SetValue([]float64{4, 5, 6}))
		assert.Equal(t, []float64{4, 5, 6}, v.Value().Slice())
	})

	t.Run("SetValueDoesNotRetainInput", func(t *testing.T) {
		v := newVector([]float64{0, 0})
		in := []float64{1, 2}
		require.NoError(t, v.SetValue(in))
		in[0] = 99
		assert.Equal(t, []float64{1, 2}, v.Value().Slice())
	})

	t.Run("CopyBetweenVectors", func(t *testing.T) {
		a := newVector([]float64{0, 0, 0, 0})
		b := newVector([]float64{-1, 0.5, 3, 1e9})
		require.NoError(t, a.SetValue(b.Value().Slice()))
		assert.True(t, vector.Equal(a.Value(), b.Value()))

		c := newVector([]float64{7, 7, 7, 7})
		require.NoError(t, vector.Copy(c, b))
		assert.True(t, vector.Equal(c.Value(), b.Value()))

		// Copies are by value, not by handle.
		b.MutableValue().Set(0, 42)
		assert.Equal(t, -1.0, a.Value().At(0))
		assert.Equal(t, -1.0, c.Value().At(0))
	})

	t.Run("LengthMismatchRejected", func(t *testing.T) {
		tests := []struct {
			name  string
			value []float64
		}{
			{"shorter", []float64{1, 2}},
			{"longer", []float64{1, 2, 3, 4}},
			{"empty", nil},
		}
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				v := newVector([]float64{1, 2, 3})
				err := v.SetValue(test.value)
				require.ErrorIs(t, err, vector.ErrDimensionMismatch)

				var dimErr *vector.DimensionError
				require.ErrorAs(t, err, &dimErr)
				assert.Equal(t, 3, dimErr.Want)
				assert.Equal(t, len(test.value), dimErr.Got)

				assert.Equal(t, 3, v.Size())
				assert.Equal(t, []float64{1, 2, 3}, v.Value().Slice())
			})
		}
	})

	t.Run("CopyMismatchRejected", func(t *testing.T) {
		a := newVector([]float64{1, 2, 3})
		b := newVector([]float64{1, 2})
		require.ErrorIs(t, vector.Copy(a, b), vector.ErrDimensionMismatch)
		assert.Equal(t, []float64{1, 2, 3}, a.Value().Slice())
	})

	t.Run("MutationVisible", func(t *testing.T) {
		v := newVector([]float64{0, 0})
		v.MutableValue().Set(1, 7.5)
		assert.Equal(t, []float64{0, 7.5}, v.Value().Slice())

		w := newVector([]float64{1, 2, 3, 4, 5})
		for i := 0; i < w.Size(); i++ {
			before := w.Value().Slice()
			w.MutableValue().Set(i, -1)
			after := w.Value().Slice()
			for j := range after {
				if j == i {
					assert.Equal(t, -1.0, after[j])
				} else {
					assert.Equal(t, before[j], after[j])
				}
			}
		}
	})

	t.Run("MutableViewCannotResize", func(t *testing.T) {
		v := newVector([]float64{1, 2, 3})
		mv := v.MutableValue()
		assert.Panics(t, func() { mv.Set(3, 4) })
		assert.Panics(t, func() { _ = mv.At(-1) })
		assert.Equal(t, 3, v.Size())
		assert.Equal(t, []float64{1, 2, 3}, v.Value().Slice())
	})

	t.Run("SliceIsACopy", func(t *testing.T) {
		v := newVector([]float64{1, 2, 3})
		s := v.Value().Slice()
		s[0] = 100
		s = append(s, 4)
		assert.Len(t, s, 4)
		assert.Equal(t, []float64{1, 2, 3}, v.Value().Slice())
	})
}
