package vector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hammal/systems/vector"
)

func TestViewAliasesUntilMutation(t *testing.T) {
	v := vector.BasicFrom(1.0, 2.0)
	view := v.Value()
	v.MutableValue().Set(0, 3)
	assert.Equal(t, 3.0, view.At(0))

	snapshot := v.Value().Slice()
	v.MutableValue().Fill(0)
	assert.Equal(t, []float64{3, 2}, snapshot)
	assert.Equal(t, []float64{0, 0}, v.Value().Slice())
}

func TestViewCopyTo(t *testing.T) {
	view := vector.NewView([]float64{1, 2, 3})
	dst := make([]float64, 2)
	assert.Equal(t, 2, view.CopyTo(dst))
	assert.Equal(t, []float64{1, 2}, dst)
}

func TestMutableViewView(t *testing.T) {
	data := []float64{1, 2}
	mv := vector.NewMutableView(data)
	mv.Set(1, 5)
	assert.Equal(t, []float64{1, 5}, mv.View().Slice())
	assert.Equal(t, 5.0, data[1])
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want bool
	}{
		{"equal", []float64{1, 2}, []float64{1, 2}, true},
		{"different entry", []float64{1, 2}, []float64{1, 3}, false},
		{"different length", []float64{1, 2}, []float64{1}, false},
		{"both empty", nil, []float64{}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, vector.Equal(vector.NewView(test.a), vector.NewView(test.b)))
		})
	}
}
