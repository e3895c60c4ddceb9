// Package matx holds small helpers on top of gonum/mat.
package matx

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Ones returns a (m by n) matrix filled with ones
func Ones(m, n int) *mat.Dense {
	return Full(m, n, 1.)
}

// Full returns a (m by n) matrix filled with value
func Full(m, n int, value float64) *mat.Dense {
	data := make([]float64, m*n)
	for index := range data {
		data[index] = value
	}
	return mat.NewDense(m, n, data)
}

// Eye returns a (m by n) matrix with ones on the k:th diagonal. k > 0 selects a
// diagonal above the main one, k < 0 one below.
func Eye(m, n, k int) *mat.Dense {
	res := mat.NewDense(m, n, nil)
	for row := 0; row < m; row++ {
		if col := row + k; col >= 0 && col < n {
			res.Set(row, col, 1)
		}
	}
	return res
}

// HasNaNOrInf checks if there are any NaN or Inf entries in matrix
func HasNaNOrInf(matrix mat.Matrix) bool {
	m, n := matrix.Dims()
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			if v := matrix.At(row, col); math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}
