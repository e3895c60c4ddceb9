package vector_test

import (
	"errors"
	"fmt"

	"github.com/hammal/systems/vector"
)

func ExampleCopy() {
	state := vector.DenseFrom(1, 2, 3)
	input := vector.NewBasic[float64](3)

	if err := vector.Copy[float64](input, state); err != nil {
		fmt.Println(err)
	}
	fmt.Println(input.Value().Slice())

	err := input.SetValue([]float64{1, 2})
	fmt.Println(errors.Is(err, vector.ErrDimensionMismatch), input.Size())
	// Output:
	// [1 2 3]
	// true 3
}
