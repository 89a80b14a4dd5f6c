// Package tensorutils implements utilities for working with tensors
package tensorutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Slice implements a struct that can be used for slicing tensors.
//
// Given a tensor T and a Slice S, T.Slice(..., S, ...) is equivalent to
// T[..., S.start:S.end:S.step, ...]
type Slice struct {
	start, end, step int
}

// Start returns the start index for the tensor slice
func (s Slice) Start() int {
	return s.start
}

// End returns the ending index for the tensor slice
func (s Slice) End() int {
	return s.end
}

// Step returns the step for the tensor slice
func (s Slice) Step() int {
	return s.step
}

// NewSlice returns a new Slice that can be used to slice tensors
func NewSlice(start, stop, step int) Slice {
	return Slice{start, stop, step}
}

// Stack stacks equally sized vectors along a new leading axis into a
// tensor of shape [len(rows), shape...]. The product of shape must
// equal the length of each row.
func Stack(rows []*mat.VecDense, shape []int) (*tensor.Dense, error) {
	size := 1
	for _, dim := range shape {
		size *= dim
	}

	backing := make([]float64, 0, len(rows)*size)
	for i, row := range rows {
		if row.Len() != size {
			return nil, fmt.Errorf("stack: row %d has length %d, want %d",
				i, row.Len(), size)
		}
		for j := 0; j < row.Len(); j++ {
			backing = append(backing, row.AtVec(j))
		}
	}

	dims := append([]int{len(rows)}, shape...)
	return tensor.New(tensor.WithShape(dims...), tensor.WithBacking(backing)),
		nil
}

// Row returns a copy of the i-th slice along the leading axis of t,
// flattened into a vector
func Row(t *tensor.Dense, i int) (*mat.VecDense, error) {
	if t.Dims() == 0 || i < 0 || i >= t.Shape()[0] {
		return nil, fmt.Errorf("row: index %d out of range for shape %v", i,
			t.Shape())
	}

	view, err := t.Slice(NewSlice(i, i+1, 1))
	if err != nil {
		return nil, fmt.Errorf("row: %w", err)
	}

	// Rows holding a single element may be reduced to a scalar
	var row []float64
	switch data := view.Materialize().Data().(type) {
	case []float64:
		row = append(row, data...)
	case float64:
		row = []float64{data}
	default:
		return nil, fmt.Errorf("row: tensor of type %v is not float64",
			t.Dtype())
	}
	return mat.NewVecDense(len(row), row), nil
}
