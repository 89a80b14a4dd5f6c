// Package spec implements space descriptors, which declare the domain
// of the actions and observations of an environment. Spaces are used
// to validate actions and to build policies; they never take part in
// an environment's dynamics.
package spec

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/prng"
)

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	ContinuousValues Cardinality = "Continuous"
	DiscreteValues   Cardinality = "Discrete"
)

// DType is the element type of the values in a space
type DType string

const (
	Float64 DType = "float64"
	Int     DType = "int"
)

// Space describes the set of legal values for an action or observation.
// All values in a space are flat vectors whose length is the product of
// Shape().
type Space interface {
	fmt.Stringer

	// Contains reports whether x is a member of the space
	Contains(x mat.Vector) bool

	// Sample draws a member of the space uniformly at random
	Sample(key prng.Key) *mat.VecDense

	// Shape returns the logical shape of values in the space
	Shape() []int

	// Size returns the number of elements in a flattened value
	Size() int

	DType() DType
	Cardinality() Cardinality
}

// Size returns the number of elements described by shape
func Size(shape []int) int {
	size := 1
	for _, dim := range shape {
		size *= dim
	}
	return size
}
