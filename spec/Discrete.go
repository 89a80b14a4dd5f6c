package spec

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/prng"
)

// Discrete is the space of the integers {0, 1, ..., N-1}. Members are
// vectors of length 1 holding an integral value.
type Discrete struct {
	N int
}

// NewDiscrete returns a new Discrete space with n elements
func NewDiscrete(n int) (Discrete, error) {
	if n <= 0 {
		return Discrete{}, fmt.Errorf("newDiscrete: n must be positive, "+
			"have %d", n)
	}
	return Discrete{N: n}, nil
}

// Contains reports whether x is a length 1 vector holding an integer in
// [0, N)
func (d Discrete) Contains(x mat.Vector) bool {
	if x == nil || x.Len() != 1 {
		return false
	}
	v := x.AtVec(0)
	if v != math.Trunc(v) {
		return false
	}
	return v >= 0 && v < float64(d.N)
}

// Sample draws an element of the space uniformly at random
func (d Discrete) Sample(key prng.Key) *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(prng.Intn(key, d.N))})
}

// Shape returns the shape of members of the space
func (d Discrete) Shape() []int { return []int{1} }

// Size returns the length of members of the space
func (d Discrete) Size() int { return 1 }

// DType returns the element type of the space
func (d Discrete) DType() DType { return Int }

// Cardinality returns the cardinality of the space
func (d Discrete) Cardinality() Cardinality { return DiscreteValues }

func (d Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", d.N)
}
