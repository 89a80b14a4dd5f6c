package spec

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/purenv/prng"
)

// Box is a bounded (possibly unbounded in some dimensions) region of
// R^n. Members are flat vectors with Size() elements, each lying in
// [low[i], high[i]]. If the DType is Int, each element must also be
// integral.
type Box struct {
	low   []float64
	high  []float64
	shape []int
	dtype DType
}

// NewBox returns a new Box. The lengths of low and high must equal the
// product of shape. Bounds may be infinite.
func NewBox(low, high []float64, shape []int, dtype DType) (Box, error) {
	if err := checkShape(shape); err != nil {
		return Box{}, fmt.Errorf("newBox: %w", err)
	}
	size := Size(shape)
	if len(shape) == 0 {
		size = len(low)
		shape = []int{size}
	}

	if len(low) != size {
		return Box{}, fmt.Errorf("newBox: shape %v requires %d lower bounds, "+
			"have %d", shape, size, len(low))
	}
	if len(high) != size {
		return Box{}, fmt.Errorf("newBox: shape %v requires %d upper bounds, "+
			"have %d", shape, size, len(high))
	}
	for i := range low {
		if math.IsNaN(low[i]) || math.IsNaN(high[i]) || low[i] > high[i] {
			return Box{}, fmt.Errorf("newBox: illegal bounds [%v, %v] at "+
				"index %d", low[i], high[i], i)
		}
	}
	if dtype != Float64 && dtype != Int {
		return Box{}, fmt.Errorf("newBox: unknown dtype %q", dtype)
	}

	return Box{
		low:   append([]float64(nil), low...),
		high:  append([]float64(nil), high...),
		shape: append([]int(nil), shape...),
		dtype: dtype,
	}, nil
}

// NewUniformBox returns a Box of the given shape with the same bounds
// in every dimension
func NewUniformBox(low, high float64, shape []int, dtype DType) (Box, error) {
	if err := checkShape(shape); err != nil {
		return Box{}, fmt.Errorf("newUniformBox: %w", err)
	}
	size := Size(shape)
	lows := make([]float64, size)
	highs := make([]float64, size)
	for i := 0; i < size; i++ {
		lows[i], highs[i] = low, high
	}
	return NewBox(lows, highs, shape, dtype)
}

func checkShape(shape []int) error {
	for i, dim := range shape {
		if dim < 1 {
			return fmt.Errorf("dimension %d of shape %v must be positive", i,
				shape)
		}
	}
	return nil
}

// Low returns a copy of the lower bounds of the Box
func (b Box) Low() *mat.VecDense {
	return mat.NewVecDense(len(b.low), append([]float64(nil), b.low...))
}

// High returns a copy of the upper bounds of the Box
func (b Box) High() *mat.VecDense {
	return mat.NewVecDense(len(b.high), append([]float64(nil), b.high...))
}

// Contains reports whether x lies within the Box
func (b Box) Contains(x mat.Vector) bool {
	if x == nil || x.Len() != len(b.low) {
		return false
	}

	for i := range b.low {
		v := x.AtVec(i)
		if math.IsNaN(v) || v < b.low[i] || v > b.high[i] {
			return false
		}
		if b.dtype == Int && v != math.Trunc(v) {
			return false
		}
	}
	return true
}

// Sample draws a member of the Box. Bounded dimensions are sampled
// uniformly, half-bounded dimensions from a shifted exponential, and
// unbounded dimensions from a standard normal.
func (b Box) Sample(key prng.Key) *mat.VecDense {
	keys := prng.Split(key, len(b.low))
	sample := make([]float64, len(b.low))

	for i := range sample {
		low, high := b.low[i], b.high[i]
		lowFinite, highFinite := !math.IsInf(low, 0), !math.IsInf(high, 0)

		switch {
		case lowFinite && highFinite && b.dtype == Int:
			sample[i] = math.Min(math.Floor(prng.Uniform(keys[i], low,
				high+1)), high)

		case lowFinite && highFinite:
			sample[i] = prng.Uniform(keys[i], low, high)

		case lowFinite:
			exp := distuv.Exponential{Rate: 1, Src: prng.Source(keys[i])}
			sample[i] = low + exp.Rand()

		case highFinite:
			exp := distuv.Exponential{Rate: 1, Src: prng.Source(keys[i])}
			sample[i] = high - exp.Rand()

		default:
			sample[i] = prng.Normal(keys[i], 0, 1)
		}

		if b.dtype == Int {
			sample[i] = math.Floor(sample[i])
		}
	}

	return mat.NewVecDense(len(sample), sample)
}

// Shape returns the shape of members of the Box
func (b Box) Shape() []int { return append([]int(nil), b.shape...) }

// Size returns the number of elements in a member of the Box
func (b Box) Size() int { return len(b.low) }

// DType returns the element type of the Box
func (b Box) DType() DType { return b.dtype }

// Cardinality returns the cardinality of the Box
func (b Box) Cardinality() Cardinality {
	if b.dtype == Int {
		return DiscreteValues
	}
	return ContinuousValues
}

// Equal reports whether two Boxes describe the same region
func (b Box) Equal(other Box) bool {
	if b.dtype != other.dtype || len(b.shape) != len(other.shape) {
		return false
	}
	for i := range b.shape {
		if b.shape[i] != other.shape[i] {
			return false
		}
	}
	return floats.Same(b.low, other.low) && floats.Same(b.high, other.high)
}

func (b Box) String() string {
	return fmt.Sprintf("Box(low=%v, high=%v, shape=%v, dtype=%v)", b.low,
		b.high, b.shape, b.dtype)
}
