package environment

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/samuelfneumann/purenv/prng"
)

// Starter samples starting state vectors for environments. The same
// key always produces the same starting vector.
type Starter interface {
	Start(key prng.Key) *mat.VecDense
}

// UniformStarter returns starting states as vectors sampled uniformly
// from a box. Dimensions with equal bounds are fixed.
type UniformStarter struct {
	bounds []r1.Interval
}

// NewUniformStarter returns a new UniformStarter sampling dimension i
// uniformly from bounds[i]
func NewUniformStarter(bounds []r1.Interval) UniformStarter {
	return UniformStarter{append([]r1.Interval(nil), bounds...)}
}

// Start returns a starting state vector
func (u UniformStarter) Start(key prng.Key) *mat.VecDense {
	features := len(u.bounds)

	// distmv.Uniform rejects degenerate intervals, so fixed dimensions
	// are filled in separately
	var free []r1.Interval
	for _, b := range u.bounds {
		if b.Min != b.Max {
			free = append(free, b)
		}
	}

	var sampled []float64
	if len(free) > 0 {
		sampled = distmv.NewUniform(free, prng.Source(key)).Rand(nil)
	}

	start := make([]float64, features)
	for i, j := 0, 0; i < features; i++ {
		if u.bounds[i].Min == u.bounds[i].Max {
			start[i] = u.bounds[i].Min
			continue
		}
		start[i] = sampled[j]
		j++
	}

	return mat.NewVecDense(features, start)
}
