package environment

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/purenv/prng"
)

// CategoricalStarter returns starting states as vectors sampled from
// a multi-dimensional uniform categorical distribution. The categorical
// distributions sample values in (0, 1, 2, ... N-1).
type CategoricalStarter struct {
	weights [][]float64
}

// NewCategoricalStarter returns a new CategoricalStarter, sampling
// dimension i from (0, 1, 2, ... bounds[i]-1)
func NewCategoricalStarter(bounds []int) CategoricalStarter {
	weights := make([][]float64, len(bounds))
	for i := range weights {
		// Create the weights for the uniform categorical distribution
		weights[i] = make([]float64, bounds[i])
		for j := range weights[i] {
			weights[i][j] = 1.0 / float64(bounds[i])
		}
	}

	return CategoricalStarter{weights}
}

// Start returns a starting state vector. Each dimension is sampled with
// its own key split from key.
func (c CategoricalStarter) Start(key prng.Key) *mat.VecDense {
	keys := prng.Split(key, len(c.weights))

	start := make([]float64, len(c.weights))
	for i := range start {
		dist := distuv.NewCategorical(c.weights[i], prng.Source(keys[i]))
		start[i] = dist.Rand()
	}

	return mat.NewVecDense(len(start), start)
}
