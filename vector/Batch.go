package vector

import (
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/purenv/spec"
	ts "github.com/samuelfneumann/purenv/timestep"
	"github.com/samuelfneumann/purenv/utils/tensorutils"
)

// Batch holds the TimeSteps of a batch of trajectories along with the
// per-field views of them that batched consumers expect
type Batch struct {
	Steps []ts.TimeStep

	// Observations stacks the observations along a new leading axis,
	// giving shape [N, observation shape...]. It is nil for an empty
	// batch.
	Observations *tensor.Dense

	Rewards   []float64
	Discounts []float64
	Dones     []bool
	Infos     []ts.Info
}

// newBatch gathers steps into a Batch. Every observation must fit the
// observation shape.
func newBatch(steps []ts.TimeStep, shape []int) (Batch, error) {
	n := len(steps)
	b := Batch{
		Steps:     steps,
		Rewards:   make([]float64, n),
		Discounts: make([]float64, n),
		Dones:     make([]bool, n),
		Infos:     make([]ts.Info, n),
	}

	size := spec.Size(shape)
	observations := make([]*mat.VecDense, n)
	for i, step := range steps {
		if step.Observation == nil || step.Observation.Len() != size {
			have := 0
			if step.Observation != nil {
				have = step.Observation.Len()
			}
			return Batch{}, &ShapeMismatchError{
				Field: "observation",
				Index: i,
				Want:  shape,
				Have:  []int{have},
			}
		}

		observations[i] = step.Observation
		b.Rewards[i] = step.Reward
		b.Discounts[i] = step.Discount
		b.Dones[i] = step.Done()
		b.Infos[i] = step.Info
	}

	if n > 0 {
		obs, err := tensorutils.Stack(observations, shape)
		if err != nil {
			return Batch{}, err
		}
		b.Observations = obs
	}
	return b, nil
}

// Len returns the number of trajectories in the batch
func (b Batch) Len() int {
	return len(b.Steps)
}

// Observation returns a flattened copy of the i-th observation of the
// stacked Observations
func (b Batch) Observation(i int) (*mat.VecDense, error) {
	if b.Observations == nil {
		return nil, &ShapeMismatchError{Field: "observation", Index: i}
	}
	return tensorutils.Row(b.Observations, i)
}
