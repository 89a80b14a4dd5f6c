package pendulum

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	"github.com/samuelfneumann/purenv/timestep"
)

// ContinuousName is the registered name of the continuous variant
const ContinuousName string = "Pendulum"

// Continuous implements the Pendulum environment with continuous
// actions. Actions are 1-dimensional and give the torque to apply to
// the pendulum at its fixed base, bounded by the torque bound in the
// Params. With validation skipped, actions are clipped to the bounds.
type Continuous struct {
	base
}

// NewContinuous returns a new continuous action Pendulum environment
func NewContinuous() Continuous {
	return Continuous{}
}

// Name returns the name of the environment
func (Continuous) Name() string { return ContinuousName }

// ActionSpace returns the action space of the environment
func (Continuous) ActionSpace(p environment.Params) spec.Space {
	params, ok := p.(Params)
	if !ok {
		params = DefaultParams()
	}

	space, _ := spec.NewBox([]float64{-params.TorqueBound},
		[]float64{params.TorqueBound}, []int{ActionDims}, spec.Float64)
	return space
}

// Step takes one environmental step given action a
func (c Continuous) Step(_ prng.Key, s environment.State, a mat.Vector,
	p environment.Params) (timestep.TimeStep, environment.State, error) {
	state, params, err := unpack(s, p)
	if err != nil {
		return timestep.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}
	if err := environment.CheckAction(c.ActionSpace(p), a, p); err != nil {
		return timestep.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}

	next := nextState(state, environment.ActionAt(a, 0), params)
	return transition(next, params), next, nil
}
