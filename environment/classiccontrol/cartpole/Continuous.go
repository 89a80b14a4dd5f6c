package cartpole

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	ts "github.com/samuelfneumann/purenv/timestep"
	"github.com/samuelfneumann/purenv/utils/floatutils"
)

const (
	// ContinuousName is the registered name of the continuous variant
	ContinuousName string = "CartpoleContinuous"

	MinContinuousAction float64 = -1.0
	MaxContinuousAction float64 = 1.0
)

// Continuous implements Cartpole with continuous actions. Actions are
// 1-dimensional in [-1, 1] and are scaled by the force magnitude in
// the Params before being applied to the cart. With validation skipped,
// actions are clipped to [-1, 1].
type Continuous struct {
	base
}

// NewContinuous returns a new Cartpole environment with continuous
// actions
func NewContinuous() Continuous {
	return Continuous{}
}

// Name returns the name of the environment
func (Continuous) Name() string { return ContinuousName }

// ActionSpace returns the action space of the environment
func (Continuous) ActionSpace(env.Params) spec.Space {
	space, _ := spec.NewBox([]float64{MinContinuousAction},
		[]float64{MaxContinuousAction}, []int{1}, spec.Float64)
	return space
}

// Step takes one environmental step given action a
func (c Continuous) Step(_ prng.Key, s env.State, a mat.Vector,
	p env.Params) (ts.TimeStep, env.State, error) {
	state, params, err := unpack(s, p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}
	if err := env.CheckAction(c.ActionSpace(p), a, p); err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}

	direction := floatutils.Clip(env.ActionAt(a, 0), MinContinuousAction,
		MaxContinuousAction)

	next := nextState(state, direction*params.ForceMag, params)
	return transition(next, params), next, nil
}
