package cartpole

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	ts "github.com/samuelfneumann/purenv/timestep"
)

const (
	// DiscreteName is the registered name of the discrete action variant
	DiscreteName string = "Cartpole"

	MinDiscreteAction int = 0
	MaxDiscreteAction int = 2
)

// Discrete implements the classic control environment Cartpole with
// discrete actions. In this environment, a pole is attached to a cart,
// which can move horizontally. Gravity pulls the pole downwards so that
// balancing it in an upright position is very difficult.
//
// Actions are discrete, consisting of the direction to apply
// horizontal force to the cart. Legal actions are in {0, 1, 2}:
//
//	Action		Meaning
//	  0			Apply force left
//	  1			Do nothing
//	  2			Apply force right
//
// With validation skipped, any other action does nothing.
type Discrete struct {
	base
}

// NewDiscrete returns a new Cartpole environment with discrete actions
func NewDiscrete() Discrete {
	return Discrete{}
}

// Name returns the name of the environment
func (Discrete) Name() string { return DiscreteName }

// ActionSpace returns the action space of the environment
func (Discrete) ActionSpace(env.Params) spec.Space {
	return spec.Discrete{N: MaxDiscreteAction + 1}
}

// Step takes one environmental step given action a
func (c Discrete) Step(_ prng.Key, s env.State, a mat.Vector,
	p env.Params) (ts.TimeStep, env.State, error) {
	state, params, err := unpack(s, p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}
	if err := env.CheckAction(c.ActionSpace(p), a, p); err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}

	// Magnify the action force in the appropriate direction
	var force float64
	switch env.ActionAt(a, 0) {
	case 0:
		force = -params.ForceMag
	case 2:
		force = params.ForceMag
	}

	next := nextState(state, force, params)
	return transition(next, params), next, nil
}
