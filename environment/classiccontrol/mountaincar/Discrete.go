package mountaincar

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	ts "github.com/samuelfneumann/purenv/timestep"
)

// DiscreteName is the registered name of the discrete action variant
const DiscreteName string = "MountainCar"

// Discrete implements the classic control Mountain Car environment.
// In this environment, the agent controls a car in a valley between two
// hills. The car is underpowered and cannot drive up the hill unless
// it rocks back and forth from hill to hill, using its momentum to
// gradually climb higher.
//
// State features consist of the x position of the car and its velocity.
// The sign of the velocity feature denotes direction, with negative
// meaning that the car is travelling left and positive meaning that the
// car is travelling right. Upon reaching the minimum position, the
// velocity of the car is set to 0.
//
// Actions are 1-dimensional and discrete in (0, 1, 2). Actions
// determine in which direction to apply full accelerating force to the
// car:
//
//	Action	Meaning
//	  0		Accelerate left
//	  1		Do nothing
//	  2		Accelerate right
//
// With validation skipped, any other action does nothing.
type Discrete struct {
	base
}

// NewDiscrete returns a new Discrete action Mountain Car environment
func NewDiscrete() Discrete {
	return Discrete{}
}

// Name returns the name of the environment
func (Discrete) Name() string { return DiscreteName }

// ActionSpace returns the action space of the environment
func (Discrete) ActionSpace(env.Params) spec.Space {
	return spec.Discrete{N: 3}
}

// Step takes one environmental step given action a
func (m Discrete) Step(_ prng.Key, s env.State, a mat.Vector,
	p env.Params) (ts.TimeStep, env.State, error) {
	state, params, err := unpack(s, p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}
	if err := env.CheckAction(m.ActionSpace(p), a, p); err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}

	// Convert action (0, 1, 2) to a force (-1, 0, 1)
	var force float64
	switch env.ActionAt(a, 0) {
	case 0:
		force = -1.0
	case 2:
		force = 1.0
	}

	next := nextState(state, force, params)
	return transition(next, params), next, nil
}
