package pendulum

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	"github.com/samuelfneumann/purenv/timestep"
)

const (
	// DiscreteName is the registered name of the discrete variant
	DiscreteName string = "PendulumDiscrete"

	NumDiscreteActions int = 5
)

// Discrete implements the Pendulum environment with discrete actions.
// Actions select a fraction of the torque bound τ:
//
//	Action	Torque
//	  0		-τ
//	  1		-τ/2
//	  2		 0
//	  3		 τ/2
//	  4		 τ
//
// With validation skipped, any other action applies no torque.
type Discrete struct {
	base
}

// NewDiscrete returns a new discrete action Pendulum environment
func NewDiscrete() Discrete {
	return Discrete{}
}

// Name returns the name of the environment
func (Discrete) Name() string { return DiscreteName }

// ActionSpace returns the action space of the environment
func (Discrete) ActionSpace(environment.Params) spec.Space {
	return spec.Discrete{N: NumDiscreteActions}
}

// Step takes one environmental step given action a
func (d Discrete) Step(_ prng.Key, s environment.State, a mat.Vector,
	p environment.Params) (timestep.TimeStep, environment.State, error) {
	state, params, err := unpack(s, p)
	if err != nil {
		return timestep.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}
	if err := environment.CheckAction(d.ActionSpace(p), a, p); err != nil {
		return timestep.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}

	// Convert discrete action to torque applied to fixed base
	var torque float64
	switch action := environment.ActionAt(a, 0); action {
	case 0, 1, 2, 3, 4:
		torque = (action - 2) / 2 * params.TorqueBound
	}

	next := nextState(state, torque, params)
	return transition(next, params), next, nil
}
