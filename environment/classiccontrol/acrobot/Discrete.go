package acrobot

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	ts "github.com/samuelfneumann/purenv/timestep"
)

const (
	// DiscreteName is the registered name of the discrete variant
	DiscreteName string = "Acrobot"

	NumDiscreteActions int = 3
)

// Discrete implements Acrobot with discrete actions. Actions are in
// the set {0, 1, 2} and apply a torque of -MaxTorque, 0, and MaxTorque
// respectively to the acrobot's base. With validation skipped, any
// other action applies no torque.
type Discrete struct {
	base
}

// NewDiscrete returns a new discrete action Acrobot environment
func NewDiscrete() Discrete {
	return Discrete{}
}

// Name returns the name of the environment
func (Discrete) Name() string { return DiscreteName }

// ActionSpace returns the action space of the environment
func (Discrete) ActionSpace(env.Params) spec.Space {
	return spec.Discrete{N: NumDiscreteActions}
}

// Step takes one environmental step given action a
func (d Discrete) Step(_ prng.Key, s env.State, a mat.Vector,
	p env.Params) (ts.TimeStep, env.State, error) {
	state, params, err := unpack(s, p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}
	if err := env.CheckAction(d.ActionSpace(p), a, p); err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}

	var torque float64
	switch action := env.ActionAt(a, 0); action {
	case 0, 1, 2:
		torque = (action - 1.0) * params.MaxTorque
	}

	next := nextState(state, torque, params)
	return transition(next, params), next, nil
}
