package acrobot

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	ts "github.com/samuelfneumann/purenv/timestep"
)

// ContinuousName is the registered name of the continuous variant
const ContinuousName string = "AcrobotContinuous"

// Continuous implements Acrobot with continuous actions. Actions are
// the torque applied to the acrobot's fixed base, bounded by
// [-MaxTorque, MaxTorque]. With validation skipped, actions outside of
// these bounds are clipped.
type Continuous struct {
	base
}

// NewContinuous returns a new continuous action Acrobot environment
func NewContinuous() Continuous {
	return Continuous{}
}

// Name returns the name of the environment
func (Continuous) Name() string { return ContinuousName }

// ActionSpace returns the action space of the environment
func (Continuous) ActionSpace(p env.Params) spec.Space {
	params, ok := p.(Params)
	if !ok {
		params = DefaultParams()
	}

	space, _ := spec.NewBox([]float64{-params.MaxTorque},
		[]float64{params.MaxTorque}, []int{ActionDims}, spec.Float64)
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

	next := nextState(state, env.ActionAt(a, 0), params)
	return transition(next, params), next, nil
}
