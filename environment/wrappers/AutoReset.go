// Package wrappers provides wrappers for environments
package wrappers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	ts "github.com/samuelfneumann/purenv/timestep"
)

// InfoKey is the Info key under which AutoReset reports whether a
// TimeStep marks an episode boundary (1) or not (0)
const InfoKey string = "autoreset"

// AutoResetState is the state of an AutoReset environment. It wraps the
// state of the inner environment and records whether the last step
// ended the inner episode, along with that step's reward and end type.
type AutoResetState struct {
	Inner   environment.State
	Done    bool
	Reward  float64
	EndType ts.EndType
}

// StepNumber returns the step number of the inner state
func (a AutoResetState) StepNumber() int {
	if a.Inner == nil {
		return 0
	}
	return a.Inner.StepNumber()
}

// AutoReset wraps an environment so that episodes are stitched into a
// continuous stream. The inner episode's last step is returned as
// usual. The step after it ignores its action, starts a new inner
// episode, and returns a Last TimeStep that carries the new episode's
// first observation together with the reward and end type of the
// step that ended the old episode. Every step after that continues the
// new episode.
//
// AutoReset holds no data of its own; the episode boundary is tracked
// in AutoResetState. AutoReset itself implements the
// environment.Environment interface, and is therefore itself an
// Environment.
type AutoReset struct {
	environment.Environment
}

// NewAutoReset wraps env in an AutoReset
func NewAutoReset(env environment.Environment) *AutoReset {
	return &AutoReset{env}
}

// ResetKey returns the key used to reset the inner environment when
// Step is called with key on a finished episode
func ResetKey(key prng.Key) prng.Key {
	_, reset := prng.Split2(key)
	return reset
}

// Reset resets the inner environment
func (a *AutoReset) Reset(key prng.Key, p environment.Params) (ts.TimeStep,
	environment.State, error) {
	step, state, err := a.Environment.Reset(key, p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("reset: %w", err)
	}
	return mark(step, false), AutoResetState{Inner: state}, nil
}

// Step steps the inner environment, or resets it if the last step
// ended the inner episode
func (a *AutoReset) Step(key prng.Key, s environment.State, act mat.Vector,
	p environment.Params) (ts.TimeStep, environment.State, error) {
	state, err := environment.StateAs[AutoResetState](s)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}

	if state.Done {
		step, inner, err := a.Environment.Reset(ResetKey(key), p)
		if err != nil {
			return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
		}

		step.StepType = ts.Last
		step.EndType = state.EndType
		step.Reward = state.Reward
		return mark(step, true), AutoResetState{Inner: inner}, nil
	}

	step, inner, err := a.Environment.Step(key, state.Inner, act, p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}

	next := AutoResetState{Inner: inner}
	if step.Done() {
		next.Done = true
		next.Reward = step.Reward
		next.EndType = step.EndType
	}
	return mark(step, false), next, nil
}

// Boundary reports whether step was returned by AutoReset for the
// action-ignoring step that starts a new inner episode
func Boundary(step ts.TimeStep) bool {
	return step.Info[InfoKey] == 1
}

// mark records in the Info of step whether it is an episode boundary
func mark(step ts.TimeStep, boundary bool) ts.TimeStep {
	info := step.Info.Clone()
	if info == nil {
		info = make(ts.Info, 1)
	}

	info[InfoKey] = 0
	if boundary {
		info[InfoKey] = 1
	}
	step.Info = info
	return step
}
