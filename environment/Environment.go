// Package environment outlines the interfaces and structs needed to
// implement concrete environments as pure functions.
//
// An Environment holds no mutable data. Everything that changes during
// an episode lives in a State value, everything that configures the
// dynamics lives in a Params value, and all randomness comes from a
// prng.Key supplied by the caller. Reset and Step therefore always
// return the same outputs for the same inputs, which is what allows the
// vector package to run many trajectories at once without changing
// their meaning.
package environment

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	"github.com/samuelfneumann/purenv/timestep"
)

// ErrWrongType is returned when a State or Params of one environment is
// passed to another
var ErrWrongType = errors.New("wrong type")

// ErrInvalidParams is returned when Params fail their own validation
var ErrInvalidParams = errors.New("invalid params")

// State is an immutable snapshot of the dynamics of an environment at
// one timestep. A State is created by Reset and replaced by Step; it is
// never modified in place.
type State interface {
	// StepNumber returns the number of steps taken in the episode
	StepNumber() int
}

// Params is the immutable configuration of an environment. Concrete
// Params types embed BaseParams.
type Params interface {
	Base() BaseParams
}

// BaseParams holds the configuration shared by all environments
type BaseParams struct {
	// MaxSteps is the episode horizon. An episode is truncated once
	// the step number reaches MaxSteps. Zero disables the horizon.
	MaxSteps int `yaml:"max_steps"`

	// Discount is the discount copied into each TimeStep
	Discount float64 `yaml:"discount"`

	// SkipValidation turns off action validation in Step. With
	// validation skipped, stepping with an action outside the action
	// space has unspecified results.
	SkipValidation bool `yaml:"skip_validation"`
}

// Base returns the BaseParams
func (b BaseParams) Base() BaseParams { return b }

// Validator is implemented by Params that can check their own values
type Validator interface {
	Validate() error
}

// Environment implements the reset/step contract of a simulated
// environment. Implementations must not read or write anything other
// than their arguments.
type Environment interface {
	// Name returns the name of the environment variant
	Name() string

	// DefaultParams returns the default configuration of the environment
	DefaultParams() Params

	// Reset returns the first TimeStep and State of a new episode
	Reset(key prng.Key, p Params) (timestep.TimeStep, State, error)

	// Step takes action a in state s and returns the next TimeStep
	// and State
	Step(key prng.Key, s State, a mat.Vector, p Params) (timestep.TimeStep,
		State, error)

	ActionSpace(p Params) spec.Space
	ObservationSpace(p Params) spec.Space
}

// InvalidActionError is returned when an action lies outside of an
// environment's action space
type InvalidActionError struct {
	Action []float64
	Space  spec.Space
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action %v ∉ %v", e.Action, e.Space)
}

// CheckAction returns an *InvalidActionError if a is not in space. If
// validation is turned off in p, CheckAction always returns nil.
func CheckAction(space spec.Space, a mat.Vector, p Params) error {
	if p.Base().SkipValidation {
		return nil
	}
	if a == nil {
		return &InvalidActionError{Space: space}
	}
	if !space.Contains(a) {
		return &InvalidActionError{Action: vectorData(a), Space: space}
	}
	return nil
}

// StateAs converts a State to the concrete State type of an environment
func StateAs[S State](s State) (S, error) {
	concrete, ok := s.(S)
	if !ok {
		var zero S
		return zero, fmt.Errorf("state: %w: want %T, have %T", ErrWrongType,
			zero, s)
	}
	return concrete, nil
}

// ParamsAs converts Params to the concrete Params type of an environment
func ParamsAs[P Params](p Params) (P, error) {
	concrete, ok := p.(P)
	if !ok {
		var zero P
		return zero, fmt.Errorf("params: %w: want %T, have %T", ErrWrongType,
			zero, p)
	}
	return concrete, nil
}

// CheckParams converts Params to the concrete Params type of an
// environment and, if that type is a Validator, validates it. Params
// are built by callers, so every Reset and Step checks them before use.
func CheckParams[P Params](p Params) (P, error) {
	concrete, err := ParamsAs[P](p)
	if err != nil {
		return concrete, err
	}
	if v, ok := any(concrete).(Validator); ok {
		if err := v.Validate(); err != nil {
			var zero P
			return zero, fmt.Errorf("params: %w: %w", ErrInvalidParams, err)
		}
	}
	return concrete, nil
}

// ActionAt returns element i of action a, or 0 if a is too short. It
// lets environments read actions safely when validation is skipped.
func ActionAt(a mat.Vector, i int) float64 {
	if a == nil || i >= a.Len() {
		return 0
	}
	return a.AtVec(i)
}

func vectorData(v mat.Vector) []float64 {
	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return data
}
