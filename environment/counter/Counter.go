// Package counter implements a one-dimensional counter environment.
//
// The counter is the smallest environment that exercises the whole
// reset/step contract: the state is a single position, actions move the
// position, and episodes end at a horizon or when the position leaves
// a bound. It is mostly useful for testing code that consumes
// environments.
package counter

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	ts "github.com/samuelfneumann/purenv/timestep"
	"github.com/samuelfneumann/purenv/utils/floatutils"
)

const (
	Name string = "Counter"

	MinAction float64 = -1.0
	MaxAction float64 = 1.0
)

// Params configures the Counter environment
type Params struct {
	env.BaseParams `yaml:",inline"`

	// Bound is the absolute position at which the episode terminates
	Bound float64 `yaml:"bound"`

	// StartNoise is the half-width of the interval around 0 from which
	// the starting position is drawn. Zero starts every episode at 0.
	StartNoise float64 `yaml:"start_noise"`
}

// Validate checks the parameter values
func (p Params) Validate() error {
	if p.Bound <= 0 {
		return fmt.Errorf("validate: bound must be positive, have %v", p.Bound)
	}
	if p.StartNoise < 0 || p.StartNoise >= p.Bound {
		return fmt.Errorf("validate: start noise %v ∉ [0, %v)", p.StartNoise,
			p.Bound)
	}
	return nil
}

// State is the state of the Counter environment
type State struct {
	Position float64
	Number   int
}

// StepNumber returns the number of steps taken in the episode
func (s State) StepNumber() int { return s.Number }

// Counter is a one-dimensional counter. Observations are the current
// position. Actions are 1-dimensional and continuous in [-1, 1] and are
// added to the position, which is clipped to [-Bound, Bound]. The
// reward for a step is the action taken.
//
// Episodes end when |position| >= Bound or after MaxSteps steps.
type Counter struct{}

// New returns a new Counter environment
func New() Counter { return Counter{} }

// Name returns the name of the environment
func (Counter) Name() string { return Name }

// DefaultParams returns the default Counter configuration
func (Counter) DefaultParams() env.Params {
	return Params{
		BaseParams: env.BaseParams{MaxSteps: 10, Discount: 1.0},
		Bound:      100,
	}
}

// ActionSpace returns the action space of the environment
func (Counter) ActionSpace(env.Params) spec.Space {
	space, _ := spec.NewBox([]float64{MinAction}, []float64{MaxAction},
		[]int{1}, spec.Float64)
	return space
}

// ObservationSpace returns the observation space of the environment
func (c Counter) ObservationSpace(p env.Params) spec.Space {
	bound := math.Inf(1)
	if params, ok := p.(Params); ok {
		bound = params.Bound
	}
	space, _ := spec.NewBox([]float64{-bound}, []float64{bound}, []int{1},
		spec.Float64)
	return space
}

// Reset returns the first TimeStep and State of a new episode
func (c Counter) Reset(key prng.Key, p env.Params) (ts.TimeStep, env.State,
	error) {
	params, err := env.CheckParams[Params](p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("reset: %w", err)
	}

	start := 0.0
	if params.StartNoise > 0 {
		starter := env.NewUniformStarter([]r1.Interval{
			{Min: -params.StartNoise, Max: params.StartNoise},
		})
		start = starter.Start(key).AtVec(0)
	}

	state := State{Position: start}
	step := ts.New(ts.First, 0, params.Discount, observe(state), 0)
	return step, state, nil
}

// Step moves the counter by the action
func (c Counter) Step(_ prng.Key, s env.State, a mat.Vector,
	p env.Params) (ts.TimeStep, env.State, error) {
	params, err := env.CheckParams[Params](p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}
	state, err := env.StateAs[State](s)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}
	if err := env.CheckAction(c.ActionSpace(p), a, p); err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}

	action := floatutils.Clip(env.ActionAt(a, 0), MinAction, MaxAction)
	next := State{
		Position: floatutils.Clip(state.Position+action, -params.Bound,
			params.Bound),
		Number: state.Number + 1,
	}

	step := ts.New(ts.Mid, action, params.Discount, observe(next),
		next.Number)
	env.EndAny(&step, env.NewFunctionEnder(func(o *mat.VecDense) bool {
		return math.Abs(o.AtVec(0)) >= params.Bound
	}, ts.TerminalStateReached), env.Horizon(params))

	return step, next, nil
}

func observe(s State) *mat.VecDense {
	return mat.NewVecDense(1, []float64{s.Position})
}
