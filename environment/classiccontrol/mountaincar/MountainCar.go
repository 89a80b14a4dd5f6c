// Package mountaincar implements the classic control environment
// "Mountain Car" with discrete and continuous actions
package mountaincar

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
	MinPosition float64 = -1.2
	MaxPosition float64 = 0.6
	MaxSpeed    float64 = 0.07
	Power       float64 = 0.0015 // Engine power
	Gravity     float64 = 0.0025

	// Bounds on the uniform starting position
	MinStartPosition float64 = -0.6
	MaxStartPosition float64 = -0.4

	EpisodeSteps    int = 200
	ActionDims      int = 1
	ObservationDims int = 2
)

// Params configures both Mountain Car variants
type Params struct {
	env.BaseParams `yaml:",inline"`

	Power        float64 `yaml:"power"`
	Gravity      float64 `yaml:"gravity"`
	MinPosition  float64 `yaml:"min_position"`
	MaxPosition  float64 `yaml:"max_position"`
	MaxSpeed     float64 `yaml:"max_speed"`
	GoalPosition float64 `yaml:"goal_position"`

	MinStartPosition float64 `yaml:"min_start_position"`
	MaxStartPosition float64 `yaml:"max_start_position"`
}

// DefaultParams returns the classic Mountain Car configuration
func DefaultParams() Params {
	return Params{
		BaseParams:       env.BaseParams{MaxSteps: EpisodeSteps, Discount: 1.0},
		Power:            Power,
		Gravity:          Gravity,
		MinPosition:      MinPosition,
		MaxPosition:      MaxPosition,
		MaxSpeed:         MaxSpeed,
		GoalPosition:     GoalPosition,
		MinStartPosition: MinStartPosition,
		MaxStartPosition: MaxStartPosition,
	}
}

// Validate checks that the bounds in the Params are consistent
func (p Params) Validate() error {
	position := r1.Interval{Min: p.MinPosition, Max: p.MaxPosition}
	if position.Min >= position.Max {
		return fmt.Errorf("validate: illegal position bounds [%v, %v]",
			position.Min, position.Max)
	}
	if p.MaxSpeed <= 0 {
		return fmt.Errorf("validate: max speed must be positive")
	}
	if p.MinStartPosition > p.MaxStartPosition ||
		!floatutils.Contains(p.MinStartPosition, position) ||
		!floatutils.Contains(p.MaxStartPosition, position) {
		return fmt.Errorf("validate: start positions [%v, %v] ∉ [%v, %v]",
			p.MinStartPosition, p.MaxStartPosition, position.Min, position.Max)
	}
	return nil
}

func (p Params) positionBounds() r1.Interval {
	return r1.Interval{Min: p.MinPosition, Max: p.MaxPosition}
}

func (p Params) speedBounds() r1.Interval {
	return r1.Interval{Min: -p.MaxSpeed, Max: p.MaxSpeed}
}

// State is the state of Mountain Car: the car's x position and velocity
type State struct {
	Position float64
	Velocity float64
	Number   int
}

// StepNumber returns the number of steps taken in the episode
func (s State) StepNumber() int { return s.Number }

// base implements the parts of Mountain Car that do not depend on the
// type of action. The Discrete and Continuous structs each embed a base
// and convert their actions into a force before calling nextState.
//
// In Mountain Car, the environment state is continuous and consists of
// the car's x position and velocity. The x position and velocity are
// bounded by the Params.
type base struct{}

// DefaultParams returns the default configuration of the environment
func (base) DefaultParams() env.Params {
	return DefaultParams()
}

// ObservationSpace returns the observation space of the environment
func (base) ObservationSpace(p env.Params) spec.Space {
	params, ok := p.(Params)
	if !ok {
		params = DefaultParams()
	}

	lower := []float64{params.MinPosition, -params.MaxSpeed}
	upper := []float64{params.MaxPosition, params.MaxSpeed}
	space, _ := spec.NewBox(lower, upper, []int{ObservationDims}, spec.Float64)
	return space
}

// Reset returns the first TimeStep of a new episode. The starting
// position is drawn uniformly from the starting position bounds and
// the car starts at rest.
func (base) Reset(key prng.Key, p env.Params) (ts.TimeStep, env.State,
	error) {
	params, err := env.CheckParams[Params](p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("reset: %w", err)
	}

	starter := env.NewUniformStarter([]r1.Interval{
		{Min: params.MinStartPosition, Max: params.MaxStartPosition},
		{Min: 0, Max: 0},
	})
	start := starter.Start(key)

	state := State{Position: start.AtVec(0), Velocity: start.AtVec(1)}
	return ts.New(ts.First, 0, params.Discount, observe(state), 0), state, nil
}

// unpack converts the State and Params of a Step call
func unpack(s env.State, p env.Params) (State, Params, error) {
	params, err := env.CheckParams[Params](p)
	if err != nil {
		return State{}, Params{}, err
	}
	state, err := env.StateAs[State](s)
	if err != nil {
		return State{}, Params{}, err
	}
	return state, params, nil
}

// nextState calculates the next state in the environment given a force
// in [-1, 1] applied to the car
func nextState(s State, force float64, p Params) State {
	position, velocity := s.Position, s.Velocity

	// Update the velocity
	velocity += force*p.Power - p.Gravity*math.Cos(3*position)
	velocity = floatutils.ClipInterval(velocity, p.speedBounds())

	// Update the position
	position += velocity
	position = floatutils.ClipInterval(position, p.positionBounds())

	// The car stops dead against the left wall
	if position <= p.MinPosition && velocity < 0 {
		velocity = 0
	}

	return State{Position: position, Velocity: velocity, Number: s.Number + 1}
}

// transition builds the TimeStep for a move from state to next,
// computing the reward and checking whether the episode has ended
func transition(next State, p Params) ts.TimeStep {
	obs := observe(next)
	task := newGoal(p.GoalPosition)

	step := ts.New(ts.Mid, task.reward(next), p.Discount, obs, next.Number)
	env.EndAny(&step, task.ender(), env.Horizon(p))
	return step
}

func observe(s State) *mat.VecDense {
	return mat.NewVecDense(ObservationDims, []float64{s.Position, s.Velocity})
}
