// Package gridworld implements 2D gridworld environments
package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	ts "github.com/samuelfneumann/purenv/timestep"
)

const (
	Name string = "GridWorld"

	EpisodeSteps int = 100
	NumActions   int = 4
)

// Actions
const (
	Left int = iota
	Right
	Up
	Down
)

// Cell is a single (x, y) position in a GridWorld. Column x runs from
// 0 to Cols-1 and row y from 0 to Rows-1.
type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Params configures a GridWorld
type Params struct {
	env.BaseParams `yaml:",inline"`

	Rows  int    `yaml:"rows"`
	Cols  int    `yaml:"cols"`
	Start Cell   `yaml:"start"`
	Goals []Cell `yaml:"goals"`

	TimeStepReward float64 `yaml:"timestep_reward"`
	GoalReward     float64 `yaml:"goal_reward"`

	// RandomStart starts each episode in a cell drawn uniformly from
	// the non-goal cells instead of at Start
	RandomStart bool `yaml:"random_start"`
}

// DefaultParams returns a 5x5 GridWorld starting in the bottom left
// corner with a single goal in the top right corner
func DefaultParams() Params {
	return Params{
		BaseParams:     env.BaseParams{MaxSteps: EpisodeSteps, Discount: 1.0},
		Rows:           5,
		Cols:           5,
		Start:          Cell{0, 0},
		Goals:          []Cell{{4, 4}},
		TimeStepReward: -1.0,
		GoalReward:     0.0,
	}
}

func (p Params) inGrid(c Cell) bool {
	return c.X >= 0 && c.X < p.Cols && c.Y >= 0 && c.Y < p.Rows
}

func (p Params) isGoal(c Cell) bool {
	for _, g := range p.Goals {
		if g == c {
			return true
		}
	}
	return false
}

// Validate checks that the grid is non-empty, that the start and goal
// cells lie within it, and that at least one cell is not a goal
func (p Params) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("validate: grid must be non-empty, have %dx%d",
			p.Rows, p.Cols)
	}
	if len(p.Goals) == 0 {
		return fmt.Errorf("validate: at least one goal is required")
	}
	for i, g := range p.Goals {
		if !p.inGrid(g) {
			return fmt.Errorf("validate: goal[%d] = %v outside of %dx%d grid",
				i, g, p.Rows, p.Cols)
		}
	}
	if !p.inGrid(p.Start) {
		return fmt.Errorf("validate: start %v outside of %dx%d grid",
			p.Start, p.Rows, p.Cols)
	}
	if p.isGoal(p.Start) {
		return fmt.Errorf("validate: start %v is a goal", p.Start)
	}
	return nil
}

// State is the agent's position in the GridWorld
type State struct {
	Cell
	Number int
}

// StepNumber returns the number of steps taken in the episode
func (s State) StepNumber() int { return s.Number }

// GridWorld represents a gridworld environment
//
// Observations are one-hot encodings of the agent's position in the
// grid, flattened row by row, with shape [Rows, Cols]. Actions move
// the agent Left, Right, Up, or Down by one cell. Moves off the grid
// leave the agent in place. Each step gives TimeStepReward, except for
// steps into a goal cell, which give GoalReward and end the episode.
// With validation skipped, unknown actions leave the agent in place.
type GridWorld struct{}

// New returns a new GridWorld environment
func New() GridWorld { return GridWorld{} }

// Name returns the name of the environment
func (GridWorld) Name() string { return Name }

// DefaultParams returns the default configuration of the environment
func (GridWorld) DefaultParams() env.Params {
	return DefaultParams()
}

// ActionSpace returns the action space of the environment
func (GridWorld) ActionSpace(env.Params) spec.Space {
	return spec.Discrete{N: NumActions}
}

// ObservationSpace returns the observation space of the environment
func (GridWorld) ObservationSpace(p env.Params) spec.Space {
	params, ok := p.(Params)
	if !ok {
		params = DefaultParams()
	}

	space, _ := spec.NewUniformBox(0, 1, []int{params.Rows, params.Cols},
		spec.Float64)
	return space
}

// Reset returns the first TimeStep of a new episode
func (GridWorld) Reset(key prng.Key, p env.Params) (ts.TimeStep, env.State,
	error) {
	params, err := env.CheckParams[Params](p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("reset: %w", err)
	}

	start := params.Start
	if params.RandomStart {
		start = randomStart(key, params)
	}

	state := State{Cell: start}
	return ts.New(ts.First, 0, params.Discount, observe(state, params), 0),
		state, nil
}

// randomStart samples a non-goal cell. Goal cells are rejected and
// redrawn with a key folded in from the attempt number, so the result
// only depends on key.
func randomStart(key prng.Key, p Params) Cell {
	starter := env.NewCategoricalStarter([]int{p.Cols, p.Rows})
	for attempt := uint32(0); ; attempt++ {
		v := starter.Start(prng.FoldIn(key, attempt))
		c := Cell{int(v.AtVec(0)), int(v.AtVec(1))}
		if !p.isGoal(c) || len(p.Goals) >= p.Rows*p.Cols {
			return c
		}
	}
}

// Step takes one environmental step given action a
func (g GridWorld) Step(_ prng.Key, s env.State, a mat.Vector,
	p env.Params) (ts.TimeStep, env.State, error) {
	params, err := env.CheckParams[Params](p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}
	state, err := env.StateAs[State](s)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}
	if err := env.CheckAction(g.ActionSpace(p), a, p); err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}

	// Move the current position
	x, y := state.X, state.Y
	switch env.ActionAt(a, 0) {
	case float64(Left):
		x--
	case float64(Right):
		x++
	case float64(Up):
		y++
	case float64(Down):
		y--
	}
	next := State{Cell: state.Cell, Number: state.Number + 1}
	if moved := (Cell{x, y}); params.inGrid(moved) {
		next.Cell = moved
	}

	reward := params.TimeStepReward
	atGoal := params.isGoal(next.Cell)
	if atGoal {
		reward = params.GoalReward
	}

	step := ts.New(ts.Mid, reward, params.Discount, observe(next, params),
		next.Number)
	if atGoal {
		step.SetEnd(ts.TerminalStateReached)
	} else {
		env.Horizon(params).End(&step)
	}
	return step, next, nil
}

// observe returns the one-hot encoding of the agent's position
func observe(s State, p Params) *mat.VecDense {
	obs := mat.NewVecDense(p.Rows*p.Cols, nil)
	if p.inGrid(s.Cell) {
		obs.SetVec(s.Y*p.Cols+s.X, 1.0)
	}
	return obs
}
