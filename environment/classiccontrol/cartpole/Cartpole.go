// Package cartpole implements the Cartpole classic control environment
package cartpole

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
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	HalfPoleLength float64 = 0.5  // half of pole length
	ForceMag       float64 = 10.0 // Magnification of force applied
	Dt             float64 = 0.02 // seconds between state updates

	// Bounds (+/-) on state variables
	PositionBounds float64 = 4.8

	// Bounds (+/-) on the starting state variables
	StartBounds float64 = 0.05

	EpisodeSteps    int = 500
	ObservationDims int = 4
)

// Params configures the Cartpole environment
type Params struct {
	env.BaseParams `yaml:",inline"`

	Gravity        float64 `yaml:"gravity"`
	CartMass       float64 `yaml:"cart_mass"`
	PoleMass       float64 `yaml:"pole_mass"`
	HalfPoleLength float64 `yaml:"half_pole_length"`
	ForceMag       float64 `yaml:"force_mag"`
	Dt             float64 `yaml:"dt"`
	PositionBounds float64 `yaml:"position_bounds"`
	StartBounds    float64 `yaml:"start_bounds"`

	// FailAngle is the absolute pole angle at which the pole has fallen
	FailAngle float64 `yaml:"fail_angle"`

	// FailPosition is the absolute cart position at which the cart has
	// left the track
	FailPosition float64 `yaml:"fail_position"`
}

// DefaultParams returns the classic Cartpole configuration
func DefaultParams() Params {
	return Params{
		BaseParams:     env.BaseParams{MaxSteps: EpisodeSteps, Discount: 1.0},
		Gravity:        Gravity,
		CartMass:       CartMass,
		PoleMass:       PoleMass,
		HalfPoleLength: HalfPoleLength,
		ForceMag:       ForceMag,
		Dt:             Dt,
		PositionBounds: PositionBounds,
		StartBounds:    StartBounds,
		FailAngle:      FailAngle,
		FailPosition:   FailPosition,
	}
}

// Validate checks the physical constants of the Params
func (p Params) Validate() error {
	switch {
	case p.CartMass <= 0 || p.PoleMass <= 0:
		return fmt.Errorf("validate: masses must be positive")
	case p.HalfPoleLength <= 0:
		return fmt.Errorf("validate: pole length must be positive")
	case p.Dt <= 0:
		return fmt.Errorf("validate: dt must be positive")
	case p.StartBounds < 0 || p.StartBounds >= p.FailAngle:
		return fmt.Errorf("validate: start bounds %v ∉ [0, %v)", p.StartBounds,
			p.FailAngle)
	case p.FailPosition > p.PositionBounds:
		return fmt.Errorf("validate: fail position %v outside of track %v",
			p.FailPosition, p.PositionBounds)
	}
	return nil
}

// State is the state of Cartpole: the cart's x position and speed, as
// well as the pole's angle from the positive y-axis and the pole's
// angular velocity
type State struct {
	Position        float64
	Speed           float64
	Angle           float64
	AngularVelocity float64
	Number          int
}

// StepNumber returns the number of steps taken in the episode
func (s State) StepNumber() int { return s.Number }

// base implements the parts of Cartpole shared by the Discrete and
// Continuous action variants.
//
// The state features are continuous. The cart's position is clipped to
// the track, and the cart stops upon reaching either end of it. The
// pole's angle is wrapped to [-π, π).
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

	inf := math.Inf(1)
	lower := []float64{-params.PositionBounds, -inf, -math.Pi, -inf}
	upper := []float64{params.PositionBounds, inf, math.Pi, inf}
	space, _ := spec.NewBox(lower, upper, []int{ObservationDims}, spec.Float64)
	return space
}

// Reset returns the first TimeStep of a new episode. Each state
// variable is drawn uniformly from [-StartBounds, StartBounds].
func (base) Reset(key prng.Key, p env.Params) (ts.TimeStep, env.State,
	error) {
	params, err := env.CheckParams[Params](p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("reset: %w", err)
	}

	bounds := r1.Interval{Min: -params.StartBounds, Max: params.StartBounds}
	start := env.NewUniformStarter([]r1.Interval{
		bounds, bounds, bounds, bounds,
	}).Start(key)

	state := State{
		Position:        start.AtVec(0),
		Speed:           start.AtVec(1),
		Angle:           start.AtVec(2),
		AngularVelocity: start.AtVec(3),
	}
	return ts.New(ts.First, 0, params.Discount, observe(state), 0), state, nil
}

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

// nextState computes the next state given a force applied to the cart
// using Euler kinematic integration
func nextState(s State, force float64, p Params) State {
	x, xDot := s.Position, s.Speed
	th, thDot := s.Angle, s.AngularVelocity

	// Calculate physical variables to determine next state
	cosTheta := math.Cos(th)
	sinTheta := math.Sin(th)

	totalMass := p.PoleMass + p.CartMass
	poleMassLength := p.PoleMass * p.HalfPoleLength

	temp := (force + poleMassLength*thDot*thDot*sinTheta) / totalMass
	thAcc := (p.Gravity*sinTheta - cosTheta*temp) / (p.HalfPoleLength *
		(4.0/3.0 - p.PoleMass*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thAcc*cosTheta/totalMass

	// Update state variables
	x += p.Dt * xDot
	xDot += p.Dt * xAcc
	if math.Abs(x) >= p.PositionBounds {
		x = floatutils.Clip(x, -p.PositionBounds, p.PositionBounds)
		xDot = 0
	}

	th = floatutils.WrapAngle(th + p.Dt*thDot)
	thDot += p.Dt * thAcc

	return State{
		Position:        x,
		Speed:           xDot,
		Angle:           th,
		AngularVelocity: thDot,
		Number:          s.Number + 1,
	}
}

// transition builds the TimeStep for a move to state next
func transition(next State, p Params) ts.TimeStep {
	task := newBalance(p.FailAngle, p.FailPosition)

	step := ts.New(ts.Mid, task.reward(next), p.Discount, observe(next),
		next.Number)
	env.EndAny(&step, task.ender(), env.Horizon(p))
	return step
}

func observe(s State) *mat.VecDense {
	return mat.NewVecDense(ObservationDims, []float64{s.Position, s.Speed,
		s.Angle, s.AngularVelocity})
}
