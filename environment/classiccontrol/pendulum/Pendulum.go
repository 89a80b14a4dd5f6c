// Package pendulum implements the pendulum classic control environment
package pendulum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	"github.com/samuelfneumann/purenv/timestep"
	"github.com/samuelfneumann/purenv/utils/floatutils"
)

// default physical constants
const (
	AngleBound  float64 = math.Pi // +/- Angle bounds
	SpeedBound  float64 = 8.0     // +/- Speed bounds
	TorqueBound float64 = 2.0     // +/- Torque bounds

	StartSpeedBound float64 = 1.0 // +/- bounds on the starting speed

	Dt      float64 = 0.05
	Gravity float64 = 9.8
	Mass    float64 = 1.0
	Length  float64 = 1.0

	EpisodeSteps    int = 200
	ActionDims      int = 1
	ObservationDims int = 2
)

// Params configures both Pendulum variants
type Params struct {
	environment.BaseParams `yaml:",inline"`

	Dt          float64 `yaml:"dt"`
	Gravity     float64 `yaml:"gravity"`
	Mass        float64 `yaml:"mass"`
	Length      float64 `yaml:"length"`
	SpeedBound  float64 `yaml:"speed_bound"`
	TorqueBound float64 `yaml:"torque_bound"`

	StartSpeedBound float64 `yaml:"start_speed_bound"`
}

// DefaultParams returns the classic Pendulum configuration
func DefaultParams() Params {
	return Params{
		BaseParams: environment.BaseParams{
			MaxSteps: EpisodeSteps,
			Discount: 1.0,
		},
		Dt:              Dt,
		Gravity:         Gravity,
		Mass:            Mass,
		Length:          Length,
		SpeedBound:      SpeedBound,
		TorqueBound:     TorqueBound,
		StartSpeedBound: StartSpeedBound,
	}
}

// Validate checks the physical constants of the Params
func (p Params) Validate() error {
	if p.Mass <= 0 || p.Length <= 0 || p.Dt <= 0 {
		return fmt.Errorf("validate: mass, length, and dt must be positive")
	}
	if p.SpeedBound <= 0 || p.TorqueBound <= 0 {
		return fmt.Errorf("validate: speed and torque bounds must be positive")
	}
	if p.StartSpeedBound < 0 || p.StartSpeedBound > p.SpeedBound {
		return fmt.Errorf("validate: start speed bound %v ∉ [0, %v]",
			p.StartSpeedBound, p.SpeedBound)
	}
	return nil
}

// State is the state of the pendulum: its angle from the positive
// y-axis and its angular velocity
type State struct {
	Angle  float64
	Speed  float64
	Number int
}

// StepNumber returns the number of steps taken in the episode
func (s State) StepNumber() int { return s.Number }

// base implements the classic control environment Pendulum. In this
// environment, a pendulum is attached to a fixed base. An agent can
// swing the pendulum back and forth, but the swinging force /torque is
// underpowered. In order to be able to swing the pendulum straight up,
// it must first be rocked back and forth, using the momentum to
// gradually climb higher until the pendulum can point straight up or
// rotate fully around its fixed base.
//
// State features consist of the angle of the pendulum from the positive
// y-axis and the angular velocity of the pendulum. The sign of the
// angular velocity indicates direction, with negative sign indicating
// counter clockwise rotation and positive sign indicating clockwise
// direction. The angular velocity is clipped to the speed bound and
// angles are wrapped to [-π, π).
type base struct{}

// DefaultParams returns the default configuration of the environment
func (base) DefaultParams() environment.Params {
	return DefaultParams()
}

// ObservationSpace returns the observation space of the environment
func (base) ObservationSpace(p environment.Params) spec.Space {
	params, ok := p.(Params)
	if !ok {
		params = DefaultParams()
	}

	lower := []float64{-AngleBound, -params.SpeedBound}
	upper := []float64{AngleBound, params.SpeedBound}
	space, _ := spec.NewBox(lower, upper, []int{ObservationDims}, spec.Float64)
	return space
}

// Reset returns the first TimeStep of a new episode. The angle is drawn
// uniformly from [-π, π) and the speed from the starting speed bounds.
func (base) Reset(key prng.Key, p environment.Params) (timestep.TimeStep,
	environment.State, error) {
	params, err := environment.CheckParams[Params](p)
	if err != nil {
		return timestep.TimeStep{}, nil, fmt.Errorf("reset: %w", err)
	}

	start := environment.NewUniformStarter([]r1.Interval{
		{Min: -AngleBound, Max: AngleBound},
		{Min: -params.StartSpeedBound, Max: params.StartSpeedBound},
	}).Start(key)

	state := State{Angle: start.AtVec(0), Speed: start.AtVec(1)}
	step := timestep.New(timestep.First, 0, params.Discount, observe(state), 0)
	return step, state, nil
}

func unpack(s environment.State, p environment.Params) (State, Params,
	error) {
	params, err := environment.CheckParams[Params](p)
	if err != nil {
		return State{}, Params{}, err
	}
	state, err := environment.StateAs[State](s)
	if err != nil {
		return State{}, Params{}, err
	}
	return state, params, nil
}

// nextState computes the next state of the environment given an amount
// of torque to apply to the fixed base of the pendulum. The torque is
// first clipped to the torque bounds.
func nextState(s State, torque float64, p Params) State {
	th, thdot := s.Angle, s.Speed

	torque = floatutils.Clip(torque, -p.TorqueBound, p.TorqueBound)

	newthdot := thdot + (-3*p.Gravity/(2*p.Length)*math.Sin(th+math.Pi)+
		3.0/(p.Mass*math.Pow(p.Length, 2))*torque)*p.Dt
	newthdot = floatutils.Clip(newthdot, -p.SpeedBound, p.SpeedBound)

	newth := floatutils.WrapAngle(th + newthdot*p.Dt)

	return State{Angle: newth, Speed: newthdot, Number: s.Number + 1}
}

// transition builds the TimeStep for a move to state next. The pendulum
// has no terminal states, so episodes only end at the horizon.
func transition(next State, p Params) timestep.TimeStep {
	task := swingUp{}

	step := timestep.New(timestep.Mid, task.reward(next), p.Discount,
		observe(next), next.Number)
	environment.Horizon(p).End(&step)
	return step
}

func observe(s State) *mat.VecDense {
	return mat.NewVecDense(ObservationDims, []float64{s.Angle, s.Speed})
}
