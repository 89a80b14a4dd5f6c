// Package acrobot implements the classic control problem Acrobot
package acrobot

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
	Dt float64 = 0.2

	// Physical constants
	LinkLength1 float64 = 1.0 // Metres, length of link 1
	LinkLength2 float64 = 1.0 // Metres, length of link 2
	LinkMass1   float64 = 1.0 // Kg, mass of link 1
	LinkMass2   float64 = 1.0 // Kg, mass of link 2
	LinkCOMPos1 float64 = 0.5 // Metres, centre of mass link 1
	LinkCOMPos2 float64 = 0.5 // Metres, centre of mass link 2
	LinkMOI     float64 = 1.0 // Moments of inertia for both links
	MaxVel1     float64 = 4 * math.Pi
	MaxVel2     float64 = 9 * math.Pi
	Gravity     float64 = 9.8
	MaxAngle    float64 = math.Pi
	MaxTorque   float64 = 1.0

	// Bounds (+/-) on each starting state variable
	StartBounds float64 = 0.1

	EpisodeSteps    int = 500
	ObservationDims int = 4
	ActionDims      int = 1
)

// Params configures the Acrobot environment
type Params struct {
	env.BaseParams `yaml:",inline"`

	Dt          float64 `yaml:"dt"`
	LinkLength1 float64 `yaml:"link_length_1"`
	LinkLength2 float64 `yaml:"link_length_2"`
	LinkMass1   float64 `yaml:"link_mass_1"`
	LinkMass2   float64 `yaml:"link_mass_2"`
	LinkCOMPos1 float64 `yaml:"link_com_pos_1"`
	LinkCOMPos2 float64 `yaml:"link_com_pos_2"`
	LinkMOI     float64 `yaml:"link_moi"`
	MaxVel1     float64 `yaml:"max_vel_1"`
	MaxVel2     float64 `yaml:"max_vel_2"`
	Gravity     float64 `yaml:"gravity"`
	MaxTorque   float64 `yaml:"max_torque"`
	StartBounds float64 `yaml:"start_bounds"`

	// GoalHeight is the height above the fixed base that the tip of the
	// second link must reach
	GoalHeight float64 `yaml:"goal_height"`

	// NIPSDynamics selects the dynamics of the NeurIPS paper rather
	// than those of the RL book
	NIPSDynamics bool `yaml:"nips_dynamics"`
}

// DefaultParams returns the classic Acrobot configuration
func DefaultParams() Params {
	return Params{
		BaseParams:  env.BaseParams{MaxSteps: EpisodeSteps, Discount: 1.0},
		Dt:          Dt,
		LinkLength1: LinkLength1,
		LinkLength2: LinkLength2,
		LinkMass1:   LinkMass1,
		LinkMass2:   LinkMass2,
		LinkCOMPos1: LinkCOMPos1,
		LinkCOMPos2: LinkCOMPos2,
		LinkMOI:     LinkMOI,
		MaxVel1:     MaxVel1,
		MaxVel2:     MaxVel2,
		Gravity:     Gravity,
		MaxTorque:   MaxTorque,
		StartBounds: StartBounds,
		GoalHeight:  GoalHeight,
	}
}

// Validate checks the physical constants of the Params
func (p Params) Validate() error {
	switch {
	case p.Dt <= 0:
		return fmt.Errorf("validate: dt must be positive")
	case p.LinkLength1 <= 0 || p.LinkLength2 <= 0:
		return fmt.Errorf("validate: link lengths must be positive")
	case p.LinkMass1 <= 0 || p.LinkMass2 <= 0:
		return fmt.Errorf("validate: link masses must be positive")
	case p.MaxVel1 <= 0 || p.MaxVel2 <= 0 || p.MaxTorque <= 0:
		return fmt.Errorf("validate: velocity and torque bounds must be " +
			"positive")
	case p.StartBounds < 0 || p.StartBounds > math.Pi:
		return fmt.Errorf("validate: start bounds %v ∉ [0, π]", p.StartBounds)
	}
	return nil
}

// State is the state of the Acrobot
type State struct {
	Angle1    float64 // angle of the first link from the negative y-axis
	Angle2    float64 // angle of the second link relative to the first
	Velocity1 float64
	Velocity2 float64
	Number    int
}

// StepNumber returns the number of steps taken in the episode
func (s State) StepNumber() int { return s.Number }

// base implements the classic control environment Acrobot. In this
// environment, a double hindged and double linked pendulum is attached
// to a single actuated fixed base. Torque can be applied to the base
// to swing the double pendulum (acrobot) around.
//
// State feature vectors are 4-dimensional and consist of the angle
// of the first pendulum link measured from the negative y-axis,
// the angle of the second pendulum link relative to the first, the
// angular velocity of the first link, and the angular velocity of the
// second link. That is, a feature vector has the form:
//
//	v ⃗	= [θ1, θ2, θ̇1, θ̇2]
//
// Angles outside of [-π, π) are wrapped around to stay within this
// range, and angular velocity is clipped to stay within the legal
// range given by the Params.
//
// base is embedded in Discrete and Continuous, which implement
// the environment.Environment interface.
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

	lower := []float64{-MaxAngle, -MaxAngle, -params.MaxVel1, -params.MaxVel2}
	upper := []float64{MaxAngle, MaxAngle, params.MaxVel1, params.MaxVel2}
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
		Angle1:    start.AtVec(0),
		Angle2:    start.AtVec(1),
		Velocity1: start.AtVec(2),
		Velocity2: start.AtVec(3),
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

// nextState returns the next state of the environment given the
// torque to apply to the fixed base of the acrobot
func nextState(s State, torque float64, p Params) State {
	torque = floatutils.Clip(torque, -p.MaxTorque, p.MaxTorque)

	sAugmented := mat.NewVecDense(ObservationDims+1, []float64{s.Angle1,
		s.Angle2, s.Velocity1, s.Velocity2, torque})

	integrated := rk4(dsDt(p), sAugmented, []float64{0.0, p.Dt})
	r, _ := integrated.Dims()
	ns := integrated.RawRowView(r - 1)

	// Ensure state stays in an acceptable range
	return State{
		Angle1:    floatutils.WrapAngle(ns[0]),
		Angle2:    floatutils.WrapAngle(ns[1]),
		Velocity1: floatutils.Clip(ns[2], -p.MaxVel1, p.MaxVel1),
		Velocity2: floatutils.Clip(ns[3], -p.MaxVel2, p.MaxVel2),
		Number:    s.Number + 1,
	}
}

// transition builds the TimeStep for a move to state next
func transition(next State, p Params) ts.TimeStep {
	task := newSwingUp(p.GoalHeight)

	step := ts.New(ts.Mid, task.reward(next), p.Discount, observe(next),
		next.Number)
	env.EndAny(&step, task.ender(), env.Horizon(p))
	return step
}

func observe(s State) *mat.VecDense {
	return mat.NewVecDense(ObservationDims, []float64{s.Angle1, s.Angle2,
		s.Velocity1, s.Velocity2})
}

// dsDt returns a function that calculates ds/dt for the environment,
// where s is the current state augmented with the applied torque
func dsDt(p Params) func(*mat.VecDense, float64) []float64 {
	m1 := p.LinkMass1
	m2 := p.LinkMass2
	l1 := p.LinkLength1
	lc1 := p.LinkCOMPos1
	lc2 := p.LinkCOMPos2
	i1 := p.LinkMOI
	i2 := p.LinkMOI
	g := p.Gravity

	return func(sAugmented *mat.VecDense, _ float64) []float64 {
		a := sAugmented.AtVec(sAugmented.Len() - 1)

		theta1 := sAugmented.AtVec(0)
		theta2 := sAugmented.AtVec(1)
		dtheta1 := sAugmented.AtVec(2)
		dtheta2 := sAugmented.AtVec(3)

		d1 := (m1*math.Pow(lc1, 2) +
			m2*(math.Pow(l1, 2)+math.Pow(lc2, 2)+2*l1*lc2*math.Cos(theta2)) +
			i1 + i2)

		d2 := m2*(math.Pow(lc2, 2)+l1*lc2*math.Cos(theta2)) + i2

		phi2 := m2 * lc2 * g * math.Cos(theta1+theta2-(math.Pi/2.0))
		phi1 := (-m2*l1*lc2*math.Pow(dtheta2, 2)*math.Sin(theta2) -
			2*m2*l1*lc2*dtheta2*dtheta1*math.Sin(theta2) +
			(m1*lc1+m2*l1)*g*math.Cos(theta1-(math.Pi/2.0)) +
			phi2)

		var ddtheta2 float64
		if p.NIPSDynamics {
			ddtheta2 = (a + d2/d1*phi1 - phi2) / (m2*math.Pow(lc2, 2) + i2 -
				math.Pow(d2, 2)/d1)
		} else {
			ddtheta2 = (a + d2/d1*phi1 - m2*l1*lc2*math.Pow(dtheta1, 2)*
				math.Sin(theta2) - phi2) /
				(m2*math.Pow(lc2, 2) + i2 - math.Pow(d2, 2)/d1)
		}
		ddtheta1 := -(d2*ddtheta2 + phi1) / d1

		// Last component is da/dt == 0.0
		return []float64{dtheta1, dtheta2, ddtheta1, ddtheta2, 0.0}
	}
}

// rk4 integrates an n-dimensional system of ODEs using 4-th order
// Runge-Kutta. Row i of the returned matrix holds the solution at
// time t[i].
func rk4(derivs func(*mat.VecDense, float64) []float64, y0 *mat.VecDense,
	t []float64) *mat.Dense {
	yout := mat.NewDense(len(t), y0.Len(), nil)
	yout.SetRow(0, y0.RawVector().Data)

	for i := 0; i < len(t)-1; i++ {
		thist := t[i]
		dt := t[i+1] - thist
		dt2 := dt / 2.0

		y := mat.VecDenseCopyOf(yout.RowView(i))

		k1 := mat.NewVecDense(y.Len(), derivs(y, thist))

		input := mat.NewVecDense(y.Len(), nil)
		input.AddScaledVec(y, dt2, k1)
		k2 := mat.NewVecDense(y.Len(), derivs(input, thist+dt2))

		input.AddScaledVec(y, dt2, k2)
		k3 := mat.NewVecDense(y.Len(), derivs(input, thist+dt2))

		input.AddScaledVec(y, dt, k3)
		k4 := mat.NewVecDense(y.Len(), derivs(input, thist+dt))

		row := mat.NewVecDense(y.Len(), nil)
		row.CopyVec(k1)
		row.AddScaledVec(row, 2.0, k2)
		row.AddScaledVec(row, 2.0, k3)
		row.AddVec(row, k4)
		row.AddScaledVec(y, dt/6.0, row)

		yout.SetRow(i+1, row.RawVector().Data)
	}
	return yout
}
