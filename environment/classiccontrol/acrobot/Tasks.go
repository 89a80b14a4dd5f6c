package acrobot

import (
	"math"

	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/purenv/environment"
	ts "github.com/samuelfneumann/purenv/timestep"
)

const (
	// Goal position in the classic control problem is to swing the
	// tip above one link length above the fixed base. Here, we use
	// the length of the first link (which is also equal to the length
	// of the second link).
	GoalHeight float64 = LinkLength1

	// maxReward is given at episode termination, and minReward is
	// given on all other timesteps.
	maxReward, minReward float64 = 0.0, -1.0
)

// swingUp implements the classic control Acrobot task where the
// agent must swing the tip of the second link above some set
// height.
//
// The task is a cost-to-goal task:
// A reward of -1.0 is given on all timesteps except for the timestep
// which transitions the acrobot's second link above the goal line.
// On this timestep, a reward of 0.0 is given.
type swingUp struct {
	goalHeight float64
}

func newSwingUp(goalHeight float64) swingUp {
	return swingUp{goalHeight}
}

// tipHeight returns the height of the tip of the second link above the
// fixed base, measured in units of the link length
func tipHeight(theta1, theta2 float64) float64 {
	return -math.Cos(theta1) - math.Cos(theta2+theta1)
}

func (s swingUp) atGoal(next State) bool {
	return tipHeight(next.Angle1, next.Angle2) > s.goalHeight
}

func (s swingUp) reward(next State) float64 {
	if s.atGoal(next) {
		return maxReward
	}
	return minReward
}

// ender ends the episode once the tip swings above the goal line
func (s swingUp) ender() env.Ender {
	return env.NewFunctionEnder(func(obs *mat.VecDense) bool {
		return tipHeight(obs.AtVec(0), obs.AtVec(1)) > s.goalHeight
	}, ts.TerminalStateReached)
}
