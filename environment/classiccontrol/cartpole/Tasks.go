package cartpole

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/purenv/environment"
	ts "github.com/samuelfneumann/purenv/timestep"
)

const (
	FailAngle    float64 = 12 * 2 * math.Pi / 360
	FailPosition float64 = 2.4
)

// balance implements the classic control Cartpole Balance task. In this
// task, the goal of the agent is to balance the pole on the cart in
// an upright position for as long as possible.
//
// The rewards are +1 for every timestep and -1 when the pole has fallen
// below some set angle threshold θ.
//
// Episodes end after a step limit, after the pole has fallen below
// the angle threshold θ, or after the cart has left the track.
type balance struct {
	failAngle    float64
	failPosition float64
}

func newBalance(failAngle, failPosition float64) balance {
	return balance{failAngle, failPosition}
}

// reward returns the reward for a transition into state next
func (b balance) reward(next State) float64 {
	// Angle of 0 is pointing straight up, so we want angles to be
	// less than the failAngle
	if math.Abs(next.Angle) < b.failAngle {
		return 1.0
	}
	return -1.0
}

// ender ends the episode when the cart position or pole angle leave
// their legal intervals
func (b balance) ender() env.Ender {
	legal := []r1.Interval{
		{Min: -b.failPosition, Max: b.failPosition},
		{Min: -b.failAngle, Max: b.failAngle},
	}
	ender, _ := env.NewIntervalLimit(legal, []int{0, 2},
		ts.TerminalStateReached)
	return ender
}
