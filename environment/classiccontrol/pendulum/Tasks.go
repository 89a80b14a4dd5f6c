package pendulum

import "math"

// swingUp implements a task where the agent must swing the pendulum up
// and hold it in a vertical position. Rewards are the cosine of the
// pendulum angle measured from the positive y-axis. The goal state
// is the pendulum sticking straight up, at which point the agent gets
// a reward of 1.0 on each timestep
type swingUp struct{}

func (swingUp) reward(next State) float64 {
	return math.Cos(next.Angle)
}

