package mountaincar

import (
	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/purenv/environment"
	ts "github.com/samuelfneumann/purenv/timestep"
)

const (
	// Commonly used goal position
	GoalPosition float64 = 0.45
)

// goal implements the classic control task of reaching a goal on
// Mountain Car. In this task, the agent must learn to drive the car
// up the hill and reach the goal state. Since the car is underpowered,
// it must rock back and forth from hill to hill until it reaches the
// goal.
//
// Rewards are -1 on each timestep and 0 for the action which
// transitions the car to the goal.
type goal struct {
	goalX float64
}

func newGoal(goalX float64) goal {
	return goal{goalX}
}

// reward returns the reward for transitioning to next
func (g goal) reward(next State) float64 {
	if g.atGoal(next) {
		return 0.0
	}
	return -1.0
}

// atGoal returns whether the car has reached the goal
func (g goal) atGoal(s State) bool {
	return s.Position >= g.goalX
}

// ender ends an episode as soon as the car reaches the goal
func (g goal) ender() env.Ender {
	return env.NewFunctionEnder(func(obs *mat.VecDense) bool {
		return obs.AtVec(0) >= g.goalX
	}, ts.TerminalStateReached)
}
