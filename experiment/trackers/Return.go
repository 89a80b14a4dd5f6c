// Package trackers implements Trackers of episodic data
package trackers

import (
	"github.com/samuelfneumann/purenv/environment/wrappers"
	"github.com/samuelfneumann/purenv/experiment/tracker"
	ts "github.com/samuelfneumann/purenv/timestep"
)

// Return tracks and saves the episodic return of every trajectory in
// an experiment. Rewards are accumulated per batch index, and the
// return is recorded when that trajectory's episode ends.
//
// Boundary steps of an auto-resetting environment repeat the reward of
// the step that ended the episode and are not tracked.
//
// Note: An episode must finish for this Tracker to save its data.
// Unfinished episodes at the end of an experiment are dropped.
type Return struct {
	current  map[int]float64
	returns  []float64
	filename string
}

// NewReturn creates and returns a new *Return Tracker which saves its
// data to filename
func NewReturn(filename string) *Return {
	return &Return{
		current:  make(map[int]float64),
		filename: filename,
	}
}

// Track accumulates the reward of step into the return of trajectory i
func (r *Return) Track(i int, step ts.TimeStep) {
	if wrappers.Boundary(step) {
		return
	}
	if step.First() {
		r.current[i] = 0
		return
	}

	r.current[i] += step.Reward
	if step.Last() {
		r.returns = append(r.returns, r.current[i])
		delete(r.current, i)
	}
}

// Data returns the returns of all finished episodes, in the order
// they finished
func (r *Return) Data() []float64 {
	return append([]float64(nil), r.returns...)
}

// Save saves the tracked returns to disk
func (r *Return) Save() error {
	return tracker.Save(r.filename, r.returns)
}
