package environment

import "github.com/samuelfneumann/purenv/timestep"

// Ender determines whether a freshly computed TimeStep ends its episode.
// If so, End marks the TimeStep as the last in the episode. Enders are
// only ever applied to TimeSteps that a Step call is still building.
type Ender interface {
	End(t *timestep.TimeStep) bool
}

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit. A limit of zero
// or less never ends an episode.
func NewStepLimit(episodeSteps int) StepLimit {
	return StepLimit{episodeSteps}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is timestep.Timeout
func (s StepLimit) End(t *timestep.TimeStep) bool {
	if s.episodeSteps > 0 && t.Number >= s.episodeSteps {
		t.SetEnd(timestep.Timeout)
		return true
	}
	return false
}

// Horizon returns the Ender for the horizon configured in p
func Horizon(p Params) StepLimit {
	return NewStepLimit(p.Base().MaxSteps)
}

// EndAny applies each Ender in turn, stopping at the first that ends
// the episode. Terminal conditions should be listed before the horizon
// so that an episode reaching its goal on the last step reports a
// terminal state rather than a timeout.
func EndAny(t *timestep.TimeStep, enders ...Ender) bool {
	for _, e := range enders {
		if e.End(t) {
			return true
		}
	}
	return false
}
