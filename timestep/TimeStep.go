// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType denotes the way in which an episode ended
type EndType int

const (
	// None means the episode has not ended
	None EndType = iota

	// TerminalStateReached means the environment entered a terminal state
	TerminalStateReached

	// Timeout means the episode was truncated at the step horizon
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "None"
	}
}

// Info holds diagnostic values of a transition. Keys are stable for a
// given environment; their order carries no meaning.
type Info map[string]float64

// Keys returns the keys of the Info in sorted order
func (i Info) Keys() []string {
	keys := make([]string, 0, len(i))
	for k := range i {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of the Info
func (i Info) Clone() Info {
	if i == nil {
		return nil
	}
	clone := make(Info, len(i))
	for k, v := range i {
		clone[k] = v
	}
	return clone
}

// TimeStep packages together a single timestep in an environment: the
// observation after a transition, the reward for the transition, and
// whether the transition ended the episode
type TimeStep struct {
	StepType
	EndType     EndType
	Reward      float64
	Discount    float64
	Observation *mat.VecDense
	Number      int
	Info        Info
}

// New returns a new TimeStep
func New(t StepType, r, d float64, o *mat.VecDense, n int) TimeStep {
	return TimeStep{StepType: t, Reward: r, Discount: d, Observation: o,
		Number: n}
}

// First returns whether a TimeStep is the first in an environment
func (t TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t TimeStep) Last() bool {
	return t.StepType == Last
}

// Done is an alias of Last. An episode is done whether it reached a
// terminal state or was truncated.
func (t TimeStep) Done() bool {
	return t.Last()
}

// SetEnd marks the TimeStep as the last in its episode, ending in the
// way described by e
func (t *TimeStep) SetEnd(e EndType) {
	t.StepType = Last
	t.EndType = e
}

// Truncated returns whether the episode was cut off at the step horizon
func (t TimeStep) Truncated() bool {
	return t.Last() && t.EndType == Timeout
}

// Terminated returns whether the episode ended in a terminal state
func (t TimeStep) Terminated() bool {
	return t.Last() && t.EndType == TerminalStateReached
}

// Equal reports whether two TimeSteps hold identical values
func (t TimeStep) Equal(other TimeStep) bool {
	if t.StepType != other.StepType || t.EndType != other.EndType ||
		t.Reward != other.Reward || t.Discount != other.Discount ||
		t.Number != other.Number || len(t.Info) != len(other.Info) {
		return false
	}
	for k, v := range t.Info {
		if w, ok := other.Info[k]; !ok || w != v {
			return false
		}
	}
	if t.Observation == nil || other.Observation == nil {
		return t.Observation == other.Observation
	}
	return t.Observation.Len() == other.Observation.Len() &&
		mat.Equal(t.Observation, other.Observation)
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number)
}
