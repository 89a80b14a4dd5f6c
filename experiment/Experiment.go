// Package experiment implements functionality for running experiments:
// a policy acting in a batch of auto-resetting trajectories, with
// Trackers recording data from each TimeStep.
package experiment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	ts "github.com/samuelfneumann/purenv/timestep"
)

// Policy selects actions. Policies must be pure in the same way as
// environments: the action depends only on the key and the TimeStep.
type Policy interface {
	Act(key prng.Key, step ts.TimeStep) mat.Vector
}

// Random selects actions uniformly from an action space
type Random struct {
	Space spec.Space
}

// NewRandom returns a Random policy over the action space of e
func NewRandom(e environment.Environment, p environment.Params) Random {
	return Random{Space: e.ActionSpace(p)}
}

// Act samples an action from the action space
func (r Random) Act(key prng.Key, _ ts.TimeStep) mat.Vector {
	return r.Space.Sample(key)
}

// Progress is notified after every step of an experiment
type Progress interface {
	Increment()
}
