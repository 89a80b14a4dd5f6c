package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/timestep"
)

// FunctionEnder ends an episode whenever a function of the observation
// returns true
type FunctionEnder struct {
	end     func(*mat.VecDense) bool
	endType timestep.EndType
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes with
// end type endType when f returns true. f must be a pure function.
func NewFunctionEnder(f func(*mat.VecDense) bool,
	endType timestep.EndType) FunctionEnder {
	return FunctionEnder{f, endType}
}

// End determines whether or not the current episode should be ended.
// If so, End() marks the timestep as the last with the ender's end type.
func (f FunctionEnder) End(t *timestep.TimeStep) bool {
	if f.end(t.Observation) {
		t.SetEnd(f.endType)
		return true
	}
	return false
}
