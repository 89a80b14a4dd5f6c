package wrappers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/spec"
	ts "github.com/samuelfneumann/purenv/timestep"
	"github.com/samuelfneumann/purenv/utils/matutils/tilecoder"
)

// TileCoding wraps an environment and tile codes its observations.
// Tilings are placed over the bounds of the wrapped environment's
// observation space, which must be a bounded spec.Box, and are offset
// using a fixed key so that every call encodes identically.
//
// If built with NewIndexTileCoding, observations are instead the
// indices of the non-zero components of the tile-coded representation.
// For example, if the tile-coded representation of some environment
// state is [1 0 1 0 0 0 1], then the observation is [0 2 6].
//
// TileCoding itself implements the environment.Environment interface,
// and is therefore itself an Environment.
type TileCoding struct {
	environment.Environment
	key     prng.Key
	bins    [][]int
	bias    bool
	indices bool

	// The coder for the observation space under the default params is
	// built once. Other spaces get a new coder on every call.
	defaultSpace spec.Box
	defaultCoder tilecoder.TileCoder
}

// NewTileCoding wraps env so that observations are tile coded. The
// bins parameter specifies both how many tilings to use as well as the
// number of tiles per tiling, see tilecoder.New. If bias is true, the
// first feature of every tile-coded observation is a bias unit.
func NewTileCoding(env environment.Environment, key prng.Key, bins [][]int,
	bias bool) (*TileCoding, error) {
	t := &TileCoding{Environment: env, key: key, bins: bins, bias: bias}

	box, err := t.box(env.DefaultParams())
	if err != nil {
		return nil, fmt.Errorf("newTileCoding: %w", err)
	}
	coder, err := tilecoder.New(key, box.Low(), box.High(), bins, bias)
	if err != nil {
		return nil, fmt.Errorf("newTileCoding: %w", err)
	}
	t.defaultSpace, t.defaultCoder = box, coder
	return t, nil
}

// NewIndexTileCoding wraps env so that observations are the indices of
// the non-zero components of the tile-coded observation
func NewIndexTileCoding(env environment.Environment, key prng.Key,
	bins [][]int, bias bool) (*TileCoding, error) {
	t, err := NewTileCoding(env, key, bins, bias)
	if err != nil {
		return nil, fmt.Errorf("newIndexTileCoding: %w", err)
	}
	t.indices = true
	return t, nil
}

// box returns the observation space of the wrapped environment under p
func (t *TileCoding) box(p environment.Params) (spec.Box, error) {
	space := t.Environment.ObservationSpace(p)
	box, ok := space.(spec.Box)
	if !ok {
		return spec.Box{}, fmt.Errorf("cannot tile code observation space "+
			"%v", space)
	}
	return box, nil
}

// coder returns the TileCoder for the observation space of the wrapped
// environment under p
func (t *TileCoding) coder(p environment.Params) (tilecoder.TileCoder,
	error) {
	box, err := t.box(p)
	if err != nil {
		return tilecoder.TileCoder{}, fmt.Errorf("coder: %w", err)
	}
	if box.Equal(t.defaultSpace) {
		return t.defaultCoder, nil
	}
	return tilecoder.New(t.key, box.Low(), box.High(), t.bins, t.bias)
}

func (t *TileCoding) encode(step ts.TimeStep, p environment.Params) (
	ts.TimeStep, error) {
	coder, err := t.coder(p)
	if err != nil {
		return ts.TimeStep{}, err
	}

	if t.indices {
		obs := coder.EncodeIndices(step.Observation)
		step.Observation = mat.NewVecDense(len(obs), obs)
	} else {
		step.Observation = coder.Encode(step.Observation)
	}
	return step, nil
}

// Reset resets the wrapped environment and tile codes the first
// observation
func (t *TileCoding) Reset(key prng.Key, p environment.Params) (ts.TimeStep,
	environment.State, error) {
	step, state, err := t.Environment.Reset(key, p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("reset: %w", err)
	}

	step, err = t.encode(step, p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("reset: %w", err)
	}
	return step, state, nil
}

// Step takes one environmental step in the wrapped environment and
// tile codes the next observation
func (t *TileCoding) Step(key prng.Key, s environment.State, a mat.Vector,
	p environment.Params) (ts.TimeStep, environment.State, error) {
	step, state, err := t.Environment.Step(key, s, a, p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}

	step, err = t.encode(step, p)
	if err != nil {
		return ts.TimeStep{}, nil, fmt.Errorf("step: %w", err)
	}
	return step, state, nil
}

// ObservationSpace returns the observation space of the environment.
// If the wrapped observation space cannot be tile coded, it is
// returned unchanged.
func (t *TileCoding) ObservationSpace(p environment.Params) spec.Space {
	coder, err := t.coder(p)
	if err != nil {
		return t.Environment.ObservationSpace(p)
	}

	if t.indices {
		n := coder.NumTilings()
		if t.bias {
			n++
		}
		space, _ := spec.NewUniformBox(0, float64(coder.VecLength()-1),
			[]int{n}, spec.Int)
		return space
	}

	space, _ := spec.NewUniformBox(0, 1, []int{coder.VecLength()},
		spec.Float64)
	return space
}

// String returns a string representation of the TileCoding environment
func (t *TileCoding) String() string {
	return fmt.Sprintf("TileCoding: %v", t.Environment.Name())
}
