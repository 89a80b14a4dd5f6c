package wrappers_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/environment/counter"
	"github.com/samuelfneumann/purenv/environment/envtest"
	"github.com/samuelfneumann/purenv/environment/gridworld"
	"github.com/samuelfneumann/purenv/environment/wrappers"
	"github.com/samuelfneumann/purenv/prng"
	ts "github.com/samuelfneumann/purenv/timestep"
)

func counterParams(horizon int, noise float64) counter.Params {
	p := counter.New().DefaultParams().(counter.Params)
	p.MaxSteps = horizon
	p.StartNoise = noise
	return p
}

func TestCounterScenario(t *testing.T) {
	e := wrappers.NewAutoReset(counter.New())
	params := counterParams(3, 0)
	plusOne := mat.NewVecDense(1, []float64{1})
	key := prng.New(0)

	first, s, err := e.Reset(key, params)
	require.NoError(t, err)
	require.Equal(t, 0.0, first.Observation.AtVec(0))
	require.Equal(t, 0.0, first.Info[wrappers.InfoKey])

	wantDone := []bool{false, false, true}
	for i, done := range wantDone {
		key, _ = prng.Split2(key)
		step, next, err := e.Step(key, s, plusOne, params)
		require.NoError(t, err)
		require.Equal(t, float64(i+1), step.Observation.AtVec(0))
		require.Equal(t, done, step.Done())
		require.Equal(t, 0.0, step.Info[wrappers.InfoKey])
		s = next
	}
	require.True(t, s.(wrappers.AutoResetState).Done)

	// The boundary step reports the prior reward and done with the
	// observation of a fresh reset
	key, _ = prng.Split2(key)
	boundary, s, err := e.Step(key, s, plusOne, params)
	require.NoError(t, err)
	require.True(t, boundary.Done())
	require.Equal(t, ts.Timeout, boundary.EndType)
	require.Equal(t, 1.0, boundary.Reward)
	require.True(t, mat.Equal(first.Observation, boundary.Observation))
	require.Equal(t, 1.0, boundary.Info[wrappers.InfoKey])
	require.True(t, wrappers.Boundary(boundary))
	require.False(t, s.(wrappers.AutoResetState).Done)
	require.Equal(t, 0, s.StepNumber())

	// The boundary is reported once; the new episode continues
	key, _ = prng.Split2(key)
	step, s, err := e.Step(key, s, plusOne, params)
	require.NoError(t, err)
	require.False(t, step.Done())
	require.False(t, wrappers.Boundary(step))
	require.Equal(t, 1.0, step.Observation.AtVec(0))
	require.Equal(t, 1, s.StepNumber())
}

func TestBoundaryMatchesFreshReset(t *testing.T) {
	inner := counter.New()
	e := wrappers.NewAutoReset(inner)
	params := counterParams(1, 0.5)
	key := prng.New(99)

	_, s, err := e.Reset(key, params)
	require.NoError(t, err)
	step, s, err := e.Step(key, s, mat.NewVecDense(1, []float64{-1}), params)
	require.NoError(t, err)
	require.True(t, step.Done())

	boundaryKey := prng.New(1234)
	boundary, s, err := e.Step(boundaryKey, s,
		mat.NewVecDense(1, []float64{1}), params)
	require.NoError(t, err)

	fresh, freshState, err := inner.Reset(wrappers.ResetKey(boundaryKey),
		params)
	require.NoError(t, err)
	require.True(t, mat.Equal(fresh.Observation, boundary.Observation))
	require.Equal(t, freshState, s.(wrappers.AutoResetState).Inner)
	require.Equal(t, step.Reward, boundary.Reward)
}

func TestBoundaryIgnoresAction(t *testing.T) {
	e := wrappers.NewAutoReset(gridworld.New())
	params := gridworld.DefaultParams()
	done := wrappers.AutoResetState{
		Inner:   gridworld.State{Cell: gridworld.Cell{X: 4, Y: 4}, Number: 8},
		Done:    true,
		Reward:  params.GoalReward,
		EndType: ts.TerminalStateReached,
	}

	// Validation is not applied on the boundary step
	step, next, err := e.Step(prng.New(5), done,
		mat.NewVecDense(1, []float64{7}), params)
	require.NoError(t, err)
	require.True(t, step.Terminated())
	require.Equal(t, params.GoalReward, step.Reward)
	require.Equal(t, params.Start,
		next.(wrappers.AutoResetState).Inner.(gridworld.State).Cell)
}

func TestContract(t *testing.T) {
	params := counterParams(5, 0.25)
	envtest.Contract(t, wrappers.NewAutoReset(counter.New()), params, 3)
}

func TestWrongState(t *testing.T) {
	e := wrappers.NewAutoReset(counter.New())
	_, _, err := e.Step(prng.New(0), counter.State{},
		mat.NewVecDense(1, []float64{0}), counterParams(3, 0))
	require.ErrorIs(t, err, environment.ErrWrongType)
}

func TestDelegates(t *testing.T) {
	inner := counter.New()
	e := wrappers.NewAutoReset(inner)
	params := counterParams(3, 0)

	require.Equal(t, inner.Name(), e.Name())
	require.Equal(t, inner.DefaultParams(), e.DefaultParams())
	require.Equal(t, inner.ActionSpace(params).String(),
		e.ActionSpace(params).String())
	require.Equal(t, inner.ObservationSpace(params).String(),
		e.ObservationSpace(params).String())
}

func TestInvalidParams(t *testing.T) {
	envtest.InvalidParams(t, wrappers.NewAutoReset(counter.New()),
		counterParams(3, -1))
}
