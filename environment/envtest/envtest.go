// Package envtest provides utilities for testing implementations of
// environment.Environment
package envtest

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/timestep"
)

// Contract checks that e honours the reset/step contract under params p.
// Reset and Step must be deterministic and must not modify their
// inputs. Observations must fit the observation space, and every
// episode must end at or before the horizon in p. Actions outside the
// action space are rejected, unless validation is skipped, in which case
// they must step without error. Random actions are drawn from the
// action space.
func Contract(t *testing.T, e environment.Environment, p environment.Params,
	episodes int) {
	t.Helper()

	horizon := p.Base().MaxSteps
	require.Positive(t, horizon, "contract: params need a horizon")

	obsSpace := e.ObservationSpace(p)
	actSpace := e.ActionSpace(p)

	key := prng.New(uint64(len(e.Name())))
	for episode := 0; episode < episodes; episode++ {
		var resetKey prng.Key
		key, resetKey = prng.Split2(key)

		step, state, err := e.Reset(resetKey, p)
		require.NoError(t, err)
		require.True(t, step.First())
		require.Equal(t, 0, step.Number)
		require.Equal(t, 0, state.StepNumber())
		require.Equal(t, obsSpace.Size(), step.Observation.Len())

		again, againState, err := e.Reset(resetKey, p)
		require.NoError(t, err)
		require.True(t, step.Equal(again), "reset is not deterministic")
		require.True(t, reflect.DeepEqual(state, againState))

		for n := 1; ; n++ {
			require.LessOrEqual(t, n, horizon, "episode outlived its horizon")

			keys := prng.Split(key, 3)
			key = keys[0]
			action := actSpace.Sample(keys[1])
			actionCopy := mat.VecDenseCopyOf(action)

			next, nextState, err := e.Step(keys[2], state, action, p)
			require.NoError(t, err)
			require.Equal(t, n, next.Number)
			require.Equal(t, n, nextState.StepNumber())
			require.Equal(t, obsSpace.Size(), next.Observation.Len())

			repeat, repeatState, err := e.Step(keys[2], state, action, p)
			require.NoError(t, err)
			require.True(t, next.Equal(repeat), "step is not deterministic")
			require.True(t, reflect.DeepEqual(nextState, repeatState))
			require.True(t, mat.Equal(action, actionCopy), "action modified")

			state = nextState
			if next.Done() {
				break
			}
		}
	}

	// A vector of the wrong length is never a member of the action space
	_, state, err := e.Reset(key, p)
	require.NoError(t, err)
	bad := mat.NewVecDense(actSpace.Size()+1, nil)
	_, _, err = e.Step(key, state, bad, p)
	var iae *environment.InvalidActionError
	require.True(t, errors.As(err, &iae), "want InvalidActionError, have %v",
		err)

	// With validation skipped, invalid actions are clipped or ignored
	skip, ok := skipValidation(p)
	if !ok {
		return
	}
	huge := mat.NewVecDense(actSpace.Size(), nil)
	for i := 0; i < huge.Len(); i++ {
		huge.SetVec(i, 1e6)
	}
	for name, a := range map[string]mat.Vector{
		"out of range": huge,
		"wrong length": bad,
		"nil":          nil,
	} {
		var step timestep.TimeStep
		var next environment.State
		require.NotPanics(t, func() {
			step, next, err = e.Step(key, state, a, skip)
		}, "%v action panicked with validation skipped", name)
		require.NoError(t, err, "%v action with validation skipped", name)
		require.Equal(t, obsSpace.Size(), step.Observation.Len())
		require.Equal(t, state.StepNumber()+1, next.StepNumber())
	}
}

// InvalidParams checks that Reset, Step, and ObservationSpace of e
// return environment.ErrInvalidParams for the invalid params p instead
// of panicking
func InvalidParams(t *testing.T, e environment.Environment,
	p environment.Params) {
	t.Helper()

	key := prng.New(1)
	var err error
	require.NotPanics(t, func() { _, _, err = e.Reset(key, p) })
	require.ErrorIs(t, err, environment.ErrInvalidParams)

	defaults := e.DefaultParams()
	_, state, err := e.Reset(key, defaults)
	require.NoError(t, err)
	action := e.ActionSpace(defaults).Sample(key)
	require.NotPanics(t, func() { _, _, err = e.Step(key, state, action, p) })
	require.ErrorIs(t, err, environment.ErrInvalidParams)

	require.NotPanics(t, func() { e.ObservationSpace(p) })
}

// skipValidation returns a copy of p with action validation turned off.
// It reports false if p does not embed environment.BaseParams.
func skipValidation(p environment.Params) (environment.Params, bool) {
	v := reflect.New(reflect.TypeOf(p)).Elem()
	v.Set(reflect.ValueOf(p))
	if v.Kind() != reflect.Struct {
		return nil, false
	}

	field := v.FieldByName("SkipValidation")
	if !field.IsValid() || !field.CanSet() || field.Kind() != reflect.Bool {
		return nil, false
	}
	field.SetBool(true)
	return v.Interface().(environment.Params), true
}
