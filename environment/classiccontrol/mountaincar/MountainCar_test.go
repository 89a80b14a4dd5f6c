package mountaincar_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment/classiccontrol/mountaincar"
	"github.com/samuelfneumann/purenv/environment/envtest"
	"github.com/samuelfneumann/purenv/prng"
	ts "github.com/samuelfneumann/purenv/timestep"
)

func TestContract(t *testing.T) {
	params := mountaincar.DefaultParams()
	params.MaxSteps = 50

	t.Run("discrete", func(t *testing.T) {
		envtest.Contract(t, mountaincar.NewDiscrete(), params, 3)
	})
	t.Run("continuous", func(t *testing.T) {
		envtest.Contract(t, mountaincar.NewContinuous(), params, 3)
	})
}

func TestResetBounds(t *testing.T) {
	m := mountaincar.NewDiscrete()
	params := mountaincar.DefaultParams()
	for _, key := range prng.Split(prng.New(2), 25) {
		step, s, err := m.Reset(key, params)
		require.NoError(t, err)
		state := s.(mountaincar.State)
		require.GreaterOrEqual(t, state.Position, mountaincar.MinStartPosition)
		require.LessOrEqual(t, state.Position, mountaincar.MaxStartPosition)
		require.Equal(t, 0.0, state.Velocity)
		require.Equal(t, state.Position, step.Observation.AtVec(0))
	}
}

func TestDynamics(t *testing.T) {
	m := mountaincar.NewDiscrete()
	params := mountaincar.DefaultParams()
	state := mountaincar.State{Position: -0.5}

	step, next, err := m.Step(prng.New(0), state,
		mat.NewVecDense(1, []float64{2}), params)
	require.NoError(t, err)

	s := next.(mountaincar.State)
	require.InDelta(t, 0.0015-0.0025*0.0707372016677029, s.Velocity, 1e-12)
	require.InDelta(t, -0.5+s.Velocity, s.Position, 1e-12)
	require.Equal(t, -1.0, step.Reward)
	require.False(t, step.Done())
}

func TestLeftWall(t *testing.T) {
	m := mountaincar.NewContinuous()
	params := mountaincar.DefaultParams()
	state := mountaincar.State{Position: mountaincar.MinPosition,
		Velocity: -mountaincar.MaxSpeed}

	_, next, err := m.Step(prng.New(0), state,
		mat.NewVecDense(1, []float64{-1}), params)
	require.NoError(t, err)
	require.Equal(t, mountaincar.MinPosition, next.(mountaincar.State).Position)
	require.Equal(t, 0.0, next.(mountaincar.State).Velocity)
}

func TestGoal(t *testing.T) {
	m := mountaincar.NewDiscrete()
	params := mountaincar.DefaultParams()
	state := mountaincar.State{Position: 0.44, Velocity: mountaincar.MaxSpeed,
		Number: 10}

	step, _, err := m.Step(prng.New(0), state,
		mat.NewVecDense(1, []float64{2}), params)
	require.NoError(t, err)
	require.True(t, step.Terminated())
	require.Equal(t, ts.TerminalStateReached, step.EndType)
	require.Equal(t, 0.0, step.Reward)
}

func TestValidate(t *testing.T) {
	params := mountaincar.DefaultParams()
	require.NoError(t, params.Validate())

	bad := params
	bad.MinStartPosition = -2
	require.Error(t, bad.Validate())

	bad = params
	bad.MaxPosition = bad.MinPosition
	require.Error(t, bad.Validate())
}

func TestInvalidParams(t *testing.T) {
	params := mountaincar.DefaultParams()
	params.MinStartPosition, params.MaxStartPosition = -0.3, -0.5
	envtest.InvalidParams(t, mountaincar.NewDiscrete(), params)
	envtest.InvalidParams(t, mountaincar.NewContinuous(), params)
}
