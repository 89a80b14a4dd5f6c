package acrobot_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment/classiccontrol/acrobot"
	"github.com/samuelfneumann/purenv/environment/envtest"
	"github.com/samuelfneumann/purenv/prng"
	ts "github.com/samuelfneumann/purenv/timestep"
)

func TestContract(t *testing.T) {
	params := acrobot.DefaultParams()
	params.MaxSteps = 30

	t.Run("discrete", func(t *testing.T) {
		envtest.Contract(t, acrobot.NewDiscrete(), params, 2)
	})
	t.Run("continuous", func(t *testing.T) {
		envtest.Contract(t, acrobot.NewContinuous(), params, 2)
	})
}

func TestRestingStaysAtRest(t *testing.T) {
	params := acrobot.DefaultParams()

	step, next, err := acrobot.NewDiscrete().Step(prng.New(0), acrobot.State{},
		mat.NewVecDense(1, []float64{1}), params)
	require.NoError(t, err)

	s := next.(acrobot.State)
	require.InDelta(t, 0.0, s.Angle1, 1e-9)
	require.InDelta(t, 0.0, s.Angle2, 1e-9)
	require.InDelta(t, 0.0, s.Velocity1, 1e-9)
	require.InDelta(t, 0.0, s.Velocity2, 1e-9)
	require.Equal(t, 1, s.Number)
	require.Equal(t, -1.0, step.Reward)
	require.False(t, step.Done())
}

func TestTorqueDirection(t *testing.T) {
	params := acrobot.DefaultParams()
	d := acrobot.NewDiscrete()

	_, neg, err := d.Step(prng.New(0), acrobot.State{},
		mat.NewVecDense(1, []float64{0}), params)
	require.NoError(t, err)
	_, pos, err := d.Step(prng.New(0), acrobot.State{},
		mat.NewVecDense(1, []float64{2}), params)
	require.NoError(t, err)

	require.InDelta(t, -neg.(acrobot.State).Velocity2,
		pos.(acrobot.State).Velocity2, 1e-9)
	require.Greater(t, pos.(acrobot.State).Velocity2, 0.0)
}

func TestGoal(t *testing.T) {
	params := acrobot.DefaultParams()
	state := acrobot.State{Angle1: math.Pi - 1e-3, Number: 4}

	step, _, err := acrobot.NewContinuous().Step(prng.New(0), state,
		mat.NewVecDense(1, []float64{0}), params)
	require.NoError(t, err)
	require.True(t, step.Terminated())
	require.Equal(t, ts.TerminalStateReached, step.EndType)
	require.Equal(t, 0.0, step.Reward)
}

func TestValidate(t *testing.T) {
	params := acrobot.DefaultParams()
	require.NoError(t, params.Validate())

	bad := params
	bad.Dt = 0
	require.Error(t, bad.Validate())

	bad = params
	bad.StartBounds = 4
	require.Error(t, bad.Validate())
}

func TestInvalidParams(t *testing.T) {
	params := acrobot.DefaultParams()
	params.Dt = 0
	envtest.InvalidParams(t, acrobot.NewDiscrete(), params)
	envtest.InvalidParams(t, acrobot.NewContinuous(), params)
}
