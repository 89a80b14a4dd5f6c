package gridworld_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment/envtest"
	"github.com/samuelfneumann/purenv/environment/gridworld"
	"github.com/samuelfneumann/purenv/prng"
	ts "github.com/samuelfneumann/purenv/timestep"
)

func action(a int) *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(a)})
}

func TestContract(t *testing.T) {
	params := gridworld.DefaultParams()
	params.MaxSteps = 25
	envtest.Contract(t, gridworld.New(), params, 3)

	params.RandomStart = true
	envtest.Contract(t, gridworld.New(), params, 3)
}

func TestObservation(t *testing.T) {
	g := gridworld.New()
	params := gridworld.DefaultParams()
	params.Rows, params.Cols = 2, 3
	params.Start = gridworld.Cell{X: 1, Y: 1}
	params.Goals = []gridworld.Cell{{X: 2, Y: 0}}

	require.Equal(t, []int{2, 3}, g.ObservationSpace(params).Shape())

	step, _, err := g.Reset(prng.New(0), params)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0, 0, 1, 0},
		step.Observation.RawVector().Data)
}

func TestMoves(t *testing.T) {
	g := gridworld.New()
	params := gridworld.DefaultParams()
	start := gridworld.State{Cell: gridworld.Cell{X: 0, Y: 0}}

	tests := []struct {
		name   string
		action int
		want   gridworld.Cell
	}{
		{"left wall", gridworld.Left, gridworld.Cell{X: 0, Y: 0}},
		{"right", gridworld.Right, gridworld.Cell{X: 1, Y: 0}},
		{"up", gridworld.Up, gridworld.Cell{X: 0, Y: 1}},
		{"bottom wall", gridworld.Down, gridworld.Cell{X: 0, Y: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			step, next, err := g.Step(prng.New(0), start, action(tc.action),
				params)
			require.NoError(t, err)
			require.Equal(t, tc.want, next.(gridworld.State).Cell)
			require.Equal(t, 1, next.StepNumber())
			require.Equal(t, params.TimeStepReward, step.Reward)
			require.False(t, step.Done())
		})
	}
}

func TestGoal(t *testing.T) {
	g := gridworld.New()
	params := gridworld.DefaultParams()
	state := gridworld.State{Cell: gridworld.Cell{X: 3, Y: 4}, Number: 7}

	step, next, err := g.Step(prng.New(0), state, action(gridworld.Right),
		params)
	require.NoError(t, err)
	require.Equal(t, gridworld.Cell{X: 4, Y: 4}, next.(gridworld.State).Cell)
	require.True(t, step.Terminated())
	require.Equal(t, ts.TerminalStateReached, step.EndType)
	require.Equal(t, params.GoalReward, step.Reward)
}

func TestRandomStart(t *testing.T) {
	g := gridworld.New()
	params := gridworld.DefaultParams()
	params.Rows, params.Cols = 2, 2
	params.Start = gridworld.Cell{X: 0, Y: 0}
	params.Goals = []gridworld.Cell{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	params.RandomStart = true

	for _, key := range prng.Split(prng.New(3), 20) {
		_, s, err := g.Reset(key, params)
		require.NoError(t, err)
		require.Equal(t, params.Start, s.(gridworld.State).Cell)
	}

	params.Goals = params.Goals[:1]
	seen := map[gridworld.Cell]bool{}
	for _, key := range prng.Split(prng.New(4), 60) {
		_, s, err := g.Reset(key, params)
		require.NoError(t, err)
		seen[s.(gridworld.State).Cell] = true
	}
	require.Len(t, seen, 3)
	require.False(t, seen[gridworld.Cell{X: 1, Y: 0}])
}

func TestUnknownActionSkipped(t *testing.T) {
	g := gridworld.New()
	params := gridworld.DefaultParams()
	params.SkipValidation = true
	state := gridworld.State{Cell: gridworld.Cell{X: 2, Y: 2}}

	_, next, err := g.Step(prng.New(0), state, action(9), params)
	require.NoError(t, err)
	require.Equal(t, state.Cell, next.(gridworld.State).Cell)
}

func TestValidate(t *testing.T) {
	params := gridworld.DefaultParams()
	require.NoError(t, params.Validate())

	tests := []struct {
		name   string
		modify func(*gridworld.Params)
	}{
		{"empty grid", func(p *gridworld.Params) { p.Rows = 0 }},
		{"no goals", func(p *gridworld.Params) { p.Goals = nil }},
		{"goal outside", func(p *gridworld.Params) {
			p.Goals = []gridworld.Cell{{X: 5, Y: 0}}
		}},
		{"start outside", func(p *gridworld.Params) {
			p.Start = gridworld.Cell{X: -1, Y: 0}
		}},
		{"start at goal", func(p *gridworld.Params) {
			p.Start = gridworld.Cell{X: 4, Y: 4}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bad := gridworld.DefaultParams()
			tc.modify(&bad)
			require.Error(t, bad.Validate())
		})
	}
}

func TestInvalidParams(t *testing.T) {
	for _, rows := range []int{-2, 0} {
		params := gridworld.DefaultParams()
		params.Rows = rows
		envtest.InvalidParams(t, gridworld.New(), params)
	}
}
