package wrappers_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/purenv/environment/classiccontrol/mountaincar"
	"github.com/samuelfneumann/purenv/environment/envtest"
	"github.com/samuelfneumann/purenv/environment/wrappers"
	"github.com/samuelfneumann/purenv/prng"
)

var mountainCarBins = [][]int{{4, 4}, {4, 4}, {8, 8}}

func TestTileCoding(t *testing.T) {
	e, err := wrappers.NewTileCoding(mountaincar.NewDiscrete(), prng.New(1),
		mountainCarBins, true)
	require.NoError(t, err)

	params := mountaincar.DefaultParams()
	require.Equal(t, []int{1 + 16 + 16 + 64}, e.ObservationSpace(params).Shape())

	step, state, err := e.Reset(prng.New(2), params)
	require.NoError(t, err)
	require.Equal(t, 4.0, mat.Sum(step.Observation))
	require.True(t, e.ObservationSpace(params).Contains(step.Observation))

	step, _, err = e.Step(prng.New(3), state, mat.NewVecDense(1, []float64{2}),
		params)
	require.NoError(t, err)
	require.Equal(t, 4.0, mat.Sum(step.Observation))
	require.Equal(t, -1.0, step.Reward)
}

func TestIndexTileCoding(t *testing.T) {
	dense, err := wrappers.NewTileCoding(mountaincar.NewDiscrete(),
		prng.New(1), mountainCarBins, false)
	require.NoError(t, err)
	indices, err := wrappers.NewIndexTileCoding(mountaincar.NewDiscrete(),
		prng.New(1), mountainCarBins, false)
	require.NoError(t, err)

	params := mountaincar.DefaultParams()
	require.Equal(t, []int{3}, indices.ObservationSpace(params).Shape())

	denseStep, _, err := dense.Reset(prng.New(7), params)
	require.NoError(t, err)
	indexStep, _, err := indices.Reset(prng.New(7), params)
	require.NoError(t, err)
	require.True(t, indices.ObservationSpace(params).Contains(
		indexStep.Observation))

	for i := 0; i < indexStep.Observation.Len(); i++ {
		index := int(indexStep.Observation.AtVec(i))
		require.Equal(t, 1.0, denseStep.Observation.AtVec(index))
	}
}

func TestTileCodingContract(t *testing.T) {
	e, err := wrappers.NewTileCoding(mountaincar.NewContinuous(), prng.New(1),
		mountainCarBins, true)
	require.NoError(t, err)

	params := mountaincar.DefaultParams()
	params.MaxSteps = 20
	envtest.Contract(t, e, params, 2)
}

func TestTileCodingUnbounded(t *testing.T) {
	_, err := wrappers.NewTileCoding(cartpole.NewDiscrete(), prng.New(1),
		[][]int{{2, 2, 2, 2}}, false)
	require.Error(t, err)
}
