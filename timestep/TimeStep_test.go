package timestep_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/purenv/timestep"
)

func TestSetEnd(t *testing.T) {
	step := ts.New(ts.Mid, 1, 0.99, mat.NewVecDense(1, []float64{3}), 4)
	require.True(t, step.Mid())
	require.False(t, step.Done())

	step.SetEnd(ts.Timeout)
	require.True(t, step.Last())
	require.True(t, step.Done())
	require.True(t, step.Truncated())
	require.False(t, step.Terminated())
	require.Equal(t, "Timeout", step.EndType.String())
}

func TestEqual(t *testing.T) {
	a := ts.New(ts.First, 0, 1, mat.NewVecDense(2, []float64{1, 2}), 0)
	b := ts.New(ts.First, 0, 1, mat.NewVecDense(2, []float64{1, 2}), 0)
	require.True(t, a.Equal(b))

	a.Info = ts.Info{"x": 1}
	require.False(t, a.Equal(b))
	b.Info = a.Info.Clone()
	require.True(t, a.Equal(b))

	b.Observation = mat.NewVecDense(3, nil)
	require.False(t, a.Equal(b))
}

func TestInfoKeys(t *testing.T) {
	info := ts.Info{"b": 2, "a": 1, "c": 3}
	require.Equal(t, []string{"a", "b", "c"}, info.Keys())
	require.Nil(t, ts.Info(nil).Clone())
}
