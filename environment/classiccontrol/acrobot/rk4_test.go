package acrobot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestRK4Exponential(t *testing.T) {
	derivs := func(y *mat.VecDense, _ float64) []float64 {
		return []float64{y.AtVec(0)}
	}

	out := rk4(derivs, mat.NewVecDense(1, []float64{1}), []float64{0, 0.1, 0.2})
	require.InDelta(t, math.Exp(0.1), out.At(1, 0), 1e-6)
	require.InDelta(t, math.Exp(0.2), out.At(2, 0), 1e-6)
}
