package floatutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	require.Equal(t, 1.0, Clip(3, -1, 1))
	require.Equal(t, -1.0, Clip(-3, -1, 1))
	require.Equal(t, 0.5, ClipInterval(0.5, r1.Interval{Min: 0, Max: 1}))
	require.True(t, Contains(1, r1.Interval{Min: 0, Max: 1}))
	require.False(t, Contains(1.1, r1.Interval{Min: 0, Max: 1}))
}

func TestWrapAngle(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{math.Pi, -math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
	}
	for _, tc := range tests {
		require.InDelta(t, tc.want, WrapAngle(tc.in), 1e-9, "wrap(%v)", tc.in)
	}
}
