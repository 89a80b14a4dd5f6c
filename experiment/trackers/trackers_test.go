package trackers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/purenv/environment/wrappers"
	"github.com/samuelfneumann/purenv/experiment/trackers"
	ts "github.com/samuelfneumann/purenv/timestep"
)

func step(t ts.StepType, reward float64, n int, boundary bool) ts.TimeStep {
	s := ts.New(t, reward, 1, nil, n)
	s.Info = ts.Info{wrappers.InfoKey: 0}
	if boundary {
		s.Info[wrappers.InfoKey] = 1
	}
	return s
}

func TestInterleaved(t *testing.T) {
	r := trackers.NewReturn("")
	l := trackers.NewEpisodeLength("")
	track := func(i int, s ts.TimeStep) {
		r.Track(i, s)
		l.Track(i, s)
	}

	track(0, step(ts.First, 0, 0, false))
	track(1, step(ts.First, 0, 0, false))
	track(0, step(ts.Mid, 1, 1, false))
	track(1, step(ts.Last, 5, 1, false))
	track(0, step(ts.Last, 2, 2, false))
	track(1, step(ts.Last, 5, 0, true))
	track(0, step(ts.Last, 2, 0, true))
	track(1, step(ts.Mid, -1, 1, false))

	require.Equal(t, []float64{5, 3}, r.Data())
	require.Equal(t, []float64{1, 2}, l.Data())

	// The episode after a boundary starts from zero
	track(1, step(ts.Last, -1, 2, false))
	require.Equal(t, []float64{5, 3, -2}, r.Data())
	require.Equal(t, []float64{1, 2, 2}, l.Data())
}
