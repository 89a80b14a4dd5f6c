package trackers

import (
	"github.com/samuelfneumann/purenv/environment/wrappers"
	"github.com/samuelfneumann/purenv/experiment/tracker"
	ts "github.com/samuelfneumann/purenv/timestep"
)

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment. As with Return, unfinished episodes are not saved.
type EpisodeLength struct {
	lengths  []float64
	filename string
}

// NewEpisodeLength returns a new EpisodeLength tracker which will save
// its data at filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track records the episode length when step ends an episode
func (e *EpisodeLength) Track(_ int, step ts.TimeStep) {
	if step.Last() && !wrappers.Boundary(step) {
		e.lengths = append(e.lengths, float64(step.Number))
	}
}

// Data returns the lengths of all finished episodes
func (e *EpisodeLength) Data() []float64 {
	return append([]float64(nil), e.lengths...)
}

// Save saves the tracked episode lengths to disk
func (e *EpisodeLength) Save() error {
	return tracker.Save(e.filename, e.lengths)
}
