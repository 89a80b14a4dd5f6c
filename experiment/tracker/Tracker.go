// Package tracker defines Trackers, which record data from the
// trajectories of an experiment and save it to disk
package tracker

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	ts "github.com/samuelfneumann/purenv/timestep"
)

// Tracker keeps track of experiment data and saves the data after the
// experiment has finished. Experiments run a batch of trajectories, so
// each TimeStep is tracked together with its index in the batch.
type Tracker interface {
	Track(i int, step ts.TimeStep)
	Data() []float64
	Save() error
}

// Save encodes data to filename
func Save(filename string, data []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	return save(file, data)
}

// save encodes data to w and closes it. An error from closing is only
// returned if encoding succeeded.
func save(w io.WriteCloser, data []float64) error {
	if err := gob.NewEncoder(w).Encode(data); err != nil {
		w.Close()
		return fmt.Errorf("save: could not encode data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("save: could not close save file: %w", err)
	}
	return nil
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	var data []float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}
	return data, nil
}
