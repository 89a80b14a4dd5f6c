// Package vector lifts environments to operate over a batch of
// independent trajectories.
//
// The result at batch index i is always exactly the result of calling
// the wrapped environment with the i-th key, state, and action and the
// shared params. Workers only change how the batch is scheduled, never
// what it computes.
package vector

import (
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
	ts "github.com/samuelfneumann/purenv/timestep"
)

// Env runs the reset and step of an environment over batches
type Env struct {
	env     environment.Environment
	workers int
}

// Option configures an Env
type Option func(*Env)

// WithWorkers sets the number of goroutines used to process a batch.
// Values less than 1 use runtime.GOMAXPROCS(0) workers.
func WithWorkers(n int) Option {
	return func(v *Env) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		v.workers = n
	}
}

// New returns a new Env over e. By default batches are processed
// sequentially.
func New(e environment.Environment, opts ...Option) *Env {
	v := &Env{env: e, workers: 1}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Environment returns the wrapped environment
func (v *Env) Environment() environment.Environment {
	return v.env
}

// Workers returns the number of goroutines used to process a batch
func (v *Env) Workers() int {
	return v.workers
}

// SplitKeys derives n independent keys from key, one per batch index
func SplitKeys(key prng.Key, n int) []prng.Key {
	return prng.Split(key, n)
}

// Reset resets one trajectory per key
func (v *Env) Reset(keys []prng.Key, p environment.Params) (Batch,
	[]environment.State, error) {
	n := len(keys)
	steps := make([]ts.TimeStep, n)
	states := make([]environment.State, n)

	err := v.run(n, func(i int) error {
		var err error
		steps[i], states[i], err = v.env.Reset(keys[i], p)
		return err
	})
	if err != nil {
		return Batch{}, nil, fmt.Errorf("reset: %w", err)
	}

	batch, err := newBatch(steps, v.env.ObservationSpace(p).Shape())
	if err != nil {
		return Batch{}, nil, fmt.Errorf("reset: %w", err)
	}
	return batch, states, nil
}

// Step steps trajectory i with keys[i], states[i], and actions[i]. All
// three must have the same length, the states must be of the same
// variant with equally shaped fields, and the actions must be of equal
// length.
func (v *Env) Step(keys []prng.Key, states []environment.State,
	actions []mat.Vector, p environment.Params) (Batch, []environment.State,
	error) {
	if err := checkBatch(keys, states, actions); err != nil {
		return Batch{}, nil, fmt.Errorf("step: %w", err)
	}

	n := len(keys)
	steps := make([]ts.TimeStep, n)
	next := make([]environment.State, n)

	err := v.run(n, func(i int) error {
		var err error
		steps[i], next[i], err = v.env.Step(keys[i], states[i], actions[i], p)
		return err
	})
	if err != nil {
		return Batch{}, nil, fmt.Errorf("step: %w", err)
	}

	batch, err := newBatch(steps, v.env.ObservationSpace(p).Shape())
	if err != nil {
		return Batch{}, nil, fmt.Errorf("step: %w", err)
	}
	return batch, next, nil
}

// run calls f for every index in [0, n). Each call writes only to its
// own index. If any call fails, the error of the lowest failing index
// is returned.
func (v *Env) run(n int, f func(i int) error) error {
	errs := make([]error, n)

	if v.workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if errs[i] = f(i); errs[i] != nil {
				break
			}
		}
		return firstError(errs)
	}

	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	wg := new(sync.WaitGroup)
	workers := v.workers
	if workers > n {
		workers = n
	}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				errs[i] = f(i)
			}
		}()
	}
	wg.Wait()

	return firstError(errs)
}

func firstError(errs []error) error {
	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	return nil
}
