package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/environment/wrappers"
	"github.com/samuelfneumann/purenv/experiment/tracker"
	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/vector"
)

// Online runs a policy online in a batch of trajectories for a fixed
// number of steps. The environment is wrapped in an AutoReset if it is
// not one already, so every trajectory runs for the whole experiment.
type Online struct {
	env      *vector.Env
	params   environment.Params
	policy   Policy
	maxSteps int

	workers  int
	trackers []tracker.Tracker
	progress Progress
	logger   *slog.Logger
}

// Option configures an Online experiment
type Option func(*Online)

// WithWorkers sets the number of goroutines stepping the batch
func WithWorkers(n int) Option {
	return func(o *Online) { o.workers = n }
}

// WithTrackers registers Trackers with the experiment
func WithTrackers(t ...tracker.Tracker) Option {
	return func(o *Online) { o.trackers = append(o.trackers, t...) }
}

// WithProgress sets a Progress notified after every step
func WithProgress(p Progress) Option {
	return func(o *Online) { o.progress = p }
}

// WithLogger sets the logger of the experiment
func WithLogger(logger *slog.Logger) Option {
	return func(o *Online) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOnline creates and returns a new online experiment of policy
// acting in e with params p for steps steps
func NewOnline(e environment.Environment, p environment.Params,
	policy Policy, steps int, opts ...Option) *Online {
	o := &Online{
		params:   p,
		policy:   policy,
		maxSteps: steps,
		workers:  1,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}

	if _, ok := e.(*wrappers.AutoReset); !ok {
		e = wrappers.NewAutoReset(e)
	}
	o.env = vector.New(e, vector.WithWorkers(o.workers))
	return o
}

// Register registers a Tracker with the experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Run runs one trajectory per key for all steps of the experiment.
// Each trajectory consumes only its own key, so the data tracked for a
// key does not depend on the batch it runs in or the number of
// workers. Run stops early with the context's error if ctx is done.
func (o *Online) Run(ctx context.Context, keys []prng.Key) error {
	if len(keys) == 0 {
		return fmt.Errorf("run: no trajectories")
	}
	keys = append([]prng.Key(nil), keys...)
	n := len(keys)
	actKeys := make([]prng.Key, n)
	envKeys := make([]prng.Key, n)

	next := func() {
		for i := range keys {
			var key prng.Key
			keys[i], key = prng.Split2(keys[i])
			actKeys[i], envKeys[i] = prng.Split2(key)
		}
	}

	o.logger.Info("starting experiment", "environment",
		o.env.Environment().Name(), "trajectories", n, "steps", o.maxSteps,
		"workers", o.env.Workers())

	next()
	batch, states, err := o.env.Reset(envKeys, o.params)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	o.track(batch)

	episodes := 0
	actions := make([]mat.Vector, n)
	for t := 0; t < o.maxSteps; t++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run: step %d: %w", t, err)
		}

		next()
		for i, step := range batch.Steps {
			actions[i] = o.policy.Act(actKeys[i], step)
		}

		batch, states, err = o.env.Step(envKeys, states, actions, o.params)
		if err != nil {
			return fmt.Errorf("run: step %d: %w", t, err)
		}
		o.track(batch)

		for _, step := range batch.Steps {
			if step.Last() && !wrappers.Boundary(step) {
				episodes++
			}
		}
		if o.progress != nil {
			o.progress.Increment()
		}
	}

	o.logger.Info("finished experiment", "episodes", episodes)
	return nil
}

// Save saves all the data tracked by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// track sends every TimeStep of batch to each Tracker
func (o *Online) track(batch vector.Batch) {
	for _, t := range o.trackers {
		for i, step := range batch.Steps {
			t.Track(i, step)
		}
	}
}
