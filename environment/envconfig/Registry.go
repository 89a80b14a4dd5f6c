// Package envconfig constructs environments by name. A Registry maps
// names to environment constructors, and Make merges parameter
// overrides onto the default parameters of the named environment.
// Config describes a whole run in YAML.
package envconfig

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/samuelfneumann/purenv/environment"
)

// Constructor returns a new environment
type Constructor func() environment.Environment

// UnknownEnvironmentError is returned when looking up a name that has
// not been registered
type UnknownEnvironmentError struct {
	Name string
}

func (e *UnknownEnvironmentError) Error() string {
	return fmt.Sprintf("unknown environment %q", e.Name)
}

// Registry maps environment names to constructors. Registration is
// explicit; nothing is registered implicitly. A Registry is safe for
// concurrent use.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
	logger       *slog.Logger
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithLogger sets the logger of a Registry. Registrations and
// constructions are logged at debug level.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry returns an empty Registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		constructors: make(map[string]Constructor),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a constructor under name. Names can only be registered
// once.
func (r *Registry) Register(name string, c Constructor) error {
	if name == "" {
		return fmt.Errorf("register: empty environment name")
	}
	if c == nil {
		return fmt.Errorf("register: nil constructor for %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.constructors[name]; ok {
		return fmt.Errorf("register: environment %q already registered", name)
	}
	r.constructors[name] = c

	r.logger.Debug("registered environment", slog.String("name", name))
	return nil
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Make constructs the environment registered under name and returns it
// along with its default params, with overrides merged on top. See
// Merge for how overrides are applied. If the params implement
// environment.Validator, the merged params are validated.
func (r *Registry) Make(name string, overrides map[string]interface{}) (
	environment.Environment, environment.Params, error) {
	r.mu.RLock()
	c, ok := r.constructors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("make: %w",
			&UnknownEnvironmentError{Name: name})
	}

	e := c()
	params, err := Merge(e.DefaultParams(), overrides)
	if err != nil {
		var upe *UnknownParamError
		if errors.As(err, &upe) {
			upe.Env = name
		}
		return nil, nil, fmt.Errorf("make: %w", err)
	}

	if v, ok := params.(environment.Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, nil, fmt.Errorf("make %s: %w", name, err)
		}
	}

	r.logger.Debug("made environment", slog.String("name", name),
		slog.Int("overrides", len(overrides)))
	return e, params, nil
}
