package envconfig_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/purenv/environment/counter"
	"github.com/samuelfneumann/purenv/environment/envconfig"
	"github.com/samuelfneumann/purenv/environment/gridworld"
	"github.com/samuelfneumann/purenv/environment/wrappers"
	"github.com/samuelfneumann/purenv/prng"
)

type RegistrySuite struct {
	suite.Suite
	logs *bytes.Buffer
	reg  *envconfig.Registry
}

func (s *RegistrySuite) SetupTest() {
	s.logs = new(bytes.Buffer)
	logger := slog.New(slog.NewTextHandler(s.logs,
		&slog.HandlerOptions{Level: slog.LevelDebug}))
	s.reg = envconfig.Default(envconfig.WithLogger(logger))
}

func (s *RegistrySuite) TestNames() {
	s.Require().Equal([]string{
		"Acrobot", "AcrobotContinuous", "Cartpole", "CartpoleContinuous",
		"Counter", "GridWorld", "MountainCar", "MountainCarContinuous",
		"Pendulum", "PendulumDiscrete",
	}, s.reg.Names())
}

func (s *RegistrySuite) TestMakeEveryEnvironment() {
	for _, name := range s.reg.Names() {
		e, params, err := s.reg.Make(name, nil)
		s.Require().NoError(err, name)
		s.Require().Equal(name, e.Name())
		s.Require().Equal(e.DefaultParams(), params)

		step, _, err := e.Reset(prng.New(0), params)
		s.Require().NoError(err, name)
		s.Require().True(step.First())
	}
	s.Require().Contains(s.logs.String(), "made environment")
}

func (s *RegistrySuite) TestMakeOverrides() {
	e, params, err := s.reg.Make(cartpole.DiscreteName, map[string]interface{}{
		"max_steps": 7,
		"gravity":   3.5,
		"discount":  0.9,
	})
	s.Require().NoError(err)

	p := params.(cartpole.Params)
	s.Require().Equal(7, p.MaxSteps)
	s.Require().Equal(3.5, p.Gravity)
	s.Require().Equal(0.9, p.Discount)
	s.Require().Equal(cartpole.PoleMass, p.PoleMass)

	// Defaults of later constructions are unaffected
	s.Require().Equal(cartpole.DefaultParams(), e.DefaultParams())
}

func (s *RegistrySuite) TestMakeNestedOverrides() {
	_, params, err := s.reg.Make(gridworld.Name, map[string]interface{}{
		"rows":  3,
		"cols":  4,
		"start": map[string]interface{}{"x": 1, "y": 2},
		"goals": []interface{}{map[string]interface{}{"x": 3, "y": 0}},
	})
	s.Require().NoError(err)

	p := params.(gridworld.Params)
	s.Require().Equal(gridworld.Cell{X: 1, Y: 2}, p.Start)
	s.Require().Equal([]gridworld.Cell{{X: 3, Y: 0}}, p.Goals)
}

func (s *RegistrySuite) TestUnknownEnvironment() {
	_, _, err := s.reg.Make("Breakout", nil)
	var uee *envconfig.UnknownEnvironmentError
	s.Require().True(errors.As(err, &uee))
	s.Require().Equal("Breakout", uee.Name)
}

func (s *RegistrySuite) TestUnknownParam() {
	_, _, err := s.reg.Make(counter.Name, map[string]interface{}{
		"zeta":  1,
		"alpha": 2,
		"bound": 4,
	})
	var upe *envconfig.UnknownParamError
	s.Require().True(errors.As(err, &upe))
	s.Require().Equal("alpha", upe.Key)
	s.Require().Equal(counter.Name, upe.Env)
}

func (s *RegistrySuite) TestInvalidParams() {
	_, _, err := s.reg.Make(counter.Name, map[string]interface{}{"bound": -1})
	s.Require().Error(err)

	_, _, err = s.reg.Make(counter.Name, map[string]interface{}{
		"bound": "far"})
	s.Require().Error(err)
}

func (s *RegistrySuite) TestRegister() {
	err := s.reg.Register(counter.Name, func() environment.Environment {
		return counter.New()
	})
	s.Require().Error(err)

	s.Require().NoError(s.reg.Register("Counter2",
		func() environment.Environment { return counter.New() }))
	s.Require().Contains(s.reg.Names(), "Counter2")
	s.Require().Contains(s.logs.String(), "Counter2")

	s.Require().Error(s.reg.Register("", func() environment.Environment {
		return counter.New()
	}))
	s.Require().Error(s.reg.Register("Nil", nil))
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func TestMergeLeavesDefaults(t *testing.T) {
	defaults := counter.New().DefaultParams()
	merged, err := envconfig.Merge(defaults, map[string]interface{}{
		"skip_validation": true,
	})
	require.NoError(t, err)
	require.True(t, merged.Base().SkipValidation)
	require.False(t, defaults.Base().SkipValidation)

	same, err := envconfig.Merge(defaults, nil)
	require.NoError(t, err)
	require.Equal(t, defaults, same)
}

const runConfig = `
environment: Counter
params:
  max_steps: 3
  bound: 10
auto_reset: true
seed: 42
batch_size: 4
`

func TestConfig(t *testing.T) {
	c, err := envconfig.LoadConfig([]byte(runConfig))
	require.NoError(t, err)
	require.Equal(t, "Counter", c.Environment)
	require.True(t, c.AutoReset)

	e, params, err := c.Create(envconfig.Default())
	require.NoError(t, err)
	require.IsType(t, &wrappers.AutoReset{}, e)
	require.Equal(t, 3, params.Base().MaxSteps)
	require.Equal(t, 10.0, params.(counter.Params).Bound)

	keys := c.Keys()
	require.Len(t, keys, 4)
	require.Equal(t, keys, c.Keys())

	_, state, err := e.Reset(keys[0], params)
	require.NoError(t, err)
	require.IsType(t, wrappers.AutoResetState{}, state)
}

func TestConfigTileCoding(t *testing.T) {
	c, err := envconfig.LoadConfig([]byte(`
environment: MountainCar
tile_coding:
  bins: [[4, 4], [4, 4]]
  bias: true
`))
	require.NoError(t, err)
	require.Len(t, c.Keys(), 1)

	e, params, err := c.Create(envconfig.Default())
	require.NoError(t, err)
	require.Equal(t, []int{33}, e.ObservationSpace(params).Shape())

	step, state, err := e.Reset(c.Keys()[0], params)
	require.NoError(t, err)
	require.Equal(t, 3.0, mat.Sum(step.Observation))

	step, _, err = e.Step(prng.New(1), state, mat.NewVecDense(1, []float64{0}),
		params)
	require.NoError(t, err)
	require.Equal(t, 33, step.Observation.Len())
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "environment: Counter\nhorizon: 3\n"},
		{"no environment", "seed: 1\n"},
		{"negative batch", "environment: Counter\nbatch_size: -1\n"},
		{"empty tile coding", "environment: Counter\ntile_coding: {bias: true}\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := envconfig.LoadConfig([]byte(tc.doc))
			require.Error(t, err)
		})
	}

	c, err := envconfig.LoadConfig([]byte("environment: Breakout\n"))
	require.NoError(t, err)
	_, _, err = c.Create(envconfig.Default())
	var uee *envconfig.UnknownEnvironmentError
	require.True(t, errors.As(err, &uee))

	// Cartpole velocities are unbounded and cannot be tile coded
	c, err = envconfig.LoadConfig([]byte(
		"environment: Cartpole\ntile_coding: {bins: [[2, 2, 2, 2]]}\n"))
	require.NoError(t, err)
	_, _, err = c.Create(envconfig.Default())
	require.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(runConfig), 0o600))

	c, err := envconfig.LoadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, 4, c.BatchSize)

	_, err = envconfig.LoadConfigFile(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
}
