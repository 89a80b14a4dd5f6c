package envconfig

import (
	"fmt"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/environment/classiccontrol/acrobot"
	"github.com/samuelfneumann/purenv/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/purenv/environment/classiccontrol/mountaincar"
	"github.com/samuelfneumann/purenv/environment/classiccontrol/pendulum"
	"github.com/samuelfneumann/purenv/environment/counter"
	"github.com/samuelfneumann/purenv/environment/gridworld"
)

// bundled lists every environment shipped with this module
var bundled = []struct {
	name string
	c    Constructor
}{
	{counter.Name, func() environment.Environment { return counter.New() }},
	{mountaincar.DiscreteName, func() environment.Environment {
		return mountaincar.NewDiscrete()
	}},
	{mountaincar.ContinuousName, func() environment.Environment {
		return mountaincar.NewContinuous()
	}},
	{cartpole.DiscreteName, func() environment.Environment {
		return cartpole.NewDiscrete()
	}},
	{cartpole.ContinuousName, func() environment.Environment {
		return cartpole.NewContinuous()
	}},
	{pendulum.ContinuousName, func() environment.Environment {
		return pendulum.NewContinuous()
	}},
	{pendulum.DiscreteName, func() environment.Environment {
		return pendulum.NewDiscrete()
	}},
	{acrobot.DiscreteName, func() environment.Environment {
		return acrobot.NewDiscrete()
	}},
	{acrobot.ContinuousName, func() environment.Environment {
		return acrobot.NewContinuous()
	}},
	{gridworld.Name, func() environment.Environment { return gridworld.New() }},
}

// Default returns a Registry holding every environment bundled with
// this module
func Default(opts ...RegistryOption) *Registry {
	r := NewRegistry(opts...)
	for _, b := range bundled {
		if err := r.Register(b.name, b.c); err != nil {
			panic(fmt.Sprintf("default: %v", err))
		}
	}
	return r
}
