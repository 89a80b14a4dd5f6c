package envconfig

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/environment/wrappers"
	"github.com/samuelfneumann/purenv/prng"
)

// Config describes a run: which environment to construct, with which
// parameter overrides and wrappers, and how to seed a batch of
// trajectories. Configs are read from YAML documents such as:
//
//	environment: Cartpole
//	params:
//	  max_steps: 200
//	  gravity: 9.81
//	tile_coding:
//	  bins: [[4, 4, 4, 4]]
//	auto_reset: true
//	seed: 42
//	batch_size: 16
type Config struct {
	Environment string                 `yaml:"environment"`
	Params      map[string]interface{} `yaml:"params"`
	TileCoding  *TileCodingConfig      `yaml:"tile_coding"`
	AutoReset   bool                   `yaml:"auto_reset"`
	Seed        uint64                 `yaml:"seed"`
	BatchSize   int                    `yaml:"batch_size"`
}

// TileCodingConfig configures a wrappers.TileCoding wrapper
type TileCodingConfig struct {
	Bins    [][]int `yaml:"bins"`
	Bias    bool    `yaml:"bias"`
	Indices bool    `yaml:"indices"`
}

// LoadConfig decodes a Config from YAML. Unknown fields are an error.
func LoadConfig(data []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}

	if c.Environment == "" {
		return Config{}, fmt.Errorf("loadConfig: no environment given")
	}
	if c.BatchSize < 0 {
		return Config{}, fmt.Errorf("loadConfig: batch size must be "+
			"non-negative, have %d", c.BatchSize)
	}
	if c.TileCoding != nil && len(c.TileCoding.Bins) == 0 {
		return Config{}, fmt.Errorf("loadConfig: tile coding needs bins")
	}
	return c, nil
}

// LoadConfigFile reads and decodes a Config from a YAML file
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfigFile: %w", err)
	}
	return LoadConfig(data)
}

// keys returns the key for the tile coding offsets and the key from
// which trajectory keys are split
func (c Config) keys() (tileCoding, trajectories prng.Key) {
	return prng.Split2(prng.New(c.Seed))
}

// Create makes the configured environment from reg and applies the
// configured wrappers. Tile coding is applied before auto-resetting.
func (c Config) Create(reg *Registry) (environment.Environment,
	environment.Params, error) {
	e, params, err := reg.Make(c.Environment, c.Params)
	if err != nil {
		return nil, nil, fmt.Errorf("create: %w", err)
	}

	if c.TileCoding != nil {
		key, _ := c.keys()
		newTileCoding := wrappers.NewTileCoding
		if c.TileCoding.Indices {
			newTileCoding = wrappers.NewIndexTileCoding
		}

		e, err = newTileCoding(e, key, c.TileCoding.Bins, c.TileCoding.Bias)
		if err != nil {
			return nil, nil, fmt.Errorf("create: %w", err)
		}
	}

	if c.AutoReset {
		e = wrappers.NewAutoReset(e)
	}
	return e, params, nil
}

// Keys returns one independent key per trajectory of the batch. A
// batch size of 0 is treated as a single trajectory.
func (c Config) Keys() []prng.Key {
	n := c.BatchSize
	if n == 0 {
		n = 1
	}
	_, key := c.keys()
	return prng.Split(key, n)
}
