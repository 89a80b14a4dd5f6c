package envconfig

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/purenv/environment"
)

// UnknownParamError is returned when an override names a parameter
// that the environment does not have
type UnknownParamError struct {
	Env string
	Key string
}

func (e *UnknownParamError) Error() string {
	if e.Env == "" {
		return fmt.Sprintf("unknown parameter %q", e.Key)
	}
	return fmt.Sprintf("unknown parameter %q for environment %q", e.Key,
		e.Env)
}

// Merge returns a copy of defaults with overrides applied. Override
// keys are the YAML names of the params fields, for example
// "max_steps" or "gravity". A value replaces the whole field, so
// struct and slice valued fields must be given in full. defaults is
// never modified.
//
// Unknown keys are reported as an *UnknownParamError, checked in
// sorted key order. Values of the wrong type are reported as YAML
// decoding errors.
func Merge(defaults environment.Params, overrides map[string]interface{}) (
	environment.Params, error) {
	if len(overrides) == 0 {
		return defaults, nil
	}

	encoded, err := yaml.Marshal(defaults)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	fields := make(map[string]interface{})
	if err := yaml.Unmarshal(encoded, &fields); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("merge: %w", &UnknownParamError{Key: key})
		}
		fields[key] = overrides[key]
	}

	merged, err := yaml.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	out := reflect.New(reflect.TypeOf(defaults))
	dec := yaml.NewDecoder(bytes.NewReader(merged))
	dec.KnownFields(true)
	if err := dec.Decode(out.Interface()); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	params, ok := out.Elem().Interface().(environment.Params)
	if !ok {
		return nil, fmt.Errorf("merge: %w: %T", environment.ErrWrongType,
			out.Elem().Interface())
	}
	return params, nil
}
