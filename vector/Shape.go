package vector

import (
	"fmt"
	"reflect"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/environment"
	"github.com/samuelfneumann/purenv/prng"
)

// ShapeMismatchError is returned when the inputs of a batch are not
// homogeneous. Field names the offending input, for state fields as a
// path such as "state.Cell.X". Index is the batch index at which the
// mismatch was found, or -1 if the batch lengths differ.
type ShapeMismatchError struct {
	Field string
	Index int
	Want  interface{}
	Have  interface{}
}

func (e *ShapeMismatchError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("shape mismatch in %s: want %v, have %v", e.Field,
			e.Want, e.Have)
	}
	return fmt.Sprintf("shape mismatch in %s at index %d: want %v, have %v",
		e.Field, e.Index, e.Want, e.Have)
}

// checkBatch checks that a batch of step inputs is homogeneous
func checkBatch(keys []prng.Key, states []environment.State,
	actions []mat.Vector) error {
	n := len(keys)
	if len(states) != n {
		return &ShapeMismatchError{Field: "states", Index: -1, Want: n,
			Have: len(states)}
	}
	if len(actions) != n {
		return &ShapeMismatchError{Field: "actions", Index: -1, Want: n,
			Have: len(actions)}
	}
	if n == 0 {
		return nil
	}

	if err := checkActions(actions); err != nil {
		return err
	}
	return checkStates(states)
}

func checkActions(actions []mat.Vector) error {
	length := func(a mat.Vector) int {
		if a == nil {
			return -1
		}
		return a.Len()
	}

	want := length(actions[0])
	for i, a := range actions {
		if have := length(a); have != want || have < 0 {
			return &ShapeMismatchError{Field: "action", Index: i,
				Want: []int{want}, Have: []int{have}}
		}
	}
	return nil
}

func checkStates(states []environment.State) error {
	want := reflect.TypeOf(states[0])
	wantLeaves := leaves(states[0])

	for i, s := range states {
		if have := reflect.TypeOf(s); have != want {
			return &ShapeMismatchError{Field: "state", Index: i, Want: want,
				Have: have}
		}

		haveLeaves := leaves(s)
		for _, path := range sortedPaths(wantLeaves, haveLeaves) {
			w, h := wantLeaves[path], haveLeaves[path]
			if !reflect.DeepEqual(w, h) {
				return &ShapeMismatchError{Field: "state" + path, Index: i,
					Want: w, Have: h}
			}
		}
	}
	return nil
}

// leaf describes a single field of a state: its type and, for slices,
// arrays, and maps, its shape
type leaf struct {
	Type  string
	Shape []int
}

func (l leaf) String() string {
	return fmt.Sprintf("%s%v", l.Type, l.Shape)
}

// leaves walks the fields of s, returning the leaf found at each
// field path
func leaves(s environment.State) map[string]leaf {
	out := make(map[string]leaf)
	walk(reflect.ValueOf(s), "", out)
	return out
}

func walk(v reflect.Value, path string, out map[string]leaf) {
	if !v.IsValid() {
		out[path] = leaf{Type: "nil"}
		return
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			out[path] = leaf{Type: v.Type().String() + "(nil)"}
			return
		}
		walk(v.Elem(), path, out)

	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			walk(v.Field(i), path+"."+v.Type().Field(i).Name, out)
		}

	case reflect.Slice, reflect.Array:
		shape := []int{v.Len()}
		for elem := v; elem.Len() > 0; {
			elem = elem.Index(0)
			if k := elem.Kind(); k != reflect.Slice && k != reflect.Array {
				break
			}
			shape = append(shape, elem.Len())
		}
		out[path] = leaf{Type: v.Type().String(), Shape: shape}

	case reflect.Map:
		out[path] = leaf{Type: v.Type().String(), Shape: []int{v.Len()}}

	default:
		out[path] = leaf{Type: v.Type().String()}
	}
}

// sortedPaths returns the union of the paths of a and b in sorted order
func sortedPaths(a, b map[string]leaf) []string {
	paths := make([]string, 0, len(a))
	for path := range a {
		paths = append(paths, path)
	}
	for path := range b {
		if _, ok := a[path]; !ok {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}
