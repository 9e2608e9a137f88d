package conform

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/tidwall/gjson"
)

type expectKind int

const (
	expectEqual expectKind = iota
	expectAbsent
	expectPresent
)

// Expectation describes what a single property must look like.
type Expectation struct {
	kind  expectKind
	value any
}

// Equal expects the property to be present and equal to value. Slices and
// arrays compare element by element, in order.
func Equal(value any) Expectation {
	return Expectation{kind: expectEqual, value: value}
}

// Absent expects the property to be missing or null.
func Absent() Expectation {
	return Expectation{kind: expectAbsent}
}

// Present expects the property to be there, whatever its value.
func Present() Expectation {
	return Expectation{kind: expectPresent}
}

func (e Expectation) String() string {
	switch e.kind {
	case expectAbsent:
		return "absent"
	case expectPresent:
		return "present"
	default:
		return fmt.Sprintf("%v", e.value)
	}
}

// Properties maps property names to expectations.
type Properties map[string]Expectation

// CheckProperties applies targeted expectations to obj. Keys are checked in
// lexical order so the reported failure is stable.
func CheckProperties(props Properties, obj gjson.Result) error {
	if len(props) == 0 {
		return nil
	}

	if err := requireObject(obj, ""); err != nil {
		return err
	}

	for _, key := range slices.Sorted(maps.Keys(props)) {
		expect := props[key]
		actual, ok := field(obj, key)

		switch expect.kind {
		case expectAbsent:
			if ok && actual.Type != gjson.Null {
				return failf(key, "expected no value, got %s", describe(actual))
			}
		case expectPresent:
			if !ok {
				return failf(key, "missing property")
			}
		default:
			if !ok {
				return failf(key, "missing property")
			}

			if err := compare(key, expect.value, actual); err != nil {
				return err
			}
		}
	}

	return nil
}

// compare checks actual against a Go value. Numbers compare numerically so
// callers can write Equal(1) for a JSON 1.
func compare(path string, expected any, actual gjson.Result) error {
	if expected == nil {
		if actual.Type != gjson.Null {
			return failf(path, "expected null, got %s", describe(actual))
		}
		return nil
	}

	rv := reflect.ValueOf(expected)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if !actual.IsArray() {
			return failf(path, "expected an array, got %s", describe(actual))
		}

		entries := actual.Array()
		if len(entries) != rv.Len() {
			return failf(path, "expected %d entries, got %d", rv.Len(), len(entries))
		}

		for i := range entries {
			if err := compare(fmt.Sprintf("%s[%d]", path, i), rv.Index(i).Interface(), entries[i]); err != nil {
				return err
			}
		}

		return nil
	case reflect.String:
		if actual.Type != gjson.String || actual.Str != rv.String() {
			return failf(path, "expected %q, got %s", rv.String(), describe(actual))
		}
	case reflect.Bool:
		if (actual.Type != gjson.True && actual.Type != gjson.False) || actual.Bool() != rv.Bool() {
			return failf(path, "expected %v, got %s", rv.Bool(), describe(actual))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if actual.Type != gjson.Number || actual.Float() != float64(rv.Int()) {
			return failf(path, "expected %d, got %s", rv.Int(), describe(actual))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if actual.Type != gjson.Number || actual.Float() != float64(rv.Uint()) {
			return failf(path, "expected %d, got %s", rv.Uint(), describe(actual))
		}
	case reflect.Float32, reflect.Float64:
		if actual.Type != gjson.Number || actual.Float() != rv.Float() {
			return failf(path, "expected %v, got %s", rv.Float(), describe(actual))
		}
	default:
		if !reflect.DeepEqual(expected, actual.Value()) {
			return failf(path, "expected %v, got %s", expected, describe(actual))
		}
	}

	return nil
}
