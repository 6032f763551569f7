package fingerprint

import (
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"unicode/utf8"
)

// maxDepth bounds the nesting of normalized values.
const maxDepth = 32

// Record maps signal names to signal values.
//
// A value is nil, string, bool, int64, uint64, float64, a nested Record, or
// a []any of those. Use [Normalize] to convert arbitrary probe output into
// this shape.
type Record map[string]any

// Normalize converts v into the value union accepted by a [Record].
//
// Nil pointers, maps, slices and interfaces become nil. Integers widen to
// int64 or uint64, floats to float64. Maps with string keys become Records and
// slices or arrays become []any, recursively. A []byte becomes its lowercase
// hex encoding. NaN, infinities, strings or keys that are not valid UTF-8 and
// any other kind return [ErrUnsupportedValue].
func Normalize(v any) (any, error) {
	return normalizeValue(reflect.ValueOf(v), 0)
}

func normalizeValue(rv reflect.Value, depth int) (any, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrUnsupportedValue, maxDepth)
	}

	if !rv.IsValid() {
		return nil, nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}

		return normalizeValue(rv.Elem(), depth)

	case reflect.String:
		str := rv.String()
		if !utf8.ValidString(str) {
			return nil, fmt.Errorf("%w: invalid UTF-8 in %q", ErrUnsupportedValue, str)
		}

		return str, nil

	case reflect.Bool:
		return rv.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil

	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: non-finite number %v", ErrUnsupportedValue, f)
		}
		if f == 0 {
			// Collapse -0 so both zeros serialize the same way.
			f = 0
		}

		return f, nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", ErrUnsupportedValue, rv.Type().Key())
		}
		if rv.IsNil() {
			return nil, nil
		}

		rec := make(Record, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			if !utf8.ValidString(key) {
				return nil, fmt.Errorf("%w: invalid UTF-8 in key %q", ErrUnsupportedValue, key)
			}
			value, err := normalizeValue(iter.Value(), depth+1)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			rec[key] = value
		}

		return rec, nil

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			buf := make([]byte, rv.Len())
			for i := range buf {
				buf[i] = byte(rv.Index(i).Uint())
			}

			return hex.EncodeToString(buf), nil
		}

		seq := make([]any, rv.Len())
		for i := range seq {
			value, err := normalizeValue(rv.Index(i), depth+1)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			seq[i] = value
		}

		return seq, nil

	default:
		return nil, fmt.Errorf("%w: kind %s", ErrUnsupportedValue, rv.Kind())
	}
}
