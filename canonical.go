package fingerprint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"unicode/utf8"
)

// Canonicalize returns the canonical form of rec: compact JSON with the keys
// of every mapping sorted byte-wise and sequence elements kept in order.
//
// Two records with the same content produce identical bytes regardless of how
// they were built. Values outside the [Record] union are passed through
// [Normalize] first; those it rejects return [ErrUnsupportedValue].
func Canonicalize(rec Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, map[string]any(rec)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")

	case bool:
		buf.WriteString(strconv.FormatBool(val))

	case string:
		return writeString(buf, val)

	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))

	case uint64:
		buf.WriteString(strconv.FormatUint(val, 10))

	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%w: non-finite number %v", ErrUnsupportedValue, val)
		}
		if val == 0 {
			val = 0
		}
		// encoding/json formats floats like ES6 Number.prototype.toString.
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)

	case Record:
		return writeMapping(buf, val)

	case map[string]any:
		return writeMapping(buf, val)

	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		buf.WriteByte(']')

	default:
		normalized, err := Normalize(v)
		if err != nil {
			return err
		}

		return writeCanonical(buf, normalized)
	}

	return nil
}

func writeMapping(buf *bytes.Buffer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeCanonical(buf, m[k]); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')

	return nil
}

// writeString appends s as a JSON string without HTML escaping. Invalid
// UTF-8 is rejected since encoding/json would fold it into U+FFFD.
func writeString(buf *bytes.Buffer, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid UTF-8 in %q", ErrUnsupportedValue, s)
	}

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))

	return nil
}
