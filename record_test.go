package fingerprint

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	var nilPtr *int
	var nilMap map[string]int
	var nilSlice []string
	three := 3

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"string", "Arial", "Arial"},
		{"bool", true, true},
		{"int", 8, int64(8)},
		{"int8", int8(-3), int64(-3)},
		{"uint16", uint16(7), uint64(7)},
		{"float32", float32(1.5), float64(1.5)},
		{"negative zero", math.Copysign(0, -1), float64(0)},
		{"pointer", &three, int64(3)},
		{"nil pointer", nilPtr, nil},
		{"nil map", nilMap, nil},
		{"nil slice", nilSlice, nil},
		{"empty slice", []string{}, []any{}},
		{"string slice", []string{"Arial", "Courier"}, []any{"Arial", "Courier"}},
		{"array", [2]int{1, 2}, []any{int64(1), int64(2)}},
		{"bytes", []byte{0xde, 0xad, 0xbe, 0xef}, "deadbeef"},
		{"map", map[string]int{"cores": 8}, Record{"cores": int64(8)}},
		{
			"nested",
			map[string]any{"screen": map[string]any{"width": 1920, "ratio": 2.0}, "fonts": []any{"Arial", nil}},
			Record{"screen": Record{"width": int64(1920), "ratio": 2.0}, "fonts": []any{"Arial", nil}},
		},
		{"record", Record{"a": uint8(1)}, Record{"a": uint64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNormalizeNegativeZeroSign(t *testing.T) {
	got, err := Normalize(math.Copysign(0, -1))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if math.Signbit(got.(float64)) {
		t.Error("Normalize(-0) kept the sign bit")
	}
}

func TestNormalizeUnsupported(t *testing.T) {
	deep := any("leaf")
	for i := 0; i < maxDepth+2; i++ {
		deep = []any{deep}
	}

	tests := []struct {
		name string
		in   any
	}{
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
		{"nested NaN", map[string]any{"x": []any{math.Inf(-1)}}},
		{"channel", make(chan int)},
		{"func", func() {}},
		{"complex", complex(1, 2)},
		{"struct", struct{ A int }{1}},
		{"int keys", map[int]string{1: "a"}},
		{"too deep", deep},
		{"invalid UTF-8", "\xff"},
		{"invalid UTF-8 key", map[string]int{"\xfe": 1}},
		{"nested invalid UTF-8", []string{"ok", "caf\xe9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.in)
			if !errors.Is(err, ErrUnsupportedValue) {
				t.Errorf("Normalize() error = %v, want ErrUnsupportedValue", err)
			}
		})
	}
}

func TestNormalizeBuildsFreshTree(t *testing.T) {
	shared := []string{"Arial"}
	in := map[string]any{"a": shared, "b": shared}

	got, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	rec := got.(Record)
	rec["a"].([]any)[0] = "changed"

	if rec["b"].([]any)[0] != "Arial" {
		t.Error("normalized values for aliased input share storage")
	}
	if shared[0] != "Arial" {
		t.Error("Normalize mutated its input")
	}
}
