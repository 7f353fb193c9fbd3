package gluon

import (
	"errors"
	"math"
	"testing"
)

func TestLiteralRoundTrip(t *testing.T) {
	tests := []struct {
		v   any
		rep string
	}{
		{nil, "null"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{-7, "-7"},
		{int64(42), "42L"},
		{int16(-3), "-3s"},
		{byte(255), "255b"},
		{float32(1), "1.0f"},
		{float32(0.5), "0.5f"},
		{1.0, "1.0d"},
		{1e21, "1e+21d"},
		{'c', "'c'"},
		{'\'', `'\''`},
		{"hello", `"hello"`},
		{"a\tb\n", `"a\tb\n"`},
		{"", `""`},
	}
	for _, tt := range tests {
		rep, err := FormatLiteral(tt.v)
		if err != nil {
			t.Errorf("FormatLiteral(%v): %v", tt.v, err)
			continue
		}
		if rep != tt.rep {
			t.Errorf("FormatLiteral(%#v) = %s, want %s", tt.v, rep, tt.rep)
		}
		back, err := ParseLiteral(rep)
		if err != nil {
			t.Errorf("ParseLiteral(%s): %v", rep, err)
			continue
		}
		if back != tt.v {
			t.Errorf("ParseLiteral(%s) = %#v, want %#v", rep, back, tt.v)
		}
	}
}

func TestParseLiteralLenient(t *testing.T) {
	tests := []struct {
		rep string
		v   any
	}{
		{"1.5", 1.5},
		{"2e3", 2000.0},
		{" 12 ", 12},
		{"", nil},
	}
	for _, tt := range tests {
		v, err := ParseLiteral(tt.rep)
		if err != nil || v != tt.v {
			t.Errorf("ParseLiteral(%q) = %#v, %v", tt.rep, v, err)
		}
	}
}

func TestLiteralErrors(t *testing.T) {
	for _, v := range []any{uint(1), int8(1), math.NaN(), float32(math.Inf(1)), struct{}{}} {
		if _, err := FormatLiteral(v); !errors.Is(err, ErrUnrepresentable) {
			t.Errorf("FormatLiteral(%v): %v", v, err)
		}
	}
	for _, rep := range []string{"300b", "70000s", "'ab'", `"open`, "12x", "abc", "1.2.3d"} {
		if _, err := ParseLiteral(rep); !errors.Is(err, ErrBadLiteral) {
			t.Errorf("ParseLiteral(%s): %v", rep, err)
		}
	}
}
