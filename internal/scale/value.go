// internal/scale/value.go
package scale

import (
	"math"
	"strconv"
)

type valueKind uint8

const (
	kindNone valueKind = iota
	kindInt
	kindFloat
	kindString
)

// Value is a scaled register value: an integer, a fixed-precision float or a string.
// The zero Value is absent (no data yet).
type Value struct {
	kind     valueKind
	i        int64
	f        float64
	decimals int
	s        string
}

// Int returns an integer value.
func Int(v int64) Value {
	return Value{kind: kindInt, i: v}
}

// Float returns v rounded to decimals digits.
func Float(v float64, decimals int) Value {
	return Value{kind: kindFloat, f: Round(v, decimals), decimals: decimals}
}

// Str returns a string value.
func Str(s string) Value {
	return Value{kind: kindString, s: s}
}

// Round rounds v to decimals digits, correctly rounded on the exact binary value.
// Scaling by a power of ten first would round twice (0.15 -> 0.2).
func Round(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Valid reports whether the value holds data.
func (v Value) Valid() bool { return v.kind != kindNone }

// Numeric reports whether the value is an integer or a float.
func (v Value) Numeric() bool { return v.kind == kindInt || v.kind == kindFloat }

// Float64 returns the numeric value as float64.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case kindInt:
		return float64(v.i), true
	case kindFloat:
		return v.f, true
	}
	return 0, false
}

// Int64 returns the value if it is an integer.
func (v Value) Int64() (int64, bool) {
	if v.kind != kindInt {
		return 0, false
	}
	return v.i, true
}

// Text returns the value if it is a string.
func (v Value) Text() (string, bool) {
	if v.kind != kindString {
		return "", false
	}
	return v.s, true
}

// Decimals is the fixed precision of a float value; 0 otherwise.
func (v Value) Decimals() int { return v.decimals }

// String renders the value for publishing. Floats keep their precision ("53.20").
func (v Value) String() string {
	switch v.kind {
	case kindInt:
		return strconv.FormatInt(v.i, 10)
	case kindFloat:
		return strconv.FormatFloat(v.f, 'f', v.decimals, 64)
	case kindString:
		return v.s
	}
	return ""
}

// Interface returns the value as int64, float64, string or nil.
func (v Value) Interface() any {
	switch v.kind {
	case kindInt:
		return v.i
	case kindFloat:
		return v.f
	case kindString:
		return v.s
	}
	return nil
}
