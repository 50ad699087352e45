package matrix

import (
	"math"
	"strconv"
	"strings"
)

// Number is a matrix element: either an exact int64 or a float64.
//
// Mixed arithmetic follows the usual promotion rule: int op int stays an
// int (wrapping on overflow), anything involving a float becomes a float.
// The zero value is Int(0).
type Number struct {
	i       int64
	f       float64
	isFloat bool
}

// Int returns an integer Number.
func Int(v int64) Number { return Number{i: v} }

// Float returns a floating-point Number.
func Float(v float64) Number { return Number{f: v, isFloat: true} }

// IsInt reports whether n holds an exact integer.
func (n Number) IsInt() bool { return !n.isFloat }

// Int64 returns the integer value; floats are truncated toward zero.
func (n Number) Int64() int64 {
	if n.isFloat {
		return int64(n.f)
	}
	return n.i
}

// Float64 returns n as a float64. Integers beyond 2^53 lose precision.
func (n Number) Float64() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// Add returns n + o.
func (n Number) Add(o Number) Number {
	if !n.isFloat && !o.isFloat {
		return Int(n.i + o.i)
	}
	return Float(n.Float64() + o.Float64())
}

// Mul returns n * o.
func (n Number) Mul(o Number) Number {
	if !n.isFloat && !o.isFloat {
		return Int(n.i * o.i)
	}
	return Float(n.Float64() * o.Float64())
}

// Equal compares numerically, so Int(2) equals Float(2).
// NaN is never equal to anything, itself included.
func (n Number) Equal(o Number) bool {
	if !n.isFloat && !o.isFloat {
		return n.i == o.i
	}
	if n.isFloat && o.isFloat {
		return n.f == o.f
	}
	// Mixed: compare exactly, without rounding the integer side.
	var iv int64
	var fv float64
	if n.isFloat {
		iv, fv = o.i, n.f
	} else {
		iv, fv = n.i, o.f
	}
	if fv != math.Trunc(fv) || fv < math.MinInt64 || fv >= math.MaxInt64 {
		return false
	}
	return int64(fv) == iv
}

// String formats integers in decimal and floats in their shortest
// round-trip form with a visible decimal point or exponent
// (2.0, 0.1, 1e+16, 1e-05, nan, inf).
func (n Number) String() string {
	if !n.isFloat {
		return strconv.FormatInt(n.i, 10)
	}
	return formatFloat(n.f)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// parseNumber is the inverse of Number.String.
func parseNumber(tok string) (Number, bool) {
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return Int(i), true
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return Number{}, false
	}
	return Float(f), true
}
