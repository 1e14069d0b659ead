// Package confidence converts classifier confidence values into one canonical
// 0-1 scale.
//
// Backend records carry confidence as a fraction (0.85), a percentage (85 or
// "85%") or a locale formatted decimal string ("0,85"). Resolve is the single
// conversion used everywhere a confidence is read, so a value is never scaled
// twice.
package confidence

import (
	"math"
	"strconv"
	"strings"
)

// numberLike matches json.Number from both encoding/json and goccy/go-json.
type numberLike interface {
	Float64() (float64, error)
	String() string
}

// ParseDecimal parses raw as a decimal number. Strings may use a comma as
// decimal separator and may be surrounded by whitespace. The second result is
// false for nil, non-numeric values and non-finite numbers.
func ParseDecimal(raw any) (float64, bool) {
	var v float64
	switch x := raw.(type) {
	case nil:
		return 0, false
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int32:
		v = float64(x)
	case int64:
		v = float64(x)
	case uint:
		v = float64(x)
	case uint64:
		v = float64(x)
	case string:
		return parseDecimalString(x)
	case numberLike:
		f, err := x.Float64()
		if err != nil {
			return parseDecimalString(x.String())
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseDecimalString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// "1.234,5" style thousands separators are not used by the backend;
	// a single comma is a decimal separator.
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Resolve returns raw as a fraction in [0,1].
//
// Absent or unparsable values resolve to 0. A value above 1 is taken to be a
// percentage and divided by 100. Negative values clamp to 0 and anything still
// above 1 clamps to 1. A trailing percent sign is accepted.
func Resolve(raw any) float64 {
	if s, ok := raw.(string); ok {
		raw = strings.TrimSuffix(strings.TrimSpace(s), "%")
	}
	v, ok := ParseDecimal(raw)
	if !ok {
		return 0
	}
	if v > 1 {
		v /= 100
	}
	return clamp(v)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Percent converts a fraction to the 0-100 display scale.
func Percent(fraction float64) float64 {
	return clamp(fraction) * 100
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
