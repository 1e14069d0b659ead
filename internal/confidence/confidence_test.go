package confidence

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"percent integer", 85, 0.85},
		{"comma decimal string", "0,5", 0.5},
		{"nil", nil, 0},
		{"above hundred clamps", 150, 1},
		{"fraction", 0.42, 0.42},
		{"exactly one", 1, 1},
		{"percent string", "72,5", 0.725},
		{"trailing percent sign", " 90% ", 0.9},
		{"negative clamps", -3, 0},
		{"unparsable", "alta", 0},
		{"empty string", "", 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"bool is unparsable", true, 0},
		{"json number", json.Number("0.66"), 0.66},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Resolve(tt.raw), 1e-9)
		})
	}
}

func TestResolve_AlwaysInUnitRange(t *testing.T) {
	t.Parallel()

	inputs := []any{-1e9, -0.0001, 0, 0.5, 1, 1.0001, 99.99, 100, 100.01, 1e12, "1e400", "-5,5", "abc", nil}
	for _, in := range inputs {
		got := Resolve(in)
		assert.GreaterOrEqual(t, got, 0.0, "input %v", in)
		assert.LessOrEqual(t, got, 1.0, "input %v", in)
	}
}

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	v, ok := ParseDecimal(" -2,9001 ")
	assert.True(t, ok)
	assert.InDelta(t, -2.9001, v, 1e-12)

	_, ok = ParseDecimal("1,2,3")
	assert.False(t, ok)

	_, ok = ParseDecimal(map[string]any{})
	assert.False(t, ok)
}

func TestPercentAndRound(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 72.5, Percent(0.725), 1e-9)
	assert.InDelta(t, 100, Percent(3), 1e-9)
	assert.InDelta(t, 72.35, Round(Percent(0.723456), 2), 1e-9)
	assert.InDelta(t, -79.01, Round(-79.0100004, 6), 1e-12)
}
