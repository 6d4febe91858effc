package benford

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstDigit(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want Digit
	}{
		{"integer", 54, 5},
		{"fraction", 0.456, 4},
		{"zero", 0, NoDigit},
		{"power of ten", 100, 1},
		{"trailing zero float", 10.0, 1},
		{"thirty", 30, 3},
		{"three", 3, 3},
		{"tiny fraction", 0.0007, 7},
		{"scientific small", 1e-9, 1},
		{"scientific large", 9.2e25, 9},
		{"large integer", 1234567, 1},
		{"average complexity", 2.5, 2},
		{"negative", -4, NoDigit},
		{"nan", math.NaN(), NoDigit},
		{"inf", math.Inf(1), NoDigit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstDigit(tt.in))
		})
	}
}

func TestFirstDigit_PositiveAlwaysDefined(t *testing.T) {
	for _, x := range []float64{1, 9, 9.999, 0.1, 0.000123, 42, 999999999, 5e-300, 1.7e308} {
		d := FirstDigit(x)
		assert.True(t, d.Valid(), "FirstDigit(%v) = %d", x, d)
	}
}

func TestFirstDigitInt(t *testing.T) {
	assert.Equal(t, Digit(3), FirstDigitInt(30))
	assert.Equal(t, Digit(1), FirstDigitInt(1000))
	assert.Equal(t, NoDigit, FirstDigitInt(0))
	assert.Equal(t, NoDigit, FirstDigitInt(-12))
}

func TestDigit_String(t *testing.T) {
	assert.Equal(t, "3", Digit(3).String())
	assert.Equal(t, "", NoDigit.String())
}

func TestCount_TotalsMatchDefinedDigits(t *testing.T) {
	values := []float64{0, 1, 12, 0, 3, 30, 300, 9, 0.5, 0}
	digits := Digits(values)

	defined := 0
	for _, d := range digits {
		if d.Valid() {
			defined++
		}
	}

	h := Count(digits)
	assert.Equal(t, defined, h.Total())
	assert.Equal(t, 7, h.Total())
	assert.Equal(t, 2, h.Get(1))
	assert.Equal(t, 3, h.Get(3))
	assert.Equal(t, 1, h.Get(5))
	assert.Equal(t, 1, h.Get(9))
}

func TestCount_IsDense(t *testing.T) {
	h := Count([]Digit{3, 3})
	require.Len(t, h, 9)
	for i, n := range h {
		if i == 2 {
			assert.Equal(t, 2, n)
			continue
		}
		assert.Zero(t, n, "slot %d", i)
	}

	empty := Count(nil)
	assert.Equal(t, Histogram{}, empty)
	assert.Zero(t, empty.Total())
}

func TestHistogram_Add(t *testing.T) {
	var h Histogram
	h.Add(1)
	h.Add(NoDigit)
	h.Add(9)
	h.Add(1)
	assert.Equal(t, Histogram{2, 0, 0, 0, 0, 0, 0, 0, 1}, h)
}

func TestCurve_SumsToOne(t *testing.T) {
	c := Curve()
	assert.InDelta(t, 1.0, Sum(c), 1e-12)
	assert.InDelta(t, 0.30103, c[0], 1e-5)
	assert.InDelta(t, 0.04576, c[8], 1e-5)

	for i := 1; i < len(c); i++ {
		assert.Less(t, c[i], c[i-1], "curve must decrease")
	}
}

func TestExpected_ScalesToTotal(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 1000} {
		e := Expected(n)
		assert.InDelta(t, float64(n), Sum(e), 1e-9, "n=%d", n)
	}

	// Scaling never mutates the reference curve.
	_ = Expected(50)
	assert.InDelta(t, 1.0, Sum(Curve()), 1e-12)
}

func TestProbability(t *testing.T) {
	assert.InDelta(t, math.Log10(2), Probability(1), 1e-12)
	assert.Zero(t, Probability(NoDigit))
}
