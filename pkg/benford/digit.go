// Package benford extracts leading significant digits and builds the
// observed and expected digit distributions for Benford's Law.
package benford

import (
	"math"
	"strconv"
	"strings"
)

// Digit is a leading significant digit in 1..9.
type Digit uint8

// NoDigit marks a value without a leading significant digit (zero,
// negative, NaN or infinite). It is never counted in a histogram.
const NoDigit Digit = 0

// Valid reports whether d is one of 1..9.
func (d Digit) Valid() bool {
	return d >= 1 && d <= 9
}

// String renders the digit the way it appears in the derived column,
// with an empty string for NoDigit.
func (d Digit) String() string {
	if !d.Valid() {
		return ""
	}
	return strconv.Itoa(int(d))
}

// FirstDigit returns the leading significant digit of x.
//
// x is rendered in its shortest decimal form, leading '0' and '.'
// characters are stripped and the first remaining character is the
// digit: 54 -> 5, 0.456 -> 4, 100 -> 1, 10.0 -> 1, 1e-7 -> 1.
func FirstDigit(x float64) Digit {
	if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return NoDigit
	}
	return firstDigitOf(strconv.FormatFloat(x, 'g', -1, 64))
}

// FirstDigitInt is FirstDigit for integer counts.
func FirstDigitInt(n int) Digit {
	if n <= 0 {
		return NoDigit
	}
	return firstDigitOf(strconv.Itoa(n))
}

func firstDigitOf(rendered string) Digit {
	stripped := strings.TrimLeft(rendered, "0.")
	if stripped == "" {
		return NoDigit
	}
	c := stripped[0]
	if c < '1' || c > '9' {
		return NoDigit
	}
	return Digit(c - '0')
}

// Digits applies FirstDigit to every value of a column.
func Digits(values []float64) []Digit {
	out := make([]Digit, len(values))
	for i, v := range values {
		out[i] = FirstDigit(v)
	}
	return out
}
