package benford

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Curve returns the Benford probabilities log10(1 + 1/d) for d = 1..9.
// The values sum to 1.
func Curve() [9]float64 {
	var c [9]float64
	for d := 1; d <= 9; d++ {
		c[d-1] = math.Log10(1 + 1/float64(d))
	}
	return c
}

// Expected scales the Benford curve to a sample of n digits so it can
// be overlaid on a histogram with the same total.
func Expected(n int) [9]float64 {
	c := Curve()
	floats.Scale(float64(n), c[:])
	return c
}

// Sum adds the values of a curve.
func Sum(c [9]float64) float64 {
	return floats.Sum(c[:])
}

// Probability returns the Benford probability of digit d, or 0 for NoDigit.
func Probability(d Digit) float64 {
	if !d.Valid() {
		return 0
	}
	return math.Log10(1 + 1/float64(d))
}
