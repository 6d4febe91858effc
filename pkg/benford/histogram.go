package benford

// Histogram counts leading digits; index i holds the count for digit i+1.
// It is always dense: digits that never occur keep a zero slot.
type Histogram [9]int

// Count builds the histogram of a digit column, ignoring NoDigit entries.
func Count(digits []Digit) Histogram {
	var h Histogram
	for _, d := range digits {
		if d.Valid() {
			h[d-1]++
		}
	}
	return h
}

// Add records one digit. NoDigit is ignored.
func (h *Histogram) Add(d Digit) {
	if d.Valid() {
		h[d-1]++
	}
}

// Total returns the number of counted digits.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// Get returns the count for digit d, or 0 for NoDigit.
func (h Histogram) Get(d Digit) int {
	if !d.Valid() {
		return 0
	}
	return h[d-1]
}
