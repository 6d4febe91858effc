package models

// String is required for toon serialization, which uses fmt.Stringer.
func (m Metric) String() string { return string(m) }
