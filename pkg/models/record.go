package models

// FileRecord holds the metrics extracted from one successfully classified file.
type FileRecord struct {
	Path          string  `json:"path" toon:"path"`         // Slash-separated, relative to the scan root
	Language      string  `json:"language" toon:"language"` // Empty when the classifier could not name one
	CodeLines     int     `json:"code" toon:"code"`
	DocLines      int     `json:"doc" toon:"doc"`
	EmptyLines    int     `json:"empty" toon:"empty"`
	StringLines   int     `json:"string" toon:"string"`
	AvgComplexity float64 `json:"avg_ccn" toon:"avg_ccn"`
	SumComplexity float64 `json:"sum_ccn" toon:"sum_ccn"`
	HasComplexity bool    `json:"has_complexity" toon:"has_complexity"`

	// Digest identifies the file content for duplicate detection.
	Digest string `json:"-" toon:"-"`
}

// Metric names one numeric column of the metrics table.
type Metric string

const (
	MetricCode          Metric = "code"
	MetricDoc           Metric = "doc"
	MetricEmpty         Metric = "empty"
	MetricString        Metric = "string"
	MetricAvgComplexity Metric = "avg_ccn"
	MetricSumComplexity Metric = "sum_ccn"
)

// DigitColumn returns the name of the derived leading-digit column.
func (m Metric) DigitColumn() string {
	return string(m) + "_digit"
}

// LineMetrics returns the line-count metrics in panel order.
func LineMetrics() []Metric {
	return []Metric{MetricCode, MetricDoc, MetricEmpty, MetricString}
}

// AllMetrics returns every metric in panel order, complexity last.
func AllMetrics() []Metric {
	return append(LineMetrics(), MetricAvgComplexity, MetricSumComplexity)
}

// Value returns the record's value for a metric.
func (r FileRecord) Value(m Metric) float64 {
	switch m {
	case MetricCode:
		return float64(r.CodeLines)
	case MetricDoc:
		return float64(r.DocLines)
	case MetricEmpty:
		return float64(r.EmptyLines)
	case MetricString:
		return float64(r.StringLines)
	case MetricAvgComplexity:
		return r.AvgComplexity
	case MetricSumComplexity:
		return r.SumComplexity
	default:
		return 0
	}
}

// TotalLines returns the number of classified lines in the file.
func (r FileRecord) TotalLines() int {
	return r.CodeLines + r.DocLines + r.EmptyLines + r.StringLines
}
