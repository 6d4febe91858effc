// Package table holds the column-oriented metrics table built from a scan.
package table

import (
	"sort"

	"github.com/panbanda/benford/pkg/benford"
	"github.com/panbanda/benford/pkg/models"
)

// Unclassified is the language recorded for rows the classifier could not name.
const Unclassified = "unclassified"

// Table is one row per analyzed file with one column per metric. Columns
// are parallel slices indexed by row. The table is immutable once built
// except for the derived digit columns added by AddDigitColumns.
type Table struct {
	paths     []string
	languages []string
	metrics   map[models.Metric][]float64
	digits    map[models.Metric][]benford.Digit
	records   []models.FileRecord
}

// New builds a table from records. Rows are ordered by path so the table
// does not depend on the order records were produced in.
func New(records []models.FileRecord) *Table {
	sorted := make([]models.FileRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	t := &Table{
		paths:     make([]string, len(sorted)),
		languages: make([]string, len(sorted)),
		metrics:   make(map[models.Metric][]float64),
		records:   sorted,
	}
	for _, m := range models.AllMetrics() {
		t.metrics[m] = make([]float64, len(sorted))
	}

	for i, r := range sorted {
		t.paths[i] = r.Path
		t.languages[i] = languageOf(r)
		for _, m := range models.AllMetrics() {
			t.metrics[m][i] = r.Value(m)
		}
	}

	return t
}

func languageOf(r models.FileRecord) string {
	if r.Language == "" {
		return Unclassified
	}
	return r.Language
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.paths)
}

// Paths returns the path column.
func (t *Table) Paths() []string {
	return t.paths
}

// LanguageColumn returns the language column.
func (t *Table) LanguageColumn() []string {
	return t.languages
}

// Column returns the values of a metric column.
func (t *Table) Column(m models.Metric) []float64 {
	return t.metrics[m]
}

// Records returns the rows as records, in table order.
func (t *Table) Records() []models.FileRecord {
	return t.records
}

// AddDigitColumns derives the leading-digit column of every metric.
// Calling it again is a no-op.
func (t *Table) AddDigitColumns() {
	if t.digits != nil {
		return
	}
	t.digits = make(map[models.Metric][]benford.Digit, len(t.metrics))
	for m, values := range t.metrics {
		t.digits[m] = benford.Digits(values)
	}
}

// DigitColumn returns the derived digit column of a metric, computing the
// digit columns on first use.
func (t *Table) DigitColumn(m models.Metric) []benford.Digit {
	t.AddDigitColumns()
	return t.digits[m]
}

// Languages returns the distinct languages present, sorted by name.
func (t *Table) Languages() []string {
	seen := make(map[string]bool)
	var langs []string
	for _, l := range t.languages {
		if !seen[l] {
			seen[l] = true
			langs = append(langs, l)
		}
	}
	sort.Strings(langs)
	return langs
}

// Select returns a sub-table with the given rows, in the given order.
// Digit columns already derived on t are carried over.
func (t *Table) Select(rows []int) *Table {
	sub := &Table{
		paths:     make([]string, len(rows)),
		languages: make([]string, len(rows)),
		metrics:   make(map[models.Metric][]float64, len(t.metrics)),
		records:   make([]models.FileRecord, len(rows)),
	}
	for m := range t.metrics {
		sub.metrics[m] = make([]float64, len(rows))
	}
	if t.digits != nil {
		sub.digits = make(map[models.Metric][]benford.Digit, len(t.digits))
		for m := range t.digits {
			sub.digits[m] = make([]benford.Digit, len(rows))
		}
	}

	for i, row := range rows {
		sub.paths[i] = t.paths[row]
		sub.languages[i] = t.languages[row]
		sub.records[i] = t.records[row]
		for m, col := range t.metrics {
			sub.metrics[m][i] = col[row]
		}
		for m, col := range t.digits {
			sub.digits[m][i] = col[row]
		}
	}

	return sub
}
