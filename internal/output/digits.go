package output

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/panbanda/benford/pkg/models"
)

// DigitReport builds the display of a scan: a summary section then one
// table per reported language, with observed counts and the Benford
// expectation for every metric.
func DigitReport(summary models.ScanSummary) *Report {
	r := &Report{
		Title: "Benford analysis: " + summary.Root,
		Data:  summary,
	}

	r.Sections = append(r.Sections, &Section{
		Title: "Summary",
		Content: fmt.Sprintf("Files analyzed: %s\nFiles skipped: %s\nDuplicates: %s\nLanguages: %v",
			humanize.Comma(int64(summary.Analyzed)),
			humanize.Comma(int64(summary.Skipped)),
			humanize.Comma(int64(summary.Duplicates)),
			summary.Languages),
	})

	for _, lr := range summary.Reports {
		r.Sections = append(r.Sections, LanguageTable(lr))
	}
	return r
}

// LanguageTable renders one language report. Each metric gets an observed
// row and an expected row.
func LanguageTable(lr models.LanguageReport) *Table {
	headers := append([]string{"Metric", "N", "Undefined"}, models.DigitLabels...)

	rows := make([][]string, 0, 2*len(lr.Panels))
	for _, p := range lr.Panels {
		observed := []string{p.Metric.String(), strconv.Itoa(p.Total), strconv.Itoa(p.Undefined)}
		expected := []string{p.Metric.String() + " (benford)", "", ""}
		for i := range p.Observed {
			observed = append(observed, strconv.Itoa(p.Observed[i]))
			expected = append(expected, strconv.FormatFloat(p.Expected[i], 'f', 1, 64))
		}
		rows = append(rows, observed, expected)
	}

	title := fmt.Sprintf("%s (%s files)", lr.Language, humanize.Comma(int64(lr.Files)))
	return NewTable(title, headers, rows, nil, lr)
}
