// Package analysis computes the per-language digit distributions that are
// compared against Benford's Law.
package analysis

import (
	"github.com/panbanda/benford/pkg/benford"
	"github.com/panbanda/benford/pkg/models"
	"github.com/panbanda/benford/pkg/table"
)

// Metrics returns the panels to compute: all six metrics, or only the
// line counts when complexity was not collected.
func Metrics(withComplexity bool) []models.Metric {
	if withComplexity {
		return models.AllMetrics()
	}
	return models.LineMetrics()
}

// Panel computes one metric's histogram and its scaled Benford curve.
func Panel(t *table.Table, m models.Metric) models.Panel {
	h := benford.Count(t.DigitColumn(m))
	total := h.Total()
	return models.Panel{
		Metric:    m,
		Observed:  h,
		Expected:  benford.Expected(total),
		Total:     total,
		Undefined: t.Len() - total,
	}
}

// Analyze builds the report for one language partition.
func Analyze(part table.Part, metrics []models.Metric) models.LanguageReport {
	report := models.LanguageReport{
		Language: part.Language,
		Files:    part.Table.Len(),
		Panels:   make([]models.Panel, 0, len(metrics)),
	}
	for _, m := range metrics {
		report.Panels = append(report.Panels, Panel(part.Table, m))
	}
	return report
}

// AnalyzeAll builds one report per partition, in partition order.
func AnalyzeAll(parts []table.Part, metrics []models.Metric) []models.LanguageReport {
	reports := make([]models.LanguageReport, 0, len(parts))
	for _, p := range parts {
		reports = append(reports, Analyze(p, metrics))
	}
	return reports
}
