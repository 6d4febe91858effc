package models

// DigitLabels are the x-axis labels shared by every histogram panel.
var DigitLabels = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}

// Panel is one metric's observed leading-digit histogram and the
// Benford expectation scaled to the same sample size.
type Panel struct {
	Metric    Metric     `json:"metric" yaml:"metric" toon:"metric"`
	Observed  [9]int     `json:"observed" yaml:"observed" toon:"observed"`
	Expected  [9]float64 `json:"expected" yaml:"expected" toon:"expected"`
	Total     int        `json:"total" yaml:"total" toon:"total"`
	Undefined int        `json:"undefined" yaml:"undefined" toon:"undefined"` // Rows whose value has no leading digit
}

// LanguageReport groups the panels computed for one language partition.
type LanguageReport struct {
	Language string  `json:"language" yaml:"language" toon:"language"`
	Files    int     `json:"files" yaml:"files" toon:"files"`
	Panels   []Panel `json:"panels" yaml:"panels" toon:"panels"`
}

// ScanSummary describes a completed scan for display.
type ScanSummary struct {
	Root       string           `json:"root" yaml:"root" toon:"root"`
	Analyzed   int              `json:"analyzed" yaml:"analyzed" toon:"analyzed"`
	Skipped    int              `json:"skipped" yaml:"skipped" toon:"skipped"`
	Duplicates int              `json:"duplicates" yaml:"duplicates" toon:"duplicates"`
	Languages  []string         `json:"languages" yaml:"languages" toon:"languages"`
	Reports    []LanguageReport `json:"reports" yaml:"reports" toon:"reports"`
}
