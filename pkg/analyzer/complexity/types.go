package complexity

import "errors"

// ErrUnsupported is returned for files without a tree-sitter grammar.
var ErrUnsupported = errors.New("unsupported language")

// FunctionResult represents complexity metrics for a single function.
type FunctionResult struct {
	Name       string `json:"name"`
	StartLine  uint32 `json:"start_line"`
	EndLine    uint32 `json:"end_line"`
	Lines      int    `json:"lines"`
	Cyclomatic uint32 `json:"cyclomatic"`
}

// FileResult represents aggregated complexity for a file.
// A file without functions has zero total and average complexity.
type FileResult struct {
	Path            string           `json:"path"`
	Language        string           `json:"language"`
	Functions       []FunctionResult `json:"functions"`
	TotalCyclomatic uint32           `json:"total_cyclomatic"`
	AvgCyclomatic   float64          `json:"avg_cyclomatic"`
	MaxCyclomatic   uint32           `json:"max_cyclomatic"`
}
