// Package extract turns one scanned file into a metrics record.
package extract

import (
	"context"

	"github.com/panbanda/benford/internal/scanner"
	"github.com/panbanda/benford/pkg/analyzer/complexity"
	"github.com/panbanda/benford/pkg/classifier"
	"github.com/panbanda/benford/pkg/models"
)

// Classifier reports the language and line classes of a file.
type Classifier interface {
	Classify(ctx context.Context, path, root string) (classifier.Result, error)
}

// ComplexityAnalyzer reports the cyclomatic complexity of a file whose
// language the classifier already detected.
type ComplexityAnalyzer interface {
	AnalyzeLanguage(ctx context.Context, path, language string) (*complexity.FileResult, error)
}

// Skip describes a file that produced no record.
type Skip struct {
	Path  string
	State classifier.State
	Err   error
}

// SkipFunc is called for every regular file that produced no record.
type SkipFunc func(Skip)

// Extractor builds FileRecords. It is safe for concurrent use when its
// collaborators are.
type Extractor struct {
	root       string
	classifier Classifier
	complexity ComplexityAnalyzer
	onSkip     SkipFunc
}

// Option is a functional option for configuring Extractor.
type Option func(*Extractor)

// WithComplexity enables complexity metrics. A nil analyzer disables them.
func WithComplexity(a ComplexityAnalyzer) Option {
	return func(x *Extractor) {
		x.complexity = a
	}
}

// WithOnSkip sets a callback for files that produced no record.
func WithOnSkip(fn SkipFunc) Option {
	return func(x *Extractor) {
		x.onSkip = fn
	}
}

// New creates an extractor for files beneath root.
func New(root string, c Classifier, opts ...Option) *Extractor {
	x := &Extractor{root: root, classifier: c}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract returns the record for entry, or false when the entry is not a
// regular file or was not classified as analyzable. A complexity failure
// keeps the record with complexity zeroed.
func (x *Extractor) Extract(ctx context.Context, entry scanner.Entry) (models.FileRecord, bool) {
	if !entry.Regular {
		return models.FileRecord{}, false
	}

	res, err := x.classifier.Classify(ctx, entry.Path, x.root)
	if err != nil {
		x.skip(Skip{Path: entry.Rel, State: classifier.StateError, Err: err})
		return models.FileRecord{}, false
	}
	if res.State != classifier.StateAnalyzed {
		x.skip(Skip{Path: entry.Rel, State: res.State})
		return models.FileRecord{}, false
	}
	if res.Path == "" {
		res.Path = entry.Rel
	}

	var fc *complexity.FileResult
	if x.complexity != nil {
		if r, err := x.complexity.AnalyzeLanguage(ctx, entry.Path, res.Language); err == nil {
			fc = r
		}
	}

	return recordFrom(res, fc), true
}

func (x *Extractor) skip(s Skip) {
	if x.onSkip != nil {
		x.onSkip(s)
	}
}

// recordFrom maps collaborator results onto a FileRecord. A nil complexity
// result leaves the complexity metrics at zero.
func recordFrom(res classifier.Result, fc *complexity.FileResult) models.FileRecord {
	rec := models.FileRecord{
		Path:        res.Path,
		Language:    res.Language,
		CodeLines:   res.Code,
		DocLines:    res.Doc,
		EmptyLines:  res.Empty,
		StringLines: res.String,
		Digest:      res.Digest,
	}
	if fc != nil {
		rec.AvgComplexity = fc.AvgCyclomatic
		rec.SumComplexity = float64(fc.TotalCyclomatic)
		rec.HasComplexity = true
	}
	return rec
}
