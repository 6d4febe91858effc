// Package scan runs the whole analysis of one directory tree: enumerate,
// extract, tabulate, partition by language and compare with Benford's Law.
package scan

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"github.com/panbanda/benford/internal/extract"
	"github.com/panbanda/benford/internal/fileproc"
	"github.com/panbanda/benford/internal/scanner"
	"github.com/panbanda/benford/pkg/analysis"
	"github.com/panbanda/benford/pkg/analyzer/complexity"
	"github.com/panbanda/benford/pkg/classifier"
	"github.com/panbanda/benford/pkg/config"
	"github.com/panbanda/benford/pkg/models"
	"github.com/panbanda/benford/pkg/table"
)

var (
	// ErrNothingAnalyzed is returned when no file beneath the root could be
	// classified.
	ErrNothingAnalyzed = errors.New("nothing to analyze: no file could be classified")

	// ErrNoLanguages is returned with a valid result when the language
	// filter matched none of the languages found.
	ErrNoLanguages = errors.New("no language matched the filter")
)

// Options controls one run.
type Options struct {
	Root           string
	Languages      []string
	Complexity     bool
	SkipDuplicates bool
	Workers        int
	FileTimeout    time.Duration
	MaxFileSize    int64
	Exclude        config.ExcludeConfig

	// OnProgress is called once per scanned entry.
	OnProgress func()
	// OnSkip is called for every regular file that produced no record.
	OnSkip func(extract.Skip)
}

// OptionsFromConfig builds run options for root from a loaded config.
func OptionsFromConfig(cfg *config.Config, root string) Options {
	return Options{
		Root:           root,
		Languages:      cfg.Report.Languages,
		Complexity:     cfg.Scan.Complexity,
		SkipDuplicates: cfg.Scan.SkipDuplicates,
		Workers:        cfg.Scan.Workers,
		FileTimeout:    cfg.Scan.Timeout(),
		MaxFileSize:    cfg.Scan.MaxFileSize,
		Exclude:        cfg.Exclude,
	}
}

// Result is the outcome of a run.
type Result struct {
	Root string
	// Table holds every analyzed file, sorted by path.
	Table *table.Table
	// Languages lists every language found, including filtered ones.
	Languages []string
	// Reports holds one report per reported language, sorted by language.
	Reports    []models.LanguageReport
	Analyzed   int
	Skipped    int
	Duplicates int
	// Failures collects files whose processing panicked or timed out.
	Failures *fileproc.ProcessingErrors
}

// Summary returns the serializable view of the result.
func (r *Result) Summary() models.ScanSummary {
	return models.ScanSummary{
		Root:       r.Root,
		Analyzed:   r.Analyzed,
		Skipped:    r.Skipped,
		Duplicates: r.Duplicates,
		Languages:  r.Languages,
		Reports:    r.Reports,
	}
}

// Service runs scans. The collaborators default to the tree-sitter backed
// classifier and complexity analyzer.
type Service struct {
	classifier extract.Classifier
	complexity extract.ComplexityAnalyzer
}

// Option configures a Service.
type Option func(*Service)

// WithClassifier replaces the line classifier.
func WithClassifier(c extract.Classifier) Option {
	return func(s *Service) {
		s.classifier = c
	}
}

// WithComplexityAnalyzer replaces the complexity analyzer.
func WithComplexityAnalyzer(a extract.ComplexityAnalyzer) Option {
	return func(s *Service) {
		s.complexity = a
	}
}

// New creates a new scan service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run scans opts.Root. It fails with a *scanner.RootError when the root is
// missing and with ErrNothingAnalyzed when no record was produced. When the
// language filter matches nothing, the result is returned together with
// ErrNoLanguages.
func (s *Service) Run(ctx context.Context, opts Options) (*Result, error) {
	scn := scanner.NewScanner(&config.Config{Exclude: opts.Exclude})
	if _, err := scn.Resolve(opts.Root); err != nil {
		return nil, err
	}

	var skipped atomic.Int64
	onSkip := func(sk extract.Skip) {
		skipped.Add(1)
		if opts.OnSkip != nil {
			opts.OnSkip(sk)
		}
	}

	xopts := []extract.Option{extract.WithOnSkip(onSkip)}
	if opts.Complexity {
		xopts = append(xopts, extract.WithComplexity(s.complexityFor(opts)))
	}
	x := extract.New(opts.Root, s.classifierFor(opts), xopts...)

	failures := &fileproc.ProcessingErrors{}
	popts := []fileproc.Option{fileproc.WithErrors(failures), fileproc.WithTimeout(opts.FileTimeout)}
	if opts.OnProgress != nil {
		popts = append(popts, fileproc.WithProgress(opts.OnProgress))
	}

	records := fileproc.Map(ctx, scn.Entries(opts.Root), opts.Workers, x.Extract, popts...)

	sort.SliceStable(records, func(i, j int) bool { return records[i].Path < records[j].Path })

	result := &Result{Root: opts.Root, Failures: failures}
	if opts.SkipDuplicates {
		var dropped []models.FileRecord
		records, dropped = dropDuplicates(records)
		result.Duplicates = len(dropped)
		for _, d := range dropped {
			if opts.OnSkip != nil {
				opts.OnSkip(extract.Skip{Path: d.Path, State: classifier.StateDuplicate})
			}
		}
	}
	result.Skipped = int(skipped.Load()) + failures.Len()
	result.Analyzed = len(records)

	if len(records) == 0 {
		return result, ErrNothingAnalyzed
	}

	tbl := table.New(records)
	tbl.AddDigitColumns()
	result.Table = tbl
	result.Languages = tbl.Languages()

	parts := table.Partition(tbl, opts.Languages)
	result.Reports = analysis.AnalyzeAll(parts, analysis.Metrics(opts.Complexity))
	if len(parts) == 0 {
		return result, ErrNoLanguages
	}

	return result, nil
}

func (s *Service) classifierFor(opts Options) extract.Classifier {
	if s.classifier != nil {
		return s.classifier
	}
	return classifier.New(classifier.WithMaxFileSize(opts.MaxFileSize))
}

func (s *Service) complexityFor(opts Options) extract.ComplexityAnalyzer {
	if s.complexity != nil {
		return s.complexity
	}
	return complexity.New(complexity.WithMaxFileSize(opts.MaxFileSize))
}

// dropDuplicates keeps the first record of every content digest. Records
// must be sorted by path so the kept copy does not depend on scheduling.
func dropDuplicates(records []models.FileRecord) (kept, dropped []models.FileRecord) {
	seen := make(map[string]bool, len(records))
	kept = records[:0:0]
	for _, rec := range records {
		if rec.Digest != "" && seen[rec.Digest] {
			dropped = append(dropped, rec)
			continue
		}
		if rec.Digest != "" {
			seen[rec.Digest] = true
		}
		kept = append(kept, rec)
	}
	return kept, dropped
}
