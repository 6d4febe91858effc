package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/benford/internal/extract"
	"github.com/panbanda/benford/internal/output"
	"github.com/panbanda/benford/internal/progress"
	"github.com/panbanda/benford/internal/report"
	"github.com/panbanda/benford/internal/service/scan"
	"github.com/panbanda/benford/pkg/config"
)

// loadConfig loads the file named by --config or the first default config.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	result, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// applyFlags layers explicitly set flags over the loaded config.
func applyFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("languages") {
		cfg.Report.Languages = splitLanguages(c.StringSlice("languages"))
	}
	if c.IsSet("format") {
		cfg.Report.Format = c.String("format")
	}
	if c.IsSet("workers") {
		cfg.Scan.Workers = c.Int("workers")
	}
	if c.Bool("no-complexity") {
		cfg.Scan.Complexity = false
	}
	return cfg.Validate()
}

// splitLanguages accepts both repeated flags and comma-separated lists.
func splitLanguages(values []string) []string {
	var langs []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				langs = append(langs, name)
			}
		}
	}
	return langs
}

func runAnalyze(c *cli.Context) error {
	if c.NArg() != 1 {
		_ = cli.ShowAppHelp(c)
		return fmt.Errorf("expected exactly one scan path, got %d", c.NArg())
	}
	root := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := applyFlags(c, cfg); err != nil {
		return err
	}

	stdout, stderr := c.App.Writer, c.App.ErrWriter
	if stderr == nil {
		stderr = os.Stderr
	}
	f := output.NewWriterFormatter(output.ParseFormat(cfg.Report.Format), stdout, stderr, cfg.Report.Color && !color.NoColor)

	opts := scan.OptionsFromConfig(cfg, root)

	var tracker *progress.Tracker
	if c.Bool("verbose") {
		opts.OnSkip = skipLogger(stderr)
	} else if !c.Bool("quiet") {
		tracker = progress.NewSpinnerTo(stderr, "Scanning "+root)
		opts.OnProgress = tracker.Tick
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := scan.New().Run(ctx, opts)
	if tracker != nil {
		tracker.FinishSuccess()
	}

	switch {
	case errors.Is(err, scan.ErrNothingAnalyzed):
		f.Warning("Nothing to analyze in %s", root)
		return cli.Exit("", 1)
	case errors.Is(err, scan.ErrNoLanguages):
		f.Info("Languages in project: %v", result.Languages)
		f.Warning("Nothing to analyze: no language matched %v", opts.Languages)
		return nil
	case err != nil:
		return err
	}

	f.Info("Languages in project: %v", result.Languages)
	writeCharts(f, result, c.String("out"))
	reportSkips(f, result)

	if c.Bool("quiet") {
		return nil
	}
	return f.Output(output.DigitReport(result.Summary()))
}

// writeCharts renders one chart per reported language. A language whose
// chart cannot be written is reported and the others still get theirs.
func writeCharts(f *output.Formatter, result *scan.Result, suffix string) {
	renderer := report.NewHTMLRenderer()
	for _, lr := range result.Reports {
		f.Info("Analysing %s...", lr.Language)
		if suffix == "" {
			continue
		}
		path := report.OutputName(lr.Language, suffix)
		if err := renderer.Render(report.NewFigure(result.Root, lr), path); err != nil {
			f.Error("%v", err)
		}
	}
}

func reportSkips(f *output.Formatter, result *scan.Result) {
	if result.Skipped > 0 || result.Duplicates > 0 {
		f.Info("Skipped %d files, %d duplicates", result.Skipped, result.Duplicates)
	}
	if result.Failures != nil && result.Failures.HasErrors() {
		f.Warning("%d files failed to process", result.Failures.Len())
	}
}

// skipLogger prints each skipped file. Workers call it concurrently.
func skipLogger(w io.Writer) extract.SkipFunc {
	var mu sync.Mutex
	return func(s extract.Skip) {
		mu.Lock()
		defer mu.Unlock()
		if s.Err != nil {
			fmt.Fprintf(w, "skipped %s: %s: %v\n", s.Path, s.State, s.Err)
			return
		}
		fmt.Fprintf(w, "skipped %s: %s\n", s.Path, s.State)
	}
}

