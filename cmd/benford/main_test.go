package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/benford/internal/scanner"
	"github.com/panbanda/benford/pkg/models"
)

func TestMain(m *testing.M) {
	// cli.Exit would otherwise terminate the test binary.
	cli.OsExiter = func(int) {}
	os.Exit(m.Run())
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(hoistFlags(app, append([]string{"benford"}, args...)))
	return stdout.String(), stderr.String(), err
}

// writeProject creates Go files with 3 and 30 code lines.
func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	var long strings.Builder
	long.WriteString("package main\n\nvar x = 1\n")
	for i := range 14 {
		fmt.Fprintf(&long, "func f%d() {\n}\n", i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "short.go"), []byte("package main\n\nfunc a() {\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "long.go"), []byte(long.String()), 0o644))
	return dir
}

func TestSplitLanguages(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{"Go"}, []string{"Go"}},
		{[]string{"Go,Python"}, []string{"Go", "Python"}},
		{[]string{"Go", " Python , Rust"}, []string{"Go", "Python", "Rust"}},
		{[]string{",,"}, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitLanguages(tt.in), tt.in)
	}
}

func TestAnalyze_WritesChartPerLanguage(t *testing.T) {
	dir := writeProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tool.py"), []byte("x = 1\n"), 0o644))
	t.Chdir(t.TempDir())

	stdout, stderr, err := runApp(t, "-q", "-o", "benford.html", dir)
	require.NoError(t, err)

	assert.Empty(t, stdout, "quiet prints no tables")
	assert.Contains(t, stderr, "Languages in project: [Go Python]")
	assert.Contains(t, stderr, "Analysing Go...")
	assert.Contains(t, stderr, "Analysing Python...")

	for _, name := range []string{"Go_benford.html", "Python_benford.html"} {
		data, err := os.ReadFile(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), dir+": ")
	}
}

func TestAnalyze_TextDisplay(t *testing.T) {
	dir := writeProject(t)
	t.Chdir(t.TempDir())

	stdout, _, err := runApp(t, "--no-complexity", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Go (2 files)")
	assert.Contains(t, stdout, "code (benford)")
	assert.NotContains(t, stdout, "avg_ccn")
}

func TestAnalyze_JSONDisplay(t *testing.T) {
	dir := writeProject(t)
	t.Chdir(t.TempDir())

	stdout, _, err := runApp(t, "-f", "json", dir)
	require.NoError(t, err)

	var summary models.ScanSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, 2, summary.Analyzed)
	require.Len(t, summary.Reports, 1)

	code := summary.Reports[0].Panels[0]
	assert.Equal(t, models.MetricCode, code.Metric)
	assert.Equal(t, [9]int{0, 0, 2, 0, 0, 0, 0, 0, 0}, code.Observed)
}

func TestAnalyze_LanguageFilter(t *testing.T) {
	dir := writeProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tool.py"), []byte("x = 1\n"), 0o644))
	t.Chdir(t.TempDir())

	_, stderr, err := runApp(t, "-q", "-l", "python", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Analysing Python...")
	assert.NotContains(t, stderr, "Analysing Go...")

	_, stderr, err = runApp(t, "-q", "-l", "Go", "-l", "Python", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Analysing Go...")
	assert.Contains(t, stderr, "Analysing Python...")
}

func TestAnalyze_FilterMatchesNothing(t *testing.T) {
	dir := writeProject(t)
	t.Chdir(t.TempDir())

	_, stderr, err := runApp(t, "-q", "-o", "x.html", "-l", "Haskell", dir)
	require.NoError(t, err, "an empty filter result is not a failure")
	assert.Contains(t, stderr, "Nothing to analyze")

	entries, err := os.ReadDir(".")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAnalyze_NothingToAnalyze(t *testing.T) {
	_, stderr, err := runApp(t, "-q", t.TempDir())
	require.Error(t, err)

	var exit cli.ExitCoder
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 1, exit.ExitCode())
	assert.Contains(t, stderr, "WARNING: Nothing to analyze in")
}

func TestAnalyze_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, _, err := runApp(t, "-q", missing)
	require.Error(t, err)

	var rootErr *scanner.RootError
	require.True(t, errors.As(err, &rootErr))
	assert.Contains(t, err.Error(), missing)
}

func TestAnalyze_ChartWriteFailureContinues(t *testing.T) {
	dir := writeProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tool.py"), []byte("x = 1\n"), 0o644))
	t.Chdir(t.TempDir())

	_, stderr, err := runApp(t, "-q", "-o", filepath.Join("missing", "chart.html"), dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "ERROR: writing Go report")
	assert.Contains(t, stderr, "ERROR: writing Python report")
	assert.Contains(t, stderr, "Analysing Python...")
}

func TestAnalyze_Verbose(t *testing.T) {
	dir := writeProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.go"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "copy.go"), []byte("package main\n\nfunc a() {\n}\n"), 0o644))
	t.Chdir(t.TempDir())

	_, stderr, err := runApp(t, "-q", "--verbose", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "skipped empty.go: empty")
	assert.Contains(t, stderr, "skipped short.go: duplicate")
	assert.Contains(t, stderr, "Skipped 1 files, 1 duplicates")
}

func TestAnalyze_ArgumentErrors(t *testing.T) {
	_, _, err := runApp(t)
	assert.ErrorContains(t, err, "expected exactly one scan path")

	_, _, err = runApp(t, "a", "b")
	assert.ErrorContains(t, err, "got 2")

	_, _, err = runApp(t, "-w", "0", t.TempDir())
	assert.ErrorContains(t, err, "scan.workers must be at least 1")
}

func TestAnalyze_TrailingFlags(t *testing.T) {
	dir := writeProject(t)
	t.Chdir(t.TempDir())

	stdout, stderr, err := runApp(t, dir, "-q", "-o", "x.html")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Analysing Go...")
	assert.FileExists(t, "Go_x.html")
}

func TestAnalyze_ChartSuffixGetsHTMLExtension(t *testing.T) {
	dir := writeProject(t)
	t.Chdir(t.TempDir())

	_, _, err := runApp(t, "-q", "-o", "plot.png", dir)
	require.NoError(t, err)
	assert.FileExists(t, "Go_plot.png.html")
	assert.NoFileExists(t, "Go_plot.png")
}

func TestHoistFlags(t *testing.T) {
	app := newApp()
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"flags first", []string{"benford", "-q", "dir"}, []string{"benford", "-q", "dir"}},
		{"trailing value flag", []string{"benford", "dir", "-o", "x"}, []string{"benford", "-o", "x", "dir"}},
		{"trailing bool flag", []string{"benford", "dir", "--quiet"}, []string{"benford", "--quiet", "dir"}},
		{"equals form", []string{"benford", "dir", "--format=json", "-q"}, []string{"benford", "--format=json", "-q", "dir"}},
		{"mixed", []string{"benford", "-w", "2", "dir", "-l", "Go"}, []string{"benford", "-w", "2", "-l", "Go", "dir"}},
		{"double dash", []string{"benford", "dir", "--", "-q"}, []string{"benford", "dir", "--", "-q"}},
		{"subcommand", []string{"benford", "config", "validate", "-c", "x"}, []string{"benford", "config", "validate", "-c", "x"}},
		{"program only", []string{"benford"}, []string{"benford"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hoistFlags(app, tt.in))
		})
	}
}

func TestAnalyze_ConfigFile(t *testing.T) {
	dir := writeProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tool.py"), []byte("x = 1\n"), 0o644))
	cfgPath := filepath.Join(t.TempDir(), "benford.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("report:\n  languages: [Python]\n  format: json\n"), 0o644))
	t.Chdir(t.TempDir())

	stdout, _, err := runApp(t, "-c", cfgPath, dir)
	require.NoError(t, err)

	var summary models.ScanSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	require.Len(t, summary.Reports, 1)
	assert.Equal(t, "Python", summary.Reports[0].Language)
}

func TestConfigShow(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := runApp(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Default configuration")
	assert.Contains(t, stdout, "[scan]")
	assert.Contains(t, stdout, "workers = 10")
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	stdout, _, err := runApp(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Default configuration is valid")

	good := filepath.Join(dir, "benford.toml")
	require.NoError(t, os.WriteFile(good, []byte("[scan]\nworkers = 4\n"), 0o644))
	stdout, _, err = runApp(t, "config", "validate", "-c", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration valid: "+good)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[scan]\nworkers = 0\n"), 0o644))
	_, stderr, err := runApp(t, "config", "validate", "-c", bad)
	require.Error(t, err)
	assert.Contains(t, stderr, "Configuration validation failed")
}
