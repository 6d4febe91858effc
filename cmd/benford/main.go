package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/benford/pkg/config"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	app := newApp()
	if err := app.Run(hoistFlags(app, os.Args)); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "benford",
		Usage:     "Compare per-file code metrics with Benford's Law",
		UsageText: "benford [flags] <scan_path>\nbenford config show|validate\nbenford mcp",
		ArgsUsage: "<scan_path>",
		Version:   version,
		Metadata:  make(map[string]interface{}),
		Description: `Benford classifies every file under a directory into code, documentation,
empty and string lines, measures cyclomatic complexity, and for each language
compares the leading digits of those metrics with the distribution predicted
by Benford's Law.

Flags may come before or after the scan path.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write one HTML chart per language to `<language>_<SUFFIX>` (.html is appended when missing)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Do not print the digit tables",
			},
			&cli.StringSliceFlag{
				Name:    "languages",
				Aliases: []string{"l"},
				Usage:   "Only report these languages (repeatable, comma-separated)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"BENFORD_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon, yaml",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   fmt.Sprintf("Number of files processed in parallel (config default %d)", config.DefaultWorkers),
			},
			&cli.BoolFlag{
				Name:  "no-complexity",
				Usage: "Skip cyclomatic complexity",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Print every skipped file with its reason",
			},
			&cli.StringFlag{
				Name:  "pprof",
				Usage: "Enable pprof profiling and write to specified prefix (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)",
			},
		},
		Before: startProfile,
		After:  stopProfile,
		Action: runAnalyze,
		Commands: []*cli.Command{
			configCmd(),
			mcpCmd(),
		},
	}
}

// hoistFlags moves root flags that follow the scan path in front of it, so
// "benford ./src -o x" parses like "benford -o x ./src". Arguments after
// "--" and argument lists naming a subcommand are left alone.
func hoistFlags(app *cli.App, args []string) []string {
	if len(args) < 2 {
		return args
	}

	takesValue := make(map[string]bool)
	for _, f := range app.Flags {
		if _, ok := f.(*cli.BoolFlag); ok {
			continue
		}
		for _, name := range f.Names() {
			takesValue[name] = true
		}
	}

	var flags, positional []string
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if arg == "--" {
			positional = append(positional, rest[i:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			if len(positional) == 0 && app.Command(arg) != nil {
				return args
			}
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		name := strings.TrimLeft(arg, "-")
		if !strings.Contains(name, "=") && takesValue[name] && i+1 < len(rest) {
			i++
			flags = append(flags, rest[i])
		}
	}

	out := make([]string, 0, len(args))
	out = append(out, args[0])
	out = append(out, flags...)
	return append(out, positional...)
}
