package mcpserver

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/benford/internal/output"
	"github.com/panbanda/benford/internal/service/scan"
	"github.com/panbanda/benford/pkg/config"
)

// AnalyzeInput is the input of analyze_benford.
type AnalyzeInput struct {
	Path         string   `json:"path,omitempty" jsonschema:"Directory to analyze. Defaults to the current directory."`
	Languages    []string `json:"languages,omitempty" jsonschema:"Only report these languages (case-insensitive). Defaults to all."`
	NoComplexity bool     `json:"no_complexity,omitempty" jsonschema:"Skip cyclomatic complexity, reporting line metrics only."`
	Format       string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml, or markdown."`
}

func getPath(input AnalyzeInput) string {
	if input.Path == "" {
		return "."
	}
	return input.Path
}

func getFormat(input AnalyzeInput) output.Format {
	switch strings.ToLower(input.Format) {
	case "json":
		return output.FormatJSON
	case "yaml", "yml":
		return output.FormatYAML
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data *scan.Result, format output.Format) (string, error) {
	summary := data.Summary()
	if format == output.FormatMarkdown {
		var b strings.Builder
		if err := output.DigitReport(summary).RenderMarkdown(&b); err != nil {
			return "", err
		}
		return b.String(), nil
	}
	out, err := output.Encode(format, summary)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toolResult(data *scan.Result, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// loadConfig picks up a project config at the analyzed path, as the CLI
// does for the working directory.
func loadConfig(root string) (*config.Config, error) {
	res, err := config.LoadConfig(config.WithSearchDirs(root, filepath.Join(root, ".benford")))
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func (s *Server) handleAnalyzeBenford(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	root := getPath(input)
	format := getFormat(input)

	cfg, err := loadConfig(root)
	if err != nil {
		return toolError(err.Error())
	}

	opts := scan.OptionsFromConfig(cfg, root)
	if len(input.Languages) > 0 {
		opts.Languages = input.Languages
	}
	if input.NoComplexity {
		opts.Complexity = false
	}

	result, err := s.scans.Run(ctx, opts)
	switch {
	case errors.Is(err, scan.ErrNoLanguages):
		// The summary still lists the languages that were found.
	case err != nil:
		return toolError(err.Error())
	}

	return toolResult(result, format)
}
