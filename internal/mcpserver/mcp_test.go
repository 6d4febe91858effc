package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/benford/internal/output"
	"github.com/panbanda/benford/pkg/models"
)

func TestServerCreation(t *testing.T) {
	server := NewServer("1.0.0-test")
	require.NotNil(t, server)
	assert.NotNil(t, server.server)
	assert.NotNil(t, server.scans)

	assert.NotNil(t, NewServer(""), "empty version defaults to dev")
}

func TestToolDescription(t *testing.T) {
	desc := describeBenford()
	for _, section := range []string{"USE WHEN:", "INTERPRETING RESULTS:", "METRICS RETURNED:"} {
		assert.Contains(t, desc, section)
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, ".", getPath(AnalyzeInput{}))
	assert.Equal(t, "/src", getPath(AnalyzeInput{Path: "/src"}))
}

func TestGetFormat(t *testing.T) {
	tests := []struct {
		format string
		want   output.Format
	}{
		{"", output.FormatTOON},
		{"toon", output.FormatTOON},
		{"json", output.FormatJSON},
		{"JSON", output.FormatJSON},
		{"yaml", output.FormatYAML},
		{"markdown", output.FormatMarkdown},
		{"md", output.FormatMarkdown},
		{"text", output.FormatTOON},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, getFormat(AnalyzeInput{Format: tt.format}), tt.format)
	}
}

func TestToolError(t *testing.T) {
	result, structured, err := toolError("boom")
	require.NoError(t, err)
	assert.Nil(t, structured)
	assert.True(t, result.IsError)
	assert.Equal(t, "Error: boom", result.Content[0].(*mcp.TextContent).Text)
}

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	short := "package main\n\nfunc a() {\n}\n"
	var long strings.Builder
	long.WriteString("package main\n\nvar x = 1\n")
	for i := range 14 {
		fmt.Fprintf(&long, "func f%d() {\n}\n", i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "short.go"), []byte(short), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "long.go"), []byte(long.String()), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tool.py"), []byte("x = 1\n"), 0o644))
	return dir
}

func callTool(t *testing.T, input AnalyzeInput) (*mcp.CallToolResult, string) {
	t.Helper()
	result, _, err := NewServer("test").handleAnalyzeBenford(context.Background(), nil, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	return result, result.Content[0].(*mcp.TextContent).Text
}

func TestHandleAnalyzeBenford_JSON(t *testing.T) {
	dir := writeProject(t)

	result, text := callTool(t, AnalyzeInput{Path: dir, Format: "json"})
	require.False(t, result.IsError, text)

	var summary models.ScanSummary
	require.NoError(t, json.Unmarshal([]byte(text), &summary))
	assert.Equal(t, 3, summary.Analyzed)
	assert.Equal(t, []string{"Go", "Python"}, summary.Languages)
	require.Len(t, summary.Reports, 2)
	assert.Equal(t, "Go", summary.Reports[0].Language)
	assert.Len(t, summary.Reports[0].Panels, 6)
}

func TestHandleAnalyzeBenford_LanguagesAndNoComplexity(t *testing.T) {
	dir := writeProject(t)

	_, text := callTool(t, AnalyzeInput{Path: dir, Format: "json", Languages: []string{"python"}, NoComplexity: true})

	var summary models.ScanSummary
	require.NoError(t, json.Unmarshal([]byte(text), &summary))
	require.Len(t, summary.Reports, 1)
	assert.Equal(t, "Python", summary.Reports[0].Language)
	assert.Len(t, summary.Reports[0].Panels, 4)
}

func TestHandleAnalyzeBenford_FilterMatchesNothing(t *testing.T) {
	dir := writeProject(t)

	result, text := callTool(t, AnalyzeInput{Path: dir, Format: "json", Languages: []string{"Haskell"}})
	assert.False(t, result.IsError)

	var summary models.ScanSummary
	require.NoError(t, json.Unmarshal([]byte(text), &summary))
	assert.Empty(t, summary.Reports)
	assert.Equal(t, []string{"Go", "Python"}, summary.Languages)
}

func TestHandleAnalyzeBenford_Formats(t *testing.T) {
	dir := writeProject(t)

	_, toonText := callTool(t, AnalyzeInput{Path: dir})
	assert.Contains(t, toonText, "analyzed")

	_, md := callTool(t, AnalyzeInput{Path: dir, Format: "markdown"})
	assert.Contains(t, md, "|")
	assert.Contains(t, md, "Go")
}

func TestHandleAnalyzeBenford_Errors(t *testing.T) {
	result, text := callTool(t, AnalyzeInput{Path: filepath.Join(t.TempDir(), "missing")})
	assert.True(t, result.IsError)
	assert.Contains(t, text, "missing")

	result, _ = callTool(t, AnalyzeInput{Path: t.TempDir()})
	assert.True(t, result.IsError, "empty directory has nothing to analyze")
}

func TestHandleAnalyzeBenford_ProjectConfig(t *testing.T) {
	dir := writeProject(t)
	cfg := "[report]\nlanguages = [\"Go\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "benford.toml"), []byte(cfg), 0o644))

	_, text := callTool(t, AnalyzeInput{Path: dir, Format: "json"})

	var summary models.ScanSummary
	require.NoError(t, json.Unmarshal([]byte(text), &summary))
	require.Len(t, summary.Reports, 1)
	assert.Equal(t, "Go", summary.Reports[0].Language)
}

func TestParseFrontmatter(t *testing.T) {
	meta, body := parseFrontmatter([]byte("---\ndescription: hi\narguments:\n  - name: path\n    required: true\n---\nbody {{path}}\n"))
	assert.Equal(t, "hi", meta.Description)
	require.Len(t, meta.Arguments, 1)
	assert.Equal(t, "path", meta.Arguments[0].Name)
	assert.True(t, meta.Arguments[0].Required)
	assert.Equal(t, "body {{path}}\n", body)

	meta, body = parseFrontmatter([]byte("no header"))
	assert.Empty(t, meta.Description)
	assert.Equal(t, "no header", body)

	_, body = parseFrontmatter([]byte("---\nunterminated"))
	assert.Equal(t, "---\nunterminated", body)
}

func TestPromptHandler(t *testing.T) {
	content, err := promptFiles.ReadFile("prompts/benford-review.md")
	require.NoError(t, err)
	meta, body := parseFrontmatter(content)
	require.NotEmpty(t, meta.Description)

	handler := makePromptHandler(meta.Description, body)
	result, err := handler(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{
			Name:      "benford-review",
			Arguments: map[string]string{"path": "/custom/path"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, meta.Description, result.Description)
	require.Len(t, result.Messages, 1)

	msg := result.Messages[0]
	assert.EqualValues(t, "user", msg.Role)
	text := msg.Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "/custom/path")
	assert.NotContains(t, text, "{{path}}")
	assert.Contains(t, text, "analyze_benford")
}
