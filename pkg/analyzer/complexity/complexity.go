package complexity

import (
	"context"
	"fmt"

	"github.com/panbanda/benford/pkg/parser"
	"github.com/panbanda/benford/pkg/source"
	sitter "github.com/smacker/go-tree-sitter"
)

// Analyzer computes per-function cyclomatic complexity and aggregates it
// per file. It is safe for concurrent use: every call parses with its own
// tree-sitter parser.
type Analyzer struct {
	source      source.ContentSource
	maxFileSize int64
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithMaxFileSize sets the maximum file size to analyze (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithSource sets where file content is read from.
func WithSource(src source.ContentSource) Option {
	return func(a *Analyzer) {
		a.source = src
	}
}

// New creates a new complexity analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		source: source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile analyzes complexity for a single file, picking the grammar
// from its extension. Files without a supported grammar return ErrUnsupported.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*FileResult, error) {
	return a.AnalyzeLanguage(ctx, path, "")
}

// AnalyzeLanguage is AnalyzeFile for a file whose linguist language is
// already known, so files without an extension (shebang scripts) still
// get a grammar.
func (a *Analyzer) AnalyzeLanguage(ctx context.Context, path, language string) (*FileResult, error) {
	lang := parser.LanguageForName(language, path)
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}

	content, err := source.NewLimited(a.source, a.maxFileSize).Read(path)
	if err != nil {
		return nil, err
	}

	psr := parser.New()
	defer psr.Close()

	result, err := psr.Parse(ctx, content, lang, path)
	if err != nil {
		return nil, err
	}

	return analyzeParseResult(result), nil
}

// analyzeParseResult aggregates the functions of a parsed file.
func analyzeParseResult(result *parser.ParseResult) *FileResult {
	fc := &FileResult{
		Path:      result.Path,
		Language:  string(result.Language),
		Functions: make([]FunctionResult, 0),
	}

	for _, fn := range parser.GetFunctions(result) {
		fnComplexity := analyzeFunctionComplexity(fn, result)
		fc.Functions = append(fc.Functions, fnComplexity)
		fc.TotalCyclomatic += fnComplexity.Cyclomatic
		if fnComplexity.Cyclomatic > fc.MaxCyclomatic {
			fc.MaxCyclomatic = fnComplexity.Cyclomatic
		}
	}

	if len(fc.Functions) > 0 {
		fc.AvgCyclomatic = float64(fc.TotalCyclomatic) / float64(len(fc.Functions))
	}

	return fc
}

// analyzeFunctionComplexity computes complexity metrics for a single function.
func analyzeFunctionComplexity(fn parser.FunctionNode, result *parser.ParseResult) FunctionResult {
	fc := FunctionResult{
		Name:      fn.Name,
		StartLine: fn.StartLine,
		EndLine:   fn.EndLine,
		Lines:     int(fn.EndLine - fn.StartLine + 1),
		// A function with no branches still has one path through it.
		Cyclomatic: 1,
	}

	if fn.Body != nil {
		fc.Cyclomatic += CountDecisionPoints(fn.Body, result.Source, result.Language)
	}

	return fc
}

// CountDecisionPoints counts branching statements for cyclomatic complexity.
func CountDecisionPoints(node *sitter.Node, source []byte, lang parser.Language) uint32 {
	var count uint32

	decisionTypes := makeSet(getDecisionNodeTypes(lang))

	parser.WalkTyped(node, source, func(n *sitter.Node, nodeType string, src []byte) bool {
		if decisionTypes[nodeType] {
			count++
		}
		// Count logical operators (&&, ||) as additional decision points
		if nodeType == "binary_expression" || nodeType == "logical_expression" || nodeType == "boolean_operator" {
			op := getOperator(n, src)
			if op == "&&" || op == "||" || op == "and" || op == "or" {
				count++
			}
		}
		return true
	})

	return count
}

// makeSet converts a slice to a map for O(1) lookups.
func makeSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// getDecisionNodeTypes returns AST node types that represent decision points.
func getDecisionNodeTypes(lang parser.Language) []string {
	// Common decision types across most languages
	common := []string{
		"if_statement",
		"if_expression",
		"while_statement",
		"while_expression",
		"for_statement",
		"for_expression",
		"case_statement",
		"catch_clause",
		"ternary_expression",
		"conditional_expression",
	}

	switch lang {
	case parser.LangGo:
		// Each case of a switch or select is a path; the switch itself is not.
		return append(common, "expression_case", "type_case", "communication_case")
	case parser.LangRust:
		return append(common, "match_arm", "loop_expression", "if_let_expression")
	case parser.LangPython:
		return append(common, "elif_clause", "except_clause", "with_statement", "comprehension")
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		return append(common, "switch_case", "do_statement", "for_in_statement")
	case parser.LangJava, parser.LangCSharp:
		return append(common, "switch_label", "do_statement", "enhanced_for_statement")
	case parser.LangC, parser.LangCPP:
		return append(common, "do_statement")
	case parser.LangRuby:
		// Ruby uses different node names than most languages
		return []string{"if", "elsif", "unless", "while", "until", "for", "when", "rescue", "conditional"}
	case parser.LangPHP:
		return append(common, "case_statement", "elseif_clause")
	case parser.LangBash:
		return append(common, "elif_clause", "case_item")
	default:
		return common
	}
}

// getOperator extracts the operator from a binary expression node.
func getOperator(node *sitter.Node, source []byte) string {
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		childType := child.Type()
		if childType == "&&" || childType == "||" || childType == "and" || childType == "or" {
			return childType
		}
		// Some languages use operator field
		if child.IsNamed() && childType == "operator" {
			return parser.GetNodeText(child, source)
		}
	}
	return ""
}
