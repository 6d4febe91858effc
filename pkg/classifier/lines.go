package classifier

import (
	"bytes"

	"github.com/panbanda/benford/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// lineClass orders the classes by precedence: a line holding code and a
// comment counts as code.
type lineClass uint8

const (
	classEmpty lineClass = iota
	classDoc
	classString
	classCode
)

// Counts is the number of lines per class. The fields sum to the number
// of lines in the file.
type Counts struct {
	Code   int
	Doc    int
	Empty  int
	String int
}

// splitLines splits content on newlines. A trailing newline does not start
// another line.
func splitLines(content []byte) [][]byte {
	lines := bytes.Split(content, []byte("\n"))
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func isBlank(line []byte) bool {
	return len(bytes.TrimSpace(line)) == 0
}

func tally(classes []lineClass) Counts {
	var c Counts
	for _, cl := range classes {
		switch cl {
		case classCode:
			c.Code++
		case classDoc:
			c.Doc++
		case classString:
			c.String++
		default:
			c.Empty++
		}
	}
	return c
}

// leafText returns the source bytes of n, or nil when its range is invalid.
func leafText(n *sitter.Node, src []byte) []byte {
	start, end := n.StartByte(), n.EndByte()
	if start >= end || end > uint32(len(src)) {
		return nil
	}
	return src[start:end]
}

// classifyTree marks the rows covered by comments as doc, rows covered by
// string literals as string and rows holding any other token as code.
func classifyTree(result *parser.ParseResult, lines [][]byte) []lineClass {
	classes := make([]lineClass, len(lines))

	mark := func(n *sitter.Node, class lineClass) {
		start, end := n.StartPoint(), n.EndPoint()
		last := end.Row
		if end.Column == 0 && end.Row > start.Row {
			last--
		}
		for row := start.Row; row <= last && int(row) < len(classes); row++ {
			if class > classes[row] {
				classes[row] = class
			}
		}
	}

	parser.WalkTyped(result.Tree.RootNode(), result.Source, func(n *sitter.Node, nodeType string, src []byte) bool {
		switch {
		case parser.IsCommentNode(nodeType):
			mark(n, classDoc)
			return false
		case parser.IsStringNode(nodeType):
			mark(n, classString)
			return false
		case n.ChildCount() == 0:
			// Zero-width nodes are inserted by error recovery, and
			// whitespace leaves (Go's "\n" terminator) hold no code.
			if !isBlank(leafText(n, src)) {
				mark(n, classCode)
			}
			return false
		}
		return true
	})

	for i, line := range lines {
		if isBlank(line) {
			classes[i] = classEmpty
		}
	}
	return classes
}
