package classifier

import (
	"bytes"
)

// syntax describes the comment and string delimiters of a language that
// has no tree-sitter grammar.
type syntax struct {
	lineComments [][]byte
	blockStart   []byte
	blockEnd     []byte
	quotes       []byte
}

func newSyntax(line []string, blockStart, blockEnd, quotes string) *syntax {
	s := &syntax{quotes: []byte(quotes)}
	for _, l := range line {
		s.lineComments = append(s.lineComments, []byte(l))
	}
	if blockStart != "" {
		s.blockStart = []byte(blockStart)
		s.blockEnd = []byte(blockEnd)
	}
	return s
}

var (
	cStyle    = newSyntax([]string{"//"}, "/*", "*/", `"'`)
	hashStyle = newSyntax([]string{"#"}, "", "", `"'`)
	dashStyle = newSyntax([]string{"--"}, "/*", "*/", `'"`)
	semiStyle = newSyntax([]string{";"}, "", "", `"`)
	pctStyle  = newSyntax([]string{"%"}, "", "", `"'`)
	markup    = newSyntax(nil, "<!--", "-->", `"'`)
)

// syntaxByLanguage is keyed by linguist language name.
var syntaxByLanguage = map[string]*syntax{
	"C": cStyle, "C++": cStyle, "C#": cStyle, "Go": cStyle, "Rust": cStyle,
	"Java": cStyle, "JavaScript": cStyle, "TypeScript": cStyle, "TSX": cStyle,
	"Kotlin": cStyle, "Swift": cStyle, "Scala": cStyle, "Dart": cStyle,
	"Objective-C": cStyle, "Objective-C++": cStyle, "Groovy": cStyle,
	"Zig": cStyle, "Protocol Buffer": cStyle, "PHP": cStyle, "Solidity": cStyle,
	"CSS": newSyntax(nil, "/*", "*/", `"'`), "SCSS": cStyle, "Less": cStyle,
	"JSON5": cStyle, "GLSL": cStyle, "HCL": newSyntax([]string{"#", "//"}, "/*", "*/", `"`),

	"Python": hashStyle, "Ruby": hashStyle, "Shell": hashStyle, "Perl": hashStyle,
	"R": hashStyle, "Makefile": hashStyle, "Dockerfile": hashStyle, "CMake": hashStyle,
	"Elixir": hashStyle, "Nim": hashStyle, "Julia": hashStyle, "PowerShell": hashStyle,
	"Starlark": hashStyle, "Nix": hashStyle, "Tcl": hashStyle, "YAML": hashStyle,
	"TOML": hashStyle, "CoffeeScript": hashStyle, "Crystal": hashStyle,

	"SQL": dashStyle, "PLSQL": dashStyle, "PLpgSQL": dashStyle, "TSQL": dashStyle,
	"Lua":     newSyntax([]string{"--"}, "--[[", "]]", `"'`),
	"Haskell": newSyntax([]string{"--"}, "{-", "-}", `"`),
	"Elm":     newSyntax([]string{"--"}, "{-", "-}", `"`),
	"Ada":     newSyntax([]string{"--"}, "", "", `"`),

	"Clojure": semiStyle, "Common Lisp": semiStyle, "Emacs Lisp": semiStyle,
	"Scheme": semiStyle, "Racket": semiStyle, "Assembly": semiStyle, "INI": semiStyle,

	"Erlang": pctStyle, "TeX": pctStyle, "MATLAB": pctStyle, "Prolog": pctStyle,

	"HTML": markup, "XML": markup, "Vue": markup, "SVG": markup,

	"Vim Script": newSyntax([]string{`"`}, "", "", `'`),
	"Batchfile":  newSyntax([]string{"REM", "rem", "::"}, "", "", `"`),
	"Fortran":    newSyntax([]string{"!"}, "", "", `"'`),
}

// syntaxFor returns nil for languages without known comment syntax; every
// non-blank line of such a file counts as code.
func syntaxFor(language string) *syntax {
	return syntaxByLanguage[language]
}

// classifyBySyntax classifies each line by its leading token, keeping the
// open block comment state across lines.
func classifyBySyntax(s *syntax, lines [][]byte) []lineClass {
	classes := make([]lineClass, len(lines))
	inBlock := false

	for i, raw := range lines {
		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}
		if s == nil {
			classes[i] = classCode
			continue
		}

		if inBlock {
			end := bytes.Index(line, s.blockEnd)
			if end < 0 {
				classes[i] = classDoc
				continue
			}
			inBlock = false
			rest := bytes.TrimSpace(line[end+len(s.blockEnd):])
			if len(rest) == 0 || s.isComment(rest) {
				classes[i] = classDoc
			} else {
				classes[i] = classCode
			}
			continue
		}

		switch {
		case s.isComment(line):
			classes[i] = classDoc
			if s.opensBlock(line) {
				inBlock = true
			}
		case s.isString(line):
			classes[i] = classString
		default:
			classes[i] = classCode
		}
	}
	return classes
}

func (s *syntax) isComment(line []byte) bool {
	for _, prefix := range s.lineComments {
		if bytes.HasPrefix(line, prefix) {
			return true
		}
	}
	return s.blockStart != nil && bytes.HasPrefix(line, s.blockStart)
}

// opensBlock reports whether a line starting with a block comment leaves it
// unterminated.
func (s *syntax) opensBlock(line []byte) bool {
	if s.blockStart == nil || !bytes.HasPrefix(line, s.blockStart) {
		return false
	}
	for _, prefix := range s.lineComments {
		// "--[[" starts with "--" but is a block opener in Lua.
		if bytes.HasPrefix(line, prefix) && !bytes.HasPrefix(s.blockStart, prefix) {
			return false
		}
	}
	return !bytes.Contains(line[len(s.blockStart):], s.blockEnd)
}

// isString reports whether the line is a single string literal, optionally
// followed by a separator.
func (s *syntax) isString(line []byte) bool {
	line = bytes.TrimRight(line, ",;")
	if len(line) < 2 {
		return false
	}
	q := line[0]
	if bytes.IndexByte(s.quotes, q) < 0 || line[len(line)-1] != q {
		return false
	}
	return bytes.IndexByte(line[1:len(line)-1], q) < 0
}
