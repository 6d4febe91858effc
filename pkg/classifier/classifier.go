// Package classifier detects the language of a source file and counts its
// lines by class: code, documentation, empty and string.
package classifier

import (
	"context"
	"encoding/hex"
	"path/filepath"

	"github.com/panbanda/benford/pkg/parser"
	"github.com/panbanda/benford/pkg/source"
	"github.com/src-d/enry/v2"
	"github.com/zeebo/blake3"
)

// State is the outcome of classifying one file.
type State string

const (
	StateAnalyzed  State = "analyzed"
	StateBinary    State = "binary"
	StateEmpty     State = "empty"
	StateDuplicate State = "duplicate"
	StateError     State = "error"
)

// String implements fmt.Stringer.
func (s State) String() string {
	return string(s)
}

// Result holds the classification of one file. Line counts are only
// meaningful when State is StateAnalyzed.
type Result struct {
	// Path is relative to the scan root, slash separated.
	Path     string
	State    State
	Language string
	Code     int
	Doc      int
	Empty    int
	String   int
	// Digest is the hex blake3 sum of the content, used to find duplicates.
	Digest string
}

// Classifier classifies files. It is safe for concurrent use.
type Classifier struct {
	source      source.ContentSource
	maxFileSize int64
}

// Option is a functional option for configuring Classifier.
type Option func(*Classifier)

// WithSource sets where file content is read from.
func WithSource(src source.ContentSource) Option {
	return func(c *Classifier) {
		c.source = src
	}
}

// WithMaxFileSize rejects files larger than maxSize bytes (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(c *Classifier) {
		c.maxFileSize = maxSize
	}
}

// New creates a classifier reading from the local filesystem.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		source: source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify reads path and classifies it. The returned error is non-nil
// only together with StateError.
func (c *Classifier) Classify(ctx context.Context, path, root string) (Result, error) {
	res := Result{Path: relPath(path, root)}

	if err := ctx.Err(); err != nil {
		res.State = StateError
		return res, err
	}

	content, err := source.NewLimited(c.source, c.maxFileSize).Read(path)
	if err != nil {
		res.State = StateError
		return res, err
	}

	if len(content) == 0 {
		res.State = StateEmpty
		return res, nil
	}
	if enry.IsBinary(content) {
		res.State = StateBinary
		return res, nil
	}

	sum := blake3.Sum256(content)
	res.Digest = hex.EncodeToString(sum[:])
	res.Language = enry.GetLanguage(filepath.Base(path), content)
	res.State = StateAnalyzed

	counts := c.countLines(ctx, path, res.Language, content)
	res.Code = counts.Code
	res.Doc = counts.Doc
	res.Empty = counts.Empty
	res.String = counts.String

	return res, nil
}

// countLines uses the tree-sitter grammar for the language when one exists
// and the comment syntax table otherwise.
func (c *Classifier) countLines(ctx context.Context, path, language string, content []byte) Counts {
	lines := splitLines(content)

	if lang := parser.LanguageForName(language, path); lang != parser.LangUnknown {
		psr := parser.New()
		defer psr.Close()

		if result, err := psr.Parse(ctx, content, lang, path); err == nil {
			return tally(classifyTree(result, lines))
		}
	}

	return tally(classifyBySyntax(syntaxFor(language), lines))
}

func relPath(path, root string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
