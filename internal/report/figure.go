package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/panbanda/benford/pkg/models"
)

// Figure is everything needed to draw one language's histograms.
type Figure struct {
	Title    string
	Language string
	Files    int
	Panels   []models.Panel
}

// NewFigure builds the figure for one language partition of a scan rooted at root.
func NewFigure(root string, lr models.LanguageReport) Figure {
	return Figure{
		Title:    fmt.Sprintf("%s: %s", root, lr.Language),
		Language: lr.Language,
		Files:    lr.Files,
		Panels:   lr.Panels,
	}
}

var nameReplacer = strings.NewReplacer("/", "_", "\\", "_")

// OutputName returns the file name for a language's figure. Path separators
// in the language name are replaced so the file lands in the working directory.
// Figures are HTML, so a suffix without an .html or .htm extension gets one.
func OutputName(language, suffix string) string {
	switch strings.ToLower(filepath.Ext(suffix)) {
	case ".html", ".htm":
	default:
		suffix += ".html"
	}
	return nameReplacer.Replace(language) + "_" + suffix
}

// WriteError reports a figure that could not be written.
type WriteError struct {
	Language string
	Path     string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s report to %s: %v", e.Language, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
