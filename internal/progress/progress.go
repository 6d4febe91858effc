package progress

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

// Tracker shows a spinner while files are being scanned.
type Tracker struct {
	bar   *progressbar.ProgressBar
	out   io.Writer
	label string
	count atomic.Int64
}

// NewSpinner creates a spinner on stderr for a scan of unknown size.
func NewSpinner(label string) *Tracker {
	return NewSpinnerTo(os.Stderr, label)
}

// NewSpinnerTo creates a spinner that writes to out.
func NewSpinnerTo(out io.Writer, label string) *Tracker {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, out: out, label: label}
}

// Tick records one scanned entry. Safe for concurrent use.
func (t *Tracker) Tick() {
	t.count.Add(1)
	_ = t.bar.Add(1)
}

// Count returns the number of ticks so far.
func (t *Tracker) Count() int64 {
	return t.count.Load()
}

// FinishSuccess clears the spinner without printing anything.
func (t *Tracker) FinishSuccess() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// FinishSummary clears the spinner and prints how many entries were seen.
func (t *Tracker) FinishSummary() {
	t.FinishSuccess()
	fmt.Fprintf(t.out, "%s: %s entries\n", t.label, humanize.Comma(t.Count()))
}

// FinishError clears the spinner and prints err.
func (t *Tracker) FinishError(err error) {
	t.FinishSuccess()
	fmt.Fprintf(t.out, "  %s error: %v\n", t.label, err)
}
