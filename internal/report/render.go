package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/panbanda/benford/pkg/models"
)

const (
	defaultChartWidth  = "560px"
	defaultChartHeight = "360px"

	observedColor = "#5470c6"
	expectedColor = "#ee6666"
)

// Renderer writes a figure to path.
type Renderer interface {
	Render(fig Figure, path string) error
}

// HTMLRenderer draws each panel as a bar chart of observed leading digits
// with the Benford expectation overlaid as a line.
type HTMLRenderer struct {
	Width  string
	Height string
}

// NewHTMLRenderer returns a renderer with the default chart size.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{Width: defaultChartWidth, Height: defaultChartHeight}
}

// Render writes fig as a standalone HTML page. Any failure is returned as
// a *WriteError and a partially written file is removed.
func (r *HTMLRenderer) Render(fig Figure, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Language: fig.Language, Path: path, Err: err}
	}

	err = r.Write(f, fig)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return &WriteError{Language: fig.Language, Path: path, Err: err}
	}
	return nil
}

// Write renders fig to w.
func (r *HTMLRenderer) Write(w io.Writer, fig Figure) error {
	page := components.NewPage()
	page.PageTitle = fig.Title
	page.SetLayout(components.PageFlexLayout)

	for _, panel := range fig.Panels {
		page.AddCharts(r.panelChart(fig, panel))
	}

	return page.Render(w)
}

var titleCaser = cases.Title(language.English)

func (r *HTMLRenderer) panelChart(fig Figure, panel models.Panel) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fig.Title,
			Width:     r.width(),
			Height:    r.height(),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    PanelTitle(panel.Metric),
			Subtitle: panelSubtitle(panel),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "leading digit"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "files"}),
	)

	observed := make([]opts.BarData, len(panel.Observed))
	for i, n := range panel.Observed {
		observed[i] = opts.BarData{Value: n}
	}
	bar.SetXAxis(models.DigitLabels).
		AddSeries("observed", observed, charts.WithItemStyleOpts(opts.ItemStyle{Color: observedColor}))

	expected := make([]opts.LineData, len(panel.Expected))
	for i, v := range panel.Expected {
		expected[i] = opts.LineData{Value: round2(v)}
	}
	line := charts.NewLine()
	line.SetXAxis(models.DigitLabels).
		AddSeries("benford", expected,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: expectedColor}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: 2, Type: "dashed"}),
		)

	bar.Overlap(line)
	return bar
}

// PanelTitle is the display name of a metric: "code" becomes "Code" and
// "avg_ccn" becomes "Avg Ccn".
func PanelTitle(m models.Metric) string {
	return titleCaser.String(strings.ReplaceAll(string(m), "_", " "))
}

func panelSubtitle(p models.Panel) string {
	if p.Undefined > 0 {
		return fmt.Sprintf("n=%d, undefined=%d", p.Total, p.Undefined)
	}
	return fmt.Sprintf("n=%d", p.Total)
}

// round2 keeps tooltips readable.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (r *HTMLRenderer) width() string {
	if r.Width == "" {
		return defaultChartWidth
	}
	return r.Width
}

func (r *HTMLRenderer) height() string {
	if r.Height == "" {
		return defaultChartHeight
	}
	return r.Height
}
