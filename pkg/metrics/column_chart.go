package metrics

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"
	"time"

	"asconsole/pkg/logging"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	probeOnce sync.Once
	probeOK   bool
)

// ChartsAvailable reports whether rich charts may be used: enabled must be
// set and a probe render must have succeeded. The probe runs once.
func ChartsAvailable(enabled bool) bool {
	if !enabled {
		return false
	}
	probeOnce.Do(func() {
		probe := chart.BarChart{
			Width:      defaultChartWidth,
			Height:     defaultChartHeight,
			BarWidth:   barWidth,
			BarSpacing: barSpacing,
			YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
			Bars:       []chart.Value{{Label: "a", Value: 1}, {Label: "b", Value: 0.5}},
		}
		err := probe.Render(chart.PNG, io.Discard)
		if err != nil {
			logging.Logger("metrics").WithError(err).Warn("chart renderer unavailable, using plain views")
		}
		probeOK = err == nil
	})
	return probeOK
}

var seriesColors = []drawing.Color{chart.ColorBlue, chart.ColorRed, chart.ColorOrange, chart.ColorGreen}

const (
	defaultChartWidth  = 320
	defaultChartHeight = 200
	barWidth           = 40
	barSpacing         = 20
)

// ColumnChartView renders samples with go-chart: a bar per column for the
// latest sample, or a line per column over time when Timeline is set.
type ColumnChartView struct {
	title   string
	columns []string
	opts    Options
	hist    history

	image   *canvas.Image
	status  *widget.Label
	content fyne.CanvasObject
}

func NewColumnChartView(title string, columns []string, opts Options) *ColumnChartView {
	if opts.Width <= 0 {
		opts.Width = defaultChartWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultChartHeight
	}
	v := &ColumnChartView{
		title:   title,
		columns: columns,
		opts:    opts,
		hist:    history{max: opts.MaxSamples},
	}
	v.image = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)))
	v.image.FillMode = canvas.ImageFillContain
	v.image.SetMinSize(fyne.NewSize(float32(opts.Width), float32(opts.Height)))
	v.status = widget.NewLabel("No samples")
	v.content = container.NewVBox(
		widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		v.image,
		v.status,
	)
	return v
}

func (v *ColumnChartView) Widget() fyne.CanvasObject { return v.content }

func (v *ColumnChartView) AddSample(m Metric) {
	v.hist.add(m)
	v.redraw()
}

func (v *ColumnChartView) ClearSamples() {
	v.hist.clear()
	v.redraw()
}

func (v *ColumnChartView) NumSamples() int64 { return v.hist.len() }

func (v *ColumnChartView) Recycle() {
	v.hist.clear()
	v.image.Image = image.NewRGBA(image.Rect(0, 0, v.opts.Width, v.opts.Height))
	v.image.Refresh()
	v.status.SetText("No samples")
}

func (v *ColumnChartView) redraw() {
	img, err := v.Render()
	if err != nil {
		logging.Logger("metrics").WithError(err).WithField("chart", v.title).Debug("chart render failed")
		v.status.SetText("No samples")
		return
	}
	v.image.Image = img
	v.image.Refresh()
	latest, _ := v.hist.latest()
	v.status.SetText(summary(v.columns, latest))
}

// Render draws the current history to an image.
func (v *ColumnChartView) Render() (image.Image, error) {
	var buf bytes.Buffer
	var err error
	if v.opts.Timeline {
		err = v.timelineChart().Render(chart.PNG, &buf)
	} else {
		err = v.barChart().Render(chart.PNG, &buf)
	}
	if err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

func (v *ColumnChartView) barChart() chart.BarChart {
	latest, _ := v.hist.latest()
	maxValue := 1.0
	bars := make([]chart.Value, len(v.columns))
	for i, col := range v.columns {
		value := latest.Value(i)
		if value > maxValue {
			maxValue = value
		}
		bars[i] = chart.Value{
			Label: col,
			Value: value,
			Style: chart.Style{FillColor: seriesColors[i%len(seriesColors)], StrokeColor: seriesColors[i%len(seriesColors)]},
		}
	}
	return chart.BarChart{
		Width:      v.opts.Width,
		Height:     v.opts.Height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1}},
		Bars:       bars,
	}
}

func (v *ColumnChartView) timelineChart() chart.Chart {
	samples := v.hist.samples
	if len(samples) < 2 {
		// a single point has no x range; pad it with a neighbour
		var only Metric
		if len(samples) == 1 {
			only = samples[0]
		}
		prev := Metric{Values: only.Values, Time: only.Time.Add(-time.Second)}
		samples = []Metric{prev, only}
	}

	series := make([]chart.Series, len(v.columns))
	maxValue := 1.0
	for i, col := range v.columns {
		xs := make([]time.Time, len(samples))
		ys := make([]float64, len(samples))
		for j, s := range samples {
			xs[j] = s.Time
			ys[j] = s.Value(i)
			if ys[j] > maxValue {
				maxValue = ys[j]
			}
		}
		c := seriesColors[i%len(seriesColors)]
		series[i] = chart.TimeSeries{
			Name:    col,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: c, StrokeWidth: 2},
		}
	}

	ch := chart.Chart{
		Width:      v.opts.Width,
		Height:     v.opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 24}},
		XAxis:      chart.XAxis{ValueFormatter: chart.TimeMinuteValueFormatter},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

func summary(columns []string, m Metric) string {
	var b bytes.Buffer
	for i, col := range columns {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%s: %s", col, formatSample(m.Value(i)))
	}
	return b.String()
}

func formatSample(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
