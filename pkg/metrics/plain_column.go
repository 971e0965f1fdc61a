package metrics

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const defaultPlainPoints = 60

// PlainColumnView shows the latest value of each column as text and, for
// timelines, a small line chart per column.
type PlainColumnView struct {
	title   string
	columns []string
	opts    Options
	hist    history

	values  []*widget.Label
	charts  []*LineChart
	content fyne.CanvasObject
}

func NewPlainColumnView(title string, columns []string, opts Options) *PlainColumnView {
	v := &PlainColumnView{
		title:   title,
		columns: columns,
		opts:    opts,
		hist:    history{max: opts.MaxSamples},
	}

	points := opts.MaxSamples
	if points <= 0 {
		points = defaultPlainPoints
	}

	rows := []fyne.CanvasObject{
		widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	}
	for _, col := range columns {
		value := widget.NewLabel("-")
		v.values = append(v.values, value)
		rows = append(rows, container.NewGridWithColumns(2, widget.NewLabel(col+":"), value))
		if opts.Timeline {
			lc := NewLineChart(points)
			v.charts = append(v.charts, lc)
			rows = append(rows, container.NewPadded(lc))
		}
	}
	v.content = container.NewVBox(rows...)
	return v
}

func (v *PlainColumnView) Widget() fyne.CanvasObject { return v.content }

func (v *PlainColumnView) AddSample(m Metric) {
	v.hist.add(m)
	for i, label := range v.values {
		label.SetText(formatSample(m.Value(i)))
	}
	for i, lc := range v.charts {
		lc.Add(m.Value(i))
	}
}

func (v *PlainColumnView) ClearSamples() {
	v.hist.clear()
	v.reset()
}

func (v *PlainColumnView) NumSamples() int64 { return v.hist.len() }

func (v *PlainColumnView) Recycle() {
	v.hist.clear()
	v.reset()
}

func (v *PlainColumnView) reset() {
	for _, label := range v.values {
		label.SetText("-")
	}
	for _, lc := range v.charts {
		lc.Clear()
	}
}

// Text returns the displayed value of a column.
func (v *PlainColumnView) Text(column int) string {
	if column < 0 || column >= len(v.values) {
		return ""
	}
	return v.values[column].Text
}

func (v *PlainColumnView) String() string {
	return fmt.Sprintf("%s %v", v.title, v.columns)
}
