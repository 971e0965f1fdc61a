// Package metrics renders runtime samples. A Sampler is either a rich chart
// or a plain fallback, picked once when the view is built.
package metrics

import (
	"time"

	"fyne.io/fyne/v2"
)

// Metric is one sample: a value per column of the receiving sampler.
type Metric struct {
	Values []float64
	Time   time.Time
}

func NewMetric(values ...float64) Metric {
	return Metric{Values: values, Time: time.Now()}
}

// Value returns column i, or 0 when the sample is short.
func (m Metric) Value(i int) float64 {
	if i < 0 || i >= len(m.Values) {
		return 0
	}
	return m.Values[i]
}

// Sampler accumulates samples for display.
type Sampler interface {
	AddSample(m Metric)
	ClearSamples()
	NumSamples() int64
	// Recycle drops the history and any rendering state.
	Recycle()
}

// View is a Sampler with a widget.
type View interface {
	Sampler
	Widget() fyne.CanvasObject
}

// Options configure a sampler view.
type Options struct {
	Width, Height int
	// Timeline plots the history; otherwise only the latest sample is shown.
	Timeline bool
	// MaxSamples bounds the history; zero means unbounded.
	MaxSamples    int
	ChartsEnabled bool
}

// NewSampler returns a ColumnChartView when charts are enabled and the
// chart renderer works, a PlainColumnView otherwise.
func NewSampler(title string, columns []string, opts Options) View {
	if ChartsAvailable(opts.ChartsEnabled) {
		return NewColumnChartView(title, columns, opts)
	}
	return NewPlainColumnView(title, columns, opts)
}

// history is a bounded sample buffer.
type history struct {
	max     int
	samples []Metric
}

func (h *history) add(m Metric) {
	h.samples = append(h.samples, m)
	if h.max > 0 && len(h.samples) > h.max {
		h.samples = append(h.samples[:0:0], h.samples[len(h.samples)-h.max:]...)
	}
}

func (h *history) clear() { h.samples = nil }

func (h *history) len() int64 { return int64(len(h.samples)) }

func (h *history) latest() (Metric, bool) {
	if len(h.samples) == 0 {
		return Metric{}, false
	}
	return h.samples[len(h.samples)-1], true
}
