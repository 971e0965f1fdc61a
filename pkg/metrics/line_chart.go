package metrics

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// LineChart is a minimal single-series line plot drawn with canvas lines.
type LineChart struct {
	widget.BaseWidget
	data      []float64
	maxPoints int
	mu        sync.RWMutex
}

var _ fyne.Widget = (*LineChart)(nil)

func NewLineChart(maxPoints int) *LineChart {
	if maxPoints < 2 {
		maxPoints = 2
	}
	lc := &LineChart{
		maxPoints: maxPoints,
		data:      make([]float64, 0, maxPoints),
	}
	lc.ExtendBaseWidget(lc)
	return lc
}

func (lc *LineChart) Add(value float64) {
	lc.mu.Lock()
	lc.data = append(lc.data, value)
	if len(lc.data) > lc.maxPoints {
		lc.data = lc.data[1:]
	}
	lc.mu.Unlock()
	lc.Refresh()
}

func (lc *LineChart) Clear() {
	lc.mu.Lock()
	lc.data = lc.data[:0]
	lc.mu.Unlock()
	lc.Refresh()
}

// Points returns a copy of the plotted values.
func (lc *LineChart) Points() []float64 {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return append([]float64(nil), lc.data...)
}

func (lc *LineChart) CreateRenderer() fyne.WidgetRenderer {
	return &lineChartRenderer{lc: lc}
}

type lineChartRenderer struct {
	lc *LineChart
}

func (r *lineChartRenderer) Destroy() {}

func (r *lineChartRenderer) Layout(fyne.Size) {}

func (r *lineChartRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 80)
}

func (r *lineChartRenderer) Refresh() {}

func (r *lineChartRenderer) Objects() []fyne.CanvasObject {
	r.lc.mu.RLock()
	defer r.lc.mu.RUnlock()

	data := r.lc.data
	if len(data) < 2 {
		return nil
	}

	size := r.lc.Size()
	width := float64(size.Width)
	height := float64(size.Height)

	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	rangeVal := maxVal - minVal
	if rangeVal == 0 {
		rangeVal = 1
	}

	stepX := width / float64(r.lc.maxPoints-1)
	// y grows downwards
	normY := func(val float64) float32 {
		return float32(height - (val-minVal)/rangeVal*height)
	}

	lineColor := theme.Color(theme.ColorNamePrimary)
	objects := make([]fyne.CanvasObject, 0, len(data)-1)
	for i := 0; i < len(data)-1; i++ {
		line := canvas.NewLine(lineColor)
		line.StrokeWidth = 2
		line.Position1 = fyne.NewPos(float32(float64(i)*stepX), normY(data[i]))
		line.Position2 = fyne.NewPos(float32(float64(i+1)*stepX), normY(data[i+1]))
		objects = append(objects, line)
	}
	return objects
}
