package forms

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"
)

// titleUnit scales RenderMetaData.TitleWidth into a minimum title width.
const titleUnit = 5

// RenderMetaData is the layout of a form: how many item columns per row and
// the minimum width of a title cell, in title units.
type RenderMetaData struct {
	NumColumns int
	TitleWidth int
}

func (m RenderMetaData) columns() int {
	if m.NumColumns < 1 {
		return 1
	}
	return m.NumColumns
}

// GroupRenderer lays out one named group of items.
type GroupRenderer interface {
	Render(meta RenderMetaData, groupName string, items []FormItem) *RenderedGroup
}

// RenderedGroup is the laid out group. Rows mirror the visual layout.
type RenderedGroup struct {
	ID     string
	Name   string
	Rows   [][]FormItem
	Object fyne.CanvasObject

	cells map[string]fyne.CanvasObject
}

// Cell returns the content cell of an item by name.
func (g *RenderedGroup) Cell(name string) fyne.CanvasObject {
	return g.cells[name]
}

// CellID is the diagnostic id of an item's cell, unique across renderers.
func (g *RenderedGroup) CellID(name string) string {
	return g.ID + name
}

// DefaultGroupRenderer fills rows left to right, NumColumns items per row.
type DefaultGroupRenderer struct {
	id string
}

func NewDefaultGroupRenderer() *DefaultGroupRenderer {
	return &DefaultGroupRenderer{id: "form-" + uuid.NewString() + "_"}
}

func (r *DefaultGroupRenderer) ID() string { return r.id }

// LayoutRows splits n items into rows of at most cols items, keeping order.
func LayoutRows(n, cols int) [][]int {
	if cols < 1 {
		cols = 1
	}
	var rows [][]int
	for i := 0; i < n; i += cols {
		row := make([]int, 0, cols)
		for col := 0; col < cols && i+col < n; col++ {
			row = append(row, i+col)
		}
		rows = append(rows, row)
	}
	return rows
}

func (r *DefaultGroupRenderer) Render(meta RenderMetaData, groupName string, items []FormItem) *RenderedGroup {
	cols := meta.columns()
	group := &RenderedGroup{ID: r.id, Name: groupName, cells: make(map[string]fyne.CanvasObject, len(items))}

	var rowObjects []fyne.CanvasObject
	for _, row := range LayoutRows(len(items), cols) {
		rowItems := make([]FormItem, 0, len(row))
		cells := make([]fyne.CanvasObject, 0, cols)
		for _, idx := range row {
			item := items[idx]
			rowItems = append(rowItems, item)
			content := item.Widget()
			group.cells[item.Name()] = content
			cells = append(cells, container.NewBorder(nil, nil, titleCell(meta, item.Title()), nil, content))
		}
		group.Rows = append(group.Rows, rowItems)
		rowObjects = append(rowObjects, container.NewGridWithColumns(cols, cells...))
	}

	body := container.NewVBox(rowObjects...)
	if groupName != "" {
		heading := widget.NewLabelWithStyle(groupName, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		group.Object = container.NewVBox(heading, widget.NewSeparator(), body)
	} else {
		group.Object = body
	}
	return group
}

func titleCell(meta RenderMetaData, title string) fyne.CanvasObject {
	label := widget.NewLabel(title + ":")
	sizer := canvas.NewRectangle(color.Transparent)
	sizer.SetMinSize(fyne.NewSize(float32(meta.TitleWidth*titleUnit), 0))
	return container.NewStack(sizer, label)
}
