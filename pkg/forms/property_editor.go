package forms

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	DefaultAddPropertyTitle = "Add Property"
	DefaultPropertyRows     = 5
	propertyRowHeight       = 36
)

type property struct {
	Key   string
	Value string
}

// PropertyEditorItem edits a string map as a key/value table.
type PropertyEditorItem struct {
	baseItem
	addTitle string
	rows     int

	props    []property
	selected int

	table     *widget.Table
	addBtn    *widget.Button
	removeBtn *widget.Button
	content   fyne.CanvasObject
	enabled   bool
}

func NewPropertyEditorItem(name, title, addDialogTitle string, rows int) *PropertyEditorItem {
	if rows <= 0 {
		rows = DefaultPropertyRows
	}
	i := &PropertyEditorItem{
		baseItem: newBase(name, title),
		addTitle: addDialogTitle,
		rows:     rows,
		selected: -1,
		enabled:  true,
	}
	i.setupUI()
	return i
}

func (i *PropertyEditorItem) setupUI() {
	i.table = widget.NewTable(
		func() (int, int) { return len(i.props), 2 },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row >= len(i.props) {
				label.SetText("")
				return
			}
			p := i.props[id.Row]
			if id.Col == 0 {
				label.SetText(p.Key)
			} else {
				label.SetText(p.Value)
			}
		},
	)
	i.table.SetColumnWidth(0, 160)
	i.table.SetColumnWidth(1, 220)
	i.table.OnSelected = func(id widget.TableCellID) {
		i.selected = id.Row
		i.refreshButtons()
	}

	i.addBtn = widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), func() {
		i.showAddDialog()
	})
	i.removeBtn = widget.NewButtonWithIcon("Remove", theme.DeleteIcon(), func() {
		if i.selected >= 0 && i.selected < len(i.props) {
			i.RemoveProperty(i.props[i.selected].Key)
		}
	})

	sizer := canvas.NewRectangle(color.Transparent)
	sizer.SetMinSize(fyne.NewSize(0, float32(i.rows)*propertyRowHeight))

	header := container.NewGridWithColumns(2,
		widget.NewLabelWithStyle("Key", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Value", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	i.content = container.NewBorder(header, container.NewHBox(i.addBtn, i.removeBtn), nil, nil,
		container.NewStack(sizer, i.table))
	i.refreshButtons()
}

func (i *PropertyEditorItem) refreshButtons() {
	if i.enabled {
		i.addBtn.Enable()
	} else {
		i.addBtn.Disable()
	}
	if i.enabled && i.selected >= 0 && i.selected < len(i.props) {
		i.removeBtn.Enable()
	} else {
		i.removeBtn.Disable()
	}
}

func (i *PropertyEditorItem) showAddDialog() {
	win := windowFor(i.content)
	if win == nil {
		return
	}

	keyEntry := widget.NewEntry()
	keyEntry.SetPlaceHolder("Name")
	keyEntry.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("name is required")
		}
		return nil
	}
	valueEntry := widget.NewEntry()
	valueEntry.SetPlaceHolder("Value")

	dialog.ShowForm(i.addTitle, "Add", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Name", keyEntry),
		widget.NewFormItem("Value", valueEntry),
	}, func(confirm bool) {
		if !confirm {
			return
		}
		if err := i.AddProperty(keyEntry.Text, valueEntry.Text); err != nil {
			dialog.ShowError(err, win)
		}
	}, win)
}

// windowFor finds the window showing obj.
func windowFor(obj fyne.CanvasObject) fyne.Window {
	app := fyne.CurrentApp()
	if app == nil {
		return nil
	}
	c := app.Driver().CanvasForObject(obj)
	for _, w := range app.Driver().AllWindows() {
		if c == nil || w.Canvas() == c {
			return w
		}
	}
	return nil
}

// AddProperty adds a new key. Keys are unique and non-blank.
func (i *PropertyEditorItem) AddProperty(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return invalidValue(i.name, "Property name cannot be empty")
	}
	for _, p := range i.props {
		if p.Key == key {
			return invalidValue(i.name, fmt.Sprintf("Property %q already exists", key))
		}
	}
	i.props = append(i.props, property{Key: key, Value: value})
	i.sortProps()
	i.refresh()
	i.changed(i.Value())
	return nil
}

func (i *PropertyEditorItem) RemoveProperty(key string) {
	for idx, p := range i.props {
		if p.Key == key {
			i.props = append(i.props[:idx], i.props[idx+1:]...)
			i.selected = -1
			i.table.UnselectAll()
			i.refresh()
			i.changed(i.Value())
			return
		}
	}
}

func (i *PropertyEditorItem) sortProps() {
	sort.Slice(i.props, func(a, b int) bool { return i.props[a].Key < i.props[b].Key })
}

func (i *PropertyEditorItem) refresh() {
	i.table.Refresh()
	i.refreshButtons()
}

func (i *PropertyEditorItem) Widget() fyne.CanvasObject { return i.content }

// Value is a map of string values.
func (i *PropertyEditorItem) Value() any {
	out := make(map[string]any, len(i.props))
	for _, p := range i.props {
		out[p.Key] = p.Value
	}
	return out
}

func (i *PropertyEditorItem) SetValue(v any) {
	i.props = i.props[:0]
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			i.props = append(i.props, property{Key: k, Value: formatValue(val)})
		}
	case map[string]string:
		for k, val := range t {
			i.props = append(i.props, property{Key: k, Value: val})
		}
	}
	i.sortProps()
	i.selected = -1
	i.refresh()
}

func (i *PropertyEditorItem) Validate() error {
	if i.required && len(i.props) == 0 {
		return i.requiredError()
	}
	return nil
}

func (i *PropertyEditorItem) SetEnabled(enabled bool) {
	i.enabled = enabled
	i.refreshButtons()
}

func (i *PropertyEditorItem) AddDialogTitle() string { return i.addTitle }

func (i *PropertyEditorItem) Rows() int { return i.rows }

func (i *PropertyEditorItem) Len() int { return len(i.props) }
