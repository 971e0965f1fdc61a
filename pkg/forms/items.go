package forms

import (
	"slices"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// TextItem shows a value read-only.
type TextItem struct {
	baseItem
	label *widget.Label
	value any
}

func NewTextItem(name, title string) *TextItem {
	return &TextItem{baseItem: newBase(name, title), label: widget.NewLabel("")}
}

func (i *TextItem) Widget() fyne.CanvasObject { return i.label }
func (i *TextItem) Value() any                { return i.value }
func (i *TextItem) SetEnabled(bool)           {}

func (i *TextItem) SetValue(v any) {
	i.value = v
	i.label.SetText(formatValue(v))
}

func (i *TextItem) Validate() error {
	if i.required && formatValue(i.value) == "" {
		return i.requiredError()
	}
	return nil
}

// TextBoxItem is a single-line text entry.
type TextBoxItem struct {
	baseItem
	entry *widget.Entry
	check func(string) error
}

func NewTextBoxItem(name, title string) *TextBoxItem {
	i := &TextBoxItem{baseItem: newBase(name, title), entry: widget.NewEntry()}
	i.entry.Validator = i.validateText
	i.entry.OnChanged = func(text string) { i.changed(i.Value()) }
	return i
}

func (i *TextBoxItem) validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		if i.required {
			return i.requiredError()
		}
		return nil
	}
	if i.check != nil {
		return i.check(text)
	}
	return nil
}

func (i *TextBoxItem) Widget() fyne.CanvasObject { return i.entry }

func (i *TextBoxItem) Value() any {
	if i.entry.Text == "" {
		return nil
	}
	return i.entry.Text
}

func (i *TextBoxItem) SetValue(v any) {
	i.load(func() { i.entry.SetText(formatValue(v)) })
}

func (i *TextBoxItem) Validate() error { return i.validateText(i.entry.Text) }

func (i *TextBoxItem) SetEnabled(enabled bool) {
	if enabled {
		i.entry.Enable()
	} else {
		i.entry.Disable()
	}
}

// Entry exposes the underlying widget for tests and keyboard focus.
func (i *TextBoxItem) Entry() *widget.Entry { return i.entry }

var byteUnits = "bkmgt"

// ValidateByteUnit accepts a whole number followed by one of b, k, m, g, t
// in either case, for example "10m" or "512K".
func ValidateByteUnit(value string) bool {
	if len(value) < 2 {
		return false
	}
	unit := strings.ToLower(value[len(value)-1:])
	if !strings.Contains(byteUnits, unit) {
		return false
	}
	_, err := strconv.ParseInt(value[:len(value)-1], 10, 64)
	return err == nil
}

// NewByteUnitItem is a text box holding a byte size such as "10m".
func NewByteUnitItem(name, title string) *TextBoxItem {
	i := NewTextBoxItem(name, title)
	i.check = func(text string) error {
		if !ValidateByteUnit(text) {
			return invalidValue(name, "Invalid byte specification: use a number followed by b, k, m, g or t")
		}
		return nil
	}
	return i
}

// CheckBoxItem edits a boolean.
type CheckBoxItem struct {
	baseItem
	check *widget.Check
}

func NewCheckBoxItem(name, title string) *CheckBoxItem {
	i := &CheckBoxItem{baseItem: newBase(name, title)}
	i.check = widget.NewCheck("", func(checked bool) { i.changed(checked) })
	return i
}

func (i *CheckBoxItem) Widget() fyne.CanvasObject { return i.check }
func (i *CheckBoxItem) Value() any                { return i.check.Checked }
func (i *CheckBoxItem) Validate() error           { return nil }

func (i *CheckBoxItem) SetValue(v any) {
	i.load(func() { i.check.SetChecked(toBool(v)) })
}

func (i *CheckBoxItem) SetEnabled(enabled bool) {
	if enabled {
		i.check.Enable()
	} else {
		i.check.Disable()
	}
}

func (i *CheckBoxItem) Check() *widget.Check { return i.check }

// ListItem edits a list of strings, one per line.
type ListItem struct {
	baseItem
	entry *widget.Entry
}

func NewListItem(name, title string) *ListItem {
	i := &ListItem{baseItem: newBase(name, title), entry: widget.NewMultiLineEntry()}
	i.entry.SetMinRowsVisible(3)
	i.entry.Validator = func(string) error { return i.Validate() }
	i.entry.OnChanged = func(string) { i.changed(i.Value()) }
	return i
}

func (i *ListItem) Widget() fyne.CanvasObject { return i.entry }

// Value returns the non-blank lines, trimmed.
func (i *ListItem) Value() any {
	out := []any{}
	for _, line := range strings.Split(i.entry.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (i *ListItem) SetValue(v any) {
	i.load(func() { i.entry.SetText(strings.Join(toStrings(v), "\n")) })
}

func (i *ListItem) Validate() error {
	if i.required && len(i.Value().([]any)) == 0 {
		return i.requiredError()
	}
	return nil
}

func (i *ListItem) SetEnabled(enabled bool) {
	if enabled {
		i.entry.Enable()
	} else {
		i.entry.Disable()
	}
}

func (i *ListItem) Entry() *widget.Entry { return i.entry }

// NumberBoxItem edits a whole number.
type NumberBoxItem struct {
	baseItem
	entry         *widget.Entry
	allowNegative bool
}

func NewNumberBoxItem(name, title string, allowNegative bool) *NumberBoxItem {
	i := &NumberBoxItem{baseItem: newBase(name, title), entry: widget.NewEntry(), allowNegative: allowNegative}
	i.entry.Validator = i.validateText
	i.entry.OnChanged = func(string) { i.changed(i.Value()) }
	return i
}

func (i *NumberBoxItem) validateText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		if i.required {
			return i.requiredError()
		}
		return nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return invalidValue(i.name, "Not a number")
	}
	if n < 0 && !i.allowNegative {
		return invalidValue(i.name, "Negative values are not allowed")
	}
	return nil
}

func (i *NumberBoxItem) Widget() fyne.CanvasObject { return i.entry }

// Value is an int64, nil when empty, or the raw text when it does not parse.
func (i *NumberBoxItem) Value() any {
	text := strings.TrimSpace(i.entry.Text)
	if text == "" {
		return nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return text
	}
	return n
}

func (i *NumberBoxItem) SetValue(v any) {
	i.load(func() { i.entry.SetText(formatValue(v)) })
}

func (i *NumberBoxItem) Validate() error { return i.validateText(i.entry.Text) }

func (i *NumberBoxItem) SetEnabled(enabled bool) {
	if enabled {
		i.entry.Enable()
	} else {
		i.entry.Disable()
	}
}

func (i *NumberBoxItem) Entry() *widget.Entry { return i.entry }

// ComboBoxItem picks one value from a fixed set.
type ComboBoxItem struct {
	baseItem
	sel *widget.Select
}

func NewComboBoxItem(name, title string, values []string) *ComboBoxItem {
	i := &ComboBoxItem{baseItem: newBase(name, title)}
	i.sel = widget.NewSelect(append([]string(nil), values...), func(string) { i.changed(i.Value()) })
	return i
}

func (i *ComboBoxItem) Widget() fyne.CanvasObject { return i.sel }

func (i *ComboBoxItem) Value() any {
	if i.sel.Selected == "" {
		return nil
	}
	return i.sel.Selected
}

// SetValue selects v; a value outside the set is added so it stays visible.
func (i *ComboBoxItem) SetValue(v any) {
	text := formatValue(v)
	i.load(func() {
		if text == "" {
			i.sel.ClearSelected()
			return
		}
		if !slices.Contains(i.sel.Options, text) {
			i.sel.Options = append(i.sel.Options, text)
		}
		i.sel.SetSelected(text)
	})
}

func (i *ComboBoxItem) Validate() error {
	if i.required && i.sel.Selected == "" {
		return i.requiredError()
	}
	return nil
}

func (i *ComboBoxItem) SetEnabled(enabled bool) {
	if enabled {
		i.sel.Enable()
	} else {
		i.sel.Disable()
	}
}

func (i *ComboBoxItem) Options() []string { return i.sel.Options }

func (i *ComboBoxItem) Select() *widget.Select { return i.sel }

// UnitBoxItem is a number with a separate unit attribute. The unit is a
// second FormItem sharing the row.
type UnitBoxItem struct {
	*NumberBoxItem
	unit *ComboBoxItem
	row  fyne.CanvasObject
}

func NewUnitBoxItem(name, title, unitName string, units []string) *UnitBoxItem {
	i := &UnitBoxItem{
		NumberBoxItem: NewNumberBoxItem(name, title, false),
		unit:          NewComboBoxItem(unitName, title+" Unit", units),
	}
	i.row = container.NewGridWithColumns(2, i.NumberBoxItem.entry, i.unit.sel)
	return i
}

func (i *UnitBoxItem) Widget() fyne.CanvasObject { return i.row }

func (i *UnitBoxItem) UnitItem() *ComboBoxItem { return i.unit }

// embeddedItem is an item whose widget lives inside another item's widget;
// it takes part in values and validation but is not laid out itself.
type embeddedItem struct {
	FormItem
}

func (embeddedItem) Embedded() bool { return true }

// IsEmbedded reports whether item is drawn by another item.
func IsEmbedded(item FormItem) bool {
	e, ok := item.(interface{ Embedded() bool })
	return ok && e.Embedded()
}
