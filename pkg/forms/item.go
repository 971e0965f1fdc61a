// Package forms turns property bindings into editable fyne form items and
// lays them out in groups.
package forms

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "asconsole/pkg/errors"
	"asconsole/pkg/model"

	"fyne.io/fyne/v2"
)

// FormItem is an editable control bound to one attribute.
type FormItem interface {
	Name() string
	Title() string
	Widget() fyne.CanvasObject
	// Value returns the attribute value in the shape written back to the
	// endpoint; nil means undefined.
	Value() any
	// SetValue loads a value without notifying change listeners.
	SetValue(v any)
	Required() bool
	SetRequired(required bool)
	Validate() error
	SetEnabled(enabled bool)
	// OnChange registers a listener for user edits.
	OnChange(fn func(value any))
}

// Observer is told about every user edit of an observed item.
type Observer interface {
	ItemChanged(binding model.PropertyBinding, item FormItem, value any)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(binding model.PropertyBinding, item FormItem, value any)

func (f ObserverFunc) ItemChanged(binding model.PropertyBinding, item FormItem, value any) {
	f(binding, item, value)
}

// ObservableFormItem pairs an item with its binding and forwards edits to
// observers.
type ObservableFormItem struct {
	Binding   model.PropertyBinding
	Item      FormItem
	observers []Observer
}

func NewObservableFormItem(binding model.PropertyBinding, item FormItem, observers ...Observer) *ObservableFormItem {
	o := &ObservableFormItem{Binding: binding, Item: item, observers: observers}
	item.OnChange(func(value any) {
		for _, obs := range o.observers {
			obs.ItemChanged(o.Binding, o.Item, value)
		}
	})
	return o
}

// baseItem carries the state every item shares.
type baseItem struct {
	name      string
	title     string
	required  bool
	listeners []func(any)
	loading   bool
}

func newBase(name, title string) baseItem {
	return baseItem{name: name, title: title}
}

func (b *baseItem) Name() string              { return b.name }
func (b *baseItem) Title() string             { return b.title }
func (b *baseItem) Required() bool            { return b.required }
func (b *baseItem) SetRequired(required bool) { b.required = required }
func (b *baseItem) OnChange(fn func(any))     { b.listeners = append(b.listeners, fn) }

func (b *baseItem) changed(value any) {
	if b.loading {
		return
	}
	for _, fn := range b.listeners {
		fn(value)
	}
}

// load runs fn with change notification suppressed.
func (b *baseItem) load(fn func()) {
	b.loading = true
	defer func() { b.loading = false }()
	fn()
}

func (b *baseItem) requiredError() error {
	return apperrors.NewWithContext(apperrors.ErrCodeInvalidValue,
		fmt.Sprintf("%s is required", b.title), map[string]any{"item": b.name})
}

func invalidValue(item, message string) error {
	return apperrors.NewWithContext(apperrors.ErrCodeInvalidValue, message, map[string]any{"item": item})
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, len(t))
		for i, el := range t {
			parts[i] = formatValue(el)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, el := range t {
			out = append(out, formatValue(el))
		}
		return out
	default:
		return []string{formatValue(v)}
	}
}

func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	default:
		return false
	}
}
