package forms

import (
	"errors"
	"reflect"

	"asconsole/pkg/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

const (
	defaultColumns    = 2
	defaultTitleWidth = 20
)

// Form edits one entity described by a FormDefinition.
type Form struct {
	def      model.FormDefinition
	meta     RenderMetaData
	renderer GroupRenderer

	items    []*ObservableFormItem
	byName   map[string]*ObservableFormItem
	groups   []*RenderedGroup
	original map[string]any
	object   fyne.CanvasObject
}

func NewForm(def model.FormDefinition, observers ...Observer) (*Form, error) {
	return NewFormWithRenderer(def, NewDefaultGroupRenderer(), observers...)
}

func NewFormWithRenderer(def model.FormDefinition, renderer GroupRenderer, observers ...Observer) (*Form, error) {
	meta := RenderMetaData{NumColumns: def.Columns, TitleWidth: def.TitleWidth}
	if meta.NumColumns == 0 {
		meta.NumColumns = defaultColumns
	}
	if meta.TitleWidth == 0 {
		meta.TitleWidth = defaultTitleWidth
	}

	f := &Form{
		def:      def,
		meta:     meta,
		renderer: renderer,
		byName:   make(map[string]*ObservableFormItem),
		original: make(map[string]any),
	}

	var sections []fyne.CanvasObject
	for _, group := range def.Groups {
		var laidOut []FormItem
		for _, binding := range group.Bindings {
			binding.Group = group.Name
			items, err := MakeFormItems(binding, observers...)
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				f.items = append(f.items, item)
				f.byName[item.Item.Name()] = item
				if !IsEmbedded(item.Item) {
					laidOut = append(laidOut, item.Item)
				}
			}
		}
		if len(laidOut) == 0 {
			continue
		}
		rendered := renderer.Render(meta, group.Name, laidOut)
		f.groups = append(f.groups, rendered)
		sections = append(sections, rendered.Object)
	}

	f.object = container.NewVBox(sections...)
	return f, nil
}

func (f *Form) Definition() model.FormDefinition { return f.def }

func (f *Form) Widget() fyne.CanvasObject { return f.object }

func (f *Form) Groups() []*RenderedGroup { return f.groups }

func (f *Form) Items() []*ObservableFormItem { return f.items }

// Item returns the item bound to the attribute name, or nil.
func (f *Form) Item(name string) FormItem {
	if o := f.byName[name]; o != nil {
		return o.Item
	}
	return nil
}

// Edit loads an entity and remembers it as the baseline for ChangedValues.
func (f *Form) Edit(values map[string]any) {
	f.original = make(map[string]any, len(f.items))
	for _, o := range f.items {
		o.Item.SetValue(values[o.Item.Name()])
		f.original[o.Item.Name()] = o.Item.Value()
	}
}

// Clear empties every item and the baseline.
func (f *Form) Clear() {
	f.Edit(nil)
}

// Values returns every item's current value.
func (f *Form) Values() map[string]any {
	out := make(map[string]any, len(f.items))
	for _, o := range f.items {
		out[o.Item.Name()] = o.Item.Value()
	}
	return out
}

// ChangedValues returns the values that differ from the last Edit.
func (f *Form) ChangedValues() map[string]any {
	out := make(map[string]any)
	for _, o := range f.items {
		name := o.Item.Name()
		value := o.Item.Value()
		if !reflect.DeepEqual(value, f.original[name]) {
			out[name] = value
		}
	}
	return out
}

// Validate checks every item and joins the failures.
func (f *Form) Validate() error {
	var errs []error
	for _, o := range f.items {
		if err := o.Item.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Form) SetEnabled(enabled bool) {
	for _, o := range f.items {
		o.Item.SetEnabled(enabled)
	}
}
