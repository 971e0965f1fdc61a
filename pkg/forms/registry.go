package forms

import (
	"fmt"

	"asconsole/pkg/model"
)

// Value sets of the predefined combo box types.
var (
	IsolationTypes        = []string{"REPEATABLE_READ"}
	EvictionStrategyTypes = []string{"NONE", "LRU"}
	TimeUnits             = []string{"DAYS", "HOURS", "MINUTES", "SECONDS", "MILLISECONDS", "NANOSECONDS"}
)

// Factory builds the observable items for one binding. Most types produce
// one item; NUMBER_UNIT_BOX produces two and UNITS none.
type Factory func(binding model.PropertyBinding, observers ...Observer) []*ObservableFormItem

var factories = make(map[model.FieldType]Factory)

func init() {
	RegisterFactory(model.FieldText, simpleFactory(func(b model.PropertyBinding) FormItem {
		return NewTextItem(b.Name, b.Title())
	}))
	RegisterFactory(model.FieldTextBox, simpleFactory(func(b model.PropertyBinding) FormItem {
		return NewTextBoxItem(b.Name, b.Title())
	}))
	RegisterFactory(model.FieldByteUnit, simpleFactory(func(b model.PropertyBinding) FormItem {
		return NewByteUnitItem(b.Name, b.Title())
	}))
	RegisterFactory(model.FieldCheckBox, simpleFactory(func(b model.PropertyBinding) FormItem {
		return NewCheckBoxItem(b.Name, b.Title())
	}))
	RegisterFactory(model.FieldListBox, simpleFactory(func(b model.PropertyBinding) FormItem {
		return NewListItem(b.Name, b.Title())
	}))
	RegisterFactory(model.FieldNumberBox, numberBoxFactory(false))
	RegisterFactory(model.FieldNumberBoxAllowNegative, numberBoxFactory(true))
	RegisterFactory(model.FieldNumberUnitBox, unitBoxFactory)
	RegisterFactory(model.FieldUnits, func(model.PropertyBinding, ...Observer) []*ObservableFormItem {
		// the unit is created together with its NUMBER_UNIT_BOX
		return nil
	})
	RegisterFactory(model.FieldComboBox, func(b model.PropertyBinding, observers ...Observer) []*ObservableFormItem {
		return comboBoxFactory(b.Values)(b, observers...)
	})
	RegisterFactory(model.FieldIsolationTypes, comboBoxFactory(IsolationTypes))
	RegisterFactory(model.FieldEvictionStrategyTypes, comboBoxFactory(EvictionStrategyTypes))
	RegisterFactory(model.FieldTimeUnits, comboBoxFactory(TimeUnits))
	RegisterFactory(model.FieldPropertyEditor, PropertyEditorFactory(DefaultAddPropertyTitle, DefaultPropertyRows))
}

// RegisterFactory binds a field type to a factory, replacing any previous
// one. Call it from init.
func RegisterFactory(fieldType model.FieldType, factory Factory) {
	factories[fieldType] = factory
}

func GetFactory(fieldType model.FieldType) Factory {
	return factories[fieldType]
}

// MakeFormItems builds the items for binding with its registered factory.
func MakeFormItems(binding model.PropertyBinding, observers ...Observer) ([]*ObservableFormItem, error) {
	factory := GetFactory(binding.Type)
	if factory == nil {
		return nil, fmt.Errorf("no form item factory for type %q (attribute %q)", binding.Type, binding.Name)
	}
	return factory(binding, observers...), nil
}

func simpleFactory(build func(model.PropertyBinding) FormItem) Factory {
	return func(b model.PropertyBinding, observers ...Observer) []*ObservableFormItem {
		item := build(b)
		item.SetRequired(b.Required)
		return []*ObservableFormItem{NewObservableFormItem(b, item, observers...)}
	}
}

func numberBoxFactory(allowNegative bool) Factory {
	return simpleFactory(func(b model.PropertyBinding) FormItem {
		return NewNumberBoxItem(b.Name, b.Title(), allowNegative)
	})
}

func comboBoxFactory(values []string) Factory {
	return simpleFactory(func(b model.PropertyBinding) FormItem {
		return NewComboBoxItem(b.Name, b.Title(), values)
	})
}

func unitBoxFactory(b model.PropertyBinding, observers ...Observer) []*ObservableFormItem {
	item := NewUnitBoxItem(b.Name, b.Title(), b.UnitAttribute(), TimeUnits)
	item.SetRequired(b.Required)

	unitBinding := b
	unitBinding.Name = b.UnitAttribute()
	unitBinding.Type = model.FieldUnits
	return []*ObservableFormItem{
		NewObservableFormItem(b, item, observers...),
		NewObservableFormItem(unitBinding, embeddedItem{item.UnitItem()}, observers...),
	}
}

// PropertyEditorFactory builds key/value editors with a custom add dialog
// title and visible row count.
func PropertyEditorFactory(addDialogTitle string, rows int) Factory {
	return simpleFactory(func(b model.PropertyBinding) FormItem {
		return NewPropertyEditorItem(b.Name, b.Title(), addDialogTitle, rows)
	})
}
