package forms

import (
	"testing"

	"asconsole/pkg/model"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allFieldTypes = []model.FieldType{
	model.FieldText, model.FieldTextBox, model.FieldByteUnit, model.FieldCheckBox,
	model.FieldListBox, model.FieldNumberBox, model.FieldNumberBoxAllowNegative,
	model.FieldNumberUnitBox, model.FieldUnits, model.FieldComboBox,
	model.FieldIsolationTypes, model.FieldEvictionStrategyTypes, model.FieldTimeUnits,
	model.FieldPropertyEditor,
}

func TestEveryFieldTypeHasFactory(t *testing.T) {
	for _, ft := range allFieldTypes {
		assert.NotNil(t, GetFactory(ft), ft)
	}
}

func TestFactoryItemCounts(t *testing.T) {
	test.NewTempApp(t)

	for _, ft := range allFieldTypes {
		t.Run(string(ft), func(t *testing.T) {
			items, err := MakeFormItems(model.PropertyBinding{Name: "attr", Label: "Attr", Type: ft, Required: true})
			require.NoError(t, err)

			switch ft {
			case model.FieldNumberUnitBox:
				require.Len(t, items, 2)
				assert.Equal(t, "attr", items[0].Item.Name())
				assert.Equal(t, "attr-unit", items[1].Item.Name())
				assert.True(t, IsEmbedded(items[1].Item))
			case model.FieldUnits:
				assert.Empty(t, items)
			default:
				require.Len(t, items, 1)
				assert.True(t, items[0].Item.Required(), "required must propagate")
				assert.Equal(t, ft, items[0].Binding.Type)
			}
		})
	}
}

func TestComboBoxValueSets(t *testing.T) {
	test.NewTempApp(t)

	tests := []struct {
		ft     model.FieldType
		values []string
	}{
		{model.FieldIsolationTypes, []string{"REPEATABLE_READ"}},
		{model.FieldEvictionStrategyTypes, []string{"NONE", "LRU"}},
		{model.FieldTimeUnits, []string{"DAYS", "HOURS", "MINUTES", "SECONDS", "MILLISECONDS", "NANOSECONDS"}},
		{model.FieldComboBox, nil},
	}
	for _, tt := range tests {
		items, err := MakeFormItems(model.PropertyBinding{Name: "x", Type: tt.ft})
		require.NoError(t, err)
		combo, ok := items[0].Item.(*ComboBoxItem)
		require.True(t, ok, tt.ft)
		assert.Equal(t, len(tt.values), len(combo.Options()), tt.ft)
		for i, v := range tt.values {
			assert.Equal(t, v, combo.Options()[i])
		}
	}

	items, err := MakeFormItems(model.PropertyBinding{Name: "level", Type: model.FieldComboBox, Values: []string{"INFO", "DEBUG"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"INFO", "DEBUG"}, items[0].Item.(*ComboBoxItem).Options())
}

func TestPropertyEditorDefaults(t *testing.T) {
	test.NewTempApp(t)

	items, err := MakeFormItems(model.PropertyBinding{Name: "props", Type: model.FieldPropertyEditor})
	require.NoError(t, err)
	editor := items[0].Item.(*PropertyEditorItem)
	assert.Equal(t, "Add Property", editor.AddDialogTitle())
	assert.Equal(t, 5, editor.Rows())

	custom := PropertyEditorFactory("Add Header", 3)(model.PropertyBinding{Name: "headers"})
	assert.Equal(t, "Add Header", custom[0].Item.(*PropertyEditorItem).AddDialogTitle())
	assert.Equal(t, 3, custom[0].Item.(*PropertyEditorItem).Rows())
}

func TestUnknownFieldType(t *testing.T) {
	_, err := MakeFormItems(model.PropertyBinding{Name: "x", Type: "SLIDER"})
	assert.ErrorContains(t, err, "SLIDER")
}

func TestRegisterCustomFactory(t *testing.T) {
	test.NewTempApp(t)
	const slider model.FieldType = "SLIDER"
	t.Cleanup(func() { delete(factories, slider) })

	RegisterFactory(slider, simpleFactory(func(b model.PropertyBinding) FormItem {
		return NewNumberBoxItem(b.Name, b.Title(), false)
	}))

	items, err := MakeFormItems(model.PropertyBinding{Name: "volume", Type: slider, Required: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Item.Required())
}

func TestObserversSeeUserEditsOnly(t *testing.T) {
	test.NewTempApp(t)

	var seen []any
	obs := ObserverFunc(func(b model.PropertyBinding, item FormItem, value any) {
		assert.Equal(t, "max-pool-size", b.Name)
		seen = append(seen, value)
	})
	items, err := MakeFormItems(model.PropertyBinding{Name: "max-pool-size", Type: model.FieldNumberBox}, obs)
	require.NoError(t, err)
	box := items[0].Item.(*NumberBoxItem)

	box.SetValue(float64(20))
	assert.Empty(t, seen)
	assert.Equal(t, int64(20), box.Value())

	box.Entry().SetText("205")
	require.NotEmpty(t, seen)
	assert.Equal(t, int64(205), seen[len(seen)-1])
}
