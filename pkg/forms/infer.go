package forms

import (
	"sort"

	"asconsole/pkg/model"
)

// InferDefinition builds a single-group definition from the attributes of
// a resource, choosing an editor per value kind. It serves subsystems that
// have no declared form.
func InferDefinition(key, title, address string, attrs map[string]any) model.FormDefinition {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	bindings := make([]model.PropertyBinding, 0, len(names))
	for _, name := range names {
		bindings = append(bindings, model.PropertyBinding{
			Name: name,
			Type: inferType(attrs[name]),
		})
	}

	return model.FormDefinition{
		Key:     key,
		Title:   title,
		Address: address,
		Groups:  []model.BindingGroup{{Name: "Attributes", Bindings: bindings}},
	}
}

func inferType(v any) model.FieldType {
	switch v.(type) {
	case bool:
		return model.FieldCheckBox
	case float64, int64, int:
		return model.FieldNumberBoxAllowNegative
	case []any:
		return model.FieldListBox
	case map[string]any:
		return model.FieldPropertyEditor
	default:
		return model.FieldTextBox
	}
}
