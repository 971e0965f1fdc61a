package model

import (
	"fmt"
	"strings"
)

// FieldType tags how a property is edited.
type FieldType string

const (
	FieldText                   FieldType = "TEXT"
	FieldTextBox                FieldType = "TEXT_BOX"
	FieldByteUnit               FieldType = "BYTE_UNIT"
	FieldCheckBox               FieldType = "CHECK_BOX"
	FieldListBox                FieldType = "LIST_BOX"
	FieldNumberBox              FieldType = "NUMBER_BOX"
	FieldNumberBoxAllowNegative FieldType = "NUMBER_BOX_ALLOW_NEGATIVE"
	FieldNumberUnitBox          FieldType = "NUMBER_UNIT_BOX"
	FieldUnits                  FieldType = "UNITS"
	FieldComboBox               FieldType = "COMBO_BOX"
	FieldIsolationTypes         FieldType = "ISOLATION_TYPES"
	FieldEvictionStrategyTypes  FieldType = "EVICTION_STRATEGY_TYPES"
	FieldTimeUnits              FieldType = "TIME_UNITS"
	FieldPropertyEditor         FieldType = "PROPERTY_EDITOR"
)

// PropertyBinding links a configuration attribute to its UI metadata.
type PropertyBinding struct {
	Name     string    `yaml:"name"`
	Label    string    `yaml:"label"`
	Required bool      `yaml:"required"`
	Type     FieldType `yaml:"type"`
	// UnitName is the attribute holding the unit of a NUMBER_UNIT_BOX.
	UnitName string `yaml:"unit"`
	// Values seeds a COMBO_BOX that has no predefined value set.
	Values []string `yaml:"values"`
	Group  string   `yaml:"-"`
}

func (b PropertyBinding) Title() string {
	if b.Label != "" {
		return b.Label
	}
	return b.Name
}

func (b PropertyBinding) UnitAttribute() string {
	if b.UnitName != "" {
		return b.UnitName
	}
	return b.Name + "-unit"
}

type BindingGroup struct {
	Name     string            `yaml:"name"`
	Bindings []PropertyBinding `yaml:"bindings"`
}

// FormDefinition describes how a subsystem's configuration is edited.
// Address uses "/"-separated type=value pairs; "{name}" is replaced by the
// place's name parameter. With ChildType set, the presenter lists children of
// that type and edits the selected one.
type FormDefinition struct {
	Key        string         `yaml:"-"`
	Title      string         `yaml:"title"`
	Address    string         `yaml:"address"`
	ChildType  string         `yaml:"child-type"`
	Columns    int            `yaml:"columns"`
	TitleWidth int            `yaml:"title-width"`
	Metrics    bool           `yaml:"metrics"`
	Groups     []BindingGroup `yaml:"groups"`
}

// Bindings returns every binding in group order with Group filled in.
func (d FormDefinition) Bindings() []PropertyBinding {
	var out []PropertyBinding
	for _, g := range d.Groups {
		for _, b := range g.Bindings {
			b.Group = g.Name
			out = append(out, b)
		}
	}
	return out
}

// ResolveAddress substitutes place parameters into the address template.
func (d FormDefinition) ResolveAddress(params map[string]string) string {
	addr := d.Address
	for key, value := range params {
		addr = strings.ReplaceAll(addr, "{"+key+"}", value)
	}
	return addr
}

func (d FormDefinition) validate() error {
	if d.Address == "" {
		return fmt.Errorf("address is required")
	}
	if d.Columns < 0 || d.TitleWidth < 0 {
		return fmt.Errorf("columns and title-width must not be negative")
	}
	for _, b := range d.Bindings() {
		if b.Name == "" {
			return fmt.Errorf("binding without name in group %q", b.Group)
		}
		if b.Type == "" {
			return fmt.Errorf("binding %q has no type", b.Name)
		}
	}
	return nil
}
