package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMetaData(t *testing.T) {
	meta := DefaultMetaData()

	groups := meta.Groups()
	require.NotEmpty(t, groups)
	assert.Equal(t, "Connector", groups[0].Name)
	assert.Equal(t, "datasources", groups[0].Items[0].Presenter)

	item, ok := meta.FindItem("messaging")
	require.True(t, ok)
	assert.Equal(t, "Messaging Provider", item.Name)

	def, ok := meta.FormDefinition("transactions")
	require.True(t, ok)
	assert.Equal(t, "transactions", def.Key)
	assert.True(t, def.Metrics)
}

func TestDefaultMetaDataFormsUseKnownFieldTypes(t *testing.T) {
	known := map[FieldType]bool{
		FieldText: true, FieldTextBox: true, FieldByteUnit: true, FieldCheckBox: true,
		FieldListBox: true, FieldNumberBox: true, FieldNumberBoxAllowNegative: true,
		FieldNumberUnitBox: true, FieldUnits: true, FieldComboBox: true,
		FieldIsolationTypes: true, FieldEvictionStrategyTypes: true, FieldTimeUnits: true,
		FieldPropertyEditor: true,
	}
	meta := DefaultMetaData()
	for _, g := range meta.Groups() {
		def, ok := meta.FormDefinition(g.Items[0].Presenter)
		if !ok {
			continue
		}
		for _, b := range def.Bindings() {
			assert.True(t, known[b.Type], "%s.%s uses unknown type %q", def.Key, b.Name, b.Type)
		}
	}
}

func TestLoadMetaDataRejectsDuplicateKeys(t *testing.T) {
	doc := `
groups:
  - name: A
    items:
      - {name: One, key: logging, presenter: logging}
  - name: B
    items:
      - {name: Two, key: logging, presenter: logging2}
`
	_, err := LoadMetaData(strings.NewReader(doc))
	assert.ErrorContains(t, err, "listed twice")
}

func TestLoadMetaDataRejectsFormWithoutAddress(t *testing.T) {
	doc := `
groups: []
forms:
  logging:
    groups:
      - name: G
        bindings:
          - {name: level, type: COMBO_BOX}
`
	_, err := LoadMetaData(strings.NewReader(doc))
	assert.ErrorContains(t, err, "address is required")
}

func TestFormDefinitionResolveAddress(t *testing.T) {
	def := FormDefinition{Address: "subsystem=messaging/hornetq-server={name}"}
	assert.Equal(t, "subsystem=messaging/hornetq-server=default", def.ResolveAddress(map[string]string{"name": "default"}))
	assert.Equal(t, "subsystem=messaging/hornetq-server={name}", def.ResolveAddress(nil))
}

func TestPropertyBindingDefaults(t *testing.T) {
	b := PropertyBinding{Name: "lifespan"}
	assert.Equal(t, "lifespan", b.Title())
	assert.Equal(t, "lifespan-unit", b.UnitAttribute())

	b = PropertyBinding{Name: "default-timeout", Label: "Default Timeout", UnitName: "default-timeout-unit"}
	assert.Equal(t, "Default Timeout", b.Title())
	assert.Equal(t, "default-timeout-unit", b.UnitAttribute())
}
