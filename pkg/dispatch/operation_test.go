package dispatch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("subsystem=datasources/data-source=ExampleDS")
	require.NoError(t, err)
	assert.Equal(t, Address{{Type: "subsystem", Value: "datasources"}, {Type: "data-source", Value: "ExampleDS"}}, addr)
	assert.Equal(t, "subsystem=datasources/data-source=ExampleDS", addr.String())

	root, err := ParseAddress("  ")
	require.NoError(t, err)
	assert.Empty(t, root)

	_, err = ParseAddress("subsystem")
	assert.Error(t, err)
	_, err = ParseAddress("subsystem=")
	assert.Error(t, err)
}

func TestAddressAppendDoesNotAlias(t *testing.T) {
	base := MustParseAddress("subsystem=messaging")
	a := base.Append("hornetq-server", "default")
	b := base.Append("hornetq-server", "backup")
	assert.Equal(t, "subsystem=messaging/hornetq-server=default", a.String())
	assert.Equal(t, "subsystem=messaging/hornetq-server=backup", b.String())
	assert.Len(t, base, 1)
	assert.Equal(t, "backup", b.Value("hornetq-server"))
	assert.Empty(t, b.Value("data-source"))
	assert.Empty(t, b.Value(""))
}

func TestOperationJSON(t *testing.T) {
	op := Operation{
		Operation: OpWriteAttribute,
		Address:   MustParseAddress("subsystem=transactions"),
		Name:      "enable-statistics",
		Value:     false,
	}
	data, err := json.Marshal(op)
	require.NoError(t, err)
	assert.JSONEq(t, `{"operation":"write-attribute","address":[{"subsystem":"transactions"}],"name":"enable-statistics","value":false}`, string(data))

	var decoded Operation
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, op.Address, decoded.Address)
	assert.Equal(t, false, decoded.Value)
}

func TestAddressUnmarshalRejectsCompositeElements(t *testing.T) {
	var addr Address
	err := json.Unmarshal([]byte(`[{"subsystem":"a","x":"b"}]`), &addr)
	assert.Error(t, err)
}

func TestOperationValidate(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		wantErr bool
	}{
		{"read resource", Operation{Operation: OpReadResource}, false},
		{"children without type", Operation{Operation: OpReadChildrenNames}, true},
		{"children", Operation{Operation: OpReadChildrenNames, ChildType: "subsystem"}, false},
		{"write without name", Operation{Operation: OpWriteAttribute, Value: 1}, true},
		{"read attribute", Operation{Operation: OpReadAttribute, Name: "x"}, false},
		{"missing", Operation{}, true},
		{"unknown", Operation{Operation: "reload"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
