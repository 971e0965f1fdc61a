// Package model holds the console's read-only domain data: installed
// subsystems, the static navigation metadata and the form definitions that
// drive configuration editing.
package model

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

// SubsystemRecord identifies a subsystem installed on the managed server.
type SubsystemRecord struct {
	Title string `json:"title"`
	Key   string `json:"key"`
}

// SubsystemGroupItem is one navigation entry of a group. Key matches
// SubsystemRecord.Title, Presenter is the navigation token key.
type SubsystemGroupItem struct {
	Name      string `yaml:"name"`
	Key       string `yaml:"key"`
	Presenter string `yaml:"presenter"`
	Disabled  bool   `yaml:"disabled"`
}

type SubsystemGroup struct {
	Name  string               `yaml:"name"`
	Items []SubsystemGroupItem `yaml:"items"`
}

// MetaData is the static grouping table plus the form definitions. It is
// immutable once loaded.
type MetaData struct {
	groups []SubsystemGroup
	forms  map[string]FormDefinition
}

type metaDataDoc struct {
	Groups []SubsystemGroup          `yaml:"groups"`
	Forms  map[string]FormDefinition `yaml:"forms"`
}

//go:embed metadata.yaml
var metaDataYAML []byte

var (
	defaultOnce sync.Once
	defaultMeta *MetaData
	defaultErr  error
)

// DefaultMetaData returns the embedded metadata, parsed on first use.
func DefaultMetaData() *MetaData {
	defaultOnce.Do(func() {
		defaultMeta, defaultErr = LoadMetaData(bytes.NewReader(metaDataYAML))
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("embedded subsystem metadata: %v", defaultErr))
	}
	return defaultMeta
}

func LoadMetaData(r io.Reader) (*MetaData, error) {
	var doc metaDataDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	seen := make(map[string]bool)
	for _, g := range doc.Groups {
		if g.Name == "" {
			return nil, fmt.Errorf("group without name")
		}
		for _, item := range g.Items {
			if item.Key == "" || item.Presenter == "" {
				return nil, fmt.Errorf("group %q: item %q needs key and presenter", g.Name, item.Name)
			}
			if seen[item.Key] {
				return nil, fmt.Errorf("subsystem %q listed twice", item.Key)
			}
			seen[item.Key] = true
		}
	}

	forms := make(map[string]FormDefinition, len(doc.Forms))
	for key, def := range doc.Forms {
		def.Key = key
		if err := def.validate(); err != nil {
			return nil, fmt.Errorf("form %q: %w", key, err)
		}
		forms[key] = def
	}

	return &MetaData{groups: doc.Groups, forms: forms}, nil
}

// NewMetaData builds metadata from groups in memory; used by tests and callers
// that assemble their own navigation.
func NewMetaData(groups []SubsystemGroup, forms map[string]FormDefinition) *MetaData {
	if forms == nil {
		forms = make(map[string]FormDefinition)
	}
	return &MetaData{groups: groups, forms: forms}
}

// Groups returns the groups in declaration order.
func (m *MetaData) Groups() []SubsystemGroup {
	return m.groups
}

// FindItem looks up a group item by presenter key.
func (m *MetaData) FindItem(presenter string) (SubsystemGroupItem, bool) {
	for _, g := range m.groups {
		for _, item := range g.Items {
			if item.Presenter == presenter {
				return item, true
			}
		}
	}
	return SubsystemGroupItem{}, false
}

func (m *MetaData) FormDefinition(presenter string) (FormDefinition, bool) {
	def, ok := m.forms[presenter]
	return def, ok
}
