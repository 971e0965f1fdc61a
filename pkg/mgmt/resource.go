// Package mgmt implements a standalone management endpoint: an in-memory
// resource model answering management operations, Prometheus transaction
// metrics and a simulated transaction workload feeding them.
package mgmt

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"

	"asconsole/pkg/dispatch"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Resource is a node of the management model.
type Resource struct {
	Attributes map[string]any                  `yaml:"attributes"`
	Children   map[string]map[string]*Resource `yaml:"children"`
}

// Model is the resource tree of one server. It is safe for concurrent use.
type Model struct {
	mu   sync.RWMutex
	root *Resource
}

// DefaultModel returns a fresh copy of the embedded seed model.
func DefaultModel() (*Model, error) {
	return LoadModel(bytes.NewReader(seedYAML))
}

func LoadModel(r io.Reader) (*Model, error) {
	var root Resource
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode resource model: %w", err)
	}
	normalize(&root)
	return &Model{root: &root}, nil
}

func normalize(r *Resource) {
	if r.Attributes == nil {
		r.Attributes = make(map[string]any)
	}
	for name, value := range r.Attributes {
		r.Attributes[name] = normalizeValue(value)
	}
	for _, children := range r.Children {
		for name, child := range children {
			if child == nil {
				child = &Resource{}
				children[name] = child
			}
			normalize(child)
		}
	}
}

// normalizeValue maps YAML and JSON decodings onto the same shapes so type
// checks on write compare like with like.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
		return t
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = normalizeValue(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, el := range t {
			out[k] = normalizeValue(el)
		}
		return out
	default:
		return v
	}
}

func (m *Model) resolve(addr dispatch.Address) (*Resource, error) {
	node := m.root
	for _, el := range addr {
		children, ok := node.Children[el.Type]
		if !ok {
			return nil, fmt.Errorf("no child type %q at %q", el.Type, addrUpTo(addr, el))
		}
		child, ok := children[el.Value]
		if !ok {
			return nil, fmt.Errorf("resource %q not found", addrUpTo(addr, el))
		}
		node = child
	}
	return node, nil
}

func addrUpTo(addr dispatch.Address, last dispatch.AddressElement) string {
	for i, el := range addr {
		if el == last {
			return addr[:i+1].String()
		}
	}
	return addr.String()
}

// Execute applies one management operation and builds its response.
func (m *Model) Execute(op dispatch.Operation) dispatch.Response {
	if err := op.Validate(); err != nil {
		return failed(err)
	}

	if op.Operation == dispatch.OpWriteAttribute {
		m.mu.Lock()
		defer m.mu.Unlock()
	} else {
		m.mu.RLock()
		defer m.mu.RUnlock()
	}

	node, err := m.resolve(op.Address)
	if err != nil {
		return failed(err)
	}

	switch op.Operation {
	case dispatch.OpReadChildrenNames:
		names := make([]string, 0, len(node.Children[op.ChildType]))
		for name := range node.Children[op.ChildType] {
			names = append(names, name)
		}
		sort.Strings(names)
		return success(names)

	case dispatch.OpReadResource:
		return success(copyAttributes(node.Attributes))

	case dispatch.OpReadAttribute:
		value, ok := node.Attributes[op.Name]
		if !ok {
			return failed(fmt.Errorf("unknown attribute %q", op.Name))
		}
		return success(value)

	case dispatch.OpWriteAttribute:
		current, ok := node.Attributes[op.Name]
		if !ok {
			return failed(fmt.Errorf("unknown attribute %q", op.Name))
		}
		value := normalizeValue(op.Value)
		if err := checkType(op.Name, current, value); err != nil {
			return failed(err)
		}
		node.Attributes[op.Name] = value
		return success(nil)
	}

	return failed(fmt.Errorf("unknown operation %q", op.Operation))
}

// Attribute reads one attribute; used by the workload to honour settings.
func (m *Model) Attribute(addr dispatch.Address, name string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, err := m.resolve(addr)
	if err != nil {
		return nil, false
	}
	value, ok := node.Attributes[name]
	return value, ok
}

// checkType rejects writes that change the kind of a defined attribute.
// Undefined (nil) attributes accept any value.
func checkType(name string, current, value any) error {
	if current == nil || value == nil {
		return nil
	}
	if kindOf(current) != kindOf(value) {
		return fmt.Errorf("wrong type for %q: expected %s, got %s", name, kindOf(current), kindOf(value))
	}
	return nil
}

func kindOf(v any) string {
	switch v.(type) {
	case bool:
		return "BOOLEAN"
	case int64, float64:
		return "NUMBER"
	case string:
		return "STRING"
	case []any:
		return "LIST"
	case map[string]any:
		return "OBJECT"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func copyAttributes(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

func success(result any) dispatch.Response {
	return dispatch.Response{Outcome: dispatch.OutcomeSuccess, Result: result}
}

func failed(err error) dispatch.Response {
	return dispatch.Response{Outcome: dispatch.OutcomeFailed, FailureDescription: err.Error()}
}
