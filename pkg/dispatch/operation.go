// Package dispatch talks to the management endpoint: it encodes management
// operations, executes them over HTTP and classifies the outcome.
package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Operation names understood by the management endpoint.
const (
	OpReadChildrenNames = "read-children-names"
	OpReadResource      = "read-resource"
	OpReadAttribute     = "read-attribute"
	OpWriteAttribute    = "write-attribute"
)

// AddressElement is one type=value step of a resource address.
type AddressElement struct {
	Type  string
	Value string
}

// Address locates a resource in the management model. The empty address is
// the server root.
type Address []AddressElement

// ParseAddress reads "subsystem=datasources/data-source=ExampleDS".
func ParseAddress(s string) (Address, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return Address{}, nil
	}
	parts := strings.Split(s, "/")
	addr := make(Address, 0, len(parts))
	for _, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid address element %q", part)
		}
		addr = append(addr, AddressElement{Type: key, Value: value})
	}
	return addr, nil
}

// MustParseAddress is ParseAddress for literals.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// Append returns a copy of a with one more element.
func (a Address) Append(typ, value string) Address {
	out := make(Address, len(a), len(a)+1)
	copy(out, a)
	return append(out, AddressElement{Type: typ, Value: value})
}

// Value returns the value of the last element of the given type, or "".
func (a Address) Value(typ string) string {
	if typ == "" {
		return ""
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Type == typ {
			return a[i].Value
		}
	}
	return ""
}

func (a Address) String() string {
	parts := make([]string, len(a))
	for i, el := range a {
		parts[i] = el.Type + "=" + el.Value
	}
	return strings.Join(parts, "/")
}

func (a Address) MarshalJSON() ([]byte, error) {
	out := make([]map[string]string, len(a))
	for i, el := range a {
		out[i] = map[string]string{el.Type: el.Value}
	}
	return json.Marshal(out)
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var raw []map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	addr := make(Address, 0, len(raw))
	for _, el := range raw {
		if len(el) != 1 {
			return fmt.Errorf("address element must hold exactly one pair, got %d", len(el))
		}
		for k, v := range el {
			addr = append(addr, AddressElement{Type: k, Value: v})
		}
	}
	*a = addr
	return nil
}

// Operation is a single management request.
type Operation struct {
	Operation string  `json:"operation"`
	Address   Address `json:"address"`
	Name      string  `json:"name,omitempty"`
	Value     any     `json:"value,omitempty"`
	ChildType string  `json:"child-type,omitempty"`
}

func (op Operation) Validate() error {
	switch op.Operation {
	case OpReadResource:
	case OpReadChildrenNames:
		if op.ChildType == "" {
			return fmt.Errorf("%s requires child-type", op.Operation)
		}
	case OpReadAttribute, OpWriteAttribute:
		if op.Name == "" {
			return fmt.Errorf("%s requires name", op.Operation)
		}
	case "":
		return fmt.Errorf("operation is required")
	default:
		return fmt.Errorf("unknown operation %q", op.Operation)
	}
	return nil
}

// Outcome values of a management response.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Response is the envelope returned for every operation.
type Response struct {
	Outcome            string `json:"outcome"`
	Result             any    `json:"result,omitempty"`
	FailureDescription string `json:"failure-description,omitempty"`
}

// Transaction metric names exposed by the management endpoint.
const (
	MetricTxCommitted            = "asconsole_tx_committed_total"
	MetricTxAborted              = "asconsole_tx_aborted_total"
	MetricTxTimedOut             = "asconsole_tx_timed_out_total"
	MetricTxApplicationRollbacks = "asconsole_tx_application_rollbacks_total"
	MetricTxResourceRollbacks    = "asconsole_tx_resource_rollbacks_total"
	MetricTxInflight             = "asconsole_tx_inflight"
)
