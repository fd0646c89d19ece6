package property

import (
	"context"
	"sync"

	"github.com/edgecore/wedge/lifecycle"
)

// ApplyFunc is invoked after a ValueNode's stored JSON has been updated,
// letting the owner react to the new value (e.g. common_settings applying
// log_level to the logger).
type ApplyFunc func(ctx context.Context, newValue []byte) error

// ValueNode is a Node for a field with no sensor backing: enum settings
// or opaque JSON objects (process_state, log_level, inference_settings,
// codec_settings, the port_settings entries, ...).
type ValueNode struct {
	mu sync.Mutex

	Name    string
	Rules   []Rule
	OnApply ApplyFunc

	value []byte
}

// NewValueNode constructs a value node with the given initial JSON value.
func NewValueNode(name string, initial []byte, onApply ApplyFunc, rules ...Rule) *ValueNode {
	if initial == nil {
		initial = []byte("null")
	}
	return &ValueNode{Name: name, Rules: rules, OnApply: onApply, value: append([]byte(nil), initial...)}
}

func (v *ValueNode) JSON() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]byte(nil), v.value...)
}

func (v *ValueNode) Delete() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = []byte("null")
}

func (v *ValueNode) InitializeValues(ctx context.Context) error { return nil }

func (v *ValueNode) Verify(in []byte) *lifecycle.Error {
	if in == nil {
		return nil
	}
	for _, r := range v.Rules {
		if err := r.Check(in); err != nil {
			return lifecycle.New(err.Code, "%s %s", v.Name, err.Detail)
		}
	}
	return nil
}

func (v *ValueNode) Apply(ctx context.Context, in []byte) *lifecycle.Error {
	if in == nil {
		return nil
	}
	if verr := v.Verify(in); verr != nil {
		return verr
	}
	v.mu.Lock()
	v.value = append([]byte(nil), in...)
	v.mu.Unlock()
	if v.OnApply != nil {
		if err := v.OnApply(ctx, in); err != nil {
			return lifecycle.New(lifecycle.INTERNAL, "%s: %v", v.Name, err)
		}
	}
	return nil
}
