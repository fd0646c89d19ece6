// Package property implements the Property Node tree (spec §4.1, C1): a
// composable abstraction over the declarative configuration document,
// where every node owns a JSON subtree, a validation rule set, and an
// apply contract that may reach into the sensor driver.
//
// Nodes never share mutable JSON storage with their parent (I7): apply
// always writes into a freshly allocated buffer via sjson rather than
// mutating the parent's bytes in place.
package property

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/edgecore/wedge/lifecycle"
)

// Node is the uniform interface every configuration element implements.
type Node interface {
	// Verify examines in (the incoming JSON subtree for this node) against
	// the node's rule set and its children, short-circuiting at the first
	// violation (spec §7.2).
	Verify(in []byte) *lifecycle.Error
	// Apply mutates the node's current value from in. Siblings are
	// applied independently: one child's failure never prevents others
	// from being attempted.
	Apply(ctx context.Context, in []byte) *lifecycle.Error
	// Delete releases the owned JSON subtree.
	Delete()
	// InitializeValues reads current state from the sensor driver into
	// the node's JSON. No-op for nodes with nothing to read back.
	InitializeValues(ctx context.Context) error
	// JSON returns the node's current owned subtree.
	JSON() []byte
}

// NotifyFunc is called by a node whose apply changed a sensor-backed
// value, requesting the engine emit an updated state document (GLOSSARY
// "Notification").
type NotifyFunc func()

// Changed reports whether any field present in incoming differs from the
// corresponding field in current (float comparisons use the package's
// absolute tolerance, recursing into nested objects). When incoming is not
// an object, the two values are compared directly. Used by composites
// whose apply policy depends on "would this sub-document change
// anything" rather than on delegating to a child's own apply (e.g.
// common_settings' RUNNING guard, spec §4.1).
func Changed(current, incoming []byte) bool {
	cur, in := gjson.ParseBytes(current), gjson.ParseBytes(incoming)
	if !in.IsObject() {
		return !cur.Exists() || !valuesEqual(cur, in)
	}
	return jsonChanged(cur, in)
}

func jsonChanged(current, incoming gjson.Result) bool {
	changed := false
	incoming.ForEach(func(key, val gjson.Result) bool {
		cur := current.Get(key.String())
		if !cur.Exists() {
			changed = true
			return false
		}
		if val.Type == gjson.JSON && cur.Type == gjson.JSON {
			if jsonChanged(cur, val) {
				changed = true
				return false
			}
			return true
		}
		if !valuesEqual(cur, val) {
			changed = true
			return false
		}
		return true
	})
	return changed
}
