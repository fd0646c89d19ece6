package property

import (
	"context"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/edgecore/wedge/lifecycle"
)

// childEntry pairs a field name with its child Node, preserving the fixed
// apply order required by spec §4.1 ("composite nodes apply children in a
// fixed order").
type childEntry struct {
	field string
	node  Node
}

// Composite is a Node whose children are addressed by field name within
// its own JSON subtree (pq_settings, common_settings, port_settings, the
// DTDL root itself).
type Composite struct {
	Name     string
	children []childEntry
	index    map[string]Node

	// Gate, when non-nil, is consulted before applying at all; returning
	// a non-nil error aborts the whole composite's apply with that error.
	// No composite in this module sets it: common_settings' RUNNING guard
	// (spec §4.1) is enforced in CommonSettings.Apply instead.
	Gate func(in []byte) *lifecycle.Error
}

// NewComposite constructs an empty composite node.
func NewComposite(name string) *Composite {
	return &Composite{Name: name, index: make(map[string]Node)}
}

// AddChild registers a child under field, preserving insertion order.
func (c *Composite) AddChild(field string, node Node) *Composite {
	c.children = append(c.children, childEntry{field: field, node: node})
	c.index[field] = node
	return c
}

// Child returns the named child, or nil if absent.
func (c *Composite) Child(field string) Node {
	return c.index[field]
}

func (c *Composite) JSON() []byte {
	doc := []byte("{}")
	for _, e := range c.children {
		var err error
		doc, err = sjson.SetRawBytes(doc, e.field, e.node.JSON())
		if err != nil {
			continue
		}
	}
	return doc
}

func (c *Composite) Delete() {
	for _, e := range c.children {
		e.node.Delete()
	}
}

func (c *Composite) InitializeValues(ctx context.Context) error {
	for _, e := range c.children {
		if err := e.node.InitializeValues(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Verify recurses into each present child field, stopping at the first
// violation (spec §7.2: "verify is short-circuited at the first
// failure").
func (c *Composite) Verify(in []byte) *lifecycle.Error {
	if in == nil {
		return nil
	}
	for _, e := range c.children {
		field := gjson.GetBytes(in, e.field)
		if !field.Exists() {
			continue
		}
		if err := e.node.Verify(rawBytes(field)); err != nil {
			return err
		}
	}
	return nil
}

func rawBytes(r gjson.Result) []byte {
	return []byte(r.Raw)
}

// Apply applies every present child independently: one child's failure
// never prevents others from being attempted (spec §4.1). The composite
// succeeds iff every child succeeded (I6); on the first failure, that
// error is retained and returned after every child has been attempted.
func (c *Composite) Apply(ctx context.Context, in []byte) *lifecycle.Error {
	if in == nil {
		return nil
	}
	if c.Gate != nil {
		if err := c.Gate(in); err != nil {
			return err
		}
	}
	var first *lifecycle.Error
	for _, e := range c.children {
		field := gjson.GetBytes(in, e.field)
		if !field.Exists() {
			continue
		}
		if err := e.node.Apply(ctx, rawBytes(field)); err != nil && first == nil {
			first = err
		}
	}
	return first
}
