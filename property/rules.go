package property

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/edgecore/wedge/lifecycle"
)

// RuleKind is one of the six validation-rule kinds from spec §4.1.
type RuleKind int

const (
	Ge RuleKind = iota // rejects when field < v
	Gt                 // rejects when field <= v
	Le                 // rejects when field > v
	Lt                 // rejects when field >= v
	Ne                 // rejects when field == v
	Type               // rejects when JSON type != t
)

// JSONType mirrors gjson.Type for the Type rule's target.
type JSONType = gjson.Type

// Rule is one validation rule over a named field of a node's incoming
// JSON (spec §4.1 table).
type Rule struct {
	Field  string
	Kind   RuleKind
	Target any // float64 for Ge/Gt/Le/Lt/Ne, gjson.Type for Type
}

// floatTolerance is the absolute tolerance used for "unchanged" float
// comparisons in apply (spec §4.1, design note: do not rely on bit-exact
// equality).
const floatTolerance = 1e-8

func floatsEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}

// Check evaluates r against the named field of doc (a JSON object). It
// returns nil when the field is absent (unknown/omitted fields are
// ignored silently per spec §7.3) or when the rule is satisfied, and a
// *lifecycle.Error describing the violation otherwise.
func (r Rule) Check(doc []byte) *lifecycle.Error {
	var res gjson.Result
	if r.Field == "" {
		res = gjson.ParseBytes(doc)
	} else {
		res = gjson.GetBytes(doc, r.Field)
	}
	if !res.Exists() {
		return nil
	}
	switch r.Kind {
	case Type:
		want, _ := r.Target.(gjson.Type)
		if res.Type != want {
			return lifecycle.New(lifecycle.INVALID_ARGUMENT, "%s has wrong type", r.Field)
		}
		return nil
	}
	target, ok := r.Target.(float64)
	if !ok {
		return lifecycle.New(lifecycle.INVALID_ARGUMENT, "%s: invalid rule target", r.Field)
	}
	v := res.Float()
	switch r.Kind {
	case Ge:
		if v < target {
			return lifecycle.New(lifecycle.OUT_OF_RANGE, "%s must be >= %v", r.Field, target)
		}
	case Gt:
		if v <= target {
			return lifecycle.New(lifecycle.OUT_OF_RANGE, "%s must be > %v", r.Field, target)
		}
	case Le:
		if v > target {
			return lifecycle.New(lifecycle.OUT_OF_RANGE, "%s must be <= %v", r.Field, target)
		}
	case Lt:
		if v >= target {
			return lifecycle.New(lifecycle.OUT_OF_RANGE, "%s must be < %v", r.Field, target)
		}
	case Ne:
		if floatsEqual(v, target) {
			return lifecycle.New(lifecycle.OUT_OF_RANGE, "%s must not equal %v", r.Field, target)
		}
	default:
		return lifecycle.New(lifecycle.INTERNAL, "%s: unknown rule kind %d", r.Field, r.Kind)
	}
	return nil
}

// CrossFieldRule validates a relationship between two fields of the same
// document (e.g. min_exposure_time <= max_exposure_time), which a single
// Rule can't express since it only names one field.
type CrossFieldRule struct {
	FieldA, FieldB string
	Message        string
	Violates       func(a, b float64) bool
}

// Check evaluates the cross-field relationship when both fields are
// present in doc.
func (r CrossFieldRule) Check(doc []byte) *lifecycle.Error {
	a := gjson.GetBytes(doc, r.FieldA)
	b := gjson.GetBytes(doc, r.FieldB)
	if !a.Exists() || !b.Exists() {
		return nil
	}
	if r.Violates(a.Float(), b.Float()) {
		return lifecycle.New(lifecycle.INVALID_ARGUMENT, "%s", fmt.Sprintf(r.Message, r.FieldA, r.FieldB))
	}
	return nil
}
