package dtdl

import (
	"github.com/tidwall/gjson"

	"github.com/edgecore/wedge/property"
)

// buildInferenceSettings constructs the inference_settings node: the
// bounded-iteration count the worker thread (C8) reads at RUNNING entry.
// A zero number_of_iterations means unbounded (spec §4.5).
func buildInferenceSettings() *property.ValueNode {
	return property.NewValueNode("inference_settings", []byte(`{"number_of_iterations":0}`), nil,
		property.Rule{Field: "number_of_iterations", Kind: property.Ge, Target: 0.0},
	)
}

// NumberOfIterations reads the currently-applied bound out of an
// inference_settings node's JSON.
func NumberOfIterations(node *property.ValueNode) int {
	return int(gjson.GetBytes(node.JSON(), "number_of_iterations").Int())
}
