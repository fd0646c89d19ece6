package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangedDetectsNewAndDifferentFields(t *testing.T) {
	current := []byte(`{"a":1,"b":2}`)
	assert.True(t, Changed(current, []byte(`{"a":5}`)))
	assert.True(t, Changed(current, []byte(`{"c":1}`)))
	assert.False(t, Changed(current, []byte(`{"a":1}`)))
}

// TestChangedFloatTolerance mirrors the RUNNING-guard use of Changed: a
// field within floatTolerance of the stored value must not count as a
// change (spec §4.1).
func TestChangedFloatTolerance(t *testing.T) {
	current := []byte(`{"value":10.0}`)
	assert.False(t, Changed(current, []byte(`{"value":10.0000000001}`)))
	assert.True(t, Changed(current, []byte(`{"value":10.1}`)))
}

func TestChangedRecursesNestedObjects(t *testing.T) {
	current := []byte(`{"outer":{"inner":1}}`)
	assert.False(t, Changed(current, []byte(`{"outer":{"inner":1}}`)))
	assert.True(t, Changed(current, []byte(`{"outer":{"inner":2}}`)))
}
