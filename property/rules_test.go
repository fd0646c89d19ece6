package property

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgecore/wedge/lifecycle"
)

func TestRuleGeLe(t *testing.T) {
	ge := Rule{Field: "x", Kind: Ge, Target: 1.0}
	assert.Nil(t, ge.Check([]byte(`{"x":1}`)))
	assert.NotNil(t, ge.Check([]byte(`{"x":0.5}`)))

	le := Rule{Field: "x", Kind: Le, Target: 2.0}
	assert.Nil(t, le.Check([]byte(`{"x":2}`)))
	assert.NotNil(t, le.Check([]byte(`{"x":2.1}`)))
}

func TestRuleMissingFieldIsIgnored(t *testing.T) {
	r := Rule{Field: "missing", Kind: Ge, Target: 1.0}
	assert.Nil(t, r.Check([]byte(`{"x":1}`)))
}

// TestRuleNeFloatTolerance exercises the 1e-8 tolerance used by Ne so that
// values within tolerance of the forbidden target are still rejected.
func TestRuleNeFloatTolerance(t *testing.T) {
	r := Rule{Field: "x", Kind: Ne, Target: 1.0}
	assert.NotNil(t, r.Check([]byte(`{"x":1.0000000001}`)))
	assert.Nil(t, r.Check([]byte(`{"x":1.1}`)))
}

func TestCrossFieldRule(t *testing.T) {
	r := CrossFieldRule{
		FieldA: "min", FieldB: "max",
		Message:  "%s must be <= %s",
		Violates: func(a, b float64) bool { return a > b },
	}
	err := r.Check([]byte(`{"min":10,"max":5}`))
	if assert.NotNil(t, err) {
		assert.Equal(t, lifecycle.INVALID_ARGUMENT, err.Code)
	}
	assert.Nil(t, r.Check([]byte(`{"min":1,"max":5}`)))
}
