package dtdl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgecore/wedge/lifecycle"
)

// TestCommonSettingsRunningGuardRejectsGuardedFieldChange covers spec §8
// scenario S3: while RUNNING, a change to a guarded field (pq_settings,
// port_settings, codec_settings, number_of_inference_per_message) is
// rejected wholesale with the exact message the original source emits.
func TestCommonSettingsRunningGuardRejectsGuardedFieldChange(t *testing.T) {
	c := NewCommonSettings(noStream, func() {}, nil)
	c.SetRunning(true)

	err := c.Apply(context.Background(), []byte(`{"number_of_inference_per_message":5}`))
	if assert.NotNil(t, err) {
		assert.Equal(t, lifecycle.FAILED_PRECONDITION, err.Code)
		assert.Equal(t, "Ignoring Port Settings and Pq Settings since state is Running.", err.Detail)
	}
}

// TestCommonSettingsRunningGuardAllowsUnchangedValue covers the
// tolerance-aware "would this actually change anything" check: resending
// the already-applied value must not trip the guard.
func TestCommonSettingsRunningGuardAllowsUnchangedValue(t *testing.T) {
	c := NewCommonSettings(noStream, func() {}, nil)
	assert.Nil(t, c.Apply(context.Background(), []byte(`{"number_of_inference_per_message":5}`)))

	c.SetRunning(true)
	err := c.Apply(context.Background(), []byte(`{"number_of_inference_per_message":5}`))
	assert.Nil(t, err)
}

// TestCommonSettingsProcessStateAndLogLevelAlwaysApply covers the part of
// spec §4.1 the RUNNING guard does not cover: process_state and
// log_level apply unconditionally even while RUNNING.
func TestCommonSettingsProcessStateAndLogLevelAlwaysApply(t *testing.T) {
	var gotLevel int64 = -1
	c := NewCommonSettings(noStream, func() {}, func(ctx context.Context, level int64) error {
		gotLevel = level
		return nil
	})
	c.SetRunning(true)

	err := c.Apply(context.Background(), []byte(`{"log_level":4}`))
	assert.Nil(t, err)
	assert.Equal(t, int64(4), gotLevel)
}
