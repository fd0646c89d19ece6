package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSendSyncRecordsDigestAndProps(t *testing.T) {
	d := NewInMemoryDispatcher(0, 0)
	props := Properties{Current: 1, Division: 2, Width: 640, Height: 480}

	err := d.SendSync(context.Background(), KindInputTensor, []byte("frame-1"), props)
	assert.Nil(t, err)

	sum := sha256.Sum256([]byte("frame-1"))
	want := hex.EncodeToString(sum[:])
	if assert.Len(t, d.Sent, 1) {
		assert.Equal(t, KindInputTensor, d.Sent[0].Kind)
		assert.Equal(t, want, d.Sent[0].Digest)
		assert.Equal(t, props, d.Sent[0].Props)
	}
}

// TestHasPendingOperationsReflectsInFlightSends covers the CoolingDown
// drain guarantee (spec §4.2.5): HasPendingOperations must report true
// while a SendSync call is still in flight from another goroutine.
func TestHasPendingOperationsReflectsInFlightSends(t *testing.T) {
	d := NewInMemoryDispatcher(0, 0)

	var wg sync.WaitGroup
	wg.Add(1)
	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		defer wg.Done()
		d.mu.Lock()
		d.pending++
		d.mu.Unlock()
		close(started)
		<-release
		d.mu.Lock()
		d.pending--
		d.mu.Unlock()
	}()

	<-started
	assert.True(t, d.HasPendingOperations())
	close(release)
	wg.Wait()
	assert.False(t, d.HasPendingOperations())
}

func TestSendSyncRespectsRateLimit(t *testing.T) {
	d := NewInMemoryDispatcher(2, 1)

	assert.Nil(t, d.SendSync(context.Background(), KindMetadata, []byte("a"), Properties{}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := d.SendSync(ctx, KindMetadata, []byte("b"), Properties{})
	assert.NotNil(t, err)
}

func TestVerifyBundleHash(t *testing.T) {
	payload := []byte("model-bytes")
	sum := sha256.Sum256(payload)
	good := hex.EncodeToString(sum[:])

	assert.Nil(t, VerifyBundleHash(payload, good))
	assert.NotNil(t, VerifyBundleHash(payload, "deadbeef"))
}
