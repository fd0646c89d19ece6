package dtdl

import (
	"context"
	"sync"

	"github.com/edgecore/wedge/lifecycle"
)

// CustomSettings is opaque JSON passed through to the user's OnConfigure
// callback (spec §3.1): the engine neither validates nor interprets its
// shape.
type CustomSettings struct {
	mu    sync.Mutex
	value []byte

	onConfigure func(ctx context.Context, value []byte) error
}

// NewCustomSettings constructs an empty custom_settings node, forwarding
// applied documents to onConfigure (may be nil).
func NewCustomSettings(onConfigure func(ctx context.Context, value []byte) error) *CustomSettings {
	return &CustomSettings{value: []byte("{}"), onConfigure: onConfigure}
}

func (c *CustomSettings) JSON() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.value...)
}

func (c *CustomSettings) Delete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = []byte("{}")
}

func (c *CustomSettings) InitializeValues(ctx context.Context) error { return nil }
func (c *CustomSettings) Verify(in []byte) *lifecycle.Error          { return nil }

func (c *CustomSettings) Apply(ctx context.Context, in []byte) *lifecycle.Error {
	if in == nil {
		return nil
	}
	c.mu.Lock()
	c.value = append([]byte(nil), in...)
	c.mu.Unlock()
	if c.onConfigure != nil {
		if err := c.onConfigure(ctx, in); err != nil {
			return lifecycle.New(lifecycle.FAILED_PRECONDITION, "onConfigure: %v", err)
		}
	}
	return nil
}
