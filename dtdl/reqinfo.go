package dtdl

import (
	"context"
	"sync"

	"github.com/edgecore/wedge/lifecycle"
)

// ReqInfo holds the request envelope's opaque correlation id (spec
// §3.1). It stores whatever object the caller sent verbatim so that any
// extra fields survive round-trips unmodified (spec P4: "no other field
// of req_info is modified").
type ReqInfo struct {
	mu    sync.Mutex
	value []byte
}

// NewReqInfo constructs an empty req_info node.
func NewReqInfo() *ReqInfo {
	return &ReqInfo{value: []byte("{}")}
}

func (r *ReqInfo) JSON() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.value...)
}

func (r *ReqInfo) Delete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = []byte("{}")
}

func (r *ReqInfo) InitializeValues(ctx context.Context) error { return nil }

func (r *ReqInfo) Verify(in []byte) *lifecycle.Error { return nil }

func (r *ReqInfo) Apply(ctx context.Context, in []byte) *lifecycle.Error {
	if in == nil {
		return nil
	}
	r.mu.Lock()
	r.value = append([]byte(nil), in...)
	r.mu.Unlock()
	return nil
}
