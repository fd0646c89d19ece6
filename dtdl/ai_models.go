package dtdl

import (
	"context"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/edgecore/wedge/lifecycle"
)

// MaxAIModels is the largest number of ai_models entries the document may
// carry (spec §3.1, N=4).
const MaxAIModels = 4

var aiModelRequiredFields = []string{"name", "target", "url_path", "hash", "ai_model_bundle_id"}

// AIModels holds the ai_models list (spec §3.1). Fetching and installing
// the referenced bundle is a data-processor-plugin concern (out of scope
// per spec §1); this node owns validation and the current list, and
// exposes Entries() so the engine can drive export.VerifyBundleHash
// against freshly-fetched bundles.
type AIModels struct {
	mu    sync.Mutex
	value []byte // raw JSON array
}

// Entry is one ai_models list element.
type Entry struct {
	Name             string
	Target           string
	URLPath          string
	Hash             string
	AIModelBundleID  string
}

// NewAIModels constructs an empty ai_models node.
func NewAIModels() *AIModels {
	return &AIModels{value: []byte("[]")}
}

func (a *AIModels) JSON() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]byte(nil), a.value...)
}

func (a *AIModels) Delete() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.value = []byte("[]")
}

func (a *AIModels) InitializeValues(ctx context.Context) error { return nil }

func (a *AIModels) Verify(in []byte) *lifecycle.Error {
	if in == nil {
		return nil
	}
	arr := gjson.ParseBytes(in)
	if !arr.IsArray() {
		return lifecycle.New(lifecycle.INVALID_ARGUMENT, "ai_models must be an array")
	}
	entries := arr.Array()
	if len(entries) > MaxAIModels {
		return lifecycle.New(lifecycle.OUT_OF_RANGE, "ai_models may contain at most %d entries", MaxAIModels)
	}
	for i, e := range entries {
		for _, f := range aiModelRequiredFields {
			if !e.Get(f).Exists() {
				return lifecycle.New(lifecycle.INVALID_ARGUMENT, "ai_models[%d] missing %s", i, f)
			}
		}
	}
	return nil
}

func (a *AIModels) Apply(ctx context.Context, in []byte) *lifecycle.Error {
	if verr := a.Verify(in); verr != nil {
		return verr
	}
	a.mu.Lock()
	a.value = append([]byte(nil), in...)
	a.mu.Unlock()
	return nil
}

// Entries returns the current ai_models list as typed structs.
func (a *AIModels) Entries() []Entry {
	a.mu.Lock()
	v := append([]byte(nil), a.value...)
	a.mu.Unlock()

	var out []Entry
	gjson.ParseBytes(v).ForEach(func(_, e gjson.Result) bool {
		out = append(out, Entry{
			Name:            e.Get("name").String(),
			Target:          e.Get("target").String(),
			URLPath:         e.Get("url_path").String(),
			Hash:            e.Get("hash").String(),
			AIModelBundleID: e.Get("ai_model_bundle_id").String(),
		})
		return true
	})
	return out
}
