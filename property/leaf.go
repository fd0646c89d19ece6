package property

import (
	"context"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/edgecore/wedge/lifecycle"
	"github.com/edgecore/wedge/sensor"
)

// StreamAccessor lets a sensor-backed leaf reach the currently-open
// stream without the property package owning engine lifetime concerns.
// It returns ok=false before Applying has opened the stream.
type StreamAccessor func() (driver sensor.Driver, stream sensor.Handle, ok bool)

// SensorLeaf is a Node whose JSON subtree is a flat object mapped to a
// single sensor property (spec §4.1 "Apply policy for leaf sensor-backed
// nodes"). Examples: auto_exposure {max_exposure_time, min_exposure_time},
// image_cropping {left, top, width, height}, white_balance_mode, frame_rate.
type SensorLeaf struct {
	mu sync.Mutex

	Name       string
	Key        sensor.PropertyKey
	Rules      []Rule
	CrossRules []CrossFieldRule
	Stream     StreamAccessor
	Notify     NotifyFunc

	value []byte // owned JSON object, e.g. {"max_exposure_time":30000,...}
}

// NewSensorLeaf constructs a leaf with the given initial (zero) value.
func NewSensorLeaf(name string, key sensor.PropertyKey, initial []byte, stream StreamAccessor, notify NotifyFunc) *SensorLeaf {
	if initial == nil {
		initial = []byte("{}")
	}
	return &SensorLeaf{Name: name, Key: key, Stream: stream, Notify: notify, value: append([]byte(nil), initial...)}
}

func (l *SensorLeaf) JSON() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]byte(nil), l.value...)
}

func (l *SensorLeaf) Delete() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value = []byte("{}")
}

func (l *SensorLeaf) InitializeValues(ctx context.Context) error {
	drv, stream, ok := l.strm()
	if !ok {
		return nil
	}
	v, err := drv.GetProperty(ctx, stream, l.Key)
	if err != nil {
		return err
	}
	b, ok := v.([]byte)
	if !ok || len(b) == 0 {
		return nil
	}
	l.mu.Lock()
	l.value = append([]byte(nil), b...)
	l.mu.Unlock()
	return nil
}

func (l *SensorLeaf) strm() (sensor.Driver, sensor.Handle, bool) {
	if l.Stream == nil {
		return nil, 0, false
	}
	return l.Stream()
}

// Verify checks every rule and cross-rule against in, stopping at the
// first violation (spec §7.2: verify is short-circuited at the first
// failure; siblings are still attempted at the apply stage).
func (l *SensorLeaf) Verify(in []byte) *lifecycle.Error {
	if in == nil {
		return nil
	}
	for _, r := range l.Rules {
		if err := r.Check(in); err != nil {
			return err
		}
	}
	for _, r := range l.CrossRules {
		if err := r.Check(in); err != nil {
			return err
		}
	}
	return nil
}

// Apply compares each field present in `in` to the current stored value;
// if any differs, it stages a merged object and attempts SetProperty
// once for the whole leaf (spec §4.1: one sensor property write per
// changed leaf, not per field).
func (l *SensorLeaf) Apply(ctx context.Context, in []byte) *lifecycle.Error {
	if in == nil {
		return nil
	}
	if verr := l.Verify(in); verr != nil {
		return verr
	}

	l.mu.Lock()
	current := append([]byte(nil), l.value...)
	l.mu.Unlock()

	changed := false
	merged := current
	gjson.ParseBytes(in).ForEach(func(key, val gjson.Result) bool {
		cur := gjson.GetBytes(current, key.String())
		if !cur.Exists() || !valuesEqual(cur, val) {
			changed = true
		}
		var err error
		merged, err = sjson.SetBytes(merged, key.String(), val.Value())
		if err != nil {
			changed = true
		}
		return true
	})

	if !changed {
		return nil
	}

	drv, stream, ok := l.strm()
	if ok {
		if err := drv.SetProperty(ctx, stream, l.Key, merged); err != nil {
			cause, msg := drv.LastError(ctx)
			return lifecycle.New(sensorCauseCode(cause), "%s: %s", l.Name, msg)
		}
	}

	l.mu.Lock()
	l.value = merged
	l.mu.Unlock()
	if l.Notify != nil {
		l.Notify()
	}
	return nil
}

func valuesEqual(a, b gjson.Result) bool {
	if a.Type != b.Type {
		return a.Raw == b.Raw
	}
	switch a.Type {
	case gjson.Number:
		return floatsEqual(a.Float(), b.Float())
	default:
		return a.Raw == b.Raw
	}
}

func sensorCauseCode(cause sensor.ErrorCause) lifecycle.ResultCode {
	switch cause {
	case sensor.CauseOutOfRange:
		return lifecycle.OUT_OF_RANGE
	case sensor.CauseInvalidCameraOperationParameter:
		return lifecycle.INVALID_ARGUMENT
	default:
		return lifecycle.FAILED_PRECONDITION
	}
}
