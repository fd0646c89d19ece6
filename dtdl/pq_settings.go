package dtdl

import (
	"github.com/edgecore/wedge/property"
	"github.com/edgecore/wedge/sensor"
)

// Sensor property keys pq_settings leaves map onto. Concrete values are
// opaque to the driver; only this package needs to agree with whatever
// Driver implementation is wired in.
const (
	keyCrop                     sensor.PropertyKey = "pq.crop"
	keyFlip                     sensor.PropertyKey = "pq.flip"
	keySize                     sensor.PropertyKey = "pq.size"
	keyDigitalZoom              sensor.PropertyKey = "pq.digital_zoom"
	keyAutoExposure             sensor.PropertyKey = "pq.auto_exposure"
	keyManualExposure           sensor.PropertyKey = "pq.manual_exposure"
	keyExposureMode             sensor.PropertyKey = "pq.exposure_mode"
	keyAutoWhiteBalance         sensor.PropertyKey = "pq.auto_white_balance"
	keyManualWhiteBalancePreset sensor.PropertyKey = "pq.manual_white_balance_preset"
	keyWhiteBalanceMode         sensor.PropertyKey = "pq.white_balance_mode"
	keyFrameRate                sensor.PropertyKey = "pq.frame_rate"
	keyGamma                    sensor.PropertyKey = "pq.gamma"
	keyImageRotation            sensor.PropertyKey = "pq.image_rotation"
	keyRegisterAccess           sensor.PropertyKey = "pq.register_access"
)

// buildPQSettings constructs the pq_settings composite (spec §3.1: crop,
// flip, size, digital zoom, exposure modes/params, white balance
// modes/params, frame rate, gamma, image rotation, register access
// array).
func buildPQSettings(stream property.StreamAccessor, notify property.NotifyFunc) *property.Composite {
	c := property.NewComposite("pq_settings")

	c.AddChild("camera_image_size", property.NewSensorLeaf("camera_image_size", keySize, []byte(`{"horizontal":2028,"vertical":1520}`), stream, notify))

	c.AddChild("camera_image_flip", property.NewSensorLeaf("camera_image_flip", keyFlip, []byte(`{"flip_horizontal":false,"flip_vertical":false}`), stream, notify))

	c.AddChild("digital_zoom", newLeafWithRules("digital_zoom", keyDigitalZoom, []byte(`{"magnification":1.0}`), stream, notify,
		[]property.Rule{{Field: "magnification", Kind: property.Ge, Target: 1.0}},
		nil,
	))

	crop := newLeafWithRules("image_cropping", keyCrop, []byte(`{"left":0,"top":0,"width":2028,"height":1520}`), stream, notify,
		[]property.Rule{
			{Field: "left", Kind: property.Ge, Target: 0.0},
			{Field: "top", Kind: property.Ge, Target: 0.0},
		},
		[]property.CrossFieldRule{
			{FieldA: "left", FieldB: "width", Message: "%s must be less than %s", Violates: func(a, b float64) bool { return a >= b }},
			{FieldA: "top", FieldB: "height", Message: "%s must be less than %s", Violates: func(a, b float64) bool { return a >= b }},
		},
	)
	c.AddChild("image_cropping", crop)

	autoExposure := newLeafWithRules("auto_exposure", keyAutoExposure, []byte(`{"max_exposure_time":33333,"min_exposure_time":33,"max_gain":24,"convergence_speed":5}`), stream, notify,
		[]property.Rule{
			{Field: "max_exposure_time", Kind: property.Ge, Target: 0.0},
			{Field: "min_exposure_time", Kind: property.Ge, Target: 0.0},
			{Field: "convergence_speed", Kind: property.Ge, Target: 1.0},
			{Field: "convergence_speed", Kind: property.Le, Target: 10.0},
		},
		[]property.CrossFieldRule{
			{FieldA: "min_exposure_time", FieldB: "max_exposure_time",
				Message:  "%s can not be greater than %s",
				Violates: func(a, b float64) bool { return a > b }},
		},
	)
	c.AddChild("auto_exposure", autoExposure)

	manualExposure := newLeafWithRules("manual_exposure", keyManualExposure, []byte(`{"exposure_time":33333,"gain":0}`), stream, notify,
		[]property.Rule{{Field: "exposure_time", Kind: property.Ge, Target: 0.0}, {Field: "gain", Kind: property.Ge, Target: 0.0}}, nil)
	c.AddChild("manual_exposure", manualExposure)

	c.AddChild("exposure_mode", newLeafWithRules("exposure_mode", keyExposureMode, []byte(`{"mode":"auto"}`), stream, notify, nil, nil))

	autoWB := newLeafWithRules("auto_white_balance", keyAutoWhiteBalance, []byte(`{"convergence_speed":5}`), stream, notify,
		[]property.Rule{{Field: "convergence_speed", Kind: property.Ge, Target: 1.0}, {Field: "convergence_speed", Kind: property.Le, Target: 10.0}}, nil)
	c.AddChild("auto_white_balance", autoWB)

	c.AddChild("manual_white_balance_preset", newLeafWithRules("manual_white_balance_preset", keyManualWhiteBalancePreset, []byte(`{"preset":"daylight"}`), stream, notify, nil, nil))
	c.AddChild("white_balance_mode", newLeafWithRules("white_balance_mode", keyWhiteBalanceMode, []byte(`{"mode":"auto"}`), stream, notify, nil, nil))

	c.AddChild("frame_rate", newLeafWithRules("frame_rate", keyFrameRate, []byte(`{"num":30,"denom":1}`), stream, notify,
		[]property.Rule{{Field: "num", Kind: property.Gt, Target: 0.0}, {Field: "denom", Kind: property.Gt, Target: 0.0}}, nil))

	c.AddChild("gamma", newLeafWithRules("gamma", keyGamma, []byte(`{"value":2.2}`), stream, notify,
		[]property.Rule{{Field: "value", Kind: property.Gt, Target: 0.0}}, nil))

	c.AddChild("image_rotation", newLeafWithRules("image_rotation", keyImageRotation, []byte(`{"degrees":0}`), stream, notify,
		[]property.Rule{{Field: "degrees", Kind: property.Ge, Target: 0.0}, {Field: "degrees", Kind: property.Lt, Target: 360.0}}, nil))

	c.AddChild("register_access", newLeafWithRules("register_access", keyRegisterAccess, []byte(`{"entries":[]}`), stream, notify, nil, nil))

	return c
}

func newLeafWithRules(name string, key sensor.PropertyKey, initial []byte, stream property.StreamAccessor, notify property.NotifyFunc, rules []property.Rule, cross []property.CrossFieldRule) *property.SensorLeaf {
	l := property.NewSensorLeaf(name, key, initial, stream, notify)
	l.Rules = rules
	l.CrossRules = cross
	return l
}
