package dtdl

import "github.com/edgecore/wedge/property"

// buildCodecSettings constructs the codec_settings node. The codec choice
// itself (format/bitrate) is opaque to the engine; only the RUNNING
// precondition guard (spec §4.1) cares whether it changed.
func buildCodecSettings() *property.ValueNode {
	return property.NewValueNode("codec_settings", []byte(`{"format":"h264","bitrate":0}`), nil)
}
