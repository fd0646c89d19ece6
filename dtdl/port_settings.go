package dtdl

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/edgecore/wedge/lifecycle"
	"github.com/edgecore/wedge/property"
	"github.com/edgecore/wedge/sensor"
)

// keyChannelMask is the sensor property written after both input_tensor
// and metadata have been applied (spec §4.1 "port_settings special
// semantics").
const keyChannelMask sensor.PropertyKey = "sensor.channel_mask"

// PortSettings composes input_tensor and metadata, and after applying
// both translates their enabled flags into the stream's active-channel
// set (spec §4.1 table).
type PortSettings struct {
	*property.Composite

	inputTensor *property.ValueNode
	metadata    *property.ValueNode
	stream      property.StreamAccessor
}

func defaultPort() []byte {
	return []byte(`{"method":"","storage_name":"","endpoint":"","path":"","enabled":false}`)
}

// buildPortSettings constructs the port_settings node.
func buildPortSettings(stream property.StreamAccessor) *PortSettings {
	p := &PortSettings{Composite: property.NewComposite("port_settings"), stream: stream}
	p.inputTensor = property.NewValueNode("port_settings.input_tensor", defaultPort(), nil)
	p.metadata = property.NewValueNode("port_settings.metadata", defaultPort(), nil)
	p.AddChild("input_tensor", p.inputTensor)
	p.AddChild("metadata", p.metadata)
	return p
}

// InputTensorEnabled/MetadataEnabled report the currently-applied enabled
// flags, used by the façade to decide which channels to pull (spec
// §4.6).
func (p *PortSettings) InputTensorEnabled() bool {
	return gjson.GetBytes(p.inputTensor.JSON(), "enabled").Bool()
}

func (p *PortSettings) MetadataEnabled() bool {
	return gjson.GetBytes(p.metadata.JSON(), "enabled").Bool()
}

// Apply applies both children then translates their enabled pair into
// the channel-activation property (spec §4.1 mapping table).
func (p *PortSettings) Apply(ctx context.Context, in []byte) *lifecycle.Error {
	if in == nil {
		return nil
	}
	if err := p.Composite.Apply(ctx, in); err != nil {
		return err
	}

	metadataEnabled := p.MetadataEnabled()
	inputEnabled := p.InputTensorEnabled()

	var channels []sensor.ChannelID
	switch {
	case metadataEnabled && !inputEnabled:
		channels = []sensor.ChannelID{sensor.ChannelInferenceOutput}
	case !metadataEnabled && inputEnabled:
		channels = []sensor.ChannelID{sensor.ChannelInferenceInputImage}
	case metadataEnabled && inputEnabled:
		channels = []sensor.ChannelID{sensor.ChannelInferenceOutput, sensor.ChannelInferenceInputImage}
	default:
		return lifecycle.New(lifecycle.INVALID_ARGUMENT, "Neither input tensor or metadata are enabled")
	}

	if p.stream == nil {
		return nil
	}
	drv, stream, ok := p.stream()
	if !ok {
		return nil
	}
	if err := drv.SetProperty(ctx, stream, keyChannelMask, channels); err != nil {
		return lifecycle.New(lifecycle.FAILED_PRECONDITION, "port_settings: %v", err)
	}
	return nil
}
