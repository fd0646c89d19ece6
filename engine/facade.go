package engine

import (
	"context"
	"errors"
	"time"

	"github.com/edgecore/wedge/export"
	"github.com/edgecore/wedge/sensor"
)

// frameTimeout is the getFrame deadline the façade waits per enabled
// channel (spec §4.6).
const frameTimeout = 5 * time.Second

// Facade is the sensor/export façade (C9): the callback.IO the engine
// hands to OnIterate, translating "pull a frame, dispatch its payload"
// into sensor.Driver and export.Dispatcher calls.
type Facade struct {
	ctx *Context
}

// NewFacade wraps ctx.
func NewFacade(ctx *Context) *Facade { return &Facade{ctx: ctx} }

func (f *Facade) portSettings() interface {
	InputTensorEnabled() bool
	MetadataEnabled() bool
} {
	return f.ctx.Model.CommonSettings().PortSettings()
}

func (f *Facade) InputTensorEnabled() bool { return f.portSettings().InputTensorEnabled() }
func (f *Facade) MetadataEnabled() bool    { return f.portSettings().MetadataEnabled() }

// SendInputTensor pulls one frame's inference-input-image channel and
// dispatches it to export.
func (f *Facade) SendInputTensor(ctx context.Context) (bool, error) {
	return f.send(ctx, sensor.ChannelInferenceInputImage, export.KindInputTensor)
}

// SendMetadata pulls one frame's inference-output channel and dispatches
// it to export.
func (f *Facade) SendMetadata(ctx context.Context) (bool, error) {
	return f.send(ctx, sensor.ChannelInferenceOutput, export.KindMetadata)
}

// send implements the per-channel pull/dispatch policy of spec §4.6:
// getFrame with a 5s timeout (timeout is non-fatal, other errors are
// not), subframe (0,0) means no valid data, metadata is only valid on
// the first subframe, and the frame is always released (I2) regardless
// of which path returns.
func (f *Facade) send(ctx context.Context, channelID sensor.ChannelID, kind export.Kind) (bool, error) {
	drv, stream, ok := f.ctx.StreamAccessor()
	if !ok {
		return false, nil
	}

	frame, err := drv.GetFrame(ctx, stream, frameTimeout)
	if err != nil {
		if errors.Is(err, sensor.ErrTimeout) {
			return false, nil
		}
		return false, err
	}
	defer drv.ReleaseFrame(ctx, frame)

	ch := frame.Channel(channelID)
	if ch == nil {
		return false, nil
	}
	sub := ch.Subframe
	if sub.Current == 0 && sub.Division == 0 {
		return false, nil
	}
	if kind == export.KindMetadata && sub.Current != 1 {
		return false, nil
	}

	props := export.Properties{Timestamp: ch.Raw.Timestamp, Current: sub.Current, Division: sub.Division}
	if kind == export.KindInputTensor && ch.Geometry != nil {
		props.Width = ch.Geometry.Width
		props.Height = ch.Geometry.Height
	}

	if err := f.ctx.Dispatcher.SendSync(ctx, kind, ch.Raw.Bytes, props); err != nil {
		return false, err
	}
	return true, nil
}
