// Package telemetry realizes the sendTelemetry transport boundary (spec
// §6.2) as a periodic heartbeat: every tick it reads a read-only view of
// the engine and pushes a batch of health entries, each batch tagged with
// a correlation id.
package telemetry

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/transport"
)

// Heartbeat drives periodic telemetry sends off a read-only engine.View.
type Heartbeat struct {
	view      engine.View
	transport transport.Client
	logger    *logrus.Logger
	cron      *cron.Cron
}

// New constructs a heartbeat that samples view and sends through client.
func New(view engine.View, client transport.Client, logger *logrus.Logger) *Heartbeat {
	return &Heartbeat{view: view, transport: client, logger: logger, cron: cron.New()}
}

// Start schedules the heartbeat at the given interval (minimum one
// second) and begins running it in the background. Call Stop to halt it.
func (h *Heartbeat) Start(ctx context.Context, interval time.Duration) error {
	if interval < time.Second {
		interval = time.Second
	}
	spec := "@every " + interval.String()
	_, err := h.cron.AddFunc(spec, func() { h.tick(ctx) })
	if err != nil {
		return err
	}
	h.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for any in-flight tick to finish.
func (h *Heartbeat) Stop() {
	<-h.cron.Stop().Done()
}

// tick samples the engine and sends one telemetry batch, tagged with a
// fresh correlation id so the cloud side can group the entries.
func (h *Heartbeat) tick(ctx context.Context) {
	correlationID := uuid.NewString()
	entries := []transport.TelemetryEntry{
		{CorrelationID: correlationID, Key: "state", Value: h.view.State().String()},
		{CorrelationID: correlationID, Key: "iteration_count", Value: strconv.FormatInt(h.view.IterationCount(), 10)},
		{CorrelationID: correlationID, Key: "last_result_code", Value: h.view.ResultCode().String()},
	}
	if detail := h.view.ResultDetail(); detail != "" {
		entries = append(entries, transport.TelemetryEntry{
			CorrelationID: correlationID, Key: "last_result_detail", Value: detail,
		})
	}

	err := h.transport.SendTelemetry(ctx, entries, nil)
	if err != nil && h.logger != nil {
		h.logger.WithError(err).WithField("correlation_id", correlationID).Warn("telemetry: send failed")
	}
}
