// Command edgeapp is the process entry point: it loads static
// configuration, wires the sensor driver, transport client and export
// dispatcher into an engine.Context, starts the status surface and
// telemetry heartbeat on their own goroutines, then runs the state
// machine's main loop until a graceful shutdown is requested.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgecore/wedge/callback"
	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/export"
	"github.com/edgecore/wedge/httpapi"
	"github.com/edgecore/wedge/internal/config"
	"github.com/edgecore/wedge/internal/logging"
	"github.com/edgecore/wedge/runloop"
	"github.com/edgecore/wedge/sensor"
	"github.com/edgecore/wedge/telemetry"
	"github.com/edgecore/wedge/transport"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)

	driver := sensor.NewMockDriver()
	client := wireTransport(cfg)
	dispatcher := export.NewInMemoryDispatcher(cfg.ExportRatePerSecond, cfg.ExportBurst)

	ectx := engine.New(engine.Deps{
		Driver:     driver,
		Transport:  client,
		Dispatcher: dispatcher,
		Callbacks:  callback.Set{},
		Logger:     logger,
		StreamKey:  cfg.StreamKey,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.Initialize(ctx); err != nil {
		logger.WithError(err).Fatal("edgeapp: transport initialize failed")
	}

	view := engine.NewView(ectx)
	status := httpapi.New(view, cfg.StatusAddr)
	go func() {
		if err := status.Start(ctx); err != nil {
			logger.WithError(err).Warn("edgeapp: status server exited")
		}
	}()

	heartbeat := telemetry.New(view, client, logger)
	interval := time.Duration(cfg.TelemetryIntervalSeconds) * time.Second
	if err := heartbeat.Start(ctx, interval); err != nil {
		logger.WithError(err).Warn("edgeapp: telemetry heartbeat failed to start")
	}
	defer heartbeat.Stop()

	runloop.Run(ctx, ectx)

	_ = client.Close(context.Background())
	os.Exit(0)
}

// wireTransport picks the WebSocket client when a transport_url is
// configured, otherwise the in-process mock (the out-of-the-box local/dev
// path, spec §1's scope boundary: production deployments bring their own
// transport binding).
func wireTransport(cfg config.Config) transport.Client {
	if cfg.TransportURL != "" {
		return transport.NewWebSocketClient(cfg.TransportURL)
	}
	return transport.NewMock()
}
