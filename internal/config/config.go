// Package config loads the static process configuration (sensor stream
// key, transport endpoint, default log level) the edge application needs
// at startup, before the state machine can run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide static configuration (spec §1 ambient scope).
type Config struct {
	// StreamKey identifies which sensor stream to open at Applying entry
	// (spec §4.2.2).
	StreamKey string `yaml:"stream_key"`
	// TransportURL is the companion WS endpoint transport.WebSocketClient
	// dials, when a real transport is wired instead of the in-process
	// mock.
	TransportURL string `yaml:"transport_url"`
	// LogLevel is the logrus level name applied before the first
	// common_settings.log_level update arrives.
	LogLevel string `yaml:"log_level"`
	// TelemetryIntervalSeconds is the cron interval the heartbeat runs at.
	TelemetryIntervalSeconds int `yaml:"telemetry_interval_seconds"`
	// StatusAddr is the listen address for the httpapi status surface.
	StatusAddr string `yaml:"status_addr"`
	// ExportRatePerSecond/ExportBurst bound the export dispatcher's token
	// bucket (export.NewInMemoryDispatcher).
	ExportRatePerSecond float64 `yaml:"export_rate_per_second"`
	ExportBurst         int     `yaml:"export_burst"`
}

// defaults mirrors a small local-dev deployment: in-process transport and
// export, a ten-second telemetry cadence, status on :8090.
func defaults() Config {
	return Config{
		StreamKey:                "default",
		LogLevel:                 "info",
		TelemetryIntervalSeconds: 10,
		StatusAddr:               ":8090",
		ExportRatePerSecond:      1000,
		ExportBurst:              16,
	}
}

// Load reads a YAML configuration file at path, filling any field the file
// omits from defaults(). A missing file is not an error: the process runs
// on defaults alone.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
