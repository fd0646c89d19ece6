// Package logging constructs the process-wide logrus logger shared by the
// engine, the status surface and the telemetry heartbeat.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger at the given level ("debug", "info", "warn",
// ...; defaults to info on an unrecognized value), writing to stdout.
func New(level string) *logrus.Logger {
	logger := logrus.New()

	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	})
	logger.SetOutput(os.Stdout)
	return logger
}
