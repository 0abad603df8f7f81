// Package tele is telemetry API: cycle status and errors published to MQTT.
package tele

import (
	"context"

	"github.com/edomo/edomo/log2"
	tele_config "github.com/edomo/edomo/tele/config"
)

// Teler interface Telemetry client, display side.
type Teler interface {
	Init(context.Context, *log2.Log, tele_config.Config) error
	Close()
	// Error buffers error text until next Report.
	Error(error)
	// Report publishes status with buffered errors. Network must be up.
	Report(ctx context.Context, s *Status) error
}
