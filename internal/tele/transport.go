package tele

import (
	"context"

	"github.com/edomo/edomo/log2"
	tele_config "github.com/edomo/edomo/tele/config"
)

// Tele transport contract:
// - Init fails only with invalid config, ignores network errors
// - Publish connects when needed, delivers with QoS 1 within timeout or fails
// - connection is not kept between Publish calls, network goes down after cycle
type Transporter interface {
	Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config) error
	Publish(ctx context.Context, topic string, payload []byte) error
	Close()
}
