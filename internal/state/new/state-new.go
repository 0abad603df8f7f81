// Sorry, workaround to import cycles.
package state_new

import (
	"context"
	"os"
	"testing"

	"github.com/edomo/edomo/hardware/display/epd"
	"github.com/edomo/edomo/internal/netlink"
	"github.com/edomo/edomo/internal/state"
	"github.com/edomo/edomo/log2"
	tele_api "github.com/edomo/edomo/tele"
	"github.com/temoto/alive/v2"
)

func NewContext(log *log2.Log, teler tele_api.Teler) (context.Context, *state.Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}

	g := &state.Global{
		Alive: alive.NewAlive(),
		Log:   log,
		Tele:  teler,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, state.ContextKey, g)

	return ctx, g
}

// NewTestContext: mock display, link always up, telemetry off.
func NewTestContext(t testing.TB, buildVersion string, confString string) (context.Context, *state.Global) {
	fs := state.NewMockFullReader(map[string]string{
		"test-inline": confString,
	})

	var log *log2.Log
	if os.Getenv("edomo_test_log_stderr") == "1" {
		log = log2.NewStderr(log2.LDebug) // useful with panics
	} else {
		log = log2.NewTest(t, log2.LDebug)
	}
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log, tele_api.Noop{})
	g.BuildVersion = buildVersion
	g.MustInit(ctx, state.MustReadConfig(log, fs, "test-inline"))

	g.Hardware.Display.Device = epd.NewMock(g.Config.Geometry().Display)
	g.Hardware.Link.Link = netlink.Always{}
	if _, err := g.Display(); err != nil {
		t.Fatal(err)
	}
	return ctx, g
}
