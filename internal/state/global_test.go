package state_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/edomo/edomo/hardware/display/epd"
	"github.com/edomo/edomo/internal/state"
	state_new "github.com/edomo/edomo/internal/state/new"
	"github.com/edomo/edomo/log2"
	tele_api "github.com/edomo/edomo/tele"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Upstream on closed local port: every query fails fast, cycle must still
// render and compute sleep.
func TestControllerOfflineCycle(t *testing.T) {
	t.Parallel()

	ctx, g := state_new.NewTestContext(t, "test", `
upstream {
	host = "127.0.0.1"
	port = 1
	timeout_sec = 1
}
cycle { interval_sec = 60 }`)
	assert.Equal(t, g, state.GetGlobal(ctx))

	ctrl, err := g.Controller()
	require.NoError(t, err)
	d := ctrl.RunCycle(ctx)
	assert.True(t, d > 0 && d <= time.Minute, "sleep=%v", d)

	dev, err := g.Display()
	require.NoError(t, err)
	mock := dev.(*epd.Mock)
	ops := mock.Ops()
	require.NotEmpty(t, ops)
	assert.Equal(t, "init", ops[0])
	assert.Equal(t, "sleep", ops[len(ops)-1])
	assert.Contains(t, strings.Join(ops, ";"), "display")

	assert.True(t, g.StopWait(time.Second))
	assert.Equal(t, "close", mock.Ops()[len(mock.Ops())-1])
}

func TestGlobalInitInvalid(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	ctx, g := state_new.NewContext(log, tele_api.Noop{})
	config, err := state.ReadConfig(log, state.NewMockFullReader(map[string]string{
		"main": `display { driver = "lcd" }`,
	}), "main")
	require.NoError(t, err)
	err = g.Init(ctx, config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display.driver")
}

func TestGetGlobalMissing(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { state.GetGlobal(context.Background()) })
}
