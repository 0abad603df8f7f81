// Cycle modes: forever under systemd or single shot.
package run

import (
	"context"

	"github.com/edomo/edomo/cmd/edomo/subcmd"
	"github.com/edomo/edomo/internal/state"
	"github.com/juju/errors"
)

var RunMod = subcmd.Mod{Name: "run", Usage: "wake, acquire, render, sleep until stopped", Main: RunMain}
var OnceMod = subcmd.Mod{Name: "once", Usage: "one cycle without sleep", Main: OnceMain}

func RunMain(ctx context.Context, config *state.Config, args []string) error {
	g := state.GetGlobal(ctx)
	if err := g.Init(ctx, config); err != nil {
		return err
	}
	ctrl, err := g.Controller()
	if err != nil {
		return errors.Annotate(err, "run")
	}
	ctrl.Notify = subcmd.SdNotify
	g.Log.Infof("run interval=%v", ctrl.Interval)
	ctrl.Loop(ctx, g.Alive, nil)
	return nil
}

func OnceMain(ctx context.Context, config *state.Config, args []string) error {
	g := state.GetGlobal(ctx)
	if err := g.Init(ctx, config); err != nil {
		return err
	}
	ctrl, err := g.Controller()
	if err != nil {
		return errors.Annotate(err, "once")
	}
	ctrl.RunCycle(ctx)
	g.Log.Infof("once readings %s", ctrl.Readings().String())
	return nil
}
