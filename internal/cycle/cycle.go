// Package cycle is the main loop: acquire, render, sleep for the rest of
// the interval.
package cycle

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/edomo/edomo/internal/types"
	"github.com/edomo/edomo/log2"
	"github.com/temoto/alive/v2"
)

const DefaultInterval = 5 * time.Minute

type Acquirer interface {
	Acquire(ctx context.Context, prev types.Readings) (types.Readings, types.AcquireReport)
}

type Renderer interface {
	Render(types.Readings) error
}

// Sleeper waits d or less, returns false when interrupted by stop request.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) bool
}

// AliveSleeper wakes early on Alive.Stop or context cancel.
type AliveSleeper struct{ Alive *alive.Alive }

func (s AliveSleeper) Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return s.Alive.IsRunning() && ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-s.Alive.StopChan():
		return false
	case <-ctx.Done():
		return false
	}
}

type Controller struct {
	Acquirer Acquirer
	Renderer Renderer
	Interval time.Duration
	Log      *log2.Log
	// Notify receives systemd notify state strings, may be nil.
	Notify func(state string) bool

	readings types.Readings
	now      func() time.Time
}

// SleepDuration is rest of interval after cycle took elapsed, within [0, interval].
// Negative elapsed (clock stepped back) counts as zero.
func SleepDuration(interval, elapsed time.Duration) time.Duration {
	if elapsed >= interval {
		return 0
	}
	if elapsed < 0 {
		return interval
	}
	return interval - elapsed
}

// Readings last shown, kept between cycles for fields upstream failed to update.
func (c *Controller) Readings() types.Readings { return c.readings }

// RunCycle always completes, errors are logged. Returns time to sleep.
func (c *Controller) RunCycle(ctx context.Context) time.Duration {
	now := c.now
	if now == nil {
		now = time.Now
	}
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	start := now()

	r, rep := c.Acquirer.Acquire(ctx, c.readings)
	c.readings = r
	c.Log.Infof("cycle acquire %s", rep.String())

	if err := c.Renderer.Render(r); err != nil {
		c.Log.Errorf("cycle render: %v", err)
	}

	elapsed := now().Sub(start)
	d := SleepDuration(interval, elapsed)
	c.Log.Debugf("cycle elapsed=%v sleep=%v", elapsed, d)
	return d
}

// Loop runs cycles until a is stopped. In-flight cycle completes, only
// sleep is interrupted.
func (c *Controller) Loop(ctx context.Context, a *alive.Alive, s Sleeper) {
	if s == nil {
		s = AliveSleeper{Alive: a}
	}
	c.notify(daemon.SdNotifyReady)
	for a.IsRunning() && ctx.Err() == nil {
		d := c.RunCycle(ctx)
		c.notify(daemon.SdNotifyWatchdog)
		if !s.Sleep(ctx, d) {
			break
		}
	}
	c.notify(daemon.SdNotifyStopping)
	c.Log.Infof("cycle loop stopped")
}

func (c *Controller) notify(state string) {
	if c.Notify != nil {
		c.Notify(state)
	}
}
