package state

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/edomo/edomo/hardware/display/epd"
	"github.com/edomo/edomo/internal/acquire"
	"github.com/edomo/edomo/internal/cycle"
	"github.com/edomo/edomo/internal/icons"
	"github.com/edomo/edomo/internal/layout"
	"github.com/edomo/edomo/internal/netlink"
	"github.com/juju/errors"
)

type hardware struct {
	Display struct {
		once
		Device epd.Device
	}
	Link struct {
		once
		Link netlink.Link
	}
	composer struct {
		once
		c *layout.Composer
	}
}

func (h *hardware) close() error {
	if h.Display.done() && h.Display.Device != nil {
		return errors.Annotate(h.Display.Device.Close(), "display")
	}
	return nil
}

// Display is opened once. Device set before first call is used as is.
func (g *Global) Display() (epd.Device, error) {
	x := &g.Hardware.Display // short alias
	_ = x.do(func() error {
		if x.Device != nil {
			return nil
		}
		switch g.Config.Display.Driver {
		case DriverMock:
			x.Device = epd.NewMock(image.Pt(epd.SSD1681Width, epd.SSD1681Height))
			return nil
		case DriverSSD1681:
			d, err := epd.NewSSD1681(g.Config.EpdConfig(), g.Log)
			if err != nil {
				return errors.Annotate(err, "display ssd1681")
			}
			x.Device = d
			return nil
		}
		return errors.NotValidf("display driver=%q", g.Config.Display.Driver)
	})
	return x.Device, x.err
}

func (g *Global) Link() (netlink.Link, error) {
	x := &g.Hardware.Link
	_ = x.do(func() error {
		if x.Link != nil {
			return nil
		}
		p, err := netlink.NewPoller(g.Config.NetlinkConfig(), g.Log)
		if err != nil {
			return errors.Annotate(err, "network link")
		}
		x.Link = p
		return nil
	})
	return x.Link, x.err
}

func (g *Global) Composer() (*layout.Composer, error) {
	x := &g.Hardware.composer
	_ = x.do(func() error {
		dev, err := g.Display()
		if err != nil {
			return err
		}
		fonts, err := layout.DefaultFonts()
		if err != nil {
			return errors.Annotate(err, "fonts")
		}
		x.c, err = layout.NewComposer(g.Config.Geometry(), fonts, icons.NewSet(), dev, g.Log)
		return errors.Annotate(err, "layout")
	})
	return x.c, x.err
}

func (g *Global) Acquirer() (*acquire.Acquirer, error) {
	link, err := g.Link()
	if err != nil {
		return nil, err
	}
	return &acquire.Acquirer{
		Client:  g.Config.DomoticzClient(g.Log),
		Link:    link,
		Tele:    g.Tele,
		Queries: g.Config.Queries(),
		Log:     g.Log,
	}, nil
}

// Controller wires acquisition and rendering into cycle loop.
func (g *Global) Controller() (*cycle.Controller, error) {
	acq, err := g.Acquirer()
	if err != nil {
		return nil, err
	}
	comp, err := g.Composer()
	if err != nil {
		return nil, err
	}
	return &cycle.Controller{
		Acquirer: acq,
		Renderer: comp,
		Interval: g.Config.CycleInterval(),
		Log:      g.Log,
	}, nil
}

type once struct {
	sync.Mutex
	called uint32 // atomic bool
	err    error
}

func (o *once) done() bool {
	return atomic.LoadUint32(&o.called) == 1
}

func (o *once) do(f func() error) error {
	if o.done() { // fast path
		return o.err
	}
	o.Lock()
	defer o.Unlock()
	if o.done() {
		return o.err
	}
	o.err = f()
	atomic.StoreUint32(&o.called, 1)
	return o.err
}
