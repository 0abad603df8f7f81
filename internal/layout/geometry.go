package layout

import (
	"image"
	"sort"

	"github.com/juju/errors"
)

// Panel names, each draws its own part of readings.
const (
	PanelIndoor  = "indoor"
	PanelAir     = "air"
	PanelOutside = "outside"
	PanelFooter  = "footer"
)

var panelNames = []string{PanelIndoor, PanelAir, PanelOutside, PanelFooter}

type Panel struct {
	Name    string `hcl:",key"`
	OffsetY int    `hcl:"offset"`
	Height  int    `hcl:"height"`
}

func (p Panel) rect(width int) image.Rectangle {
	return image.Rect(0, p.OffsetY, width, p.OffsetY+p.Height)
}

// Geometry places horizontal panels on the display.
// Every panel is drawn in the same off-screen frame buffer, one at a time.
type Geometry struct {
	Display     image.Point
	PanelWidth  int
	FrameHeight int
	Panels      []Panel
}

func DefaultGeometry() Geometry {
	return Geometry{
		Display:     image.Point{X: 200, Y: 200},
		PanelWidth:  200,
		FrameHeight: 48,
		Panels: []Panel{
			{Name: PanelIndoor, OffsetY: 0, Height: 48},
			{Name: PanelAir, OffsetY: 60, Height: 48},
			{Name: PanelOutside, OffsetY: 120, Height: 48},
			// 184+48 would run past bottom edge
			{Name: PanelFooter, OffsetY: 184, Height: 16},
		},
	}
}

func (g Geometry) Panel(name string) (Panel, bool) {
	for _, p := range g.Panels {
		if p.Name == name {
			return p, true
		}
	}
	return Panel{}, false
}

func (g Geometry) Validate() error {
	if g.Display.X <= 0 || g.Display.Y <= 0 {
		return errors.NotValidf("display size=%v", g.Display)
	}
	if g.PanelWidth <= 0 || g.PanelWidth > g.Display.X || g.PanelWidth%8 != 0 {
		return errors.NotValidf("panel width=%d display=%v (multiple of 8)", g.PanelWidth, g.Display)
	}
	if g.FrameHeight <= 0 {
		return errors.NotValidf("frame height=%d", g.FrameHeight)
	}
	screen := image.Rectangle{Max: g.Display}
	seen := make(map[string]bool, len(g.Panels))
	for _, p := range g.Panels {
		if !knownPanel(p.Name) {
			return errors.NotValidf("panel=%q, known panels: %v", p.Name, panelNames)
		}
		if seen[p.Name] {
			return errors.NotValidf("panel=%s duplicate", p.Name)
		}
		seen[p.Name] = true
		if p.Height <= 0 || p.OffsetY < 0 {
			return errors.NotValidf("panel=%s offset=%d height=%d", p.Name, p.OffsetY, p.Height)
		}
		if p.Height > g.FrameHeight {
			return errors.NotValidf("panel=%s height=%d taller than frame buffer=%d", p.Name, p.Height, g.FrameHeight)
		}
		if !p.rect(g.PanelWidth).In(screen) {
			return errors.NotValidf("panel=%s %v outside display %v", p.Name, p.rect(g.PanelWidth), screen)
		}
	}
	for _, name := range panelNames {
		if !seen[name] {
			return errors.NotFoundf("panel=%s", name)
		}
	}

	sorted := append([]Panel(nil), g.Panels...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OffsetY < sorted[j].OffsetY })
	for i := 1; i < len(sorted); i++ {
		a, b := sorted[i-1], sorted[i]
		if a.OffsetY+a.Height > b.OffsetY {
			return errors.NotValidf("panel=%s overlaps panel=%s", a.Name, b.Name)
		}
	}
	return nil
}

func knownPanel(name string) bool {
	for _, n := range panelNames {
		if n == name {
			return true
		}
	}
	return false
}
