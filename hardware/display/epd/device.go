// Package epd drives 1bpp e-paper panels.
package epd

import (
	"image"

	"github.com/juju/errors"
)

type Device interface {
	Init() error
	// Clear fills both controller RAM banks white and refreshes the panel.
	Clear() error
	// SetFrameMemory writes packed rows of img (MSB first, 1 is white) into
	// controller RAM at x,y. Nothing is visible until DisplayFrame.
	SetFrameMemory(img []byte, x, y, w, h int) error
	DisplayFrame() error
	// Sleep enters deep sleep, only Init wakes the panel.
	Sleep() error
	Bounds() image.Rectangle
	Close() error
}

// window is RAM area addressed by SetFrameMemory, end coordinates inclusive.
type window struct {
	x0, y0, x1, y1 int
	stride         int // bytes per source row
}

func (w window) rowBytes() int { return (w.x1 - w.x0 + 1) / 8 }
func (w window) rows() int     { return w.y1 - w.y0 + 1 }

// clipWindow applies controller addressing rules: x and width are rounded
// down to multiple of 8, area past panel edges is dropped.
func clipWindow(bounds image.Rectangle, img []byte, x, y, w, h int) (window, bool, error) {
	if x < 0 || y < 0 || w < 0 || h < 0 {
		return window{}, false, errors.NotValidf("frame x=%d y=%d w=%d h=%d", x, y, w, h)
	}
	x &^= 7
	w &^= 7
	win := window{x0: x, y0: y, x1: x + w - 1, y1: y + h - 1, stride: w / 8}
	if win.x1 >= bounds.Dx() {
		win.x1 = bounds.Dx() - 1
	}
	if win.y1 >= bounds.Dy() {
		win.y1 = bounds.Dy() - 1
	}
	if win.x1 < win.x0 || win.y1 < win.y0 {
		return win, false, nil
	}
	if need := (win.rows()-1)*win.stride + win.rowBytes(); len(img) < need {
		return win, false, errors.NotValidf("frame image len=%d need=%d", len(img), need)
	}
	return win, true, nil
}
