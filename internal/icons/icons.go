// Package icons holds the 48x48 monochrome icon set.
// Bitmaps are row-major, MSB first, 1 bit per pixel, set bit is ink.
package icons

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
)

type Index uint8

const (
	Issue Index = iota
	Happy
	Normal
	Unhappy
	Alert
	Sunny
	SunnyCloudy
	Cloudy
	Rainy

	Count = int(Rainy) + 1
)

const Size = 48

var indexNames = [Count]string{"issue", "happy", "normal", "unhappy", "alert", "sunny", "sunny-cloudy", "cloudy", "rainy"}

func (i Index) String() string {
	if int(i) < Count {
		return indexNames[i]
	}
	return fmt.Sprintf("Index(%d)", i)
}

// Icon is immutable after Set construction.
type Icon struct {
	Index  Index
	Width  int
	Height int
	Bits   []byte
}

func (self *Icon) Stride() int { return (self.Width + 7) / 8 }

// Ink reports whether pixel is set.
func (self *Icon) Ink(x, y int) bool {
	if x < 0 || y < 0 || x >= self.Width || y >= self.Height {
		return false
	}
	return self.Bits[y*self.Stride()+x/8]&(0x80>>uint(x%8)) != 0
}

// FromImage thresholds img to 1bpp, dark pixels become ink.
func FromImage(index Index, img image.Image) *Icon {
	b := img.Bounds()
	icon := &Icon{Index: index, Width: b.Dx(), Height: b.Dy()}
	stride := icon.Stride()
	icon.Bits = make([]byte, stride*icon.Height)
	for y := 0; y < icon.Height; y++ {
		for x := 0; x < icon.Width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if (r+g+bl)/3 < 0x8000 {
				icon.Bits[y*stride+x/8] |= 0x80 >> uint(x%8)
			}
		}
	}
	return icon
}

type Set struct {
	icons [Count]*Icon
}

// NewSet renders all icons once.
func NewSet() *Set {
	s := &Set{}
	for i := 0; i < Count; i++ {
		dc := gg.NewContext(Size, Size)
		dc.SetRGB(1, 1, 1)
		dc.Clear()
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(3)
		painters[i](dc)
		s.icons[i] = FromImage(Index(i), dc.Image())
	}
	return s
}

// Get never returns nil, unknown index gives Issue icon.
func (s *Set) Get(i Index) *Icon {
	if int(i) >= Count {
		i = Issue
	}
	return s.icons[i]
}

var painters = [Count]func(dc *gg.Context){
	Issue: func(dc *gg.Context) {
		dc.DrawRoundedRectangle(4, 4, 40, 40, 6)
		dc.Stroke()
		dc.DrawLine(15, 15, 33, 33)
		dc.DrawLine(33, 15, 15, 33)
		dc.Stroke()
	},
	Happy: func(dc *gg.Context) {
		face(dc)
		dc.DrawArc(24, 26, 11, gg.Radians(20), gg.Radians(160))
		dc.Stroke()
	},
	Normal: func(dc *gg.Context) {
		face(dc)
		dc.DrawLine(15, 32, 33, 32)
		dc.Stroke()
	},
	Unhappy: func(dc *gg.Context) {
		face(dc)
		dc.DrawArc(24, 41, 11, gg.Radians(200), gg.Radians(340))
		dc.Stroke()
	},
	Alert: func(dc *gg.Context) {
		dc.MoveTo(24, 3)
		dc.LineTo(45, 43)
		dc.LineTo(3, 43)
		dc.ClosePath()
		dc.Stroke()
		dc.DrawLine(24, 17, 24, 31)
		dc.Stroke()
		dc.DrawCircle(24, 37, 2)
		dc.Fill()
	},
	Sunny: func(dc *gg.Context) {
		sun(dc, 24, 24, 9)
	},
	SunnyCloudy: func(dc *gg.Context) {
		sun(dc, 16, 16, 6)
		cloud(dc, 6, 20)
	},
	Cloudy: func(dc *gg.Context) {
		cloud(dc, 2, 12)
	},
	Rainy: func(dc *gg.Context) {
		cloud(dc, 2, 4)
		for _, x := range []float64{14, 24, 34} {
			dc.DrawLine(x, 34, x-4, 45)
		}
		dc.Stroke()
	},
}

func face(dc *gg.Context) {
	dc.DrawCircle(24, 24, 21)
	dc.Stroke()
	dc.DrawCircle(17, 18, 3)
	dc.DrawCircle(31, 18, 3)
	dc.Fill()
}

func sun(dc *gg.Context, cx, cy, r float64) {
	dc.DrawCircle(cx, cy, r)
	dc.Fill()
	for i := 0; i < 8; i++ {
		a := gg.Radians(float64(i) * 45)
		cos, sin := math.Cos(a), math.Sin(a)
		dc.DrawLine(cx+cos*(r+3), cy+sin*(r+3), cx+cos*(r+8), cy+sin*(r+8))
	}
	dc.Stroke()
}

// cloud is about 40x24 with top-left at x,y.
func cloud(dc *gg.Context, x, y float64) {
	dc.DrawCircle(x+12, y+13, 8)
	dc.DrawCircle(x+22, y+10, 10)
	dc.DrawCircle(x+32, y+14, 7)
	dc.DrawRoundedRectangle(x+4, y+12, 36, 10, 5)
	dc.Fill()
}
