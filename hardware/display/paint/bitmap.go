// Package paint is off-screen 1bpp drawing surface for e-paper panels.
// Memory layout matches SSD1681 RAM: row-major, MSB first, bit 1 is white.
package paint

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

type Color uint8

const (
	Black Color = 0
	White Color = 1
)

func (c Color) RGBA() (r, g, b, a uint32) {
	if c == White {
		return 0xffff, 0xffff, 0xffff, 0xffff
	}
	return 0, 0, 0, 0xffff
}

var ColorModel = color.ModelFunc(func(c color.Color) color.Color {
	if x, ok := c.(Color); ok {
		return x
	}
	r, g, b, _ := c.RGBA()
	// luma, same weights as color.GrayModel
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 16
	if y >= 0x8000 {
		return White
	}
	return Black
})

// Bitmap implements draw.Image so stdlib and x/image drawers work on it.
type Bitmap struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

var _ draw.Image = &Bitmap{}

func New(width, height int) *Bitmap {
	stride := (width + 7) / 8
	return &Bitmap{
		Pix:    make([]byte, stride*height),
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
	}
}

func (b *Bitmap) Width() int                  { return b.Rect.Dx() }
func (b *Bitmap) Height() int                 { return b.Rect.Dy() }
func (b *Bitmap) Bounds() image.Rectangle     { return b.Rect }
func (b *Bitmap) ColorModel() color.Model     { return ColorModel }
func (b *Bitmap) At(x, y int) color.Color     { return b.Pixel(x, y) }
func (b *Bitmap) Set(x, y int, c color.Color) { b.SetPixel(x, y, ColorModel.Convert(c).(Color)) }

// Rows returns packed bytes of first n rows.
func (b *Bitmap) Rows(n int) []byte {
	if n > b.Height() {
		n = b.Height()
	}
	return b.Pix[:n*b.Stride]
}

func (b *Bitmap) Clear(c Color) {
	fill := byte(0x00)
	if c == White {
		fill = 0xff
	}
	for i := range b.Pix {
		b.Pix[i] = fill
	}
}

func (b *Bitmap) Pixel(x, y int) Color {
	if !(image.Point{x, y}.In(b.Rect)) {
		return White
	}
	i, mask := b.offset(x, y)
	if b.Pix[i]&mask != 0 {
		return White
	}
	return Black
}

// SetPixel silently ignores points outside, like the panel would.
func (b *Bitmap) SetPixel(x, y int, c Color) {
	if !(image.Point{x, y}.In(b.Rect)) {
		return
	}
	i, mask := b.offset(x, y)
	if c == White {
		b.Pix[i] |= mask
	} else {
		b.Pix[i] &^= mask
	}
}

func (b *Bitmap) offset(x, y int) (int, byte) {
	x -= b.Rect.Min.X
	y -= b.Rect.Min.Y
	return y*b.Stride + x/8, 0x80 >> uint(x%8)
}

// DrawBits paints set bits of a w*h MSB-first mask at x,y with color c.
// Clear bits leave the surface untouched.
func (b *Bitmap) DrawBits(x, y, w, h int, bits []byte, c Color) {
	stride := (w + 7) / 8
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			if bits[j*stride+i/8]&(0x80>>uint(i%8)) != 0 {
				b.SetPixel(x+i, y+j, c)
			}
		}
	}
}

// DrawString renders s with top-left corner of the first glyph cell at x,y.
func (b *Bitmap) DrawString(x, y int, s string, f *Font, c Color) {
	d := font.Drawer{
		Dst:  b,
		Src:  image.NewUniform(c),
		Face: f.Face,
		Dot:  fixed.P(x, y+f.Ascent),
	}
	d.DrawString(s)
}

// String is ASCII art, useful in test failure output.
func (b *Bitmap) String() string {
	sb := strings.Builder{}
	sb.Grow((b.Width() + 1) * b.Height())
	for y := b.Rect.Min.Y; y < b.Rect.Max.Y; y++ {
		for x := b.Rect.Min.X; x < b.Rect.Max.X; x++ {
			if b.Pixel(x, y) == Black {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
