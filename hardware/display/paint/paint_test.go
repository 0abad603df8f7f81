package paint

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmapPixels(t *testing.T) {
	t.Parallel()

	b := New(12, 3)
	assert.Equal(t, 2, b.Stride)
	assert.Len(t, b.Pix, 6)

	b.Clear(White)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, b.Pix)
	b.SetPixel(0, 0, Black)
	b.SetPixel(9, 1, Black)
	b.SetPixel(100, 100, Black) // ignored
	b.SetPixel(-1, 0, Black)    // ignored
	assert.Equal(t, []byte{0x7f, 0xff, 0xff, 0xbf, 0xff, 0xff}, b.Pix)
	assert.Equal(t, Black, b.Pixel(0, 0))
	assert.Equal(t, White, b.Pixel(1, 0))
	assert.Equal(t, White, b.Pixel(50, 50))
	assert.Equal(t, []byte{0x7f, 0xff, 0xff, 0xbf}, b.Rows(2))
	assert.Len(t, b.Rows(10), 6)

	b.Clear(Black)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0}, b.Pix)
}

func TestBitmapDrawImage(t *testing.T) {
	t.Parallel()

	b := New(8, 2)
	b.Clear(White)
	draw.Draw(b, image.Rect(0, 0, 4, 1), image.NewUniform(color.Gray{0x20}), image.Point{}, draw.Src)
	assert.Equal(t, []byte{0x0f, 0xff}, b.Pix)
	draw.Draw(b, image.Rect(0, 0, 2, 1), image.NewUniform(color.White), image.Point{}, draw.Src)
	assert.Equal(t, []byte{0xcf, 0xff}, b.Pix)
}

func TestDrawBits(t *testing.T) {
	t.Parallel()

	b := New(16, 2)
	b.Clear(White)
	// 3x2 mask: X.X / .X.
	mask := []byte{0xa0, 0x40}
	b.DrawBits(8, 0, 3, 2, mask, Black)
	assert.Equal(t, "........#.#.....\n.........#......\n", b.String())

	// clear bits do not paint background
	b.Clear(Black)
	b.DrawBits(0, 0, 3, 2, mask, White)
	assert.Equal(t, White, b.Pixel(0, 0))
	assert.Equal(t, Black, b.Pixel(1, 0))
}

func TestFonts(t *testing.T) {
	t.Parallel()

	small := Basic7x13()
	assert.Equal(t, 7, small.Width)
	assert.Equal(t, 13, small.Height)
	assert.Equal(t, 35, small.TextWidth("12:34"))

	large, err := GoMono(24)
	require.NoError(t, err)
	medium, err := GoMono(13)
	require.NoError(t, err)
	assert.Equal(t, 13, medium.Ascent)
	assert.Equal(t, 16, medium.Height)
	assert.True(t, large.Width > medium.Width, "large=%d medium=%d", large.Width, medium.Width)
	assert.True(t, medium.Width > 0)
	// degree sign is one rune, two bytes
	assert.Equal(t, 5*medium.Width, medium.TextWidth("21.5°"))
}

func TestDrawString(t *testing.T) {
	t.Parallel()

	f := Basic7x13()
	b := New(40, 20)
	b.Clear(White)
	b.DrawString(3, 2, "88", f, Black)

	ink := image.Rectangle{}
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if b.Pixel(x, y) == Black {
				ink = ink.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	require.False(t, ink.Empty(), b.String())
	cell := image.Rect(3, 2, 3+f.TextWidth("88"), 2+f.Height)
	assert.True(t, ink.In(cell), "ink=%v cell=%v\n%s", ink, cell, b.String())
}
