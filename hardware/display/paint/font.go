package paint

import (
	"github.com/juju/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

// Font is fixed-pitch face with known cell size.
// Layout relies on every glyph advancing exactly Width pixels.
type Font struct {
	Name   string
	Face   font.Face
	Width  int
	Height int
	Ascent int
}

func NewFont(name string, face font.Face) (*Font, error) {
	adv, ok := face.GlyphAdvance('0')
	if !ok {
		return nil, errors.NotValidf("font=%s no glyph '0'", name)
	}
	for _, r := range "Mi.:" {
		if a, _ := face.GlyphAdvance(r); a != adv {
			return nil, errors.NotValidf("font=%s is not fixed-pitch rune=%q advance=%s expected=%s", name, r, a, adv)
		}
	}
	m := face.Metrics()
	return &Font{
		Name:   name,
		Face:   face,
		Width:  adv.Round(),
		Height: (m.Ascent + m.Descent).Ceil(),
		Ascent: m.Ascent.Round(),
	}, nil
}

// TextWidth is rendered width of s, fixed pitch means rune count times cell width.
func (f *Font) TextWidth(s string) int {
	n := 0
	for range s {
		n++
	}
	return n * f.Width
}

func Basic7x13() *Font {
	f, err := NewFont("basic7x13", basicfont.Face7x13)
	if err != nil {
		panic("code error basicfont: " + err.Error())
	}
	return f
}

// GoMono returns Go Mono face at size pixels (72 DPI), hinted so advances are integral.
func GoMono(size float64) (*Font, error) {
	tt, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, errors.Annotate(err, "gomono parse")
	}
	face, err := opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "gomono size=%v", size)
	}
	return NewFont("gomono", face)
}
