// Package layout turns readings into panel drawings and pushes them to
// e-paper device.
package layout

import (
	"fmt"

	"github.com/edomo/edomo/hardware/display/epd"
	"github.com/edomo/edomo/hardware/display/paint"
	"github.com/edomo/edomo/helpers"
	"github.com/edomo/edomo/internal/icons"
	"github.com/edomo/edomo/internal/types"
	"github.com/edomo/edomo/internal/vocab"
	"github.com/edomo/edomo/log2"
	"github.com/juju/errors"
)

const (
	iconX  = 0
	textX  = icons.Size + 8
	valueY = 4
	labelY = 32

	degree = "°"
	ppm    = "ppm"
)

type FontSize uint8

const (
	Large FontSize = iota
	Medium
	Small
)

func (f FontSize) String() string {
	switch f {
	case Large:
		return "large"
	case Medium:
		return "medium"
	case Small:
		return "small"
	}
	return fmt.Sprintf("FontSize(%d)", f)
}

type Fonts struct {
	Large  *paint.Font
	Medium *paint.Font
	Small  *paint.Font
}

// DefaultFonts: Go Mono 24 and 13 pixels, basic 7x13.
// Medium cell is 16 rows: label line and footer both end on panel edge.
func DefaultFonts() (Fonts, error) {
	large, err := paint.GoMono(24)
	if err != nil {
		return Fonts{}, errors.Annotate(err, "large font")
	}
	medium, err := paint.GoMono(13)
	if err != nil {
		return Fonts{}, errors.Annotate(err, "medium font")
	}
	return Fonts{Large: large, Medium: medium, Small: paint.Basic7x13()}, nil
}

func (f Fonts) Get(size FontSize) *paint.Font {
	switch size {
	case Large:
		return f.Large
	case Medium:
		return f.Medium
	}
	return f.Small
}

type OpKind uint8

const (
	OpIcon OpKind = iota
	OpText
)

// Op is one drawing primitive, coordinates relative to panel.
type Op struct {
	Kind OpKind
	X, Y int
	Icon icons.Index
	Text string
	Font FontSize
}

func (op Op) String() string {
	if op.Kind == OpIcon {
		return fmt.Sprintf("icon %s at %d,%d", op.Icon, op.X, op.Y)
	}
	return fmt.Sprintf("text %q %s at %d,%d", op.Text, op.Font, op.X, op.Y)
}

// SuffixX is where text following text drawn at baseX in f starts.
func SuffixX(baseX int, f *paint.Font, text string) int {
	return baseX + f.TextWidth(text)
}

type Composer struct {
	geometry Geometry
	fonts    Fonts
	icons    *icons.Set
	dev      epd.Device
	log      *log2.Log
	buf      *paint.Bitmap
}

func NewComposer(g Geometry, fonts Fonts, set *icons.Set, dev epd.Device, log *log2.Log) (*Composer, error) {
	if err := g.Validate(); err != nil {
		return nil, errors.Annotate(err, "layout geometry")
	}
	if b := dev.Bounds(); g.Display.X > b.Dx() || g.Display.Y > b.Dy() {
		return nil, errors.NotValidf("layout display=%v device=%v", g.Display, b.Size())
	}
	return &Composer{
		geometry: g,
		fonts:    fonts,
		icons:    set,
		dev:      dev,
		log:      log,
		buf:      paint.New(g.PanelWidth, g.FrameHeight),
	}, nil
}

func (c *Composer) Geometry() Geometry { return c.geometry }

// Plan is display list of one panel. Pure function of readings.
func (c *Composer) Plan(panel string, r types.Readings) []Op {
	large := c.fonts.Large
	switch panel {
	case PanelIndoor:
		return []Op{
			{Kind: OpIcon, X: iconX, Y: 0, Icon: vocab.SelectHumidityIcon(r.InsideHumidity)},
			{Kind: OpText, X: textX, Y: valueY, Text: r.InsideTemperature, Font: Large},
			{Kind: OpText, X: SuffixX(textX, large, r.InsideTemperature), Y: valueY, Text: degree, Font: Medium},
			{Kind: OpText, X: textX, Y: labelY, Text: r.InsideHumidity.Label(), Font: Medium},
		}
	case PanelAir:
		return []Op{
			{Kind: OpIcon, X: iconX, Y: 0, Icon: vocab.SelectAirQualityIcon(r.AirQuality)},
			{Kind: OpText, X: textX, Y: valueY, Text: r.AirQualityValue, Font: Large},
			{Kind: OpText, X: SuffixX(textX, large, r.AirQualityValue), Y: valueY, Text: ppm, Font: Medium},
			{Kind: OpText, X: textX, Y: labelY, Text: r.AirQuality.Label(), Font: Medium},
		}
	case PanelOutside:
		return []Op{
			{Kind: OpIcon, X: iconX, Y: 0, Icon: vocab.WeatherIcon(r.Weather)},
			{Kind: OpText, X: textX, Y: valueY, Text: r.OutsideTemperature, Font: Large},
			{Kind: OpText, X: SuffixX(textX, large, r.OutsideTemperature), Y: valueY, Text: degree, Font: Medium},
			{Kind: OpText, X: textX, Y: labelY, Text: r.OutsideWeather, Font: Medium},
		}
	case PanelFooter:
		return []Op{
			{Kind: OpText, X: 0, Y: 0, Text: r.Sunrise, Font: Medium},
			{Kind: OpText, X: c.fonts.Medium.Width * 6, Y: 0, Text: r.Sunset, Font: Medium},
			{Kind: OpText, X: c.geometry.PanelWidth - c.fonts.Small.Width*5, Y: 3, Text: r.ServerTime, Font: Small},
		}
	}
	return nil
}

// Draw rasterizes ops into buf, which is cleared first.
func (c *Composer) Draw(buf *paint.Bitmap, ops []Op) {
	buf.Clear(paint.White)
	for _, op := range ops {
		switch op.Kind {
		case OpIcon:
			ic := c.icons.Get(op.Icon)
			buf.DrawBits(op.X, op.Y, ic.Width, ic.Height, ic.Bits, paint.Black)
		case OpText:
			if op.Text != "" {
				buf.DrawString(op.X, op.Y, op.Text, c.fonts.Get(op.Font), paint.Black)
			}
		}
	}
}

// Render draws all panels and refreshes display once.
// Panel is put to deep sleep even when drawing failed.
func (c *Composer) Render(r types.Readings) error {
	if err := c.dev.Init(); err != nil {
		return errors.Annotate(err, "render")
	}
	err := c.render(r)
	if errSleep := c.dev.Sleep(); errSleep != nil {
		err = helpers.FoldErrors([]error{err, errSleep})
	}
	return errors.Annotate(err, "render")
}

func (c *Composer) render(r types.Readings) error {
	if err := c.dev.Clear(); err != nil {
		return err
	}
	for _, p := range c.geometry.Panels {
		ops := c.Plan(p.Name, r)
		c.Draw(c.buf, ops)
		if c.log.Enabled(log2.LDebug) {
			c.log.Debugf("panel=%s ops=%v", p.Name, ops)
		}
		if err := c.dev.SetFrameMemory(c.buf.Rows(p.Height), 0, p.OffsetY, c.geometry.PanelWidth, p.Height); err != nil {
			return errors.Annotatef(err, "panel=%s", p.Name)
		}
	}
	return c.dev.DisplayFrame()
}
