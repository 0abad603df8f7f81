package epd

import (
	"image"
	"io"
	"time"

	"github.com/edomo/edomo/helpers"
	"github.com/edomo/edomo/log2"
	"github.com/juju/errors"
	gpio "github.com/temoto/gpio-cdev-go"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

const (
	DefaultSpiSpeed    = 2 * physic.MegaHertz
	DefaultBusyTimeout = 5 * time.Second
	SSD1681Width       = 200
	SSD1681Height      = 200

	busyPoll = 10 * time.Millisecond
	// spidev default bufsiz is 4096, stay well below
	spiChunk = 1024
)

// SSD1681 commands
const (
	cmdDriverOutput   = 0x01
	cmdDeepSleep      = 0x10
	cmdDataEntry      = 0x11
	cmdSoftReset      = 0x12
	cmdTempSensor     = 0x18
	cmdMasterActivate = 0x20
	cmdUpdateControl2 = 0x22
	cmdWriteRAM       = 0x24
	cmdWriteRAMRed    = 0x26
	cmdBorder         = 0x3c
	cmdRAMXRange      = 0x44
	cmdRAMYRange      = 0x45
	cmdRAMXCounter    = 0x4e
	cmdRAMYCounter    = 0x4f
)

type Config struct {
	SpiBus      string
	SpiMode     int
	SpiSpeed    string
	PinChip     string
	PinDC       uint32
	PinRST      uint32
	PinBusy     uint32
	BusyTimeout time.Duration

	testhw *hardware
}

type hardware struct {
	spiTx   SpiTxFunc    // used
	outputs gpio.Lineser // DC, RST
	busy    gpio.Lineser
	delay   func(time.Duration)

	spiPort  spi.PortCloser // only for resource cleanup
	gpioChip gpio.Chiper    // only for resource cleanup
}
type SpiTxFunc func(send, recv []byte) error

func (h *hardware) open(c *Config) error {
	if c.testhw != nil {
		*h = *c.testhw
		if h.delay == nil {
			h.delay = func(time.Duration) {}
		}
		return nil
	}
	h.delay = time.Sleep

	var err error
	if _, err = host.Init(); err != nil {
		return errors.Annotate(err, "periph/init")
	}

	h.spiPort, err = spireg.Open(c.SpiBus)
	if err != nil {
		return errors.Annotatef(err, "SPI Open bus=%s", c.SpiBus)
	}
	spiSpeed := DefaultSpiSpeed
	if c.SpiSpeed != "" {
		if err = spiSpeed.Set(c.SpiSpeed); err != nil {
			return errors.Annotate(err, "SPI speed parse")
		}
	}
	var spiConn spi.Conn
	spiConn, err = h.spiPort.Connect(spiSpeed, spi.Mode(c.SpiMode), 8)
	if err != nil {
		return errors.Annotate(err, "SPI Connect")
	}
	h.spiTx = spiConn.Tx

	h.gpioChip, err = gpio.Open(c.PinChip, "edomo")
	if err != nil {
		return errors.Annotatef(err, "gpio open chip=%s", c.PinChip)
	}
	h.outputs, err = h.gpioChip.OpenLines(gpio.GPIOHANDLE_REQUEST_OUTPUT, "edomo-epd", c.PinDC, c.PinRST)
	if err != nil {
		return errors.Annotatef(err, "gpio output lines dc=%d rst=%d", c.PinDC, c.PinRST)
	}
	h.busy, err = h.gpioChip.OpenLines(gpio.GPIOHANDLE_REQUEST_INPUT, "edomo-epd", c.PinBusy)
	if err != nil {
		return errors.Annotatef(err, "gpio input line busy=%d", c.PinBusy)
	}
	return nil
}

func (h *hardware) Close() error {
	closers := []io.Closer{
		h.spiPort,
		h.outputs,
		h.busy,
		h.gpioChip,
	}
	errs := make([]error, len(closers))
	for i, c := range closers {
		if c != nil {
			errs[i] = c.Close()
		}
	}
	return helpers.FoldErrors(errs)
}

// SSD1681 is 1.54" 200x200 e-paper controller (Waveshare V2 modules).
type SSD1681 struct {
	c      Config
	hw     hardware
	log    *log2.Log
	bounds image.Rectangle
	setDC  gpio.LineSetFunc
	setRST gpio.LineSetFunc
}

var _ Device = &SSD1681{}

func NewSSD1681(c *Config, log *log2.Log) (*SSD1681, error) {
	d := &SSD1681{
		c:      *c,
		log:    log,
		bounds: image.Rect(0, 0, SSD1681Width, SSD1681Height),
	}
	if d.c.BusyTimeout == 0 {
		d.c.BusyTimeout = DefaultBusyTimeout
	}
	if err := d.hw.open(&d.c); err != nil {
		_ = d.hw.Close()
		return nil, errors.Annotate(err, "SSD1681 open")
	}
	d.setDC = d.hw.outputs.SetFunc(d.c.PinDC)
	d.setRST = d.hw.outputs.SetFunc(d.c.PinRST)
	return d, nil
}

func (d *SSD1681) Bounds() image.Rectangle { return d.bounds }
func (d *SSD1681) Close() error            { return d.hw.Close() }

// step is one command of fixed controller sequence.
type step struct {
	cmd  byte
	data []byte
	wait bool // poll BUSY after command
}

func (d *SSD1681) run(steps []step) error {
	for _, s := range steps {
		if err := d.command(s.cmd, s.data...); err != nil {
			return err
		}
		if s.wait {
			if err := d.waitIdle(); err != nil {
				return errors.Annotatef(err, "after command=%02x", s.cmd)
			}
		}
	}
	return nil
}

func (d *SSD1681) Init() error {
	if err := d.reset(); err != nil {
		return errors.Annotate(err, "SSD1681 init")
	}
	w, h := d.bounds.Dx(), d.bounds.Dy()
	err := d.run([]step{
		{cmd: cmdSoftReset, wait: true},
		{cmd: cmdDriverOutput, data: []byte{byte((h - 1) & 0xff), byte((h - 1) >> 8), 0x00}},
		// x increment, y increment
		{cmd: cmdDataEntry, data: []byte{0x03}},
	})
	if err == nil {
		err = d.setArea(0, 0, w-1, h-1)
	}
	if err == nil {
		err = d.run([]step{
			{cmd: cmdBorder, data: []byte{0x05}},
			// internal temperature sensor
			{cmd: cmdTempSensor, data: []byte{0x80}},
			// load temperature and waveform
			{cmd: cmdUpdateControl2, data: []byte{0xb1}},
			{cmd: cmdMasterActivate, wait: true},
		})
	}
	if err == nil {
		err = d.setCursor(0, 0)
	}
	if err != nil {
		return errors.Annotate(err, "SSD1681 init")
	}
	d.log.Debugf("SSD1681 init done")
	return nil
}

func (d *SSD1681) Clear() error {
	w, h := d.bounds.Dx(), d.bounds.Dy()
	white := make([]byte, (w/8)*h)
	for i := range white {
		white[i] = 0xff
	}
	err := d.setArea(0, 0, w-1, h-1)
	if err == nil {
		err = d.setCursor(0, 0)
	}
	if err == nil {
		err = d.command(cmdWriteRAM, white...)
	}
	if err == nil {
		err = d.command(cmdWriteRAMRed, white...)
	}
	if err != nil {
		return errors.Annotate(err, "SSD1681 clear")
	}
	return d.DisplayFrame()
}

func (d *SSD1681) SetFrameMemory(img []byte, x, y, w, h int) error {
	win, ok, err := clipWindow(d.bounds, img, x, y, w, h)
	if err != nil {
		return errors.Annotate(err, "SSD1681 frame")
	}
	if !ok {
		return nil
	}
	n := win.rowBytes()
	buf := make([]byte, 0, n*win.rows())
	for j := 0; j < win.rows(); j++ {
		buf = append(buf, img[j*win.stride:j*win.stride+n]...)
	}
	err = d.setArea(win.x0, win.y0, win.x1, win.y1)
	if err == nil {
		err = d.setCursor(win.x0, win.y0)
	}
	if err == nil {
		err = d.command(cmdWriteRAM, buf...)
	}
	return errors.Annotatef(err, "SSD1681 frame x=%d y=%d", win.x0, win.y0)
}

func (d *SSD1681) DisplayFrame() error {
	err := d.run([]step{
		// full update: clock, analog, temperature, mode 1, waveform
		{cmd: cmdUpdateControl2, data: []byte{0xf7}},
		{cmd: cmdMasterActivate, wait: true},
	})
	return errors.Annotate(err, "SSD1681 display")
}

func (d *SSD1681) Sleep() error {
	if err := d.command(cmdDeepSleep, 0x01); err != nil {
		return errors.Annotate(err, "SSD1681 sleep")
	}
	d.hw.delay(200 * time.Millisecond)
	return nil
}

func (d *SSD1681) reset() error {
	for _, s := range []struct {
		v byte
		t time.Duration
	}{{1, 20 * time.Millisecond}, {0, 5 * time.Millisecond}, {1, 20 * time.Millisecond}} {
		if err := d.pin(d.setRST, s.v); err != nil {
			return errors.Annotate(err, "reset")
		}
		d.hw.delay(s.t)
	}
	return d.waitIdle()
}

func (d *SSD1681) setArea(x0, y0, x1, y1 int) error {
	if err := d.command(cmdRAMXRange, byte(x0>>3), byte(x1>>3)); err != nil {
		return err
	}
	return d.command(cmdRAMYRange, byte(y0), byte(y0>>8), byte(y1), byte(y1>>8))
}

func (d *SSD1681) setCursor(x, y int) error {
	if err := d.command(cmdRAMXCounter, byte(x>>3)); err != nil {
		return err
	}
	return d.command(cmdRAMYCounter, byte(y), byte(y>>8))
}

// command sends cmd with DC low, then data bytes with DC high.
func (d *SSD1681) command(cmd byte, data ...byte) error {
	if err := d.pin(d.setDC, 0); err != nil {
		return err
	}
	if err := d.hw.spiTx([]byte{cmd}, nil); err != nil {
		return errors.Annotatef(err, "SPI command=%02x", cmd)
	}
	if len(data) == 0 {
		return nil
	}
	if err := d.pin(d.setDC, 1); err != nil {
		return err
	}
	for len(data) > 0 {
		n := len(data)
		if n > spiChunk {
			n = spiChunk
		}
		if err := d.hw.spiTx(data[:n], nil); err != nil {
			return errors.Annotatef(err, "SPI command=%02x data", cmd)
		}
		data = data[n:]
	}
	return nil
}

func (d *SSD1681) pin(set gpio.LineSetFunc, v byte) error {
	set(v)
	return errors.Annotate(d.hw.outputs.Flush(), "gpio flush")
}

// waitIdle polls BUSY line, high means controller is busy.
func (d *SSD1681) waitIdle() error {
	deadline := time.Now().Add(d.c.BusyTimeout)
	for {
		hd, err := d.hw.busy.Read()
		if err != nil {
			return errors.Annotate(err, "gpio read busy")
		}
		if hd.Values[0] == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.Timeoutf("SSD1681 busy after %v", d.c.BusyTimeout)
		}
		d.hw.delay(busyPoll)
	}
}
