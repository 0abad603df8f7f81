package epd

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/edomo/edomo/hardware/display/paint"
	"github.com/juju/errors"
)

// Mock keeps controller RAM in memory and records every operation.
type Mock struct {
	mu     sync.Mutex
	ram    *paint.Bitmap
	shown  *paint.Bitmap
	ops    []string
	asleep bool

	// Fail makes operation with given name return the error.
	Fail map[string]error
}

var _ Device = &Mock{}

func NewMock(size image.Point) *Mock {
	m := &Mock{
		ram:    paint.New(size.X, size.Y),
		shown:  paint.New(size.X, size.Y),
		asleep: true,
		Fail:   make(map[string]error),
	}
	m.ram.Clear(paint.White)
	m.shown.Clear(paint.White)
	return m
}

func (m *Mock) Bounds() image.Rectangle { return m.ram.Bounds() }
func (m *Mock) Close() error            { return m.op("close", false) }

func (m *Mock) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.opLocked("init", false); err != nil {
		return err
	}
	m.asleep = false
	return nil
}

func (m *Mock) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.opLocked("clear", true); err != nil {
		return err
	}
	m.ram.Clear(paint.White)
	m.shown.Clear(paint.White)
	return nil
}

func (m *Mock) SetFrameMemory(img []byte, x, y, w, h int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.opLocked(fmt.Sprintf("frame x=%d y=%d w=%d h=%d", x, y, w, h), true); err != nil {
		return err
	}
	win, ok, err := clipWindow(m.ram.Bounds(), img, x, y, w, h)
	if err != nil || !ok {
		return err
	}
	n := win.rowBytes()
	for j := 0; j < win.rows(); j++ {
		dst := (win.y0+j)*m.ram.Stride + win.x0/8
		copy(m.ram.Pix[dst:dst+n], img[j*win.stride:j*win.stride+n])
	}
	return nil
}

func (m *Mock) DisplayFrame() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.opLocked("display", true); err != nil {
		return err
	}
	copy(m.shown.Pix, m.ram.Pix)
	return nil
}

func (m *Mock) Sleep() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.opLocked("sleep", true); err != nil {
		return err
	}
	m.asleep = true
	return nil
}

// Ops returns operation log, frame writes include window.
func (m *Mock) Ops() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ops...)
}

// Image returns copy of what panel shows after last refresh.
func (m *Mock) Image() *paint.Bitmap {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := paint.New(m.shown.Width(), m.shown.Height())
	copy(b.Pix, m.shown.Pix)
	return b
}

func (m *Mock) String() string { return m.Image().String() }

func (m *Mock) op(name string, awake bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opLocked(name, awake)
}

func (m *Mock) opLocked(name string, awake bool) error {
	m.ops = append(m.ops, name)
	key := name
	if i := strings.IndexByte(name, ' '); i >= 0 {
		key = name[:i]
	}
	if err := m.Fail[key]; err != nil {
		return err
	}
	if awake && m.asleep {
		return errors.NotValidf("%s in deep sleep", key)
	}
	return nil
}
