package state

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"time"

	"github.com/edomo/edomo/hardware/display/epd"
	"github.com/edomo/edomo/helpers"
	"github.com/edomo/edomo/internal/acquire"
	"github.com/edomo/edomo/internal/cycle"
	"github.com/edomo/edomo/internal/domoticz"
	"github.com/edomo/edomo/internal/layout"
	"github.com/edomo/edomo/internal/netlink"
	"github.com/edomo/edomo/log2"
	tele_config "github.com/edomo/edomo/tele/config"
	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
)

const (
	DriverSSD1681 = "ssd1681"
	DriverMock    = "mock"

	DefaultHost         = "192.168.0.40"
	DefaultPinChip      = "/dev/gpiochip0"
	DefaultPinDC        = 25
	DefaultPinRST       = 17
	DefaultPinBusy      = 24
	defaultProbeTimeout = 2 * time.Second
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Upstream struct {
		Host       string          `hcl:"host"`
		Port       int             `hcl:"port"`
		TimeoutSec int             `hcl:"timeout_sec"`
		Query      acquire.Queries `hcl:"query"`
	} `hcl:"upstream"`

	Network struct {
		RetryCount   int    `hcl:"retry_count"`
		RetryDelayMs int    `hcl:"retry_delay_ms"`
		UpCmd        string `hcl:"up_cmd"`
		DownCmd      string `hcl:"down_cmd"`
		// nil means true: dial upstream to check association
		Probe          *bool `hcl:"probe"`
		ProbeTimeoutMs int   `hcl:"probe_timeout_ms"`
	} `hcl:"network"`

	Display struct {
		Driver        string `hcl:"driver"`
		SpiBus        string `hcl:"spi_bus"`
		SpiMode       int    `hcl:"spi_mode"`
		SpiSpeed      string `hcl:"spi_speed"`
		PinChip       string `hcl:"pin_chip"`
		PinDC         int    `hcl:"pin_dc"`
		PinRST        int    `hcl:"pin_rst"`
		PinBusy       int    `hcl:"pin_busy"`
		BusyTimeoutMs int    `hcl:"busy_timeout_ms"`
	} `hcl:"display"`

	// Panels listed here override compiled-in geometry by name.
	Layout struct {
		FrameHeight int            `hcl:"frame_height"`
		Panels      []layout.Panel `hcl:"panel"`
	} `hcl:"layout"`

	Cycle struct {
		IntervalSec int `hcl:"interval_sec"`
	} `hcl:"cycle"`

	Tele tele_config.Config `hcl:"tele"`

	Log struct {
		Debug bool `hcl:"debug"`
	} `hcl:"log"`
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

// DefaultConfig is used as is without -config and as base for config files.
// Panels are not listed, layout.DefaultGeometry provides them.
func DefaultConfig() *Config {
	c := &Config{includeSeen: make(map[string]struct{})}
	c.Upstream.Host = DefaultHost
	c.Upstream.Port = 80
	c.Upstream.TimeoutSec = int(domoticz.DefaultTimeout / time.Second)
	c.Upstream.Query = acquire.DefaultQueries
	c.Network.RetryCount = netlink.DefaultRetryCount
	c.Network.RetryDelayMs = int(netlink.DefaultRetryDelay / time.Millisecond)
	c.Display.Driver = DriverSSD1681
	c.Display.PinChip = DefaultPinChip
	c.Display.PinDC = DefaultPinDC
	c.Display.PinRST = DefaultPinRST
	c.Display.PinBusy = DefaultPinBusy
	c.Cycle.IntervalSec = int(cycle.DefaultInterval / time.Second)
	c.Tele.TopicPrefix = "edomo"
	c.Tele.ClientID = "edomo"
	return c
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			*errs = append(*errs, errors.NotFoundf("config required name=%s path=%s", source.Name, norm))
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	if err = hcl.Unmarshal(bs, c); err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config unmarshal source=%s", source.Name))
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		if _, ok := c.includeSeen[fs.Normalize(include.Name)]; ok {
			*errs = append(*errs, errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name))
			continue
		}
		c.read(log, fs, include, errs)
	}
}

// ReadConfig applies sources in order on top of DefaultConfig.
// Relative includes resolve against directory of first name.
func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	c := DefaultConfig()
	if len(names) == 0 {
		return c, nil
	}
	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names = append([]string{name}, names[1:]...)
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	if err := helpers.FoldErrors(errs); err != nil {
		return nil, err
	}
	return c, nil
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}

func (c *Config) Validate() error {
	errs := make([]error, 0, 4)
	if c.Upstream.Host == "" {
		errs = append(errs, errors.NotValidf("config: upstream.host empty"))
	}
	if c.Cycle.IntervalSec <= 0 {
		errs = append(errs, errors.NotValidf("config: cycle.interval_sec=%d", c.Cycle.IntervalSec))
	}
	if c.Network.RetryCount <= 0 {
		errs = append(errs, errors.NotValidf("config: network.retry_count=%d", c.Network.RetryCount))
	}
	switch c.Display.Driver {
	case DriverSSD1681, DriverMock:
	default:
		errs = append(errs, errors.NotValidf("config: display.driver=%q, known: %s %s", c.Display.Driver, DriverSSD1681, DriverMock))
	}
	if err := c.Geometry().Validate(); err != nil {
		errs = append(errs, errors.Annotate(err, "config: layout"))
	}
	return helpers.FoldErrors(errs)
}

func (c *Config) CycleInterval() time.Duration {
	return helpers.IntSecondDefault(c.Cycle.IntervalSec, cycle.DefaultInterval)
}

func (c *Config) UpstreamAddr() string {
	port := c.Upstream.Port
	if port == 0 {
		port = 80
	}
	return net.JoinHostPort(c.Upstream.Host, strconv.Itoa(port))
}

func (c *Config) DomoticzClient(log *log2.Log) *domoticz.Client {
	return &domoticz.Client{
		Host:    c.Upstream.Host,
		Port:    c.Upstream.Port,
		Timeout: helpers.IntSecondDefault(c.Upstream.TimeoutSec, domoticz.DefaultTimeout),
		Log:     log,
	}
}

// Queries fills zero ids from defaults.
func (c *Config) Queries() acquire.Queries {
	q, d := c.Upstream.Query, acquire.DefaultQueries
	if q.LivingRoom == 0 {
		q.LivingRoom = d.LivingRoom
	}
	if q.AirQuality == 0 {
		q.AirQuality = d.AirQuality
	}
	if q.GardenTemp == 0 {
		q.GardenTemp = d.GardenTemp
	}
	if q.Weather == 0 {
		q.Weather = d.Weather
	}
	return q
}

func (c *Config) ProbeEnabled() bool {
	return c.Network.Probe == nil || *c.Network.Probe
}

func (c *Config) NetlinkConfig() netlink.Config {
	nc := netlink.Config{
		UpCmd:      c.Network.UpCmd,
		DownCmd:    c.Network.DownCmd,
		RetryCount: c.Network.RetryCount,
		RetryDelay: helpers.IntMillisecondDefault(c.Network.RetryDelayMs, netlink.DefaultRetryDelay),
	}
	if c.ProbeEnabled() {
		timeout := helpers.IntMillisecondDefault(c.Network.ProbeTimeoutMs, defaultProbeTimeout)
		nc.Probe = netlink.DialProbe(c.UpstreamAddr(), timeout)
	}
	return nc
}

func (c *Config) EpdConfig() *epd.Config {
	d := &c.Display
	return &epd.Config{
		SpiBus:      d.SpiBus,
		SpiMode:     d.SpiMode,
		SpiSpeed:    d.SpiSpeed,
		PinChip:     d.PinChip,
		PinDC:       uint32(d.PinDC),
		PinRST:      uint32(d.PinRST),
		PinBusy:     uint32(d.PinBusy),
		BusyTimeout: helpers.IntMillisecondDefault(d.BusyTimeoutMs, epd.DefaultBusyTimeout),
	}
}

// Geometry is layout.DefaultGeometry with configured panels replaced by name.
// Unknown names are kept so Validate reports them.
func (c *Config) Geometry() layout.Geometry {
	g := layout.DefaultGeometry()
	if c.Layout.FrameHeight != 0 {
		g.FrameHeight = c.Layout.FrameHeight
	}
	for _, p := range c.Layout.Panels {
		replaced := false
		for i := range g.Panels {
			if g.Panels[i].Name == p.Name {
				g.Panels[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			g.Panels = append(g.Panels, p)
		}
	}
	return g
}

func (c *Config) String() string {
	return fmt.Sprintf("upstream=%s display=%s interval=%v tele=%t",
		c.UpstreamAddr(), c.Display.Driver, c.CycleInterval(), c.Tele.Enabled)
}
