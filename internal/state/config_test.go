package state

import (
	"testing"
	"time"

	"github.com/edomo/edomo/internal/acquire"
	"github.com/edomo/edomo/internal/layout"
	"github.com/edomo/edomo/log2"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	type Case struct {
		name      string
		sources   map[string]string
		check     func(testing.TB, *Config)
		expectErr string
	}
	cases := []Case{
		{"empty", map[string]string{"main": ""}, func(t testing.TB, c *Config) {
			assert.Equal(t, DefaultHost, c.Upstream.Host)
			assert.Equal(t, "192.168.0.40:80", c.UpstreamAddr())
			assert.Equal(t, acquire.DefaultQueries, c.Queries())
			assert.Equal(t, 5*time.Minute, c.CycleInterval())
			assert.Equal(t, DriverSSD1681, c.Display.Driver)
			assert.True(t, c.ProbeEnabled())
			assert.False(t, c.Tele.Enabled)
			assert.Equal(t, layout.DefaultGeometry(), c.Geometry())
			assert.NoError(t, c.Validate())
		}, ""},

		{"upstream-partial", map[string]string{"main": `
upstream {
	host = "10.0.0.5"
	port = 8080
	query { weather = 600 }
}`}, func(t testing.TB, c *Config) {
			assert.Equal(t, "10.0.0.5:8080", c.UpstreamAddr())
			q := c.Queries()
			assert.Equal(t, 600, q.Weather)
			assert.Equal(t, 167, q.LivingRoom)
			assert.Equal(t, 10, c.Upstream.TimeoutSec)
			client := c.DomoticzClient(nil)
			assert.Equal(t, 10*time.Second, client.Timeout)
		}, ""},

		{"network", map[string]string{"main": `
network {
	retry_count = 3
	retry_delay_ms = 100
	up_cmd = "ifup wlan0"
	down_cmd = "ifdown wlan0"
	probe = false
}`}, func(t testing.TB, c *Config) {
			assert.False(t, c.ProbeEnabled())
			nc := c.NetlinkConfig()
			assert.Equal(t, 3, nc.RetryCount)
			assert.Equal(t, 100*time.Millisecond, nc.RetryDelay)
			assert.Equal(t, "ifup wlan0", nc.UpCmd)
			assert.Nil(t, nc.Probe)
		}, ""},

		{"display", map[string]string{"main": `
display {
	driver = "mock"
	spi_speed = "4MHz"
	pin_dc = 5
	busy_timeout_ms = 2000
}`}, func(t testing.TB, c *Config) {
			assert.Equal(t, DriverMock, c.Display.Driver)
			ec := c.EpdConfig()
			assert.Equal(t, "4MHz", ec.SpiSpeed)
			assert.Equal(t, uint32(5), ec.PinDC)
			assert.Equal(t, uint32(DefaultPinRST), ec.PinRST)
			assert.Equal(t, 2*time.Second, ec.BusyTimeout)
		}, ""},

		{"layout-override", map[string]string{"main": `
layout {
	panel "air" {
		offset = 56
		height = 48
	}
}`}, func(t testing.TB, c *Config) {
			g := c.Geometry()
			p, ok := g.Panel(layout.PanelAir)
			require.True(t, ok)
			assert.Equal(t, 56, p.OffsetY)
			assert.Len(t, g.Panels, 4)
			assert.NoError(t, c.Validate())
		}, ""},

		{"include", map[string]string{
			"main": `
include "local" {}
cycle { interval_sec = 60 }`,
			"local": `
tele {
	enable = true
	mqtt_broker = "tcp://broker:1883"
}`,
		}, func(t testing.TB, c *Config) {
			assert.Equal(t, time.Minute, c.CycleInterval())
			assert.True(t, c.Tele.Enabled)
			assert.Equal(t, "tcp://broker:1883", c.Tele.MqttBroker)
			assert.Equal(t, "edomo", c.Tele.TopicPrefix)
		}, ""},

		{"include-optional-missing", map[string]string{
			"main": `include "absent" { optional = true }`,
		}, nil, ""},

		{"include-required-missing", map[string]string{
			"main": `include "absent" {}`,
		}, nil, "config required name=absent"},

		{"include-loop", map[string]string{
			"main":  `include "other" {}`,
			"other": `include "main" {}`,
		}, nil, "config include loop: from=other include=main"},

		{"syntax", map[string]string{"main": `upstream {`}, nil, "config unmarshal source=main"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			log := log2.NewTest(t, log2.LDebug)
			config, err := ReadConfig(log, NewMockFullReader(c.sources), "main")
			if c.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), c.expectErr)
				return
			}
			require.NoError(t, err, errors.ErrorStack(err))
			if c.check != nil {
				c.check(t, config)
			}
		})
	}
}

func TestReadConfigNoNames(t *testing.T) {
	t.Parallel()

	c, err := ReadConfig(log2.NewTest(t, log2.LDebug), NewMockFullReader(nil))
	require.NoError(t, err)
	assert.NoError(t, c.Validate())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		input     string
		expectErr string
	}{
		{"interval", `cycle { interval_sec = -1 }`, "cycle.interval_sec=-1"},
		{"retry", `network { retry_count = -2 }`, "network.retry_count=-2"},
		{"driver", `display { driver = "lcd" }`, `display.driver="lcd"`},
		{"host", `upstream { host = "" }`, "upstream.host empty"},
		{"overlap", `
layout {
	panel "air" {
		offset = 20
		height = 48
	}
}`, "overlaps"},
		{"unknown-panel", `
layout {
	panel "clock" {
		offset = 0
		height = 10
	}
}`, `panel="clock"`},
		{"frame", `layout { frame_height = 16 }`, "taller than frame buffer"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			log := log2.NewTest(t, log2.LDebug)
			config, err := ReadConfig(log, NewMockFullReader(map[string]string{"main": c.input}), "main")
			require.NoError(t, err)
			err = config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.expectErr)
		})
	}
}
