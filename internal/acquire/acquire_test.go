package acquire

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/edomo/edomo/helpers"
	"github.com/edomo/edomo/internal/domoticz"
	"github.com/edomo/edomo/internal/netlink"
	"github.com/edomo/edomo/internal/types"
	"github.com/edomo/edomo/log2"
	tele_api "github.com/edomo/edomo/tele"
	tele_config "github.com/edomo/edomo/tele/config"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLink struct {
	mu     sync.Mutex
	upErr  error
	events []string
}

func (l *fakeLink) Up(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, "up")
	return l.upErr
}
func (l *fakeLink) Down() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, "down")
	return nil
}

type fakeTele struct {
	link    *fakeLink
	reports []*tele_api.Status
}

func (f *fakeTele) Init(context.Context, *log2.Log, tele_config.Config) error { return nil }
func (f *fakeTele) Close()                                                    {}
func (f *fakeTele) Error(error)                                               {}
func (f *fakeTele) Report(ctx context.Context, s *tele_api.Status) error {
	f.link.mu.Lock()
	f.link.events = append(f.link.events, "report")
	f.link.mu.Unlock()
	f.reports = append(f.reports, s)
	return nil
}

const (
	respLiving  = `{"result":[{"Temp":21.5,"HumidityStatus":"Comfortable"}],"ServerTime":"2023-10-05 14:23:11","Sunrise":"07:45","Sunset":"19:02","status":"OK"}`
	respAir     = `{"result":[{"Data":"850 ppm","Quality":"Inferior"}],"status":"OK"}`
	respGarden  = `{"result":[{"Temp":12.3}],"status":"OK"}`
	respWeather = `{"result":[{"Data":"lichte wolkenvelden"}],"status":"OK"}`
)

func uri(rid int) string { return fmt.Sprintf("/json.htm?type=devices&rid=%d", rid) }

func previous() types.Readings {
	return types.Readings{
		InsideTemperature:  "19.0",
		InsideHumidity:     types.HumidityDry,
		AirQualityValue:    "400",
		AirQuality:         types.AirExcellent,
		OutsideTemperature: "5.0",
		OutsideWeather:     "regen",
		Weather:            types.WeatherRainy,
		ServerTime:         "09:00",
		Sunrise:            "07:40",
		Sunset:             "19:10",
	}
}

func testAcquirer(t *testing.T, routes map[string][]byte) (*Acquirer, *fakeLink, *fakeTele, *helpers.MockHTTP) {
	link := &fakeLink{}
	tl := &fakeTele{link: link}
	mock := &helpers.MockHTTP{Routes: routes}
	log := log2.NewTest(t, log2.LDebug)
	clock := time.Date(2023, 10, 5, 14, 23, 0, 0, time.UTC)
	a := &Acquirer{
		Client:  &domoticz.Client{Host: "192.168.0.40", Transport: mock, Log: log},
		Link:    link,
		Tele:    tl,
		Queries: DefaultQueries,
		Log:     log,
		now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	}
	return a, link, tl, mock
}

func TestAcquireAll(t *testing.T) {
	t.Parallel()

	a, link, tl, mock := testAcquirer(t, map[string][]byte{
		uri(167): []byte(respLiving),
		uri(168): []byte(respAir),
		uri(170): []byte(respGarden),
		uri(508): []byte(respWeather),
	})
	r, rep := a.Acquire(context.Background(), previous())

	assert.Equal(t, types.Readings{
		InsideTemperature:  "21.5",
		InsideHumidity:     types.HumidityComfortable,
		AirQualityValue:    "850",
		AirQuality:         types.AirInferior,
		OutsideTemperature: "12.3",
		OutsideWeather:     "lichte wolkenvelden",
		Weather:            types.WeatherPartlyCloudy,
		ServerTime:         "14:23",
		Sunrise:            "07:45",
		Sunset:             "19:02",
	}, r)
	assert.Equal(t, "inferieur", r.AirQuality.Label())
	assert.Equal(t, "comfortabel", r.InsideHumidity.Label())
	assert.NoError(t, rep.LinkErr)
	require.Len(t, rep.Queries, 4)
	for _, q := range rep.Queries {
		assert.True(t, q.OK(), "query=%s err=%v missing=%v", q.Name, q.Err, q.Missing)
	}
	assert.Equal(t, 4, rep.Succeeded())
	assert.True(t, rep.Finished.After(rep.Started))
	assert.Equal(t, []string{
		"http://192.168.0.40/json.htm?type=devices&rid=167",
		"http://192.168.0.40/json.htm?type=devices&rid=168",
		"http://192.168.0.40/json.htm?type=devices&rid=170",
		"http://192.168.0.40/json.htm?type=devices&rid=508",
	}, mock.Requests())
	assert.Equal(t, []string{"up", "report", "down"}, link.events)
	require.Len(t, tl.reports, 1)
	assert.Equal(t, "850", tl.reports[0].Readings.AirQualityValue)
	assert.Len(t, tl.reports[0].Queries, 4)
}

func TestAcquireLinkFailure(t *testing.T) {
	t.Parallel()

	a, link, tl, mock := testAcquirer(t, nil)
	link.upErr = errors.Annotate(netlink.ErrAssociation, "attempts=25")
	prev := previous()
	r, rep := a.Acquire(context.Background(), prev)
	assert.Equal(t, prev, r)
	assert.Equal(t, netlink.ErrAssociation, errors.Cause(rep.LinkErr))
	assert.Empty(t, rep.Queries)
	assert.Empty(t, mock.Requests())
	assert.Empty(t, tl.reports)
	assert.Equal(t, []string{"up", "down"}, link.events)
	assert.Contains(t, rep.String(), "link failed")
}

func TestAcquirePartial(t *testing.T) {
	t.Parallel()

	// air quality missing on server, garden answers without Temp,
	// living room lacks sunset
	a, link, _, _ := testAcquirer(t, map[string][]byte{
		uri(167): []byte(`{"result":[{"Temp":"22.0","HumidityStatus":"Wet"}],"ServerTime":"2023-10-05 06:01:59","Sunrise":"07:45"}`),
		uri(170): []byte(`{"result":[{"Humidity":80}],"status":"OK"}`),
		uri(508): []byte(`{"result":[{"Data":"bewolkt"}],"status":"OK"}`),
	})
	prev := previous()
	r, rep := a.Acquire(context.Background(), prev)

	expect := prev
	expect.InsideTemperature = "22.0"
	expect.InsideHumidity = types.HumidityWet
	expect.ServerTime = "06:01"
	expect.Sunrise = "07:45"
	expect.OutsideWeather = "bewolkt"
	expect.Weather = types.WeatherCloudy
	assert.Equal(t, expect, r)

	require.Len(t, rep.Queries, 4)
	assert.Equal(t, []string{"Sunset"}, rep.Queries[0].Missing)
	assert.Error(t, rep.Queries[1].Err)
	assert.Equal(t, "air_quality", rep.Queries[1].Name)
	assert.Equal(t, 168, rep.Queries[1].ID)
	assert.NoError(t, rep.Queries[2].Err)
	assert.Equal(t, []string{"Temp"}, rep.Queries[2].Missing)
	assert.True(t, rep.Queries[3].OK())
	assert.Equal(t, 3, rep.Succeeded())
	assert.Equal(t, []string{"up", "report", "down"}, link.events)
}

func TestClockMinutes(t *testing.T) {
	t.Parallel()

	cases := []struct{ input, expect string }{
		{"2023-10-05 14:23:11", "14:23"},
		{"14:23:11", "14:23"},
		{"", ""},
		{"x y", "y"},
	}
	for _, c := range cases {
		assert.Equal(t, c.expect, ClockMinutes(c.input), c.input)
	}
}

func TestLeadingToken(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "850", LeadingToken("850 ppm"))
	assert.Equal(t, "850", LeadingToken("850"))
	assert.Equal(t, "", LeadingToken(" ppm"))
}
