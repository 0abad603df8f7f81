// Package acquire runs one acquisition window: link up, fixed sequence of
// upstream queries merged into previous readings, telemetry, link down.
package acquire

import (
	"context"
	"strings"
	"time"

	"github.com/edomo/edomo/internal/domoticz"
	"github.com/edomo/edomo/internal/netlink"
	"github.com/edomo/edomo/internal/types"
	"github.com/edomo/edomo/internal/vocab"
	"github.com/edomo/edomo/log2"
	tele_api "github.com/edomo/edomo/tele"
	"github.com/juju/errors"
)

// Device ids on the server.
type Queries struct {
	LivingRoom int `hcl:"living_room"`
	AirQuality int `hcl:"air_quality"`
	GardenTemp int `hcl:"garden_temp"`
	Weather    int `hcl:"weather"`
}

var DefaultQueries = Queries{
	LivingRoom: 167,
	AirQuality: 168,
	GardenTemp: 170,
	Weather:    508,
}

type Acquirer struct {
	Client  *domoticz.Client
	Link    netlink.Link
	Tele    tele_api.Teler
	Queries Queries
	Log     *log2.Log

	now func() time.Time
}

// step applies one response to readings and returns names of absent fields.
type step struct {
	name  string
	id    int
	apply func(r *types.Readings, resp *domoticz.Response) []string
}

func (a *Acquirer) steps() []step {
	return []step{
		{"living_room", a.Queries.LivingRoom, applyLivingRoom},
		{"air_quality", a.Queries.AirQuality, applyAirQuality},
		{"garden_temp", a.Queries.GardenTemp, applyGardenTemp},
		{"weather", a.Queries.Weather, applyWeather},
	}
}

// Acquire never fails as a whole. Fields of failed queries keep values
// from prev, outcome of every query is in the report.
func (a *Acquirer) Acquire(ctx context.Context, prev types.Readings) (r types.Readings, rep types.AcquireReport) {
	now := a.now
	if now == nil {
		now = time.Now
	}
	r = prev
	rep.Started = now()

	if err := a.Link.Up(ctx); err != nil {
		rep.LinkErr = err
		rep.Finished = now()
		a.Log.Error(errors.Annotate(err, "acquire"))
		if err := a.Link.Down(); err != nil {
			a.Log.Error(errors.Annotate(err, "acquire"))
		}
		return r, rep
	}

	s := a.Client.Session()
	defer func() {
		rep.Finished = now()
		rep.RxBytes = s.RxBytes()
		if err := a.Tele.Report(ctx, tele_api.NewStatus(r, rep)); err != nil {
			a.Log.Errorf("acquire tele report: %v", err)
		}
		s.Close()
		if err := a.Link.Down(); err != nil {
			a.Log.Error(errors.Annotate(err, "acquire"))
		}
	}()

	steps := a.steps()
	rep.Queries = make([]types.QueryResult, 0, len(steps))
	for _, st := range steps {
		q := types.QueryResult{Name: st.name, ID: st.id}
		resp, err := s.Device(ctx, st.id)
		if err != nil {
			q.Err = err
			a.Log.Error(errors.Annotatef(err, "query=%s", st.name))
		} else {
			q.Missing = st.apply(&r, resp)
			if len(q.Missing) != 0 {
				a.Log.Infof("query=%s missing fields=%s", st.name, strings.Join(q.Missing, ","))
			}
		}
		rep.Queries = append(rep.Queries, q)
	}
	a.Log.Debugf("acquire %s readings %s", rep.String(), r.String())
	return r, rep
}

func applyLivingRoom(r *types.Readings, resp *domoticz.Response) []string {
	var missing []string
	if v, ok := resp.Field("Temp"); ok {
		r.InsideTemperature = v
	} else {
		missing = append(missing, "Temp")
	}
	if v, ok := resp.Field("HumidityStatus"); ok {
		r.InsideHumidity = vocab.MapHumidityStatus(v)
	} else {
		missing = append(missing, "HumidityStatus")
	}
	if resp.ServerTime != "" {
		r.ServerTime = ClockMinutes(resp.ServerTime)
	} else {
		missing = append(missing, "ServerTime")
	}
	if resp.Sunrise != "" {
		r.Sunrise = resp.Sunrise
	} else {
		missing = append(missing, "Sunrise")
	}
	if resp.Sunset != "" {
		r.Sunset = resp.Sunset
	} else {
		missing = append(missing, "Sunset")
	}
	return missing
}

func applyAirQuality(r *types.Readings, resp *domoticz.Response) []string {
	var missing []string
	if v, ok := resp.Field("Data"); ok {
		r.AirQualityValue = LeadingToken(v)
	} else {
		missing = append(missing, "Data")
	}
	if v, ok := resp.Field("Quality"); ok {
		r.AirQuality = vocab.MapAirQuality(v)
	} else {
		missing = append(missing, "Quality")
	}
	return missing
}

func applyGardenTemp(r *types.Readings, resp *domoticz.Response) []string {
	if v, ok := resp.Field("Temp"); ok {
		r.OutsideTemperature = v
		return nil
	}
	return []string{"Temp"}
}

func applyWeather(r *types.Readings, resp *domoticz.Response) []string {
	if v, ok := resp.Field("Data"); ok {
		r.OutsideWeather = v
		r.Weather = vocab.ClassifyWeather(v)
		return nil
	}
	return []string{"Data"}
}

// ClockMinutes turns server "YYYY-MM-DD hh:mm:ss" into "hh:mm".
func ClockMinutes(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[i+1:]
	}
	if len(s) > 3 {
		s = s[:len(s)-3]
	}
	return s
}

// LeadingToken is text before first space, "850 ppm" -> "850".
func LeadingToken(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
