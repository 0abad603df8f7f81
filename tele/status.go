package tele

import (
	"time"

	"github.com/edomo/edomo/internal/types"
)

// Status is JSON payload of `<prefix>/status` topic.
type Status struct {
	Time       int64    `json:"time"`
	DurationMs int64    `json:"duration_ms"`
	LinkError  string   `json:"link_error,omitempty"`
	Readings   Readings `json:"readings"`
	Queries    []Query  `json:"queries,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	RxBytes    int64    `json:"rx_bytes"`
}

type Readings struct {
	InsideTemperature  string `json:"inside_temperature"`
	InsideHumidity     string `json:"inside_humidity"`
	AirQualityValue    string `json:"air_quality_value"`
	AirQuality         string `json:"air_quality"`
	OutsideTemperature string `json:"outside_temperature"`
	OutsideWeather     string `json:"outside_weather"`
	Weather            string `json:"weather"`
	ServerTime         string `json:"server_time"`
	Sunrise            string `json:"sunrise"`
	Sunset             string `json:"sunset"`
}

type Query struct {
	Name    string   `json:"name"`
	ID      int      `json:"id"`
	Error   string   `json:"error,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

func NewStatus(r types.Readings, rep types.AcquireReport) *Status {
	s := &Status{
		Time:    rep.Started.UnixNano(),
		RxBytes: rep.RxBytes,
		Readings: Readings{
			InsideTemperature:  r.InsideTemperature,
			InsideHumidity:     r.InsideHumidity.Label(),
			AirQualityValue:    r.AirQualityValue,
			AirQuality:         r.AirQuality.Label(),
			OutsideTemperature: r.OutsideTemperature,
			OutsideWeather:     r.OutsideWeather,
			Weather:            r.Weather.String(),
			ServerTime:         r.ServerTime,
			Sunrise:            r.Sunrise,
			Sunset:             r.Sunset,
		},
	}
	if !rep.Finished.IsZero() {
		s.DurationMs = int64(rep.Finished.Sub(rep.Started) / time.Millisecond)
	}
	if rep.LinkErr != nil {
		s.LinkError = rep.LinkErr.Error()
	}
	for _, q := range rep.Queries {
		tq := Query{Name: q.Name, ID: q.ID, Missing: q.Missing}
		if q.Err != nil {
			tq.Error = q.Err.Error()
		}
		s.Queries = append(s.Queries, tq)
	}
	return s
}
