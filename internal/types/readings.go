package types

import (
	"fmt"
	"time"
)

// HumidityStatus is indoor humidity class. Zero value is HumidityUnknown.
type HumidityStatus uint8

const (
	HumidityUnknown HumidityStatus = iota
	HumidityDry
	HumidityNormal
	HumidityComfortable
	HumidityWet
)

var humidityLabels = [...]string{
	HumidityUnknown:     LabelUnknown,
	HumidityDry:         "droog",
	HumidityNormal:      "normaal",
	HumidityComfortable: "comfortabel",
	HumidityWet:         "nat",
}

// Label is display text.
func (h HumidityStatus) Label() string {
	if int(h) < len(humidityLabels) {
		return humidityLabels[h]
	}
	return LabelUnknown
}
func (h HumidityStatus) String() string { return h.Label() }

// AirQuality is indoor air quality tier. Zero value is AirUnknown.
type AirQuality uint8

const (
	AirUnknown AirQuality = iota
	AirExcellent
	AirGood
	AirFair
	AirInferior
	AirPoor
)

var airLabels = [...]string{
	AirUnknown:   LabelUnknown,
	AirExcellent: "uitstekend",
	AirGood:      "goed",
	AirFair:      "redelijk",
	AirInferior:  "inferieur",
	AirPoor:      "slecht",
}

func (a AirQuality) Label() string {
	if int(a) < len(airLabels) {
		return airLabels[a]
	}
	return LabelUnknown
}
func (a AirQuality) String() string { return a.Label() }

// WeatherCondition is coarse outside weather. Zero value is WeatherUnknown.
type WeatherCondition uint8

const (
	WeatherUnknown WeatherCondition = iota
	WeatherCloudy
	WeatherSunny
	WeatherPartlyCloudy
	WeatherRainy
)

var weatherNames = [...]string{
	WeatherUnknown:      "unknown",
	WeatherCloudy:       "cloudy",
	WeatherSunny:        "sunny",
	WeatherPartlyCloudy: "partly-cloudy",
	WeatherRainy:        "rainy",
}

func (w WeatherCondition) String() string {
	if int(w) < len(weatherNames) {
		return weatherNames[w]
	}
	return fmt.Sprintf("WeatherCondition(%d)", w)
}

const LabelUnknown = "onbekend"

// Readings is everything one cycle shows on the display.
// Acquisition returns new value, render consumes it.
type Readings struct {
	InsideTemperature  string
	InsideHumidity     HumidityStatus
	AirQualityValue    string
	AirQuality         AirQuality
	OutsideTemperature string
	// OutsideWeather is free text, localized by the server.
	OutsideWeather string
	Weather        WeatherCondition
	ServerTime     string // hh:mm
	Sunrise        string
	Sunset         string
}

func (r Readings) String() string {
	return fmt.Sprintf("inside=%s/%s air=%s/%s outside=%s/%q(%s) time=%s sun=%s-%s",
		r.InsideTemperature, r.InsideHumidity.Label(),
		r.AirQualityValue, r.AirQuality.Label(),
		r.OutsideTemperature, r.OutsideWeather, r.Weather.String(),
		r.ServerTime, r.Sunrise, r.Sunset)
}

// QueryResult is outcome of one upstream query.
// Err=nil and empty Missing means every field was updated.
type QueryResult struct {
	Name    string
	ID      int
	Err     error
	Missing []string
}

func (q QueryResult) OK() bool { return q.Err == nil && len(q.Missing) == 0 }

// AcquireReport describes one acquisition attempt.
type AcquireReport struct {
	Started  time.Time
	Finished time.Time
	// LinkErr is set when network association failed and no query ran.
	LinkErr error
	Queries []QueryResult
	RxBytes int64
}

// Succeeded counts queries that returned a parsed response.
func (r AcquireReport) Succeeded() int {
	n := 0
	for _, q := range r.Queries {
		if q.Err == nil {
			n++
		}
	}
	return n
}

func (r AcquireReport) String() string {
	if r.LinkErr != nil {
		return fmt.Sprintf("link failed: %v", r.LinkErr)
	}
	return fmt.Sprintf("queries ok=%d/%d time=%s", r.Succeeded(), len(r.Queries), r.Finished.Sub(r.Started))
}
