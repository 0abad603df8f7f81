// Package vocab maps Domoticz vocabulary onto display categories and icons.
// Every function is total: unmatched input gives the unknown category or Issue icon.
// Rule tables are evaluated top to bottom, first match wins.
package vocab

import (
	"strings"

	"github.com/edomo/edomo/internal/icons"
	"github.com/edomo/edomo/internal/types"
)

type matchKind uint8

const (
	matchExact matchKind = iota
	matchContains
)

type rule struct {
	kind    matchKind
	pattern string
}

func (r rule) match(s string) bool {
	switch r.kind {
	case matchExact:
		return s == r.pattern
	case matchContains:
		return strings.Contains(s, r.pattern)
	}
	return false
}

var humidityTable = []struct {
	rule
	result types.HumidityStatus
}{
	{rule{matchExact, "Dry"}, types.HumidityDry},
	{rule{matchExact, "Normal"}, types.HumidityNormal},
	{rule{matchExact, "Comfortable"}, types.HumidityComfortable},
	{rule{matchExact, "Wet"}, types.HumidityWet},
}

// Domoticz air quality tiers. Older firmware listed "Inferior" twice, second
// time meaning "slecht"; that entry could never match and "Poor" is what
// Domoticz actually sends for the worst tier.
var airTable = []struct {
	rule
	result types.AirQuality
}{
	{rule{matchExact, "Excellent"}, types.AirExcellent},
	{rule{matchExact, "Good"}, types.AirGood},
	{rule{matchExact, "Fair"}, types.AirFair},
	{rule{matchExact, "Inferior"}, types.AirInferior},
	{rule{matchExact, "Poor"}, types.AirPoor},
}

// Weather descriptions come localized (Dutch) from the server.
// Exact terms go before substring checks: "onbewolkt" contains "wolk".
var weatherTable = []struct {
	rule
	result types.WeatherCondition
}{
	{rule{matchExact, "bewolkt"}, types.WeatherCloudy},
	{rule{matchExact, "onbewolkt"}, types.WeatherSunny},
	{rule{matchContains, "wolk"}, types.WeatherPartlyCloudy},
	{rule{matchContains, "regen"}, types.WeatherRainy},
}

func MapHumidityStatus(raw string) types.HumidityStatus {
	for _, x := range humidityTable {
		if x.match(raw) {
			return x.result
		}
	}
	return types.HumidityUnknown
}

func MapAirQuality(raw string) types.AirQuality {
	for _, x := range airTable {
		if x.match(raw) {
			return x.result
		}
	}
	return types.AirUnknown
}

func ClassifyWeather(text string) types.WeatherCondition {
	for _, x := range weatherTable {
		if x.match(text) {
			return x.result
		}
	}
	return types.WeatherUnknown
}

func SelectWeatherIcon(text string) icons.Index {
	return WeatherIcon(ClassifyWeather(text))
}

func WeatherIcon(w types.WeatherCondition) icons.Index {
	switch w {
	case types.WeatherCloudy:
		return icons.Cloudy
	case types.WeatherSunny:
		return icons.Sunny
	case types.WeatherPartlyCloudy:
		return icons.SunnyCloudy
	case types.WeatherRainy:
		return icons.Rainy
	}
	return icons.Issue
}

func SelectHumidityIcon(h types.HumidityStatus) icons.Index {
	switch h {
	case types.HumidityNormal, types.HumidityComfortable:
		return icons.Happy
	case types.HumidityDry, types.HumidityWet:
		return icons.Unhappy
	}
	return icons.Issue
}

func SelectAirQualityIcon(a types.AirQuality) icons.Index {
	switch a {
	case types.AirExcellent, types.AirGood:
		return icons.Happy
	case types.AirFair:
		return icons.Normal
	case types.AirInferior, types.AirPoor:
		return icons.Alert
	}
	return icons.Issue
}
