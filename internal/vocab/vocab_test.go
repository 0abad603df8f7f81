package vocab

import (
	"testing"

	"github.com/edomo/edomo/internal/icons"
	"github.com/edomo/edomo/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestMapHumidityStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input  string
		expect types.HumidityStatus
		label  string
	}{
		{"Dry", types.HumidityDry, "droog"},
		{"Normal", types.HumidityNormal, "normaal"},
		{"Comfortable", types.HumidityComfortable, "comfortabel"},
		{"Wet", types.HumidityWet, "nat"},
		{"", types.HumidityUnknown, "onbekend"},
		{"dry", types.HumidityUnknown, "onbekend"},
		{"Comfortable ", types.HumidityUnknown, "onbekend"},
		{"null", types.HumidityUnknown, "onbekend"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			result := MapHumidityStatus(c.input)
			assert.Equal(t, c.expect, result)
			assert.Equal(t, c.label, result.Label())
		})
	}
}

func TestMapAirQuality(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input  string
		expect types.AirQuality
		label  string
	}{
		{"Excellent", types.AirExcellent, "uitstekend"},
		{"Good", types.AirGood, "goed"},
		{"Fair", types.AirFair, "redelijk"},
		{"Poor", types.AirPoor, "slecht"},
		{"", types.AirUnknown, "onbekend"},
		{"good", types.AirUnknown, "onbekend"},
		{"Bad", types.AirUnknown, "onbekend"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			result := MapAirQuality(c.input)
			assert.Equal(t, c.expect, result)
			assert.Equal(t, c.label, result.Label())
		})
	}
}

// "Inferior" used to appear twice with different labels, only first could match.
func TestMapAirQualityInferiorDuplicate(t *testing.T) {
	t.Parallel()

	result := MapAirQuality("Inferior")
	assert.Equal(t, types.AirInferior, result)
	assert.Equal(t, "inferieur", result.Label())
	assert.Equal(t, icons.Alert, SelectAirQualityIcon(result))

	n := 0
	for _, x := range airTable {
		if x.pattern == "Inferior" {
			n++
		}
	}
	assert.Equal(t, 1, n, "air table must not contain shadowed entries")
}

func TestSelectWeatherIcon(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input  string
		expect icons.Index
		cond   types.WeatherCondition
	}{
		{"bewolkt", icons.Cloudy, types.WeatherCloudy},
		{"onbewolkt", icons.Sunny, types.WeatherSunny},
		{"lichte wolkenvelden", icons.SunnyCloudy, types.WeatherPartlyCloudy},
		{"half bewolkt", icons.SunnyCloudy, types.WeatherPartlyCloudy},
		{"motregen", icons.Rainy, types.WeatherRainy},
		{"lichte regen", icons.Rainy, types.WeatherRainy},
		{"regen en wolken", icons.SunnyCloudy, types.WeatherPartlyCloudy},
		{"helder", icons.Issue, types.WeatherUnknown},
		{"", icons.Issue, types.WeatherUnknown},
		{"Bewolkt", icons.SunnyCloudy, types.WeatherPartlyCloudy},
		{"Helder", icons.Issue, types.WeatherUnknown},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			assert.Equal(t, c.expect, SelectWeatherIcon(c.input))
			assert.Equal(t, c.cond, ClassifyWeather(c.input))
		})
	}
}

func TestSelectHumidityIcon(t *testing.T) {
	t.Parallel()

	assert.Equal(t, icons.Happy, SelectHumidityIcon(types.HumidityNormal))
	assert.Equal(t, icons.Happy, SelectHumidityIcon(types.HumidityComfortable))
	assert.Equal(t, icons.Unhappy, SelectHumidityIcon(types.HumidityDry))
	assert.Equal(t, icons.Unhappy, SelectHumidityIcon(types.HumidityWet))
	assert.Equal(t, icons.Issue, SelectHumidityIcon(types.HumidityUnknown))
	assert.Equal(t, icons.Issue, SelectHumidityIcon(types.HumidityStatus(99)))
}

func TestSelectAirQualityIcon(t *testing.T) {
	t.Parallel()

	cases := map[types.AirQuality]icons.Index{
		types.AirExcellent:  icons.Happy,
		types.AirGood:       icons.Happy,
		types.AirFair:       icons.Normal,
		types.AirInferior:   icons.Alert,
		types.AirPoor:       icons.Alert,
		types.AirUnknown:    icons.Issue,
		types.AirQuality(9): icons.Issue,
	}
	for input, expect := range cases {
		assert.Equal(t, expect, SelectAirQualityIcon(input), "input=%d", input)
	}
}
