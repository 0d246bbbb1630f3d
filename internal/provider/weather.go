package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Forecast is the noon weather of one day.
type Forecast struct {
	DateKey string
	TempC   int
	Code    int
	Label   string
	Emoji   string

	// PrecipitationChance is a percentage; HasPrecipitation is false when
	// the API did not report one.
	PrecipitationChance int
	HasPrecipitation    bool
}

// String renders the forecast on one line.
func (f Forecast) String() string {
	s := fmt.Sprintf("%s %d°C %s", f.Emoji, f.TempC, f.Label)
	if f.HasPrecipitation {
		s += fmt.Sprintf(", %d%% chance of rain", f.PrecipitationChance)
	}
	return s
}

// Weather fetches hourly forecasts from the Open-Meteo forecast API.
type Weather struct {
	client *resty.Client
}

// NewWeather creates a Weather client for baseURL, e.g. https://api.open-meteo.com.
func NewWeather(baseURL string, timeout time.Duration) *Weather {
	return &Weather{client: newClient(baseURL, timeout)}
}

type forecastResponse struct {
	Hourly struct {
		Time          []string   `json:"time"`
		Temperature   []float64  `json:"temperature_2m"`
		Precipitation []*float64 `json:"precipitation_probability"`
		WeatherCode   []int      `json:"weather_code"`
	} `json:"hourly"`
}

// ForDate returns the forecast for dateKey at place. The 12:00 hour is used
// when present, otherwise the first hour of the day.
func (w *Weather) ForDate(ctx context.Context, place Place, dateKey string) (Forecast, error) {
	if !place.Valid() {
		return Forecast{}, ErrNoPlace
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":   strconv.FormatFloat(place.Latitude, 'f', 4, 64),
			"longitude":  strconv.FormatFloat(place.Longitude, 'f', 4, 64),
			"hourly":     "temperature_2m,precipitation_probability,weather_code",
			"timezone":   place.Timezone,
			"start_date": dateKey,
			"end_date":   dateKey,
		}).
		Get("/v1/forecast")
	if err != nil {
		return Forecast{}, fmt.Errorf("weather request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Forecast{}, fmt.Errorf("weather API returned %d", resp.StatusCode())
	}

	var fr forecastResponse
	if err := json.Unmarshal(resp.Body(), &fr); err != nil {
		return Forecast{}, fmt.Errorf("decoding weather response: %w", err)
	}
	h := fr.Hourly
	if len(h.Temperature) == 0 {
		return Forecast{}, ErrNoForecast
	}

	i := 0
	for idx, t := range h.Time {
		if strings.HasSuffix(t, "12:00") {
			i = idx
			break
		}
	}
	if i >= len(h.Temperature) {
		i = 0
	}

	f := Forecast{DateKey: dateKey, TempC: int(math.Round(h.Temperature[i]))}
	if i < len(h.WeatherCode) {
		f.Code = h.WeatherCode[i]
	}
	f.Label, f.Emoji = DescribeWeather(f.Code)
	if i < len(h.Precipitation) && h.Precipitation[i] != nil {
		f.PrecipitationChance = int(math.Round(*h.Precipitation[i]))
		f.HasPrecipitation = true
	}
	return f, nil
}

// DescribeWeather maps a WMO weather code to a label and an emoji.
func DescribeWeather(code int) (label, emoji string) {
	switch code {
	case 0:
		return "Clear sky", "☀️"
	case 1, 2, 3:
		return "Partly cloudy", "🌤️"
	case 45, 48:
		return "Fog", "🌫️"
	case 51, 53, 55:
		return "Drizzle", "🌦️"
	case 61, 63, 65:
		return "Rain", "🌧️"
	case 71, 73, 75, 77:
		return "Snow", "❄️"
	case 80, 81, 82:
		return "Showers", "🌧️"
	case 95, 96, 99:
		return "Thunderstorms", "⛈️"
	default:
		return "Weather", "🌦️"
	}
}
