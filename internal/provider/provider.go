// Package provider looks up city coordinates, weather forecasts, Shabbat
// times and Jewish holidays from public HTTP APIs.
//
// Every lookup returns an error on failure; callers are expected to log it
// and hide the element that depended on it.
package provider

import (
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrCityNotFound is returned when geocoding finds no match.
	ErrCityNotFound = errors.New("city not found")

	// ErrNoForecast is returned when the forecast has no hourly data.
	ErrNoForecast = errors.New("no forecast for date")

	// ErrNoPlace is returned when a lookup needs coordinates that are not set.
	ErrNoPlace = errors.New("location coordinates are not set")
)

// Place is a resolved location.
type Place struct {
	Name      string
	Latitude  float64
	Longitude float64
	Timezone  string
}

// Valid reports whether the place has coordinates and a timezone.
func (p Place) Valid() bool {
	return (p.Latitude != 0 || p.Longitude != 0) && p.Timezone != ""
}

func newClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
}
