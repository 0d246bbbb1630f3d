package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Geocoder resolves city names with the Open-Meteo geocoding API.
type Geocoder struct {
	client *resty.Client
}

// NewGeocoder creates a Geocoder for baseURL, e.g. https://geocoding-api.open-meteo.com.
func NewGeocoder(baseURL string, timeout time.Duration) *Geocoder {
	return &Geocoder{client: newClient(baseURL, timeout)}
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Timezone  string  `json:"timezone"`
	} `json:"results"`
}

// ResolveCity returns the first match for name.
func (g *Geocoder) ResolveCity(ctx context.Context, name string) (Place, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Place{}, ErrCityNotFound
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"name":     name,
			"count":    "1",
			"language": "he",
			"format":   "json",
		}).
		Get("/v1/search")
	if err != nil {
		return Place{}, fmt.Errorf("geocoding request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Place{}, fmt.Errorf("geocoding API returned %d", resp.StatusCode())
	}

	var gr geocodeResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return Place{}, fmt.Errorf("decoding geocoding response: %w", err)
	}
	if len(gr.Results) == 0 {
		return Place{}, fmt.Errorf("%w: %q", ErrCityNotFound, name)
	}

	r := gr.Results[0]
	return Place{Name: r.Name, Latitude: r.Latitude, Longitude: r.Longitude, Timezone: r.Timezone}, nil
}
