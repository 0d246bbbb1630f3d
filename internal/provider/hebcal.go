package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/javiermolinar/bnapp/internal/dateutil"
)

// ShabbatTimes holds the candle lighting and havdalah instants of one
// weekend. A zero time means the API did not report it.
type ShabbatTimes struct {
	Friday   string
	Candles  time.Time
	Havdalah time.Time
}

// Hebcal fetches Shabbat times and holidays from hebcal.com. Results are
// cached in memory per Friday and per year.
type Hebcal struct {
	client *resty.Client

	mu       sync.Mutex
	shabbat  map[string]ShabbatTimes
	holidays map[int]map[string]string
}

// NewHebcal creates a Hebcal client for baseURL, e.g. https://www.hebcal.com.
func NewHebcal(baseURL string, timeout time.Duration) *Hebcal {
	return &Hebcal{
		client:   newClient(baseURL, timeout),
		shabbat:  make(map[string]ShabbatTimes),
		holidays: make(map[int]map[string]string),
	}
}

type hebcalResponse struct {
	Items []struct {
		Title    string `json:"title"`
		Date     string `json:"date"`
		Category string `json:"category"`
	} `json:"items"`
}

// FridayOf returns the Friday of the Sunday-Saturday week containing t.
func FridayOf(t time.Time) time.Time {
	d := dateutil.Date(t)
	return d.AddDate(0, 0, int(time.Friday)-int(d.Weekday()))
}

// Shabbat returns the times of the weekend starting on friday at place.
func (h *Hebcal) Shabbat(ctx context.Context, place Place, friday time.Time) (ShabbatTimes, error) {
	if !place.Valid() {
		return ShabbatTimes{}, ErrNoPlace
	}
	key := dateutil.Key(friday)

	h.mu.Lock()
	cached, ok := h.shabbat[key]
	h.mu.Unlock()
	if ok {
		return cached, nil
	}

	var hr hebcalResponse
	err := h.get(ctx, "/shabbat", map[string]string{
		"cfg":       "json",
		"latitude":  strconv.FormatFloat(place.Latitude, 'f', 4, 64),
		"longitude": strconv.FormatFloat(place.Longitude, 'f', 4, 64),
		"tzid":      place.Timezone,
		"start":     key,
		"end":       key,
	}, &hr)
	if err != nil {
		return ShabbatTimes{}, err
	}

	times := ShabbatTimes{Friday: key}
	for _, it := range hr.Items {
		t, err := time.Parse(time.RFC3339, it.Date)
		if err != nil {
			continue
		}
		switch it.Category {
		case "candles":
			if times.Candles.IsZero() {
				times.Candles = t
			}
		case "havdalah":
			if times.Havdalah.IsZero() {
				times.Havdalah = t
			}
		}
	}

	h.mu.Lock()
	h.shabbat[key] = times
	h.mu.Unlock()
	return times, nil
}

// Holidays returns the Israeli holiday calendar of year as dateKey -> name.
// When several holidays fall on one day the first listed wins.
func (h *Hebcal) Holidays(ctx context.Context, year int) (map[string]string, error) {
	h.mu.Lock()
	cached, ok := h.holidays[year]
	h.mu.Unlock()
	if ok {
		return cached, nil
	}

	var hr hebcalResponse
	err := h.get(ctx, "/hebcal", map[string]string{
		"v":    "1",
		"cfg":  "json",
		"year": strconv.Itoa(year),
		"maj":  "on",
		"min":  "on",
		"mod":  "on",
		"i":    "on",
	}, &hr)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string)
	for _, it := range hr.Items {
		if it.Category != "holiday" || len(it.Date) < 10 {
			continue
		}
		dk := it.Date[:10]
		if _, exists := out[dk]; !exists {
			out[dk] = it.Title
		}
	}

	h.mu.Lock()
	h.holidays[year] = out
	h.mu.Unlock()
	return out, nil
}

func (h *Hebcal) get(ctx context.Context, path string, params map[string]string, out any) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("hebcal request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("hebcal API returned %d", resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decoding hebcal response: %w", err)
	}
	return nil
}
