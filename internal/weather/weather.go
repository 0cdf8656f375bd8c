// Package weather fetches current regional conditions from the Open-Meteo
// forecast API.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Defaults point at the cold-storage site.
const (
	DefaultURL       = "https://api.open-meteo.com/v1/forecast"
	DefaultLatitude  = -7.56
	DefaultLongitude = 112.48
	DefaultTimezone  = "Asia/Jakarta"
)

var (
	// ErrStatus marks a non-success HTTP response.
	ErrStatus = errors.New("unexpected response status")
	// ErrMalformed marks a response without usable current conditions.
	ErrMalformed = errors.New("malformed weather payload")
)

// Current is the current_weather block of a forecast response.
type Current struct {
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
	Time          string  `json:"time"`
}

type forecast struct {
	CurrentWeather *Current `json:"current_weather"`
}

// Location identifies the forecast point.
type Location struct {
	Latitude  float64
	Longitude float64
	Timezone  string
}

// Client queries the forecast endpoint for one location.
type Client struct {
	base   string
	loc    Location
	client *http.Client
}

// NewClient returns a client for base and loc.
func NewClient(base string, loc Location, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultURL
	}
	if loc.Timezone == "" {
		loc.Timezone = DefaultTimezone
	}
	return &Client{
		base:   base,
		loc:    loc,
		client: &http.Client{Timeout: timeout},
	}
}

// RequestURL returns the full query URL.
func (c *Client) RequestURL() string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.loc.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.loc.Longitude, 'f', -1, 64))
	q.Set("current_weather", "true")
	q.Set("timezone", c.loc.Timezone)
	return c.base + "?" + q.Encode()
}

// Current fetches the current conditions.
func (c *Client) Current(ctx context.Context) (Current, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RequestURL(), nil)
	if err != nil {
		return Current{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Current{}, fmt.Errorf("get forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Current{}, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	var f forecast
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&f); err != nil {
		return Current{}, fmt.Errorf("%w: decode: %v", ErrMalformed, err)
	}
	if f.CurrentWeather == nil {
		return Current{}, fmt.Errorf("%w: no current_weather", ErrMalformed)
	}
	return *f.CurrentWeather, nil
}

// Describe returns a short text for a WMO weather code.
func Describe(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code <= 3:
		return "Partly cloudy"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Showers"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}
