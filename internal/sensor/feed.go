package sensor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultURL is the sensor API's latest-reading endpoint.
const DefaultURL = "http://localhost:5000/api/latest"

// ErrStatus marks a non-success HTTP response from a feed.
var ErrStatus = errors.New("unexpected response status")

// maxBody caps how much of a response body is read.
const maxBody = 1 << 20

// Feed fetches the latest reading from the sensor API.
type Feed struct {
	url    string
	client *http.Client
}

// NewFeed returns a feed for url. A zero timeout leaves requests bounded
// only by their context.
func NewFeed(url string, timeout time.Duration) *Feed {
	if url == "" {
		url = DefaultURL
	}
	return &Feed{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// URL returns the endpoint being polled.
func (f *Feed) URL() string { return f.url }

// Latest performs one GET and decodes the reading.
func (f *Feed) Latest(ctx context.Context) (Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Reading{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return Reading{}, fmt.Errorf("get %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return Reading{}, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	var r Reading
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&r); err != nil {
		return Reading{}, fmt.Errorf("%w: decode: %v", ErrMalformed, err)
	}
	return r, nil
}
