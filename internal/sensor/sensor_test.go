package sensor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNormalizeNaiveTimestampIsUTC(t *testing.T) {
	var r Reading
	payload := `{"temperature": 4.2, "humidity": 55, "timestamp": "2024-01-01T10:00:00"}`
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	n := NewNormalizer(time.UTC, "")
	s, hum, err := n.Normalize(r)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if !s.At.Equal(want) {
		t.Errorf("At = %v, want %v", s.At, want)
	}
	if s.Label != "10:00:00" {
		t.Errorf("Label = %q, want 10:00:00", s.Label)
	}
	if s.Value != 4.2 {
		t.Errorf("Value = %v, want 4.2", s.Value)
	}
	if hum != 55 {
		t.Errorf("humidity = %v, want 55", hum)
	}
}

func TestNormalizeLabelUsesDisplayZone(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	n := NewNormalizer(jakarta, "15.04.05")

	s, _, err := n.Normalize(Reading{
		Temperature: Num(3),
		Humidity:    Num(60),
		Timestamp:   "2024-01-01T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.Label != "17.00.00" {
		t.Errorf("Label = %q, want 17.00.00", s.Label)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01T10:00:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:00:00Z", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:00:00.250000", time.Date(2024, 1, 1, 10, 0, 0, 250000000, time.UTC)},
		{"2024-01-01T17:00:00+07:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T05:00:00-05:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01 10:00:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01 17:00:00+07:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:00:00+0000", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T17:00:00+0700", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T05:30:00-0430", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "yesterday", "2024-13-01T10:00:00"} {
		if _, err := ParseTimestamp(bad); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseTimestamp(%q) err = %v, want ErrMalformed", bad, err)
		}
	}
}

func TestNormalizeRejectsNonNumeric(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"string temperature", `{"temperature": "warm", "humidity": 50, "timestamp": "2024-01-01T10:00:00"}`},
		{"nan temperature", `{"temperature": "NaN", "humidity": 50, "timestamp": "2024-01-01T10:00:00"}`},
		{"missing humidity", `{"temperature": 4, "timestamp": "2024-01-01T10:00:00"}`},
		{"null temperature", `{"temperature": null, "humidity": 50, "timestamp": "2024-01-01T10:00:00"}`},
		{"missing timestamp", `{"temperature": 4, "humidity": 50}`},
	}
	n := NewNormalizer(time.UTC, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Reading
			if err := json.Unmarshal([]byte(tt.payload), &r); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if _, _, err := n.Normalize(r); !errors.Is(err, ErrMalformed) {
				t.Errorf("Normalize err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestNumberAcceptsNumericStrings(t *testing.T) {
	var r Reading
	if err := json.Unmarshal([]byte(`{"temperature": " 3.5 ", "humidity": "61"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !r.Temperature.Set || r.Temperature.Value != 3.5 {
		t.Errorf("temperature = %+v", r.Temperature)
	}
	if !r.Humidity.Set || r.Humidity.Value != 61 {
		t.Errorf("humidity = %+v", r.Humidity)
	}
}

func TestFeedLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/latest" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"timestamp": "2024-01-01T10:00:00", "temperature": 4.2, "humidity": 55}`))
	}))
	defer srv.Close()

	f := NewFeed(srv.URL+"/api/latest", time.Second)
	r, err := f.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if r.Temperature.Value != 4.2 || r.Humidity.Value != 55 || r.Timestamp != "2024-01-01T10:00:00" {
		t.Errorf("unexpected reading: %+v", r)
	}
}

func TestFeedLatestErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "No data"}`, http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewFeed(srv.URL, time.Second).Latest(context.Background())
		if !errors.Is(err, ErrStatus) {
			t.Errorf("err = %v, want ErrStatus", err)
		}
	})

	t.Run("garbage body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}))
		defer srv.Close()

		_, err := NewFeed(srv.URL, time.Second).Latest(context.Background())
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("err = %v, want ErrMalformed", err)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewFeed(url, time.Second).Latest(context.Background())
		if err == nil {
			t.Fatal("expected error from closed server")
		}
		if errors.Is(err, ErrStatus) || errors.Is(err, ErrMalformed) {
			t.Errorf("transport failure classified as %v", err)
		}
	})
}

func TestFeedURL(t *testing.T) {
	if got := NewFeed("", time.Second).URL(); got != DefaultURL {
		t.Errorf("empty url = %q, want %q", got, DefaultURL)
	}
	if got := NewFeed("http://10.0.0.5:5000/api/latest", 0).URL(); got != "http://10.0.0.5:5000/api/latest" {
		t.Errorf("URL() = %q", got)
	}
}
