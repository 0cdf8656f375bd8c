package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCurrent(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"latitude":        r.URL.Query().Get("latitude"),
			"longitude":       r.URL.Query().Get("longitude"),
			"current_weather": r.URL.Query().Get("current_weather"),
			"timezone":        r.URL.Query().Get("timezone"),
		}
		_, _ = w.Write([]byte(`{
			"latitude": -7.5,
			"current_weather": {"temperature": 27.4, "windspeed": 6.1, "winddirection": 140, "weathercode": 2, "time": "2024-01-01T17:00"}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Location{Latitude: DefaultLatitude, Longitude: DefaultLongitude}, time.Second)
	cur, err := c.Current(context.Background())
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.Temperature != 27.4 || cur.WindSpeed != 6.1 || cur.WeatherCode != 2 {
		t.Errorf("unexpected conditions: %+v", cur)
	}

	want := map[string]string{
		"latitude":        "-7.56",
		"longitude":       "112.48",
		"current_weather": "true",
		"timezone":        "Asia/Jakarta",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestCurrentErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusBadGateway, `oops`, ErrStatus},
		{"missing block", http.StatusOK, `{"latitude": 1}`, ErrMalformed},
		{"bad json", http.StatusOK, `{`, ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, Location{}, time.Second).Current(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := map[int]string{0: "Clear", 2: "Partly cloudy", 63: "Rain", 95: "Thunderstorm", 33: "Unknown"}
	for code, want := range tests {
		if got := Describe(code); got != want {
			t.Errorf("Describe(%d) = %q, want %q", code, got, want)
		}
	}
}
