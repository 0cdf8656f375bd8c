package dashboard

import (
	"time"

	"github.com/luki/coldroom/internal/connstate"
	"github.com/luki/coldroom/internal/history"
	"github.com/luki/coldroom/internal/status"
	"github.com/luki/coldroom/internal/weather"
)

// View is a point-in-time copy of the dashboard state. It is a value type,
// safe to use after the state has moved on.
type View struct {
	Temperature  float64
	Humidity     float64
	HasReading   bool
	Band         status.Band
	Condition    status.Condition
	HumidityBand status.Humidity

	SetPoint status.SetPoint
	InRange  bool
	Tier     status.Tier

	Conn        connstate.State
	ConnErr     error
	LastSuccess time.Time

	Samples []history.Sample // oldest first
	Log     []history.Sample // newest first
	Min     float64
	Max     float64
	Avg     float64

	Weather    weather.Current
	HasWeather bool
	WeatherAt  time.Time
	WeatherErr error

	Clock time.Time
	Dark  bool
}
