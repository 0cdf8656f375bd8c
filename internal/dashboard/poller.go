package dashboard

import (
	"context"
	"time"

	"github.com/luki/coldroom/internal/history"
	"github.com/luki/coldroom/internal/logger"
	"github.com/luki/coldroom/internal/poll"
	"github.com/luki/coldroom/internal/sensor"
	"github.com/luki/coldroom/internal/weather"
)

// Default poll intervals.
const (
	DefaultSensorInterval  = 5 * time.Second
	DefaultWeatherInterval = 10 * time.Minute
	DefaultClockInterval   = time.Second
)

// SensorSource returns the latest sensor reading.
type SensorSource interface {
	Latest(ctx context.Context) (sensor.Reading, error)
}

// WeatherSource returns current regional conditions.
type WeatherSource interface {
	Current(ctx context.Context) (weather.Current, error)
}

// Poller feeds a State from the sensor and weather sources and drives its
// clock.
type Poller struct {
	State      *State
	Sensor     SensorSource
	Weather    WeatherSource
	Normalizer sensor.Normalizer
	Log        *logger.Logger

	SensorInterval  time.Duration
	WeatherInterval time.Duration
	ClockInterval   time.Duration

	Now func() time.Time
}

// Start mounts the state and launches the sensor, weather and clock tasks.
// Stopping the returned handle stops all three and detaches the state.
func (p *Poller) Start(ctx context.Context) *Stopper {
	p.State.Mount()
	h := poll.Start(ctx, p.Tasks()...)
	return &Stopper{handle: h, state: p.State}
}

// Tasks returns the periodic tasks without starting them.
func (p *Poller) Tasks() []poll.Task {
	var tasks []poll.Task
	if p.Sensor != nil {
		tasks = append(tasks, poll.Task{
			Name:     "sensor",
			Interval: orDefault(p.SensorInterval, DefaultSensorInterval),
			Run:      p.pollSensor,
		})
	}
	if p.Weather != nil {
		tasks = append(tasks, poll.Task{
			Name:     "weather",
			Interval: orDefault(p.WeatherInterval, DefaultWeatherInterval),
			Run:      p.pollWeather,
		})
	}
	tasks = append(tasks, poll.Task{
		Name:     "clock",
		Interval: orDefault(p.ClockInterval, DefaultClockInterval),
		Run:      p.tick,
	})
	return tasks
}

func (p *Poller) pollSensor(ctx context.Context, seq uint64) {
	sample, hum, err := p.fetchSensor(ctx)
	if ctx.Err() != nil {
		return
	}
	if !p.State.ApplySensor(seq, sample, hum, err) {
		p.log().Debugw("dropped stale sensor result", "seq", seq)
		return
	}
	if err != nil {
		p.log().Warnw("sensor poll failed", "seq", seq, "err", err)
		return
	}
	p.log().Debugw("sensor sample", "seq", seq, "time", sample.Label, "temp", sample.Value, "humidity", hum)
}

func (p *Poller) fetchSensor(ctx context.Context) (history.Sample, float64, error) {
	r, err := p.Sensor.Latest(ctx)
	if err != nil {
		return history.Sample{}, 0, err
	}
	return p.Normalizer.Normalize(r)
}

func (p *Poller) pollWeather(ctx context.Context, seq uint64) {
	cur, err := p.Weather.Current(ctx)
	if ctx.Err() != nil {
		return
	}
	if !p.State.ApplyWeather(seq, cur, err) {
		return
	}
	if err != nil {
		p.log().Warnw("weather poll failed, keeping last conditions", "seq", seq, "err", err)
		return
	}
	p.log().Debugw("weather", "temp", cur.Temperature, "wind", cur.WindSpeed, "code", cur.WeatherCode)
}

func (p *Poller) tick(ctx context.Context, _ uint64) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	p.State.Tick(now())
}

func (p *Poller) log() *logger.Logger {
	if p.Log == nil {
		return logger.Nop()
	}
	return p.Log
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Stopper is the single disposal handle for a running Poller.
type Stopper struct {
	handle *poll.Handle
	state  *State
}

// Stop detaches the state, then stops every task and waits for in-flight
// polls to return.
func (s *Stopper) Stop() {
	s.state.Dispose()
	s.handle.Stop()
}
