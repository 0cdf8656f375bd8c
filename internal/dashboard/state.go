// Package dashboard holds the view state of the cold-room dashboard: the
// rolling sample window, feed connectivity, latest readings, weather,
// clock and user preferences.
package dashboard

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/luki/coldroom/internal/connstate"
	"github.com/luki/coldroom/internal/history"
	"github.com/luki/coldroom/internal/poll"
	"github.com/luki/coldroom/internal/status"
	"github.com/luki/coldroom/internal/store"
	"github.com/luki/coldroom/internal/weather"
)

// Placeholder values shown before the first poll resolves.
const (
	DefaultSeedBaseline    = 4.0
	DefaultSeedJitter      = 0.5
	DefaultInitialHumidity = 60.0
	DefaultLogSize         = 6
)

// Options configures a State. Zero or nil fields take the defaults above;
// the seed values are pointers so that an explicit 0 is kept.
type Options struct {
	Capacity        int
	SeedBaseline    *float64
	SeedJitter      *float64
	InitialHumidity *float64
	LogSize         int
	Label           history.LabelFunc
	Rand            func() float64
	Now             func() time.Time
}

func (o *Options) setDefaults() {
	if o.Capacity <= 0 {
		o.Capacity = history.DefaultCapacity
	}
	if o.SeedBaseline == nil {
		o.SeedBaseline = ptr(DefaultSeedBaseline)
	}
	if o.SeedJitter == nil {
		o.SeedJitter = ptr(DefaultSeedJitter)
	}
	if o.InitialHumidity == nil {
		o.InitialHumidity = ptr(DefaultInitialHumidity)
	}
	if o.LogSize <= 0 {
		o.LogSize = DefaultLogSize
	}
	if o.Label == nil {
		o.Label = func(t time.Time) string { return t.Format("15:04:05") }
	}
	if o.Rand == nil {
		o.Rand = rand.Float64
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

func ptr(v float64) *float64 { return &v }

// State is the dashboard's state container. All methods are safe for
// concurrent use; every mutation is atomic and signals Changes.
type State struct {
	mu sync.Mutex

	buf        *history.Buffer
	conn       *connstate.Machine
	temp       float64
	hum        float64
	hasReading bool

	weather    weather.Current
	hasWeather bool
	weatherAt  time.Time
	weatherErr error

	clock time.Time
	prefs store.Preferences
	store store.Store

	sensorGate  poll.Gate
	weatherGate poll.Gate

	disposed bool
	changes  chan struct{}
	logSize  int
	now      func() time.Time
}

// New builds a mounted State with a seeded window. Preferences are
// written through st on every change.
func New(opts Options, st store.Store, prefs store.Preferences) *State {
	opts.setDefaults()
	now := opts.Now()
	if st == nil {
		st = store.NewMemory()
	}
	return &State{
		buf:     history.Seed(opts.Capacity, now, opts.Label, *opts.SeedBaseline, *opts.SeedJitter, opts.Rand),
		conn:    connstate.New(),
		temp:    *opts.SeedBaseline,
		hum:     *opts.InitialHumidity,
		clock:   now,
		prefs:   prefs,
		store:   st,
		changes: make(chan struct{}, 1),
		logSize: opts.LogSize,
		now:     opts.Now,
	}
}

// Changes delivers a signal after any mutation. Signals coalesce: one
// pending signal stands for any number of changes.
func (s *State) Changes() <-chan struct{} {
	return s.changes
}

func (s *State) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// ApplySensor records the outcome of sensor poll seq. On failure the
// window is left alone and the feed goes Offline. Completions older than
// one already applied, and anything after Dispose, are discarded.
func (s *State) ApplySensor(seq uint64, sample history.Sample, humidity float64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed || !s.sensorGate.Admit(seq) {
		return false
	}

	at := s.now()
	if err != nil {
		s.conn.Fail(at, err)
		s.notify()
		return true
	}

	s.temp = sample.Value
	s.hum = humidity
	s.hasReading = true
	s.buf.Append(sample)
	s.conn.Succeed(at)
	s.notify()
	return true
}

// ApplyWeather records the outcome of weather poll seq. A failure keeps
// the last known conditions and does not touch the connection state.
func (s *State) ApplyWeather(seq uint64, cur weather.Current, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed || !s.weatherGate.Admit(seq) {
		return false
	}

	if err != nil {
		s.weatherErr = err
		return true
	}
	s.weather = cur
	s.hasWeather = true
	s.weatherAt = s.now()
	s.weatherErr = nil
	s.notify()
	return true
}

// Tick advances the displayed clock.
func (s *State) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.clock = now
	s.notify()
}

// SetSetPoint validates and stores a new set-point range. An invalid range
// is rejected and leaves the current one in place.
func (s *State) SetSetPoint(ctx context.Context, sp status.SetPoint) error {
	if err := sp.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.prefs.SetPoint = sp
	st := s.store
	s.notify()
	s.mu.Unlock()

	return store.SaveSetPoint(ctx, st, sp)
}

// ToggleTheme flips dark mode and persists it.
func (s *State) ToggleTheme(ctx context.Context) error {
	s.mu.Lock()
	s.prefs.Dark = !s.prefs.Dark
	dark := s.prefs.Dark
	st := s.store
	s.notify()
	s.mu.Unlock()

	return store.SaveTheme(ctx, st, dark)
}

// Mount resets connectivity to Connecting. Called when a view attaches.
func (s *State) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.Reset()
	s.sensorGate.Reset()
	s.weatherGate.Reset()
	s.disposed = false
	s.notify()
}

// Dispose detaches the state from its view; later completions are dropped.
func (s *State) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
}

// Snapshot returns a read-only copy of the state with derived fields.
func (s *State) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.prefs.SetPoint
	return View{
		Temperature:  s.temp,
		Humidity:     s.hum,
		HasReading:   s.hasReading,
		Band:         status.Classify(s.temp),
		Condition:    status.RoomCondition(s.temp),
		HumidityBand: status.ClassifyHumidity(s.hum),
		SetPoint:     sp,
		InRange:      sp.Contains(s.temp),
		Tier:         sp.Tier(),
		Conn:         s.conn.State(),
		ConnErr:      s.conn.Err(),
		LastSuccess:  s.conn.LastSuccess(),
		Samples:      s.buf.Samples(),
		Log:          s.buf.Recent(s.logSize),
		Min:          s.buf.Min(),
		Max:          s.buf.Max(),
		Avg:          s.buf.Avg(),
		Weather:      s.weather,
		HasWeather:   s.hasWeather,
		WeatherAt:    s.weatherAt,
		WeatherErr:   s.weatherErr,
		Clock:        s.clock,
		Dark:         s.prefs.Dark,
	}
}
