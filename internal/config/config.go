// Package config loads dashboard settings from an optional YAML file and
// COLDROOM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/luki/coldroom/internal/chat"
	"github.com/luki/coldroom/internal/dashboard"
	"github.com/luki/coldroom/internal/history"
	"github.com/luki/coldroom/internal/logger"
	"github.com/luki/coldroom/internal/sensor"
	"github.com/luki/coldroom/internal/status"
	"github.com/luki/coldroom/internal/store"
	"github.com/luki/coldroom/internal/weather"
)

// EnvPrefix prefixes every environment override, e.g. COLDROOM_SENSOR_URL.
const EnvPrefix = "COLDROOM"

const defaultHTTPTimeout = 10 * time.Second

// Config is the resolved configuration.
type Config struct {
	SensorURL      string
	SensorInterval time.Duration
	SensorTimeout  time.Duration

	WeatherURL      string
	Weather         weather.Location
	WeatherInterval time.Duration
	WeatherTimeout  time.Duration

	ClockInterval time.Duration

	DisplayLocation string
	TimeLayout      string

	HistoryCapacity int
	SeedBaseline    float64
	SeedJitter      float64

	SetPoint status.SetPoint

	ChatAPIKey  string
	ChatModel   string
	ChatMode    chat.Mode
	ChatTimeout time.Duration

	PrefsPath string // empty means the default under the data dir

	LogLevel string
	LogFile  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sensor.url", sensor.DefaultURL)
	v.SetDefault("sensor.interval", dashboard.DefaultSensorInterval)
	v.SetDefault("sensor.timeout", defaultHTTPTimeout)

	v.SetDefault("weather.url", weather.DefaultURL)
	v.SetDefault("weather.latitude", weather.DefaultLatitude)
	v.SetDefault("weather.longitude", weather.DefaultLongitude)
	v.SetDefault("weather.timezone", weather.DefaultTimezone)
	v.SetDefault("weather.interval", dashboard.DefaultWeatherInterval)
	v.SetDefault("weather.timeout", defaultHTTPTimeout)

	v.SetDefault("clock.interval", dashboard.DefaultClockInterval)

	v.SetDefault("display.location", "Local")
	v.SetDefault("display.time_layout", sensor.DefaultLayout)

	v.SetDefault("history.capacity", history.DefaultCapacity)
	v.SetDefault("history.seed_baseline", dashboard.DefaultSeedBaseline)
	v.SetDefault("history.seed_jitter", dashboard.DefaultSeedJitter)

	v.SetDefault("setpoint.min", status.DefaultMin)
	v.SetDefault("setpoint.max", status.DefaultMax)

	v.SetDefault("chat.api_key", "")
	v.SetDefault("chat.model", chat.DefaultModel)
	v.SetDefault("chat.mode", string(chat.ModeTranscript))
	v.SetDefault("chat.timeout", 30*time.Second)

	v.SetDefault("prefs.path", "")

	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("log.file", filepath.Join(store.DataDir(), "coldroom.log"))
}

// Load reads the configuration. With an explicit path the file must exist;
// otherwise config.yaml is looked up in the data dir and the working
// directory and may be absent.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("chat.api_key", EnvPrefix+"_CHAT_API_KEY", "GEMINI_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("config: bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(store.DataDir())
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	cfg := Config{
		SensorURL:      v.GetString("sensor.url"),
		SensorInterval: v.GetDuration("sensor.interval"),
		SensorTimeout:  v.GetDuration("sensor.timeout"),

		WeatherURL: v.GetString("weather.url"),
		Weather: weather.Location{
			Latitude:  v.GetFloat64("weather.latitude"),
			Longitude: v.GetFloat64("weather.longitude"),
			Timezone:  v.GetString("weather.timezone"),
		},
		WeatherInterval: v.GetDuration("weather.interval"),
		WeatherTimeout:  v.GetDuration("weather.timeout"),

		ClockInterval: v.GetDuration("clock.interval"),

		DisplayLocation: v.GetString("display.location"),
		TimeLayout:      v.GetString("display.time_layout"),

		HistoryCapacity: v.GetInt("history.capacity"),
		SeedBaseline:    v.GetFloat64("history.seed_baseline"),
		SeedJitter:      v.GetFloat64("history.seed_jitter"),

		SetPoint: status.SetPoint{
			Min: v.GetFloat64("setpoint.min"),
			Max: v.GetFloat64("setpoint.max"),
		},

		ChatAPIKey:  v.GetString("chat.api_key"),
		ChatModel:   v.GetString("chat.model"),
		ChatMode:    chat.Mode(strings.ToLower(v.GetString("chat.mode"))),
		ChatTimeout: v.GetDuration("chat.timeout"),

		PrefsPath: v.GetString("prefs.path"),

		LogLevel: strings.ToLower(v.GetString("log.level")),
		LogFile:  v.GetString("log.file"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, d time.Duration) {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	positive("sensor.interval", c.SensorInterval)
	positive("sensor.timeout", c.SensorTimeout)
	positive("weather.interval", c.WeatherInterval)
	positive("weather.timeout", c.WeatherTimeout)
	positive("clock.interval", c.ClockInterval)
	positive("chat.timeout", c.ChatTimeout)

	if c.SensorURL == "" {
		errs = append(errs, errors.New("sensor.url is required"))
	}
	if c.HistoryCapacity <= 0 {
		errs = append(errs, fmt.Errorf("history.capacity must be positive, got %d", c.HistoryCapacity))
	}
	if err := c.SetPoint.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("setpoint: %w", err))
	}
	if c.ChatMode != chat.ModeTranscript && c.ChatMode != chat.ModeTurns {
		errs = append(errs, fmt.Errorf("chat.mode must be %q or %q, got %q", chat.ModeTranscript, chat.ModeTurns, c.ChatMode))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Location resolves the display time zone.
func (c Config) Location() (*time.Location, error) {
	switch c.DisplayLocation {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.DisplayLocation)
	if err != nil {
		return nil, fmt.Errorf("display.location: %w", err)
	}
	return loc, nil
}
