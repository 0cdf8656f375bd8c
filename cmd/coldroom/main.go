// Command coldroom is a terminal dashboard for an ice cream cold room: it
// polls the room sensor and regional weather, charts the recent
// temperatures and answers questions about the room through an assistant.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/luki/coldroom/internal/chat"
	"github.com/luki/coldroom/internal/config"
	"github.com/luki/coldroom/internal/dashboard"
	"github.com/luki/coldroom/internal/logger"
	"github.com/luki/coldroom/internal/monitor"
	"github.com/luki/coldroom/internal/sensor"
	"github.com/luki/coldroom/internal/store"
	"github.com/luki/coldroom/internal/weather"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	headless := pflag.Bool("headless", false, "log readings to stdout instead of drawing the dashboard")
	pflag.Parse()

	if err := run(*configPath, *headless); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, headless bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// the TUI owns the terminal, so it logs to a file
	var log *logger.Logger
	if headless {
		log = logger.NewStdout(cfg.LogLevel)
	} else {
		l, closeLog, err := logger.NewFile(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer closeLog()
		log = l
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore := openStore(cfg, log)
	defer closeStore()

	prefs, err := store.LoadPreferences(ctx, st, store.Preferences{SetPoint: cfg.SetPoint})
	if err != nil {
		log.Warnw("some preferences could not be loaded, using defaults", "err", err)
	}

	norm := sensor.NewNormalizer(loc, cfg.TimeLayout)
	state := dashboard.New(dashboard.Options{
		Capacity:     cfg.HistoryCapacity,
		SeedBaseline: &cfg.SeedBaseline,
		SeedJitter:   &cfg.SeedJitter,
		Label:        norm.Label,
	}, st, prefs)

	feed := sensor.NewFeed(cfg.SensorURL, cfg.SensorTimeout)
	poller := &dashboard.Poller{
		State:           state,
		Sensor:          feed,
		Weather:         weather.NewClient(cfg.WeatherURL, cfg.Weather, cfg.WeatherTimeout),
		Normalizer:      norm,
		Log:             log.Named("poller"),
		SensorInterval:  cfg.SensorInterval,
		WeatherInterval: cfg.WeatherInterval,
		ClockInterval:   cfg.ClockInterval,
	}
	log.Infow("starting",
		"sensor", feed.URL(),
		"sensor_interval", cfg.SensorInterval,
		"weather_interval", cfg.WeatherInterval,
		"headless", headless,
	)
	stopper := poller.Start(ctx)
	defer stopper.Stop()

	if headless {
		monitor.RunHeadless(ctx, state, log.Named("headless"))
		log.Infow("shutting down")
		return nil
	}

	gen, err := chat.NewGenerator(ctx, cfg.ChatAPIKey, cfg.ChatModel)
	if err != nil {
		log.Warnw("chat disabled", "err", err)
		gen = chat.Missing{}
	}

	model := monitor.New(ctx, monitor.Options{
		State:        state,
		Conversation: chat.NewConversation(cfg.ChatMode),
		Generator:    gen,
		Log:          log,
		Location:     loc,
		ChatTimeout:  cfg.ChatTimeout,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// openStore opens the preference database, falling back to memory so the
// dashboard still runs when the data dir is unusable.
func openStore(cfg config.Config, log *logger.Logger) (store.Store, func()) {
	path := cfg.PrefsPath
	if path == "" {
		p, err := store.DefaultPath()
		if err != nil {
			log.Warnw("preferences will not persist", "err", err)
			return store.NewMemory(), func() {}
		}
		path = p
	}

	db, err := store.Open(path)
	if err != nil {
		log.Warnw("preferences will not persist", "path", path, "err", err)
		return store.NewMemory(), func() {}
	}
	return db, func() {
		if err := db.Close(); err != nil {
			log.Errorw("close preferences", "err", err)
		}
	}
}
