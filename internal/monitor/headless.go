package monitor

import (
	"context"

	"github.com/luki/coldroom/internal/connstate"
	"github.com/luki/coldroom/internal/dashboard"
	"github.com/luki/coldroom/internal/logger"
)

// RunHeadless logs connectivity changes and new readings from state until
// ctx is cancelled. It is the no-terminal counterpart of the TUI.
func RunHeadless(ctx context.Context, state *dashboard.State, log *logger.Logger) {
	var (
		lastConn  connstate.State
		lastLabel string
	)
	report := func() {
		v := state.Snapshot()
		if v.Conn != lastConn {
			if v.ConnErr != nil {
				log.Warnw("sensor feed", "state", v.Conn, "err", v.ConnErr)
			} else {
				log.Infow("sensor feed", "state", v.Conn)
			}
			lastConn = v.Conn
		}
		if !v.HasReading || len(v.Log) == 0 || v.Log[0].Label == lastLabel {
			return
		}
		lastLabel = v.Log[0].Label
		log.Infow("reading",
			"time", lastLabel,
			"temp", v.Temperature,
			"humidity", v.Humidity,
			"band", v.Band.String(),
			"in_range", v.InRange,
		)
	}

	report()
	for {
		select {
		case <-ctx.Done():
			return
		case <-state.Changes():
			report()
		}
	}
}
