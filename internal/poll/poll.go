// Package poll runs independent periodic tasks that share one
// cancellation handle.
package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Task is one periodic job. Run receives a per-task sequence number that
// increases with every fire, starting at 1.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context, seq uint64)
}

// Handle stops a set of running tasks.
type Handle struct {
	cancel context.CancelFunc
	loops  sync.WaitGroup
	runs   sync.WaitGroup
	once   sync.Once
}

// Start launches every task. Each task fires immediately and then on its
// interval; a fire never waits for the previous one to finish, so slow
// runs may overlap.
func Start(parent context.Context, tasks ...Task) *Handle {
	ctx, cancel := context.WithCancel(parent)
	h := &Handle{cancel: cancel}
	for _, t := range tasks {
		h.loops.Add(1)
		go h.loop(ctx, t)
	}
	return h
}

func (h *Handle) loop(ctx context.Context, t Task) {
	defer h.loops.Done()

	var seq atomic.Uint64
	fire := func() {
		n := seq.Add(1)
		h.runs.Add(1)
		go func() {
			defer h.runs.Done()
			t.Run(ctx, n)
		}()
	}

	fire()

	// one-shot task
	if t.Interval <= 0 {
		<-ctx.Done()
		return
	}

	tick := time.NewTicker(t.Interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if ctx.Err() != nil {
				return
			}
			fire()
		}
	}
}

// Stop cancels every task and waits until no run is executing. It is safe
// to call more than once.
func (h *Handle) Stop() {
	h.once.Do(func() {
		h.cancel()
		h.loops.Wait()
		h.runs.Wait()
	})
}

// Gate admits completions in sequence order. A completion is applied only
// if its sequence number is above every completion already admitted, so a
// slow, older response never overwrites a newer one.
type Gate struct {
	mu   sync.Mutex
	last uint64
}

// Admit reports whether seq is newer than anything admitted so far and, if
// so, records it.
func (g *Gate) Admit(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq <= g.last {
		return false
	}
	g.last = seq
	return true
}

// Reset forgets every admitted sequence number.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = 0
}

// Last returns the highest admitted sequence number.
func (g *Gate) Last() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}
