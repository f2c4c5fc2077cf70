// Package sim generates realistic synthetic security events so the
// dashboard has data to show in clusters without live enforcement traffic.
package sim

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kubeshield/audit-service/internal/event"
	"github.com/kubeshield/audit-service/internal/metrics"
)

// DefaultInterval is the tick period between synthesized events.
const DefaultInterval = 5 * time.Second

// stopTimeout bounds how long Stop waits for the loop to exit.
const stopTimeout = 5 * time.Second

// Sink is the generator's sole write capability. It matches Store.Add so
// simulated events travel the same path as operator events.
type Sink func(ev event.SecurityEvent, source string) event.StoredEvent

// Generator synthesizes one event per interval on a background goroutine
// and submits it through its sink tagged source="simulation".
type Generator struct {
	sink     Sink
	interval time.Duration
	enabled  bool
	now      func() time.Time

	mu       sync.Mutex
	running  bool
	stopping bool
	stop     chan struct{}
	done     chan struct{}
}

// New creates a Generator. interval <= 0 falls back to DefaultInterval.
// A disabled Generator ignores Start.
func New(sink Sink, interval time.Duration, enabled bool) *Generator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Generator{
		sink:     sink,
		interval: interval,
		enabled:  enabled,
		now:      time.Now,
	}
}

// Start launches the generation loop. No-op when disabled or already
// running.
func (g *Generator) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.enabled || g.running {
		return
	}
	g.stop = make(chan struct{})
	g.done = make(chan struct{})
	g.running = true
	go g.run(g.interval, g.stop, g.done)
	slog.Info("simulation started", "interval", g.interval)
}

// Reconfigure stops the loop, applies new settings, and starts it again
// if enabled. Used by config hot reload.
func (g *Generator) Reconfigure(interval time.Duration, enabled bool) {
	g.Stop()
	g.mu.Lock()
	if interval > 0 {
		g.interval = interval
	}
	g.enabled = enabled
	g.mu.Unlock()
	g.Start()
}

// Stop signals the loop and blocks until it exits or stopTimeout elapses.
// The timeout is best effort: it is logged, never surfaced as an error.
// No-op when not running.
func (g *Generator) Stop() {
	g.mu.Lock()
	if !g.running || g.stopping {
		g.mu.Unlock()
		return
	}
	g.stopping = true
	stop, done := g.stop, g.done
	g.mu.Unlock()

	close(stop)
	select {
	case <-done:
	case <-time.After(stopTimeout):
		slog.Warn("simulation loop did not exit before timeout")
	}

	g.mu.Lock()
	g.running = false
	g.stopping = false
	g.mu.Unlock()
	slog.Info("simulation stopped")
}

// IsRunning reports the loop state for health reporting.
func (g *Generator) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

func (g *Generator) run(interval time.Duration, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		g.tick()
		select {
		case <-ticker.C:
		case <-stop:
			return
		}
	}
}

// tick synthesizes and submits one event. Any panic is swallowed so a bad
// tick never stalls or kills the loop; the next tick retries.
func (g *Generator) tick() {
	defer func() {
		if r := recover(); r != nil {
			metrics.SimulationErrors.Inc()
			slog.Error("simulation tick failed", "panic", r)
		}
	}()
	ev := g.randomEvent()
	g.sink(ev, event.SourceSimulation)
	metrics.SimulationTicks.Inc()
}
