package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"roomwalk/internal/stats"
)

// RunEventType classifies scheduler events for filtering and routing.
type RunEventType string

const (
	EventRunStart    RunEventType = "run_start"
	EventWorkerStart RunEventType = "worker_start"
	EventWorkerDone  RunEventType = "worker_done"
	EventWorkerError RunEventType = "worker_error"
	EventRunComplete RunEventType = "run_complete"
	EventRunError    RunEventType = "run_error"
)

// RunEvent is a single observation from a run. Worker is -1 for run-level
// events.
type RunEvent struct {
	Type    RunEventType
	Worker  int
	Trials  int
	Start   string
	Elapsed time.Duration
	Partial *stats.Partial
	Error   error
}

// Observer receives events during a run. Worker events arrive concurrently
// from every worker goroutine, so implementations must be safe for
// concurrent use.
type Observer interface {
	OnEvent(RunEvent)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(RunEvent)

func (f ObserverFunc) OnEvent(e RunEvent) { f(e) }

// MultiObserver fans out events to multiple observers.
type MultiObserver []Observer

func (m MultiObserver) OnEvent(e RunEvent) {
	for _, obs := range m {
		if obs != nil {
			obs.OnEvent(e)
		}
	}
}

// LogObserver writes run events as structured slog lines. Run boundaries
// log at info, per-worker progress at debug, failures at error.
type LogObserver struct {
	Logger *slog.Logger
}

func (o *LogObserver) OnEvent(e RunEvent) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []slog.Attr{slog.String("event", string(e.Type))}
	if e.Worker >= 0 {
		attrs = append(attrs, slog.Int("worker", e.Worker))
	}
	attrs = append(attrs, slog.Int("trials", e.Trials))
	if e.Start != "" {
		attrs = append(attrs, slog.String("start", e.Start))
	}
	if e.Elapsed > 0 {
		attrs = append(attrs, slog.Duration("elapsed", e.Elapsed))
	}
	if e.Error != nil {
		attrs = append(attrs, slog.String("error", e.Error.Error()))
	}

	level := slog.LevelDebug
	switch e.Type {
	case EventRunStart, EventRunComplete:
		level = slog.LevelInfo
	case EventWorkerError, EventRunError:
		level = slog.LevelError
	}
	logger.LogAttrs(context.Background(), level, "run", attrs...)
}

// TraceCollector accumulates run events in memory. Safe for concurrent use.
type TraceCollector struct {
	mu     sync.Mutex
	events []RunEvent
}

func (t *TraceCollector) OnEvent(e RunEvent) {
	t.mu.Lock()
	t.events = append(t.events, e)
	t.mu.Unlock()
}

// Events returns a copy of all collected events.
func (t *TraceCollector) Events() []RunEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]RunEvent, len(t.events))
	copy(out, t.events)
	return out
}

// EventsOfType returns only events matching the given type.
func (t *TraceCollector) EventsOfType(typ RunEventType) []RunEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []RunEvent
	for _, e := range t.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func emitEvent(obs Observer, e RunEvent) {
	if obs != nil {
		obs.OnEvent(e)
	}
}
