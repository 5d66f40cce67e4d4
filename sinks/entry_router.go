package sinks

import (
	"sync"
	"sync/atomic"

	"github.com/weftlog/weft/configuration"
	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/selflog"
)

// Renderer renders a completed entry to its final text, matching
// formatters.Writer's surface. Declared locally so sinks does not import
// formatters (formatters already imports configuration and core; sinks
// stays a leaf package in that direction).
type Renderer interface {
	Render(entry *core.LogEntry) string
}

// EntryRouter is the entry-to-sink Router (C9): it resolves the target
// sink named on the entry (or by configuration) and hands the rendered
// text to it as a core.LogEvent, so any existing core.LogEventSink
// (console, file, memory, ...) can consume intercepted entries
// unmodified. Grounded on RouterSink's priority-route/default-sink/stats
// shape, simplified to the single-resolution-order the interception
// pipeline needs instead of RouterSink's general predicate routing.
type EntryRouter struct {
	mu       sync.RWMutex
	byName   map[string]core.LogEventSink
	cfg      *configuration.Config
	renderer Renderer

	routed  atomic.Uint64
	missed  atomic.Uint64
}

// NewEntryRouter creates a router over the named sinks, using cfg to
// resolve a target when the entry does not name one explicitly.
func NewEntryRouter(cfg *configuration.Config, renderer Renderer, byName map[string]core.LogEventSink) *EntryRouter {
	named := make(map[string]core.LogEventSink, len(byName))
	for k, v := range byName {
		named[k] = v
	}
	return &EntryRouter{byName: named, cfg: cfg, renderer: renderer}
}

// RegisterSink adds or replaces the sink registered under name.
func (r *EntryRouter) RegisterSink(name string, sink core.LogEventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = sink
}

// Route implements drain.Sink: it resolves entry's target sink — entry.Target,
// then the configured service-matched target, then Config.DefaultTarget —
// renders the entry, and emits a core.LogEvent built from the rendered
// text. A target with no registered sink is reported via selflog and
// counted as a miss, and the entry goes to the Config.DefaultTarget sink
// instead; if that sink is not registered either, the entry is dropped.
func (r *EntryRouter) Route(entry *core.LogEntry) {
	name := r.resolveTarget(entry)

	r.mu.RLock()
	sink, ok := r.byName[name]
	r.mu.RUnlock()

	if !ok {
		r.missed.Add(1)
		if selflog.IsEnabled() {
			selflog.Printf("[entryrouter] sink_miss: no sink registered for target %q (%s.%s)", name, entry.TypeName, entry.MethodName)
		}
		if name == r.cfg.DefaultTarget {
			return
		}
		r.mu.RLock()
		sink, ok = r.byName[r.cfg.DefaultTarget]
		r.mu.RUnlock()
		if !ok {
			return
		}
	}

	rendered := r.renderer.Render(entry)
	event := EventFromEntry(entry, rendered)

	r.routed.Add(1)
	sink.Emit(event)
}

func (r *EntryRouter) resolveTarget(entry *core.LogEntry) string {
	if entry.Target != nil && *entry.Target != "" {
		return *entry.Target
	}
	return r.cfg.MatchTarget(entry.TypeName)
}

// EventFromEntry projects a completed LogEntry onto a core.LogEvent so
// existing core.LogEventSink implementations can emit it without change.
// MessageTemplate carries the already-rendered text (formatters render the
// entire line up front); Properties exposes the entry's structured fields
// for sinks that inspect properties directly (e.g. Seq/CLEF).
func EventFromEntry(entry *core.LogEntry, rendered string) *core.LogEvent {
	props := map[string]any{
		"Id":         entry.ID.String(),
		"TypeName":   entry.TypeName,
		"MethodName": entry.MethodName,
		"ActivityId": entry.ActivityID,
		"ThreadId":   entry.ThreadID,
		"DurationMs": entry.DurationTicks.Seconds() * 1000,
		"Success":    entry.Success.String(),
	}
	if entry.InputParameters != nil {
		props["InputParameters"] = entry.InputParameters
	}
	if entry.HasOutput {
		props["OutputValue"] = entry.OutputValue
	}

	event := &core.LogEvent{
		Timestamp:       entry.TimestampStart,
		Level:           entry.EffectiveLevel(),
		MessageTemplate: rendered,
		Properties:      props,
	}
	if entry.Exception != nil {
		event.Exception = &formattedException{entry.Exception}
	}
	return event
}

// formattedException adapts core.ExceptionInfo to the error interface so
// it can ride in core.LogEvent.Exception, which existing teacher sinks
// expect to be an error.
type formattedException struct {
	info *core.ExceptionInfo
}

func (f *formattedException) Error() string {
	if f.info.Message == "" {
		return f.info.KindName
	}
	return f.info.KindName + ": " + f.info.Message
}

// Stats exposes the router's operational counters.
type RouterEntryStats struct {
	Routed uint64
	Missed uint64
}

// Stats returns a snapshot of the router's counters.
func (r *EntryRouter) Stats() RouterEntryStats {
	return RouterEntryStats{Routed: r.routed.Load(), Missed: r.missed.Load()}
}
