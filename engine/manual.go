package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/weftlog/weft/activity"
	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/internal/queue"
	"github.com/weftlog/weft/selflog"
)

// ManualLogger is the manual logging facade (C10): a way for a host to
// enqueue a completed LogEntry directly, bypassing automatic interception
// entirely, for call sites where Register[T] auto-interception does not
// apply — a free function, a generated client, a boundary the host wants
// to describe by hand.
type ManualLogger struct {
	queue     *queue.Queue
	activity  *activity.Source
	typeName  string
	level     core.LogEventLevel
	errLevel  core.LogEventLevel
}

// NewManualLogger creates a ManualLogger that enqueues onto q, identifying
// itself as typeName on every entry it builds.
func NewManualLogger(q *queue.Queue, activitySource *activity.Source, typeName string) *ManualLogger {
	return &ManualLogger{
		queue:    q,
		activity: activitySource,
		typeName: typeName,
		level:    core.InformationLevel,
		errLevel: core.ErrorLevel,
	}
}

// WithLevels returns a copy of m using level for successful entries and
// errLevel for failed ones.
func (m *ManualLogger) WithLevels(level, errLevel core.LogEventLevel) *ManualLogger {
	clone := *m
	clone.level = level
	clone.errLevel = errLevel
	return &clone
}

// LogCall builds and enqueues a complete LogEntry describing a call the
// host has already executed, identified by methodName. err nil means the
// call succeeded; a non-nil err marks the entry failed and uses errLevel.
func (m *ManualLogger) LogCall(ctx context.Context, methodName string, start time.Time, input []core.Parameter, output any, hasOutput bool, err error) {
	entry := &core.LogEntry{
		ID:              uuid.New(),
		TypeName:        m.typeName,
		MethodName:      methodName,
		ActivityID:      activity.IDFromContext(ctx),
		TimestampStart:  start,
		DurationTicks:   time.Since(start),
		InputParameters: input,
		Level:           m.level,
		ErrorLevel:      m.errLevel,
	}

	if err != nil {
		entry.Success = core.TriFalse
		entry.Exception = &core.ExceptionInfo{KindName: errorKindName(err), Message: err.Error()}
	} else {
		entry.Success = core.TriTrue
		if hasOutput {
			entry.OutputValue = output
			entry.HasOutput = true
		}
	}

	m.enqueue(entry)
}

// LogEntry enqueues an already-built LogEntry verbatim, for hosts that
// want full control over every field (e.g. a custom Target/Formatter
// override, or a synthetic entry with no corresponding Go call at all).
func (m *ManualLogger) LogEntry(entry *core.LogEntry) {
	m.enqueue(entry)
}

func (m *ManualLogger) enqueue(entry *core.LogEntry) {
	if !m.queue.TryEnqueue(entry) {
		if selflog.IsEnabled() {
			selflog.Printf("[manual] queue closed, dropped entry for %s.%s", entry.TypeName, entry.MethodName)
		}
	}
}

// StartActivity opens a correlation span via the shared activity.Source and
// returns the context entries built afterward should carry.
func (m *ManualLogger) StartActivity(ctx context.Context, name string) (context.Context, *activity.Handle) {
	return m.activity.Start(ctx, name)
}

func errorKindName(err error) string {
	if err == nil {
		return ""
	}
	type kinder interface{ Kind() string }
	if k, ok := err.(kinder); ok {
		return k.Kind()
	}
	return "error"
}
