package core

import (
	"time"

	"github.com/google/uuid"
)

// Parameter is a single structured input argument captured on a LogEntry.
type Parameter struct {
	Name     string
	TypeName string
	Value    any
}

// ExceptionInfo describes a failure captured on a LogEntry.
type ExceptionInfo struct {
	KindName          string
	Message           string
	Stack             string
	BaseCauseKindName string
}

// LogEntry is the immutable-after-completion record of a single intercepted
// method invocation, from the moment it starts until it completes (or, for
// a manually logged entry, the moment it was constructed).
//
// An entry transitions through at most two states: pending (just started,
// Success == TriPending) and complete (Success == TriTrue or TriFalse). The
// interceptor completes the start entry in place and enqueues that single
// entry; it is not modified after it has been enqueued. Manual entries built
// through the logger facade are always already complete.
type LogEntry struct {
	ID         uuid.UUID
	MethodName string
	TypeName   string

	// ActivityID is the correlation identifier of the currently open
	// activity span, if any.
	ActivityID string

	// ThreadID approximates the emitting goroutine using a process-wide
	// counter handed out per Intercept call; Go has no stable goroutine id.
	ThreadID int64

	TimestampStart time.Time
	DurationTicks  time.Duration

	Success Tri

	InputParameters []Parameter

	OutputValue any
	HasOutput   bool

	Exception *ExceptionInfo

	Level      LogEventLevel
	ErrorLevel LogEventLevel

	Target    *string
	Formatter *string

	TemplateHint *string
}

// NewLogEntry builds a pending LogEntry with a fresh identifier and the
// current timestamp. Callers fill in the remaining fields before the entry
// is enqueued.
func NewLogEntry(typeName, methodName string) *LogEntry {
	return &LogEntry{
		ID:             uuid.New(),
		TypeName:       typeName,
		MethodName:     methodName,
		TimestampStart: time.Now(),
		Success:        TriPending,
	}
}

// EffectiveLevel returns ErrorLevel when the entry failed, Level otherwise.
// A pending entry (never expected to reach a sink) reports Level.
func (e *LogEntry) EffectiveLevel() LogEventLevel {
	if e.Success == TriFalse {
		return e.ErrorLevel
	}
	return e.Level
}
