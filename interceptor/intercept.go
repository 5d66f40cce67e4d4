package interceptor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/weftlog/weft/activity"
	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/internal/queue"
	"github.com/weftlog/weft/selflog"
)

// Interceptor wraps method invocations (C3): it consults the decision
// cache, builds one entry at the start of the call and completes it when the
// call returns, times the call, and enqueues that entry onto the background
// queue without ever blocking the caller.
type Interceptor struct {
	cache    *Cache
	queue    *queue.Queue
	redactor Redactor
}

// NewInterceptor creates an Interceptor over the given cache and queue. A
// nil redactor is replaced with PassthroughRedactor so the hot path never
// nil-checks.
func NewInterceptor(cache *Cache, q *queue.Queue, redactor Redactor) *Interceptor {
	if redactor == nil {
		redactor = PassthroughRedactor{}
	}
	return &Interceptor{cache: cache, queue: q, redactor: redactor}
}

// Intercept runs inv.Proceed under the decision cached for inv.Method,
// enqueuing one completed entry per call when a decision applies. The original
// return value and error (or panic) always propagate to the caller
// unchanged; only logging failures are swallowed.
func (ic *Interceptor) Intercept(ctx context.Context, inv Invocation) (result any, err error) {
	decision := ic.cache.DecisionFor(inv.Method)
	if decision == nil {
		return inv.Proceed()
	}

	entry := ic.safeBuildStart(ctx, inv, decision)
	started := time.Now()

	var panicked any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = r
			}
		}()
		result, err = inv.Proceed()
	}()

	if panicked == nil && inv.Future != nil {
		if handle, ok := inv.Future(result); ok {
			go ic.observeFuture(entry, decision, started, handle)
			return result, err
		}
	}

	completion := ic.safeBuildCompletion(entry, decision, started, result, err, panicked)
	ic.enqueue(completion)

	if panicked != nil {
		panic(panicked)
	}
	return result, err
}

// observeFuture runs on its own goroutine, blocking only itself while it
// waits for a deferred completion to resolve.
func (ic *Interceptor) observeFuture(entry *core.LogEntry, decision *core.Decision, started time.Time, handle FutureHandle) {
	<-handle.Done()
	value, err := handle.Result()
	completion := ic.safeBuildCompletion(entry, decision, started, value, err, nil)
	ic.enqueue(completion)
}

func (ic *Interceptor) enqueue(entry *core.LogEntry) {
	if !ic.queue.TryEnqueue(entry) {
		if selflog.IsEnabled() {
			selflog.Printf("[interceptor] queue closed, dropped entry for %s.%s", entry.TypeName, entry.MethodName)
		}
	}
}

// safeBuildStart builds the start entry, recovering from any panic raised
// during assembly (e.g. inside the redactor) so a logging bug can never
// prevent Proceed from running.
func (ic *Interceptor) safeBuildStart(ctx context.Context, inv Invocation, decision *core.Decision) (entry *core.LogEntry) {
	defer func() {
		if r := recover(); r != nil {
			if selflog.IsEnabled() {
				selflog.Printf("[interceptor] start entry assembly panic for %s.%s: %v", methodTypeName(inv.Method.DeclaringType), inv.Method.Name, r)
			}
			entry = ic.minimalEntry(ctx, inv, decision)
		}
	}()
	return ic.buildStart(ctx, inv, decision)
}

func (ic *Interceptor) buildStart(ctx context.Context, inv Invocation, decision *core.Decision) *core.LogEntry {
	e := core.NewLogEntry(methodTypeName(inv.Method.DeclaringType), inv.Method.Name)
	e.ThreadID = nextEmittingID()
	e.ActivityID = activity.IDFromContext(ctx)
	e.Level = decision.Level
	e.ErrorLevel = decision.ErrorLevel
	e.Target = decision.Target
	e.Formatter = decision.Formatter

	if decision.Behavior.WantsInput() {
		e.InputParameters = ic.structureArgs(inv, decision)
	}
	return e
}

func (ic *Interceptor) minimalEntry(ctx context.Context, inv Invocation, decision *core.Decision) *core.LogEntry {
	e := core.NewLogEntry(methodTypeName(inv.Method.DeclaringType), inv.Method.Name)
	e.ActivityID = activity.IDFromContext(ctx)
	e.Level = decision.Level
	e.ErrorLevel = decision.ErrorLevel
	return e
}

func (ic *Interceptor) structureArgs(inv Invocation, decision *core.Decision) []core.Parameter {
	params := make([]core.Parameter, 0, len(inv.Args))
	for i, a := range inv.Args {
		params = append(params, ic.structureOne(inv.Method.DeclaringType, i, a))
	}
	return params
}

func (ic *Interceptor) structureOne(declaringType reflect.Type, index int, a Argument) (p core.Parameter) {
	defer func() {
		if r := recover(); r != nil {
			if selflog.IsEnabled() {
				selflog.Printf("[interceptor] argument structuring panic at index %d: %v", index, r)
			}
			p = core.Parameter{Name: fallbackArgName(a.Name, index), TypeName: fallbackTypeName(a.TypeName, a.Value)}
		}
	}()

	name := fallbackArgName(a.Name, index)
	typeName := fallbackTypeName(a.TypeName, a.Value)
	desc := ParameterDescriptor{Name: name, TypeName: typeName, Index: index}
	value := ic.redactor.Redact(declaringType, desc, a.Value)
	return core.Parameter{Name: name, TypeName: typeName, Value: value}
}

func fallbackArgName(name string, index int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("arg%d", index)
}

func fallbackTypeName(typeName string, value any) string {
	if typeName != "" {
		return typeName
	}
	if value == nil {
		return "null"
	}
	return reflect.TypeOf(value).String()
}

func (ic *Interceptor) safeBuildCompletion(entry *core.LogEntry, decision *core.Decision, started time.Time, result any, err error, panicked any) (completion *core.LogEntry) {
	defer func() {
		if r := recover(); r != nil {
			if selflog.IsEnabled() {
				selflog.Printf("[interceptor] completion entry assembly panic for %s.%s: %v", entry.TypeName, entry.MethodName, r)
			}
			completion = entry
			completion.DurationTicks = time.Since(started)
			completion.Success = core.TriFalse
			completion.Exception = &core.ExceptionInfo{KindName: "AssemblyError", Message: fmt.Sprint(r)}
		}
	}()
	return ic.buildCompletion(entry, decision, started, result, err, panicked)
}

func (ic *Interceptor) buildCompletion(entry *core.LogEntry, decision *core.Decision, started time.Time, result any, err error, panicked any) *core.LogEntry {
	entry.DurationTicks = time.Since(started)

	switch {
	case panicked != nil:
		entry.Success = core.TriFalse
		entry.Exception = &core.ExceptionInfo{
			KindName: reflect.TypeOf(panicked).String(),
			Message:  fmt.Sprint(panicked),
		}
	case err != nil:
		entry.Success = core.TriFalse
		entry.Exception = exceptionFromError(err)
	default:
		entry.Success = core.TriTrue
		if decision.Behavior.WantsOutput() {
			entry.OutputValue = ic.redactor.Redact(nil, ParameterDescriptor{Name: "OutputValue"}, result)
			entry.HasOutput = true
		}
	}
	return entry
}

func exceptionFromError(err error) *core.ExceptionInfo {
	info := &core.ExceptionInfo{
		KindName: reflect.TypeOf(err).String(),
		Message:  err.Error(),
	}
	cause := err
	for {
		unwrapped := errors.Unwrap(cause)
		if unwrapped == nil {
			break
		}
		cause = unwrapped
	}
	if cause != err {
		info.BaseCauseKindName = reflect.TypeOf(cause).String()
	}
	return info
}
