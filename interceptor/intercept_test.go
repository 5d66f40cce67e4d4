package interceptor

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/weftlog/weft/configuration"
	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/internal/queue"
)

type echoService struct{}

func (echoService) Echo(s string) (string, error) { return s, nil }

func newTestInterceptor(t *testing.T, cfg *configuration.Config) (*Interceptor, *queue.Queue) {
	t.Helper()
	r := NewRegistry()
	Register[echoService](r, LogBoth("Echo"))
	c := NewCache(r, cfg)
	q := queue.New(10)
	return NewInterceptor(c, q, nil), q
}

func TestIntercept_LogsSuccessfulCall(t *testing.T) {
	cfg := configuration.DefaultConfig()
	ic, q := newTestInterceptor(t, cfg)

	inv := Invocation{
		Method: MethodKey{DeclaringType: reflect.TypeOf(echoService{}), Name: "Echo"},
		Args:   []Argument{{Name: "s", TypeName: "string", Value: "hello"}},
		Proceed: func() (any, error) {
			return "hello", nil
		},
	}

	result, err := ic.Intercept(context.Background(), inv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "hello" {
		t.Fatalf("result = %v, want hello", result)
	}

	entries := q.DrainAll()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Success != core.TriTrue {
		t.Errorf("Success = %v, want TriTrue", e.Success)
	}
	if e.MethodName != "Echo" {
		t.Errorf("MethodName = %q, want Echo", e.MethodName)
	}
	if !e.HasOutput || e.OutputValue != "hello" {
		t.Errorf("OutputValue = %v (HasOutput=%v), want hello", e.OutputValue, e.HasOutput)
	}
	if len(e.InputParameters) != 1 || e.InputParameters[0].Value != "hello" {
		t.Errorf("InputParameters = %+v", e.InputParameters)
	}
}

func TestIntercept_LogsFailedCall(t *testing.T) {
	cfg := configuration.DefaultConfig()
	ic, q := newTestInterceptor(t, cfg)

	wantErr := errors.New("boom")
	inv := Invocation{
		Method: MethodKey{DeclaringType: reflect.TypeOf(echoService{}), Name: "Echo"},
		Proceed: func() (any, error) {
			return "", wantErr
		},
	}

	_, err := ic.Intercept(context.Background(), inv)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}

	entries := q.DrainAll()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Success != core.TriFalse {
		t.Errorf("Success = %v, want TriFalse", entries[0].Success)
	}
	if entries[0].Exception == nil || entries[0].Exception.Message != "boom" {
		t.Errorf("Exception = %+v", entries[0].Exception)
	}
}

func TestIntercept_PanicPropagatesAndIsLogged(t *testing.T) {
	cfg := configuration.DefaultConfig()
	ic, q := newTestInterceptor(t, cfg)

	inv := Invocation{
		Method: MethodKey{DeclaringType: reflect.TypeOf(echoService{}), Name: "Echo"},
		Proceed: func() (any, error) {
			panic("kaboom")
		},
	}

	defer func() {
		r := recover()
		if r != "kaboom" {
			t.Fatalf("recovered %v, want kaboom", r)
		}
		entries := q.DrainAll()
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry after panic, got %d", len(entries))
		}
		if entries[0].Success != core.TriFalse {
			t.Errorf("Success = %v, want TriFalse", entries[0].Success)
		}
	}()

	_, _ = ic.Intercept(context.Background(), inv)
}

func TestIntercept_NoDecisionBypassesLogging(t *testing.T) {
	cfg := configuration.DefaultConfig()
	cfg.AutoIntercept = false

	r := NewRegistry()
	Register[echoService](r)
	c := NewCache(r, cfg)
	q := queue.New(10)
	ic := NewInterceptor(c, q, nil)

	inv := Invocation{
		Method: MethodKey{DeclaringType: reflect.TypeOf(echoService{}), Name: "Echo"},
		Proceed: func() (any, error) {
			return "unlogged", nil
		},
	}

	result, err := ic.Intercept(context.Background(), inv)
	if err != nil || result != "unlogged" {
		t.Fatalf("result=%v err=%v", result, err)
	}
	if len(q.DrainAll()) != 0 {
		t.Error("expected no entries to be queued without a decision")
	}
}

type fakeFuture struct {
	done chan struct{}
	val  any
	err  error
}

func (f *fakeFuture) Done() <-chan struct{}      { return f.done }
func (f *fakeFuture) Result() (any, error)       { return f.val, f.err }

func TestIntercept_DeferredFutureDoesNotBlockCaller(t *testing.T) {
	cfg := configuration.DefaultConfig()
	ic, q := newTestInterceptor(t, cfg)

	future := &fakeFuture{done: make(chan struct{})}

	inv := Invocation{
		Method: MethodKey{DeclaringType: reflect.TypeOf(echoService{}), Name: "Echo"},
		Proceed: func() (any, error) {
			return future, nil
		},
		Future: func(result any) (FutureHandle, bool) {
			return result.(*fakeFuture), true
		},
	}

	start := time.Now()
	result, err := ic.Intercept(context.Background(), inv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("Intercept blocked on the future instead of returning immediately")
	}
	if result != future {
		t.Fatalf("result = %v, want the future itself", result)
	}

	if len(q.DrainAll()) != 0 {
		t.Fatal("expected no entry before the future resolves")
	}

	future.val = "resolved"
	close(future.done)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if entries := q.DrainAll(); len(entries) == 1 {
			if entries[0].OutputValue != "resolved" {
				t.Errorf("OutputValue = %v, want resolved", entries[0].OutputValue)
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("completion entry for the resolved future was never enqueued")
}
