package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/weftlog/weft/activity"
	"github.com/weftlog/weft/configuration"
	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/formatters"
	"github.com/weftlog/weft/internal/drain"
	"github.com/weftlog/weft/internal/parser"
	"github.com/weftlog/weft/internal/queue"
	"github.com/weftlog/weft/interceptor"
	"github.com/weftlog/weft/sinks"
)

// Lifecycle is the Lifecycle Controller (C11): it owns the interception
// pipeline's runtime components — the decision cache, the background
// queue, the drain worker, and the entry router — and is responsible for
// starting and stopping them in the right order.
type Lifecycle struct {
	cfg *configuration.Config

	Registry      *interceptor.Registry
	Cache         *interceptor.Cache
	Interceptor   *interceptor.Interceptor
	Queue         *queue.Queue
	Formatters    *formatters.Registry
	Writer        *formatters.Writer
	Router        *sinks.EntryRouter
	Manual        *ManualLogger
	ActivitySource *activity.Source

	worker *drain.Worker

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
	cancel   context.CancelFunc
}

// NewLifecycle assembles the interception pipeline's components from cfg,
// the method registry the host has populated via interceptor.Register[T],
// a redactor (nil for PassthroughRedactor), and the named sinks the
// entries should ultimately reach.
func NewLifecycle(cfg *configuration.Config, registry *interceptor.Registry, redactor interceptor.Redactor, manualTypeName string, sinksByName map[string]core.LogEventSink) *Lifecycle {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}

	cache := interceptor.NewCache(registry, cfg)
	q := queue.New(cfg.QueueCapacity)
	ic := interceptor.NewInterceptor(cache, q, redactor)

	fr := formatters.NewRegistry(cfg)
	writer := formatters.NewWriter(fr, cfg)
	router := sinks.NewEntryRouter(cfg, writer, sinksByName)

	activitySource := activity.NewSource(cfg.ActivitySourceName)
	manual := NewManualLogger(q, activitySource, manualTypeName)

	worker := drain.New(q, router, cfg.MaxBatchSize, cfg.BatchTimeout)

	return &Lifecycle{
		cfg:            cfg,
		Registry:       registry,
		Cache:          cache,
		Interceptor:    ic,
		Queue:          q,
		Formatters:     fr,
		Writer:         writer,
		Router:         router,
		Manual:         manual,
		ActivitySource: activitySource,
		worker:         worker,
	}
}

// Start precomputes the decision cache, precompiles the built-in and
// configured templates, and starts the background drain worker. Start is
// idempotent; calling it twice is a no-op after the first call.
func (lc *Lifecycle) Start() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.started {
		return
	}
	lc.started = true

	lc.Cache.Precompute()

	extra := make([]string, 0, len(lc.cfg.Templates))
	for _, t := range lc.cfg.Templates {
		if t.SuccessTemplate != "" {
			extra = append(extra, t.SuccessTemplate)
		}
		if t.ErrorTemplate != "" {
			extra = append(extra, t.ErrorTemplate)
		}
		if t.GeneralTemplate != "" {
			extra = append(extra, t.GeneralTemplate)
		}
	}
	parser.PrecompileDefaults(extra...)

	ctx, cancel := context.WithCancel(context.Background())
	lc.cancel = cancel
	go lc.worker.Run(ctx)
}

// Shutdown stops the drain worker, waits up to Config.ShutdownTimeout for
// it to drain the queue to empty, and closes the queue so any further
// enqueue attempt is reported rather than silently accepted. Shutdown is
// safe to call more than once; only the first call has effect.
func (lc *Lifecycle) Shutdown() error {
	var err error
	lc.stopOnce.Do(func() {
		lc.mu.Lock()
		started := lc.started
		cancel := lc.cancel
		lc.mu.Unlock()

		if !started {
			return
		}

		cancel()

		select {
		case <-lc.worker.Done():
		case <-time.After(lc.cfg.ShutdownTimeout):
			err = fmt.Errorf("weft: timed out after %s waiting for drain worker to finish", lc.cfg.ShutdownTimeout)
		}

		lc.worker.Flush()
		lc.Queue.Close()
	})
	return err
}

// Diagnostics returns a point-in-time snapshot of the pipeline's
// operational counters, useful for health checks and tests.
type Diagnostics struct {
	Queue  queue.Stats
	Router sinks.RouterEntryStats
}

// Diagnostics returns the current queue and router statistics.
func (lc *Lifecycle) Diagnostics() Diagnostics {
	return Diagnostics{
		Queue:  lc.Queue.Stats(),
		Router: lc.Router.Stats(),
	}
}
