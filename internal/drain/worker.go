// Package drain implements the background drain worker (C5): a single
// goroutine that batches entries off the shared queue and hands each batch
// to the router/writer, grounded on sinks/async.go's batching worker loop
// generalized to the entry queue (internal/queue) instead of a
// sink-specific event channel.
package drain

import (
	"context"
	"sync"
	"time"

	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/internal/queue"
	"github.com/weftlog/weft/selflog"
)

// Sink is the minimal surface the drain worker hands rendered batches to.
// sinks.EntryRouter implements it.
type Sink interface {
	Route(entry *core.LogEntry)
}

// Worker drains q in batches bounded by MaxBatchSize entries or
// BatchTimeout, whichever comes first, handing each entry to sink. Only
// one drain pass (steady-state run loop or an explicit Flush) executes at
// a time.
type Worker struct {
	q             *queue.Queue
	sink          Sink
	maxBatch      int
	batchTimeout  time.Duration

	flushMu sync.Mutex // serializes run()'s steady-state draining against Flush
	done    chan struct{}
}

// New creates a drain Worker. maxBatch <= 0 defaults to 100; batchTimeout
// <= 0 defaults to one second.
func New(q *queue.Queue, sink Sink, maxBatch int, batchTimeout time.Duration) *Worker {
	if maxBatch <= 0 {
		maxBatch = 100
	}
	if batchTimeout <= 0 {
		batchTimeout = time.Second
	}
	return &Worker{
		q:            q,
		sink:         sink,
		maxBatch:     maxBatch,
		batchTimeout: batchTimeout,
		done:         make(chan struct{}),
	}
}

// Run drains q until ctx is canceled, then performs one final drain-to-empty
// pass before returning. Intended to be called on its own goroutine.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			w.flushMu.Lock()
			w.drainToEmpty()
			w.flushMu.Unlock()
			return
		default:
		}

		w.flushMu.Lock()
		batch := w.q.ReadBatch(w.maxBatch, w.batchTimeout)
		w.processBatch(batch)
		w.flushMu.Unlock()
	}
}

// Flush synchronously drains every entry currently buffered in q, even
// while Run's steady-state loop is active elsewhere.
func (w *Worker) Flush() {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()
	w.drainToEmpty()
}

// Done reports a channel closed once Run has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) drainToEmpty() {
	for {
		batch := w.q.DrainAll()
		if len(batch) == 0 {
			return
		}
		w.processBatch(batch)
	}
}

func (w *Worker) processBatch(batch []*core.LogEntry) {
	for _, entry := range batch {
		w.routeOne(entry)
	}
}

// routeOne hands a single entry to the sink, recovering from any panic so
// one malformed entry never kills the drain goroutine or drops the rest of
// the batch.
func (w *Worker) routeOne(entry *core.LogEntry) {
	defer func() {
		if r := recover(); r != nil {
			if selflog.IsEnabled() {
				selflog.Printf("[drain] panic routing %s.%s: %v", entry.TypeName, entry.MethodName, r)
			}
		}
	}()
	w.sink.Route(entry)
}
