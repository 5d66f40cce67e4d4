// Package queue implements the bounded, non-blocking, drop-oldest-on-full
// background queue (C4) shared by the interceptor and the manual logger
// facade. It is grounded on sinks/async.go's channel-buffered overflow
// handling (the OverflowDropOldest strategy specifically), generalized
// into a standalone, sink-agnostic queue of *core.LogEntry values with
// explicit batch draining for the drain worker.
package queue

import (
	"sync/atomic"
	"time"

	"github.com/weftlog/weft/core"
)

// Queue is a bounded multi-producer, single-consumer queue backed by a
// buffered channel, with drop-oldest-on-full overflow semantics.
type Queue struct {
	entries chan *core.LogEntry
	notify  chan struct{} // buffered cap 1; signals "data may be available"
	closed  atomic.Bool

	enqueued      atomic.Uint64
	droppedOnFull atomic.Uint64
	drained       atomic.Uint64
}

// New creates a queue with the given bounded capacity. capacity <= 0 is
// treated as the documented default of 10000.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 10000
	}
	return &Queue{
		entries: make(chan *core.LogEntry, capacity),
		notify:  make(chan struct{}, 1),
	}
}

// TryEnqueue adds e to the queue, dropping the oldest pending entry if the
// queue is full, and returns false only once the queue has been closed.
// It never blocks.
func (q *Queue) TryEnqueue(e *core.LogEntry) bool {
	if q.closed.Load() {
		return false
	}

	select {
	case q.entries <- e:
	default:
		// Channel is full: remove the oldest entry to make room, then
		// retry once. If a concurrent drain already made room, or
		// another producer raced us to the freed slot, fall back to
		// dropping this entry rather than blocking.
		select {
		case <-q.entries:
			q.droppedOnFull.Add(1)
			select {
			case q.entries <- e:
			default:
				q.droppedOnFull.Add(1)
				q.signal()
				return true
			}
		default:
			q.droppedOnFull.Add(1)
			q.signal()
			return true
		}
	}

	q.enqueued.Add(1)
	q.signal()
	return true
}

func (q *Queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// ReadBatch waits for at least one entry (up to timeout) and then returns
// up to max currently-buffered entries without blocking further. It is the
// drain worker's only suspension point besides the timeout itself.
func (q *Queue) ReadBatch(max int, timeout time.Duration) []*core.LogEntry {
	if len(q.entries) == 0 {
		timer := time.NewTimer(timeout)
		select {
		case <-q.notify:
		case <-timer.C:
		}
		timer.Stop()
	}
	return q.drain(max)
}

// DrainAll synchronously removes and returns every buffered entry without
// waiting, used by shutdown to flush the queue to empty.
func (q *Queue) DrainAll() []*core.LogEntry {
	return q.drain(-1)
}

func (q *Queue) drain(max int) []*core.LogEntry {
	n := len(q.entries)
	if max >= 0 && max < n {
		n = max
	}
	if n == 0 {
		return nil
	}

	out := make([]*core.LogEntry, 0, n)
	for i := 0; i < n; i++ {
		select {
		case e := <-q.entries:
			out = append(out, e)
			q.drained.Add(1)
		default:
			return out
		}
	}
	return out
}

// Close marks the queue closed; subsequent TryEnqueue calls return false.
// Already-buffered entries remain available to ReadBatch/DrainAll.
func (q *Queue) Close() {
	q.closed.Store(true)
}

// Stats exposes the queue's operational counters.
type Stats struct {
	Enqueued      uint64
	DroppedOnFull uint64
	Drained       uint64
	Buffered      int
}

// Stats returns a snapshot of the queue's counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Enqueued:      q.enqueued.Load(),
		DroppedOnFull: q.droppedOnFull.Load(),
		Drained:       q.drained.Load(),
		Buffered:      len(q.entries),
	}
}
