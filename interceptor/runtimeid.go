package interceptor

import "sync/atomic"

// emittingID is a process-wide counter approximating the distilled spec's
// "thread id identifying the emitting worker." Go does not expose a stable
// goroutine identifier, so each Intercept call is handed the next counter
// value instead; it is unique per call, not per goroutine, and is
// documented as an approximation rather than an OS thread id.
var emittingID atomic.Int64

func nextEmittingID() int64 {
	return emittingID.Add(1)
}
