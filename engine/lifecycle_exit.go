package engine

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/weftlog/weft/selflog"
)

// WithProcessExitHook starts a goroutine that calls lc.Shutdown when the
// process receives SIGINT or SIGTERM, then stops its own signal handling and
// sends the same signal to the process again so the default behavior for
// that signal takes effect. This is
// opt-in: Shutdown is always the preferred, explicit path — call this only
// for a standalone binary that has no other shutdown sequencing of its
// own. Returns a function that stops watching for signals without
// shutting down, for tests or callers that later install their own
// handling.
func WithProcessExitHook(lc *Lifecycle) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			if selflog.IsEnabled() {
				selflog.Printf("[lifecycle] received %s, shutting down", sig)
			}
			if err := lc.Shutdown(); err != nil && selflog.IsEnabled() {
				selflog.Printf("[lifecycle] shutdown error: %v", err)
			}
			signal.Stop(ch)
			process, findErr := os.FindProcess(os.Getpid())
			if findErr == nil {
				_ = process.Signal(sig)
			}
		case <-done:
		}
	}()

	return func() {
		close(done)
		signal.Stop(ch)
	}
}
