// Package shutdown provides the two-stage interrupt coordinator shared by
// long-running commands. The first SIGINT/SIGTERM requests a graceful
// wind-down via a cancellation token; the second falls through to the
// default handler and terminates immediately.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// Coordinator owns the process-wide shutdown flag. Only the coordinator
// observes signals; workers poll ShuttingDown or watch Done between units
// of work and never install handlers of their own.
type Coordinator struct {
	flag   atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	sigCh     chan os.Signal
	installed bool
	signals   []os.Signal
}

// New returns a coordinator whose token derives from parent.
func New(parent context.Context) *Coordinator {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Coordinator{ctx: ctx, cancel: cancel, signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM}}
}

// Context returns the cancellation token. It is cancelled exactly once,
// when the first signal arrives or Trigger is called.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Done is shorthand for Context().Done().
func (c *Coordinator) Done() <-chan struct{} {
	return c.ctx.Done()
}

// ShuttingDown reports whether a shutdown has been requested. Safe to poll
// from any goroutine.
func (c *Coordinator) ShuttingDown() bool {
	return c.flag.Load()
}

// Trigger requests a graceful shutdown without a signal. Used by tests and
// by callers that want to stop a scan programmatically.
func (c *Coordinator) Trigger() {
	if c.flag.CompareAndSwap(false, true) {
		c.cancel()
	}
}

// Install intercepts SIGINT and SIGTERM. The first delivered signal sets
// the flag exactly once and resets signal handling to the default
// disposition, so a second signal terminates the process immediately.
func (c *Coordinator) Install() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.installed {
		return
	}
	c.sigCh = make(chan os.Signal, 1)
	signal.Notify(c.sigCh, c.signals...)
	c.installed = true

	go c.watch(c.sigCh)
}

func (c *Coordinator) watch(ch <-chan os.Signal) {
	if _, ok := <-ch; !ok {
		return
	}
	// Hard-kill escape hatch: restore default handling before flipping the
	// flag so a second signal is fatal even if the wind-down stalls.
	signal.Reset(c.signals...)
	c.Trigger()
}

// Uninstall restores prior signal handling. Idempotent; callers defer it
// on every exit path.
func (c *Coordinator) Uninstall() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.installed {
		return
	}
	signal.Stop(c.sigCh)
	close(c.sigCh)
	c.sigCh = nil
	c.installed = false
}
