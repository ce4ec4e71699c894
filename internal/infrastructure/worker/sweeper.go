package worker

import (
	"context"
	"fmt"
	"sync"
)

// Loop is a blocking function that returns once ctx is cancelled
type Loop func(ctx context.Context)

// LoopWorker adapts a blocking loop, such as the wizard registry's idle
// sweeper, to the Worker interface.
type LoopWorker struct {
	name string
	loop Loop

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewLoopWorker wraps loop under the given name
func NewLoopWorker(name string, loop Loop) *LoopWorker {
	return &LoopWorker{name: name, loop: loop}
}

// Name returns the worker name used in logs
func (w *LoopWorker) Name() string {
	return w.name
}

// Start runs the loop in its own goroutine
func (w *LoopWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("worker %s already running", w.name)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true

	go func(done chan struct{}) {
		defer close(done)
		w.loop(runCtx)
	}(w.done)
	return nil
}

// Stop cancels the loop and blocks until it returns
func (w *LoopWorker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done
	return nil
}

// Running reports whether the loop has been started and not stopped
func (w *LoopWorker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
