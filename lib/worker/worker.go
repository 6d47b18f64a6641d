// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Worker is a supervised background goroutine. It exposes whether the
// goroutine is still alive and, once finished, whether it crashed.
type Worker struct {
	name   string
	logger *slog.Logger

	done chan struct{}

	mu      sync.Mutex
	err     error
	crashed bool
}

// Go starts fn in a new goroutine under supervision. A non-nil error
// return or a panic marks the worker as crashed; panics are converted
// to errors and logged with a stack trace rather than swallowed.
func Go(name string, logger *slog.Logger, fn func() error) *Worker {
	w := &Worker{
		name:   name,
		logger: logger,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(w.done)
		defer func() {
			if r := recover(); r != nil {
				w.mu.Lock()
				w.err = fmt.Errorf("worker %s panicked: %v", name, r)
				w.crashed = true
				w.mu.Unlock()
				w.logger.Error("worker panicked",
					"worker", name,
					"panic", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := fn(); err != nil {
			w.mu.Lock()
			w.err = err
			w.crashed = true
			w.mu.Unlock()
			w.logger.Error("worker crashed", "worker", name, "error", err)
		}
	}()

	return w
}

// Name returns the worker's name.
func (w *Worker) Name() string { return w.name }

// Done returns a channel that closes when the worker's goroutine
// exits, cleanly or otherwise.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Crashed reports whether the worker has exited with an error or a
// panic. False while the worker is still running.
func (w *Worker) Crashed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.crashed
}

// Err returns the error the worker exited with, or nil.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
