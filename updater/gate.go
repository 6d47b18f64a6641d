// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package updater

import "sync"

// Gate is a reusable pause point. While shut, Wait blocks every caller;
// opening releases them all at once. The zero value is not usable, use
// NewGate.
type Gate struct {
	mu sync.Mutex

	// open is closed while the gate is open. Shut swaps in a fresh
	// channel; Open closes the current one, waking all waiters.
	open chan struct{}
}

// NewGate returns an open gate.
func NewGate() *Gate {
	ch := make(chan struct{})
	close(ch)
	return &Gate{open: ch}
}

// Shut closes the gate. Subsequent Wait calls block until Open.
// Shutting a shut gate is a no-op.
func (g *Gate) Shut() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		g.open = make(chan struct{})
	default:
	}
}

// Open opens the gate, releasing all blocked waiters. Opening an open
// gate is a no-op.
func (g *Gate) Open() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
	default:
		close(g.open)
	}
}

// Wait blocks until the gate is open. Returns immediately when it
// already is.
func (g *Gate) Wait() {
	g.mu.Lock()
	ch := g.open
	g.mu.Unlock()
	<-ch
}

// IsOpen reports the gate's current state. Advisory only; the state
// may change immediately after.
func (g *Gate) IsOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		return true
	default:
		return false
	}
}
