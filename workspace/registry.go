// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
)

// ErrInvalidIndex is returned by Registry.Get for indexes below 1.
// Workspace numbers are positive integers; everything else is a
// caller bug, not a missing workspace.
var ErrInvalidIndex = errors.New("workspace: index must be a positive integer")

// Registry is the authoritative indexed store of workspace records,
// plus the process-wide active workspace index.
type Registry struct {
	logger *slog.Logger

	mu      sync.RWMutex
	records map[int]*Record
	active  int
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:  logger,
		records: map[int]*Record{},
	}
}

// Init creates or replaces the record for index in Known state,
// discarding any previously cached screenshot and fingerprint. Called
// when the window manager reports a new workspace and during full
// resets; re-initializing an index is indistinguishable from seeing
// it for the first time.
func (g *Registry) Init(index int, name string) {
	if index < 1 {
		return
	}
	g.mu.Lock()
	g.records[index] = &Record{index: index, name: name}
	g.mu.Unlock()
	g.logger.Info("workspace initialized", "workspace", index, "name", name)
}

// Remove deletes the record for index. Removing an unknown index is a
// no-op.
func (g *Registry) Remove(index int) {
	g.mu.Lock()
	_, existed := g.records[index]
	delete(g.records, index)
	g.mu.Unlock()
	if existed {
		g.logger.Info("workspace removed", "workspace", index)
	}
}

// Rename updates the display name only, preserving capture state.
// Renaming an unknown index is a no-op.
func (g *Registry) Rename(index int, name string) {
	g.mu.RLock()
	record := g.records[index]
	g.mu.RUnlock()
	if record == nil {
		return
	}
	record.setName(name)
	g.logger.Info("workspace renamed", "workspace", index, "name", name)
}

// Get returns the record for index, auto-vivifying a dummy placeholder
// for any positive index the window manager has not reported. The
// presentation layer therefore never special-cases "unknown index":
// every valid index yields a renderable record.
//
// Indexes below 1 fail with ErrInvalidIndex.
func (g *Registry) Get(index int) (*Record, error) {
	if index < 1 {
		return nil, ErrInvalidIndex
	}

	g.mu.RLock()
	record := g.records[index]
	g.mu.RUnlock()
	if record != nil {
		return record, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// Re-check under the write lock; another reader may have vivified
	// the same index.
	if record := g.records[index]; record != nil {
		return record, nil
	}
	record = &Record{index: index, dummy: true}
	g.records[index] = record
	g.logger.Debug("dummy record created", "workspace", index)
	return record, nil
}

// SetActive records the currently focused workspace index.
func (g *Registry) SetActive(index int) {
	g.mu.Lock()
	g.active = index
	g.mu.Unlock()
}

// Active returns the currently focused workspace index, 0 when not
// yet known.
func (g *Registry) Active() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

// Indexes returns the registered indexes in ascending order.
func (g *Registry) Indexes() []int {
	g.mu.RLock()
	indexes := make([]int, 0, len(g.records))
	for index := range g.records {
		indexes = append(indexes, index)
	}
	g.mu.RUnlock()
	sort.Ints(indexes)
	return indexes
}

// Len returns the number of registered records, dummies included.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.records)
}

// Reset discards all records. It does not repopulate; rebuilding
// from a fresh tree query is the updater's responsibility.
func (g *Registry) Reset() {
	g.mu.Lock()
	g.records = map[int]*Record{}
	g.active = 0
	g.mu.Unlock()
	g.logger.Warn("workspace registry reset")
}
