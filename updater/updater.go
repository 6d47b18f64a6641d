// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package updater

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/expogrid/expogrid/capture"
	"github.com/expogrid/expogrid/config"
	"github.com/expogrid/expogrid/lib/clock"
	"github.com/expogrid/expogrid/wm"
	"github.com/expogrid/expogrid/workspace"
)

// Region is the root-window rectangle screenshots are taken from.
type Region struct {
	X, Y          int
	Width, Height int
}

// Config tunes the update cadence and capture geometry.
type Config struct {
	// MinUpdateInterval debounces per-workspace recomputation during
	// event bursts.
	MinUpdateInterval time.Duration

	// ForcedUpdateInterval bounds how stale any screenshot may get and
	// doubles as the fallback timer period.
	ForcedUpdateInterval time.Duration

	// Capture is the screenshot region. Owned here, rather than read
	// from the shared configuration, so Reconfigure can swap it without
	// racing a pass in flight.
	Capture Region
}

// Updater runs state synchronization passes against the window
// manager. At most one pass is ever in flight: concurrent triggers are
// dropped, not queued. A dropped trigger is safe because the fallback
// timer guarantees another pass within one forced update interval.
type Updater struct {
	logger   *slog.Logger
	clock    clock.Clock
	client   wm.Client
	registry *workspace.Registry
	grabber  capture.Grabber

	cfgMu sync.RWMutex
	cfg   Config

	// running is the single-flight slot, claimed with CompareAndSwap.
	running atomic.Bool

	// gate is shut while the overview is visible.
	gate *Gate

	timerMu sync.Mutex
	timer   *clock.Timer
}

// New returns an updater. Call Run to start consuming window-manager
// events; until then only explicit Update calls drive it.
func New(client wm.Client, registry *workspace.Registry, grabber capture.Grabber, clk clock.Clock, cfg Config, logger *slog.Logger) *Updater {
	return &Updater{
		logger:   logger,
		clock:    clk,
		client:   client,
		registry: registry,
		grabber:  grabber,
		cfg:      cfg,
		gate:     NewGate(),
	}
}

// Update triggers one synchronization pass. event carries the window
// event that prompted it, nil for timer or startup triggers.
//
// Returns false when the trigger was dropped (ignored event class or a
// pass already in flight) or the pass itself failed. When the gate is
// shut the call blocks until Unlock, holding the single-flight slot.
func (u *Updater) Update(event *wm.Event) bool {
	if event != nil && ignorable(event) {
		u.logger.Debug("event ignored", "class", event.Class, "change", event.Change)
		return false
	}
	if !u.running.CompareAndSwap(false, true) {
		u.logger.Debug("update already in flight, dropping trigger")
		return false
	}
	defer u.running.Store(false)

	u.gate.Wait()
	return u.pass()
}

// ignorable reports whether a window event should not trigger a pass.
// Events from the overview's own window (and classless windows, which
// include it before the class property lands) would otherwise feed
// back into an update loop.
func ignorable(event *wm.Event) bool {
	if event.Kind != wm.WindowChanged {
		return false
	}
	return event.Class == "" || event.Class == config.WindowClass
}

// pass performs one full synchronization: snapshot the tree, reconcile
// the registry with the live workspace set, run every live record's
// state machine. The fallback timer is stopped for the duration and
// rescheduled on the way out, success or not.
func (u *Updater) pass() bool {
	u.stopTimer()
	defer u.reschedule()

	snapshot, err := u.client.Snapshot()
	if err != nil {
		u.logger.Warn("tree snapshot failed", "error", err)
		return false
	}

	u.registry.SetActive(snapshot.FocusedIndex())

	live := make(map[int]struct{}, len(snapshot.Workspaces))
	for _, ws := range snapshot.Workspaces {
		if ws.Index >= 1 {
			live[ws.Index] = struct{}{}
		}
	}

	// Drop records for workspaces the window manager no longer has.
	// Dummies stay: they carry no state worth pruning and the
	// presentation layer re-creates them anyway.
	for _, index := range u.registry.Indexes() {
		if _, ok := live[index]; ok {
			continue
		}
		record, err := u.registry.Get(index)
		if err != nil || record.Dummy() {
			continue
		}
		u.registry.Remove(index)
	}

	cfg := u.config()
	env := workspace.Env{
		Clock: u.clock,
		Capture: func() (capture.Buffer, error) {
			r := cfg.Capture
			return u.grabber.Grab(r.X, r.Y, r.Width, r.Height)
		},
		Active:               u.registry.Active,
		MinUpdateInterval:    cfg.MinUpdateInterval,
		ForcedUpdateInterval: cfg.ForcedUpdateInterval,
		Logger:               u.logger,
	}
	for _, ws := range snapshot.Workspaces {
		if ws.Index < 1 {
			continue
		}
		u.ensure(ws).Update(env, ws.Leaves)
	}
	return true
}

// ensure returns the live record for a snapshot workspace, promoting
// dummies and syncing drifted names.
func (u *Updater) ensure(ws wm.Workspace) *workspace.Record {
	record, _ := u.registry.Get(ws.Index)
	if record.Dummy() {
		u.registry.Init(ws.Index, ws.Name)
		record, _ = u.registry.Get(ws.Index)
		return record
	}
	if record.Name() != ws.Name {
		u.registry.Rename(ws.Index, ws.Name)
	}
	return record
}

// Lock freezes updates for an overview session: the gate shuts and the
// fallback timer stops. A pass already past the gate finishes
// normally.
func (u *Updater) Lock() {
	u.gate.Shut()
	u.stopTimer()
	u.logger.Debug("updates locked")
}

// Unlock resumes updates and reschedules the fallback timer, so state
// drift accumulated during the overview heals within one forced
// update interval.
func (u *Updater) Unlock() {
	u.gate.Open()
	u.reschedule()
	u.logger.Debug("updates unlocked")
}

// Reset discards all workspace state and rebuilds it from a fresh
// snapshot. Used on config reload.
func (u *Updater) Reset() {
	u.registry.Reset()
	u.Update(nil)
}

// Reconfigure replaces the cadence and capture-region settings. Takes
// effect on the next pass; the fallback timer picks the new interval
// up when it re-arms.
func (u *Updater) Reconfigure(cfg Config) {
	u.cfgMu.Lock()
	u.cfg = cfg
	u.cfgMu.Unlock()
}

func (u *Updater) config() Config {
	u.cfgMu.RLock()
	defer u.cfgMu.RUnlock()
	return u.cfg
}

func (u *Updater) stopTimer() {
	u.timerMu.Lock()
	defer u.timerMu.Unlock()
	if u.timer != nil {
		u.timer.Stop()
		u.timer = nil
	}
}

func (u *Updater) reschedule() {
	u.timerMu.Lock()
	defer u.timerMu.Unlock()
	if u.timer != nil {
		u.timer.Stop()
	}
	u.timer = u.clock.AfterFunc(u.config().ForcedUpdateInterval, func() {
		u.logger.Debug("fallback timer fired")
		u.Update(nil)
	})
}

// Run populates the registry and consumes window-manager events until
// ctx is canceled. Event handling is serial; bursts are absorbed by
// the per-workspace debounce and the single-flight drop.
func (u *Updater) Run(ctx context.Context) error {
	events := make(chan wm.Event, 16)
	subErr := make(chan error, 1)
	go func() {
		subErr <- u.client.Subscribe(ctx, events)
	}()

	u.Update(nil)

	for {
		select {
		case <-ctx.Done():
			u.stopTimer()
			return ctx.Err()
		case err := <-subErr:
			u.stopTimer()
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("event subscription: %w", err)
			}
			return ctx.Err()
		case event := <-events:
			u.handle(event)
		}
	}
}

// handle dispatches one window-manager event.
func (u *Updater) handle(event wm.Event) {
	switch event.Kind {
	case wm.WindowChanged:
		u.Update(&event)
	case wm.WorkspaceInit:
		if event.Name == config.ScratchWorkspace || event.Index < 1 {
			return
		}
		u.registry.Init(event.Index, event.Name)
		u.Update(nil)
	case wm.WorkspaceEmpty:
		u.registry.Remove(event.Index)
	case wm.WorkspaceRename:
		u.registry.Rename(event.Index, event.Name)
	}
}
