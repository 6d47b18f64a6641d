// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"log/slog"
	"sync"
	"time"

	"github.com/expogrid/expogrid/capture"
	"github.com/expogrid/expogrid/lib/clock"
	"github.com/expogrid/expogrid/wm"
)

// State is a record's position in the capture lifecycle.
type State int

const (
	// Known means the window manager has reported the workspace but
	// no screenshot has been accepted yet.
	Known State = iota

	// Captured means at least one screenshot has been accepted.
	// Captured never reverts to Known.
	Captured
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case Known:
		return "known"
	case Captured:
		return "captured"
	default:
		return "invalid"
	}
}

// Record is everything known about one workspace index. Records are
// created and replaced only by the Registry; their capture state is
// advanced only by Update, called from within an updater pass.
type Record struct {
	index int
	dummy bool

	mu          sync.Mutex
	name        string
	state       State
	fingerprint Fingerprint
	screenshot  capture.Buffer
	lastChange  time.Time
	lastCapture time.Time
}

// Index returns the workspace number.
func (r *Record) Index() int { return r.index }

// Dummy reports whether this is a placeholder for an index the window
// manager has never confirmed.
func (r *Record) Dummy() bool { return r.dummy }

// Name returns the workspace's display name. Empty for dummies.
func (r *Record) Name() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name
}

// State returns the capture lifecycle state.
func (r *Record) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// HasScreenshot reports whether a screenshot has been accepted.
func (r *Record) HasScreenshot() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.screenshot.Empty()
}

// Screenshot returns the current screenshot and its accept time. The
// buffer is empty when no capture has been accepted.
func (r *Record) Screenshot() (capture.Buffer, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.screenshot, r.lastCapture
}

// LastChange returns when the geometry fingerprint last changed.
func (r *Record) LastChange() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastChange
}

// LastCapture returns when a screenshot was last accepted.
func (r *Record) LastCapture() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastCapture
}

// fingerprintSnapshot returns the stored fingerprint, for tests.
func (r *Record) fingerprintSnapshot() Fingerprint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fingerprint
}

// setName updates the display name, preserving capture state.
func (r *Record) setName(name string) {
	r.mu.Lock()
	r.name = name
	r.mu.Unlock()
}

// Env supplies the collaborators and tuning for a record update step.
type Env struct {
	Clock clock.Clock

	// Capture obtains a pixel buffer of the visible screen. Only ever
	// invoked when the record's workspace is the active one.
	Capture func() (capture.Buffer, error)

	// Active reads the current active workspace index. Consulted for
	// capture eligibility and re-consulted at capture completion for
	// the race guard.
	Active func() int

	MinUpdateInterval    time.Duration
	ForcedUpdateInterval time.Duration

	Logger *slog.Logger
}

// Update runs the per-workspace state machine once: debounce,
// fingerprint recompute, capture decision, race-guarded capture
// acceptance. leaves is the workspace's current leaf-window list from
// the tree snapshot.
//
// Capture failures and stale captures are absorbed here; Update never
// fails.
func (r *Record) Update(env Env, leaves []wm.Leaf) {
	now := env.Clock.Now()

	r.mu.Lock()
	if now.Sub(r.lastChange) < env.MinUpdateInterval {
		r.mu.Unlock()
		env.Logger.Debug("workspace update debounced", "workspace", r.index)
		return
	}

	fingerprint := FingerprintOf(leaves)
	changed := fingerprint != r.fingerprint
	if changed {
		r.fingerprint = fingerprint
		r.lastChange = now
	}

	hasScreenshot := !r.screenshot.Empty()
	stale := now.Sub(r.lastCapture) > env.ForcedUpdateInterval
	eligible := env.Active() == r.index && (changed || !hasScreenshot || stale)
	r.mu.Unlock()

	if !eligible {
		return
	}

	buffer, err := env.Capture()
	if err != nil {
		env.Logger.Warn("capture failed", "workspace", r.index, "error", err)
		return
	}
	if !buffer.Valid() {
		env.Logger.Debug("capture produced no usable pixels", "workspace", r.index)
		return
	}

	// Race guard: the user may have switched workspaces while the
	// capture was in flight, in which case the buffer shows some other
	// workspace and must be discarded.
	if env.Active() != r.index {
		env.Logger.Debug("discarding stale capture",
			"workspace", r.index,
			"active", env.Active(),
		)
		return
	}

	r.mu.Lock()
	r.screenshot = buffer
	r.lastCapture = env.Clock.Now()
	first := r.state == Known
	if first {
		r.state = Captured
	}
	r.mu.Unlock()

	if first {
		env.Logger.Info("first screenshot accepted", "workspace", r.index)
	} else {
		env.Logger.Debug("screenshot refreshed", "workspace", r.index)
	}
}
