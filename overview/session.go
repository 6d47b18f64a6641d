// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package overview

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strconv"

	"github.com/expogrid/expogrid/config"
	"github.com/expogrid/expogrid/updater"
	"github.com/expogrid/expogrid/wm"
	"github.com/expogrid/expogrid/workspace"
)

// InputKind discriminates display input events.
type InputKind int

const (
	// PointerMoved reports a new pointer position.
	PointerMoved InputKind = iota

	// PointerSelect reports a click at the pointer position.
	PointerSelect

	// KeyMove reports a grid navigation key (arrows, hjkl) as deltas.
	KeyMove

	// KeySelect confirms the keyboard-highlighted slot.
	KeySelect

	// KeyCancel dismisses the overview without switching.
	KeyCancel

	// Closed reports that the display window went away.
	Closed
)

// InputEvent is one normalized input from the display.
type InputEvent struct {
	Kind InputKind

	// Pos is the pointer position for PointerMoved and PointerSelect.
	Pos image.Point

	// DX and DY are grid deltas for KeyMove.
	DX, DY int
}

// Display is the pixel sink and input source for an overview session.
type Display interface {
	// Open maps a window of the given size.
	Open(width, height int) error

	// Present pushes the dirty regions of the frame to the window. A
	// nil dirty slice means present everything.
	Present(frame *image.RGBA, dirty []image.Rectangle) error

	// Events delivers input until the display closes.
	Events() <-chan InputEvent

	// Close unmaps the window and releases resources.
	Close() error
}

// Session is one visible overview: lock updates, park the window
// manager on the scratch workspace, run the input loop, switch to the
// selection (or back), unlock.
type Session struct {
	logger   *slog.Logger
	cfg      *config.Config
	client   wm.Client
	updater  *updater.Updater
	registry *workspace.Registry
	display  Display
	renderer *Renderer
}

// NewSession wires a session around a shared renderer. The renderer
// outlives individual sessions so tile caches and blit bookkeeping
// carry over from one showing to the next.
func NewSession(cfg *config.Config, client wm.Client, upd *updater.Updater, registry *workspace.Registry, display Display, renderer *Renderer, logger *slog.Logger) *Session {
	return &Session{
		logger:   logger,
		cfg:      cfg,
		client:   client,
		updater:  upd,
		registry: registry,
		display:  display,
		renderer: renderer,
	}
}

// Run shows the overview and blocks until the user selects a
// workspace, cancels, or ctx ends. State updates are frozen for the
// whole session.
func (s *Session) Run(ctx context.Context) error {
	returnTo := s.returnTarget()

	s.updater.Lock()
	defer s.updater.Unlock()

	if err := s.client.SwitchTo(config.ScratchWorkspace); err != nil {
		return fmt.Errorf("switching to scratch workspace: %w", err)
	}

	target, err := s.interact(ctx)
	if err != nil {
		// Leave the user somewhere sensible even on failure.
		if returnTo != "" {
			_ = s.client.SwitchTo(returnTo)
		}
		return err
	}

	if target == "" {
		target = returnTo
	}
	if target == "" {
		return nil
	}
	if err := s.client.SwitchTo(target); err != nil {
		return fmt.Errorf("switching to %q: %w", target, err)
	}
	return nil
}

// interact runs the display loop. Returns the selected workspace name,
// or "" for cancel.
func (s *Session) interact(ctx context.Context) (string, error) {
	renderer := s.renderer
	geo := renderer.Geometry()
	if err := s.display.Open(geo.Width, geo.Height); err != nil {
		return "", fmt.Errorf("opening overview window: %w", err)
	}
	defer s.display.Close()

	renderer.Refresh()
	if err := s.display.Present(renderer.Frame(), nil); err != nil {
		return "", fmt.Errorf("presenting overview: %w", err)
	}

	// Start the keyboard cursor on the active workspace's slot.
	if active := s.registry.Active(); active >= 1 && active <= renderer.Geometry().Slots() {
		s.present(renderer, renderer.SetHovered(active))
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case event, ok := <-s.display.Events():
			if !ok {
				return "", nil
			}
			switch event.Kind {
			case PointerMoved:
				slot := renderer.Geometry().HitTest(event.Pos)
				s.present(renderer, renderer.SetHovered(slot))
			case KeyMove:
				slot := renderer.Geometry().Move(renderer.Hovered(), event.DX, event.DY)
				s.present(renderer, renderer.SetHovered(slot))
			case PointerSelect:
				slot := renderer.Geometry().HitTest(event.Pos)
				if name, ok := renderer.TargetName(slot); ok {
					s.logger.Info("workspace selected", "slot", slot, "name", name)
					return name, nil
				}
			case KeySelect:
				if name, ok := renderer.TargetName(renderer.Hovered()); ok {
					s.logger.Info("workspace selected", "slot", renderer.Hovered(), "name", name)
					return name, nil
				}
			case KeyCancel, Closed:
				s.logger.Debug("overview dismissed")
				return "", nil
			}
		}
	}
}

// present pushes dirty rects, if any, swallowing presentation errors:
// a failed blit degrades the picture but should not kill the session.
func (s *Session) present(renderer *Renderer, dirty []image.Rectangle) {
	if len(dirty) == 0 {
		return
	}
	if err := s.display.Present(renderer.Frame(), dirty); err != nil {
		s.logger.Warn("presenting dirty regions failed", "error", err)
	}
}

// returnTarget resolves where a cancel should land: the workspace that
// was active when the session started.
func (s *Session) returnTarget() string {
	active := s.registry.Active()
	if active < 1 {
		return ""
	}
	if record, err := s.registry.Get(active); err == nil && !record.Dummy() {
		if name := record.Name(); name != "" {
			return name
		}
	}
	if name, ok := s.cfg.WorkspaceNames[active]; ok && name != "" {
		return name
	}
	return strconv.Itoa(active)
}
